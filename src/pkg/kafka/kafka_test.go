package kafka

import (
	"encoding/base64"
	"errors"
	"testing"

	"wallet-service/src/pkg/log"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaConfig_Plaintext(t *testing.T) {
	kc := InitKafkaConfig(Cfg{KafkaUrl: "k1:9092, k2:9092", AppName: "wallet"})

	cfg, err := kc.SaramaConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, kc.Brokers())
	assert.False(t, cfg.Net.SASL.Enable)
	assert.Equal(t, "wallet", cfg.ClientID)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
}

func TestKafkaConfig_SaslRejectsBadCA(t *testing.T) {
	kc := InitKafkaConfig(Cfg{
		KafkaUrl:      "k1:9092",
		KafkaUsername: "user",
		KafkaPassword: "pass",
		KafkaCaCert:   base64.StdEncoding.EncodeToString([]byte("not a pem")),
	})

	_, err := kc.SaramaConfig()
	assert.Error(t, err)
}

func TestSyncProducer_Publish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndSucceed()
	mock.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewSyncProducer(mock, log.Discard())
	assert.NoError(t, p.Publish("topic", []byte("k"), []byte("v")))
	assert.Error(t, p.Publish("topic", []byte("k"), []byte("v")))
	assert.NoError(t, p.Close())
}
