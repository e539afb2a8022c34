package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes a keyed message to a topic.
type Producer interface {
	Publish(topic string, key, value []byte) error
	Close() error
}

type KafkaConfig struct {
	Username      string
	Password      string
	Address       string
	SaslMechanism string
	AppName       string
	KafkaCaCert   string
}

type Cfg struct {
	KafkaUrl      string
	KafkaUsername string
	KafkaPassword string
	KafkaCaCert   string
	AppName       string
}

var kafkaConfig KafkaConfig

func InitKafkaConfig(cfg Cfg) KafkaConfig {
	kafkaConfig = KafkaConfig{
		Address:       cfg.KafkaUrl,
		Username:      cfg.KafkaUsername,
		Password:      cfg.KafkaPassword,
		AppName:       cfg.AppName,
		KafkaCaCert:   cfg.KafkaCaCert,
		SaslMechanism: sarama.SASLTypePlaintext,
	}
	return kafkaConfig
}

func GetConfig() KafkaConfig {
	return kafkaConfig
}

func (kc KafkaConfig) Brokers() []string {
	var out []string
	for _, b := range strings.Split(kc.Address, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// SaramaConfig builds the producer configuration. Credentials switch the
// connection to SASL over TLS.
func (kc KafkaConfig) SaramaConfig() (*sarama.Config, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = kc.AppName
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond
	cfg.Net.DialTimeout = 5 * time.Second
	cfg.Net.WriteTimeout = 5 * time.Second
	cfg.Metadata.Retry.Backoff = 200 * time.Millisecond

	if kc.Username != "" {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLMechanism(kc.SaslMechanism)
		cfg.Net.SASL.User = kc.Username
		cfg.Net.SASL.Password = kc.Password
		cfg.Net.TLS.Enable = true

		tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if kc.KafkaCaCert != "" {
			ca, err := decodeKey(kc.KafkaCaCert)
			if err != nil {
				return nil, fmt.Errorf("decode kafka ca: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM([]byte(ca)) {
				return nil, fmt.Errorf("kafka ca: no certificate found")
			}
			tlsCfg.RootCAs = pool
		}
		cfg.Net.TLS.Config = tlsCfg
	}
	return cfg, nil
}

func decodeKey(secret string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
