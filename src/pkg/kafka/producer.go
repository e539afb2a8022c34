package kafka

import (
	"fmt"

	"wallet-service/src/pkg/log"

	"github.com/IBM/sarama"
)

type syncProducer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewProducer(kc KafkaConfig, logger log.Log) (Producer, error) {
	cfg, err := kc.SaramaConfig()
	if err != nil {
		return nil, err
	}
	p, err := sarama.NewSyncProducer(kc.Brokers(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewSyncProducer(p, logger), nil
}

// NewSyncProducer wraps an existing sarama producer. Tests pass a mock here.
func NewSyncProducer(p sarama.SyncProducer, logger log.Log) Producer {
	return &syncProducer{producer: p, log: logger}
}

func (p *syncProducer) Publish(topic string, key, value []byte) error {
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return err
	}
	p.log.Info("kafka-producer", "message delivered", topic, fmt.Sprintf("partition=%d offset=%d", partition, offset))
	return nil
}

func (p *syncProducer) Close() error {
	return p.producer.Close()
}

// NoopProducer is used when publishing is disabled in configuration.
type NoopProducer struct{}

func (NoopProducer) Publish(string, []byte, []byte) error { return nil }

func (NoopProducer) Close() error { return nil }
