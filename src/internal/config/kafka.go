package config

import (
	"wallet-service/src/internal/gateway/messaging"
	kafkaPkg "wallet-service/src/pkg/kafka"
	"wallet-service/src/pkg/log"

	"github.com/spf13/viper"
)

func NewKafkaConfig(viper *viper.Viper) kafkaPkg.KafkaConfig {
	configKafka := kafkaPkg.Cfg{
		KafkaUrl:      viper.GetString("kafka.bootstrap.servers"),
		KafkaUsername: viper.GetString("kafka.username"),
		KafkaPassword: viper.GetString("kafka.password"),
		KafkaCaCert:   viper.GetString("kafka.cacert"),
		AppName:       viper.GetString("kafka.app.name"),
	}
	return kafkaPkg.InitKafkaConfig(configKafka)
}

func NewKafkaProducer(config *viper.Viper, log log.Log) kafkaPkg.Producer {
	if !config.GetBool("kafka.producer.enabled") {
		log.Info("kafka-config", "Kafka producer is disabled in configuration", "kafka", "")
		return kafkaPkg.NoopProducer{}
	}
	kafkaProducer, err := kafkaPkg.NewProducer(kafkaPkg.GetConfig(), log)
	if err != nil {
		panic(err)
	}

	return kafkaProducer
}

// NewTopics starts from the default topic names and applies kafka.topics.*.
func NewTopics(config *viper.Viper) messaging.Topics {
	topics := messaging.DefaultTopics()
	if config.IsSet("kafka.topics") {
		if err := config.UnmarshalKey("kafka.topics", &topics); err != nil {
			panic(err)
		}
	}
	return topics
}
