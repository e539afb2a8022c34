package messaging

import (
	"encoding/json"

	"wallet-service/src/internal/model"
	"wallet-service/src/pkg/kafka"
	"wallet-service/src/pkg/log"
)

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

func (p *Producer[T]) Send(event T) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	err = p.Producer.Publish(p.Topic, []byte(event.GetId()), value)
	if err != nil {
		p.Log.Error("send-event", "error send message", p.Topic, err.Error())
		return err
	}

	return nil
}
