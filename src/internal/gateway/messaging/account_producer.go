package messaging

import (
	"wallet-service/src/internal/model"
	"wallet-service/src/pkg/kafka"
	"wallet-service/src/pkg/log"
)

type Topics struct {
	AccountRegistered string `mapstructure:"account_registered"`
	Vip               string `mapstructure:"vip"`
	RequestResolved   string `mapstructure:"request_resolved"`
	ReferralBonus     string `mapstructure:"referral_bonus"`
}

func DefaultTopics() Topics {
	return Topics{
		AccountRegistered: "wallet-account-registered",
		Vip:               "wallet-vip",
		RequestResolved:   "wallet-request-resolved",
		ReferralBonus:     "wallet-referral-bonus",
	}
}

// AccountProducer publishes account lifecycle notifications. A nil event
// is skipped.
type AccountProducer struct {
	RegisteredProducer Producer[*model.AccountRegisteredEvent]
	VipProducer        Producer[*model.VipEvent]
	RequestProducer    Producer[*model.RequestEvent]
	ReferralProducer   Producer[*model.ReferralEvent]
}

func NewAccountProducer(producer kafka.Producer, topics Topics, log log.Log) *AccountProducer {
	if producer == nil {
		producer = kafka.NoopProducer{}
	}
	return &AccountProducer{
		RegisteredProducer: Producer[*model.AccountRegisteredEvent]{
			Producer: producer,
			Topic:    topics.AccountRegistered,
			Log:      log,
		},
		VipProducer: Producer[*model.VipEvent]{
			Producer: producer,
			Topic:    topics.Vip,
			Log:      log,
		},
		RequestProducer: Producer[*model.RequestEvent]{
			Producer: producer,
			Topic:    topics.RequestResolved,
			Log:      log,
		},
		ReferralProducer: Producer[*model.ReferralEvent]{
			Producer: producer,
			Topic:    topics.ReferralBonus,
			Log:      log,
		},
	}
}

func (p *AccountProducer) SendRegistered(event *model.AccountRegisteredEvent) error {
	if event == nil {
		return nil
	}
	return p.RegisteredProducer.Send(event)
}

func (p *AccountProducer) SendVip(event *model.VipEvent) error {
	if event == nil {
		return nil
	}
	return p.VipProducer.Send(event)
}

func (p *AccountProducer) SendRequestResolved(event *model.RequestEvent) error {
	if event == nil {
		return nil
	}
	return p.RequestProducer.Send(event)
}

func (p *AccountProducer) SendReferralBonus(event *model.ReferralEvent) error {
	if event == nil {
		return nil
	}
	return p.ReferralProducer.Send(event)
}
