package model

import "time"

// Event is anything published to a topic. The id becomes the message key.
type Event interface {
	GetId() string
}

type AccountRegisteredEvent struct {
	EventID    string    `json:"event_id"`
	AccountID  string    `json:"account_id"`
	Username   string    `json:"username"`
	ReferredBy string    `json:"referred_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *AccountRegisteredEvent) GetId() string {
	return e.EventID
}

const (
	VipEventProfitPosted   = "profit-posted"
	VipEventCycleCompleted = "cycle-completed"
	VipEventActivated      = "activated"
)

type VipEvent struct {
	EventID    string    `json:"event_id"`
	AccountID  string    `json:"account_id"`
	Type       string    `json:"type"`
	Level      int       `json:"level"`
	Amount     int64     `json:"amount,omitempty"`
	DayIndex   int       `json:"day_index,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *VipEvent) GetId() string {
	return e.EventID
}

type RequestEvent struct {
	EventID    string    `json:"event_id"`
	AccountID  string    `json:"account_id"`
	RequestID  string    `json:"request_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Amount     int64     `json:"amount"`
	Level      int       `json:"level,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *RequestEvent) GetId() string {
	return e.EventID
}

const (
	ReferralTriggerSignup        = "signup"
	ReferralTriggerFirstRecharge = "first-recharge"
)

type ReferralEvent struct {
	EventID    string    `json:"event_id"`
	InviterID  string    `json:"inviter_id"`
	ReferredID string    `json:"referred_id"`
	Trigger    string    `json:"trigger"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *ReferralEvent) GetId() string {
	return e.EventID
}
