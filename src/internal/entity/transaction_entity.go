package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TransactionKind string

const (
	TxBonus       TransactionKind = "bonus"
	TxRecharge    TransactionKind = "recharge"
	TxWithdrawal  TransactionKind = "withdrawal"
	TxVipPurchase TransactionKind = "vip-purchase"
	TxVipProfit   TransactionKind = "vip-profit"
	TxReferral    TransactionKind = "referral"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxRejected  TransactionStatus = "rejected"
)

// Detail is the kind-specific metadata of a ledger entry or request.
// Stored as a JSON column.
type Detail struct {
	Description      string `json:"description,omitempty"`
	VipLevel         int    `json:"vipLevel,omitempty"`
	DayIndex         int    `json:"dayIndex,omitempty"`
	CycleDays        int    `json:"cycleDays,omitempty"`
	ReferredAccount  string `json:"referredAccount,omitempty"`
	FromRecharge     int64  `json:"fromRecharge,omitempty"`
	RequestID        string `json:"requestId,omitempty"`
	Network          string `json:"network,omitempty"`
	MobileNumber     string `json:"mobileNumber,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
}

func (d Detail) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Detail) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Detail{}
		return nil
	case []byte:
		if len(v) == 0 {
			*d = Detail{}
			return nil
		}
		return json.Unmarshal(v, d)
	case string:
		if v == "" {
			*d = Detail{}
			return nil
		}
		return json.Unmarshal([]byte(v), d)
	}
	return fmt.Errorf("detail: unsupported scan type %T", src)
}

// Transaction is one ledger entry. Only Status (and UpdatedAt) ever change
// after the entry is appended.
type Transaction struct {
	ID        string            `json:"id" db:"id"`
	AccountID string            `json:"accountId" db:"account_id"`
	Seq       int               `json:"seq" db:"seq"`
	Kind      TransactionKind   `json:"kind" db:"kind"`
	Amount    int64             `json:"amount" db:"amount"`
	Status    TransactionStatus `json:"status" db:"status"`
	Detail    Detail            `json:"detail" db:"detail"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// Settled reports whether the entry counts towards the balance.
func (t Transaction) Settled() bool {
	return t.Status == TxCompleted
}

func (t *Transaction) transition(to TransactionStatus, now time.Time) error {
	if t.Status != TxPending {
		return NewAlreadyResolvedError("transaction %s is already %s", t.ID, t.Status)
	}
	if to != TxCompleted && to != TxRejected {
		return NewInvariantError("transaction %s: invalid target status %q", t.ID, to)
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}
