package entity

import "time"

type RequestKind string

const (
	RequestRecharge   RequestKind = "recharge"
	RequestWithdrawal RequestKind = "withdrawal"
	RequestVip        RequestKind = "vip"
)

func (k RequestKind) Valid() bool {
	switch k {
	case RequestRecharge, RequestWithdrawal, RequestVip:
		return true
	}
	return false
}

// TransactionKind is the ledger kind of the entry backing a request.
func (k RequestKind) TransactionKind() TransactionKind {
	switch k {
	case RequestRecharge:
		return TxRecharge
	case RequestWithdrawal:
		return TxWithdrawal
	default:
		return TxVipPurchase
	}
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is a recharge, withdrawal or VIP purchase awaiting admin review.
// Amount is always positive; the sign lives on the backing transaction.
type Request struct {
	ID            string        `json:"id" db:"id"`
	AccountID     string        `json:"accountId" db:"account_id"`
	Kind          RequestKind   `json:"kind" db:"kind"`
	Amount        int64         `json:"amount" db:"amount"`
	Level         int           `json:"level,omitempty" db:"level"`
	Status        RequestStatus `json:"status" db:"status"`
	TransactionID string        `json:"transactionId" db:"transaction_id"`
	Detail        Detail        `json:"detail" db:"detail"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	ResolvedAt    *time.Time    `json:"resolvedAt,omitempty" db:"resolved_at"`
}

func (r Request) Pending() bool {
	return r.Status == RequestPending
}

// ReferralRecord is the inviter-side view of one referred account.
type ReferralRecord struct {
	InviterID     string     `json:"inviterId" db:"inviter_id"`
	ReferredID    string     `json:"referredId" db:"referred_id"`
	SignupBonus   int64      `json:"signupBonus" db:"signup_bonus"`
	RechargeBonus int64      `json:"rechargeBonus" db:"recharge_bonus"`
	JoinedAt      time.Time  `json:"joinedAt" db:"joined_at"`
	LastBonusDate *time.Time `json:"lastBonusDate,omitempty" db:"last_bonus_date"`
}

// Total is everything the inviter earned from this referral.
func (r ReferralRecord) Total() int64 {
	return r.SignupBonus + r.RechargeBonus
}
