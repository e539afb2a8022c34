// Package referral posts inviter bonuses for signups and first recharges.
package referral

import (
	"regexp"
	"strings"
	"time"

	"wallet-service/src/internal/entity"

	"github.com/shopspring/decimal"
)

const (
	DefaultSignupBonus       = 2000
	DefaultFirstRechargeRate = "0.15"
	DefaultInviteCode        = "2233"
)

var inviteCodePattern = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)

type Engine struct {
	SignupBonus       int64
	FirstRechargeRate decimal.Decimal
	// DefaultInviteCode is prefilled by clients and never belongs to an account.
	DefaultInviteCode string
}

func NewEngine(signupBonus int64, rate string, defaultCode string) (*Engine, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
		return nil, entity.NewValidationError("first recharge rate %s out of range", rate)
	}
	return &Engine{
		SignupBonus:       signupBonus,
		FirstRechargeRate: r,
		DefaultInviteCode: strings.ToUpper(defaultCode),
	}, nil
}

// Outcome reports what a bonus hook did.
type Outcome struct {
	Posted      bool                `json:"posted"`
	InviterID   string              `json:"inviterId,omitempty"`
	Amount      int64               `json:"amount,omitempty"`
	Transaction *entity.Transaction `json:"transaction,omitempty"`
}

// NormalizeInviteCode returns the code to resolve, or "" when the code is
// absent or the client default. Malformed codes are a validation error.
func (e *Engine) NormalizeInviteCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == e.DefaultInviteCode {
		return "", nil
	}
	if !inviteCodePattern.MatchString(code) {
		return "", entity.NewValidationError("malformed invite code %q", code)
	}
	return code, nil
}

// OnSignup links account to inviter and credits the signup bonus. A nil
// inviter (code absent or unresolved) posts nothing. Calling it again for
// an account that already used an invite is a no-op.
func (e *Engine) OnSignup(account, inviter *entity.Account, now time.Time) (Outcome, error) {
	if account.HasUsedInvite || inviter == nil {
		return Outcome{}, nil
	}
	if err := account.SetReferredBy(inviter.ID); err != nil {
		return Outcome{}, err
	}
	account.HasUsedInvite = true
	account.UpdatedAt = now

	return e.credit(inviter, account.ID, e.SignupBonus, entity.Detail{
		Description:     "Signup referral bonus",
		ReferredAccount: account.ID,
	}, now, func(r *entity.ReferralRecord, amount int64) { r.SignupBonus += amount }), nil
}

// OnFirstRechargeApproved credits the inviter a share of the account's first
// approved recharge. The gate closes on the first call whether or not an
// inviter still exists.
func (e *Engine) OnFirstRechargeApproved(account, inviter *entity.Account, amount int64, now time.Time) (Outcome, error) {
	if account.HasFirstRechargeBonus {
		return Outcome{}, nil
	}
	account.HasFirstRechargeBonus = true
	account.UpdatedAt = now

	if account.ReferredBy == "" || inviter == nil {
		return Outcome{}, nil
	}
	if inviter.ID != account.ReferredBy {
		return Outcome{}, entity.NewInvariantError("inviter %s does not match referredBy %s", inviter.ID, account.ReferredBy)
	}

	return e.credit(inviter, account.ID, e.FirstRechargeBonus(amount), entity.Detail{
		Description:     "First recharge referral bonus",
		ReferredAccount: account.ID,
		FromRecharge:    amount,
	}, now, func(r *entity.ReferralRecord, amount int64) { r.RechargeBonus += amount }), nil
}

// FirstRechargeBonus is floor(amount * rate).
func (e *Engine) FirstRechargeBonus(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(e.FirstRechargeRate).Floor().IntPart()
}

func (e *Engine) credit(inviter *entity.Account, referredID string, amount int64, detail entity.Detail, now time.Time, apply func(*entity.ReferralRecord, int64)) Outcome {
	record := inviter.Referral(referredID, now)
	if amount <= 0 {
		return Outcome{InviterID: inviter.ID}
	}
	tx := inviter.PostCompleted(entity.TxReferral, amount, detail, now)
	inviter.ReferralEarnings += amount
	apply(record, amount)
	bonusAt := now
	record.LastBonusDate = &bonusAt

	return Outcome{
		Posted:      true,
		InviterID:   inviter.ID,
		Amount:      amount,
		Transaction: &tx,
	}
}
