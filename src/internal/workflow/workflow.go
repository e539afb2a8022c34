// Package workflow is the pending -> approved | rejected state machine for
// recharge, withdrawal and VIP purchase requests.
package workflow

import (
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/referral"
	"wallet-service/src/internal/vip"

	"github.com/google/uuid"
)

const (
	DefaultMinRecharge = 10000
	DefaultMinWithdraw = 5000
	DefaultMaxWithdraw = 2000000
)

type Limits struct {
	MinRecharge int64 `mapstructure:"min_recharge"`
	MinWithdraw int64 `mapstructure:"min_withdraw"`
	MaxWithdraw int64 `mapstructure:"max_withdraw"`
}

func DefaultLimits() Limits {
	return Limits{
		MinRecharge: DefaultMinRecharge,
		MinWithdraw: DefaultMinWithdraw,
		MaxWithdraw: DefaultMaxWithdraw,
	}
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

type Workflow struct {
	Limits   Limits
	Vip      *vip.Engine
	Referral *referral.Engine
}

func New(limits Limits, vipEngine *vip.Engine, referralEngine *referral.Engine) *Workflow {
	return &Workflow{Limits: limits, Vip: vipEngine, Referral: referralEngine}
}

// Submission is the validated payload of a new request. Level is only read
// for VIP purchases, Amount for the other kinds.
type Submission struct {
	Kind   entity.RequestKind
	Amount int64
	Level  int
	Detail entity.Detail
}

// Submit checks bounds and balance, then appends the request and its
// pending ledger entry. Nothing is appended on error.
func (w *Workflow) Submit(a *entity.Account, s Submission, now time.Time) (entity.Request, error) {
	var (
		amount int64
		signed int64
		level  int
	)

	switch s.Kind {
	case entity.RequestRecharge:
		if s.Amount < w.Limits.MinRecharge {
			return entity.Request{}, entity.NewValidationError("minimum recharge is %d", w.Limits.MinRecharge)
		}
		amount, signed = s.Amount, s.Amount

	case entity.RequestWithdrawal:
		if s.Amount < w.Limits.MinWithdraw || s.Amount > w.Limits.MaxWithdraw {
			return entity.Request{}, entity.NewValidationError("withdrawal must be between %d and %d", w.Limits.MinWithdraw, w.Limits.MaxWithdraw)
		}
		if a.Balance < s.Amount {
			return entity.Request{}, entity.NewInsufficientBalanceError("balance %d is below withdrawal %d", a.Balance, s.Amount)
		}
		amount, signed = s.Amount, -s.Amount

	case entity.RequestVip:
		l, ok := w.Vip.Catalog.Lookup(s.Level)
		if !ok {
			return entity.Request{}, entity.NewValidationError("vip level %d does not exist", s.Level)
		}
		if a.Balance < l.Price {
			return entity.Request{}, entity.NewInsufficientBalanceError("balance %d is below vip %d price %d", a.Balance, l.Level, l.Price)
		}
		amount, signed, level = l.Price, -l.Price, l.Level

	default:
		return entity.Request{}, entity.NewValidationError("unknown request kind %q", s.Kind)
	}

	requestID := uuid.NewString()
	detail := s.Detail
	detail.RequestID = requestID
	detail.VipLevel = level

	tx := a.PostPending(s.Kind.TransactionKind(), signed, detail, now)
	req := entity.Request{
		ID:            requestID,
		AccountID:     a.ID,
		Kind:          s.Kind,
		Amount:        amount,
		Level:         level,
		Status:        entity.RequestPending,
		TransactionID: tx.ID,
		Detail:        s.Detail,
		CreatedAt:     now,
	}
	a.AddRequest(req)
	return req, nil
}

// Resolution is what an approve or reject did.
type Resolution struct {
	Request  entity.Request   `json:"request"`
	Referral referral.Outcome `json:"referral"`
}

// Resolve dispatches on action. inviter is only consulted when approving a
// recharge and may be nil.
func (w *Workflow) Resolve(a, inviter *entity.Account, requestID string, action Action, now time.Time) (Resolution, error) {
	switch action {
	case ActionApprove:
		return w.Approve(a, inviter, requestID, now)
	case ActionReject:
		req, err := w.Reject(a, requestID, now)
		return Resolution{Request: req}, err
	}
	return Resolution{}, entity.NewValidationError("unknown action %q", action)
}

func (w *Workflow) pending(a *entity.Account, requestID string) (*entity.Request, entity.Transaction, error) {
	req, err := a.FindRequest(requestID)
	if err != nil {
		return nil, entity.Transaction{}, err
	}
	if !req.Pending() {
		return nil, entity.Transaction{}, entity.NewAlreadyResolvedError("request %s is already %s", req.ID, req.Status)
	}
	tx, ok := a.Transaction(req.TransactionID)
	if !ok {
		return nil, entity.Transaction{}, entity.NewInvariantError("request %s has no ledger entry %s", req.ID, req.TransactionID)
	}
	return req, tx, nil
}

// Approve applies the request's balance effect. Balance is re-checked for
// debits; a shortfall leaves the request pending.
func (w *Workflow) Approve(a, inviter *entity.Account, requestID string, now time.Time) (Resolution, error) {
	req, tx, err := w.pending(a, requestID)
	if err != nil {
		return Resolution{}, err
	}

	switch req.Kind {
	case entity.RequestWithdrawal, entity.RequestVip:
		if a.Balance < -tx.Amount {
			return Resolution{}, entity.NewInsufficientBalanceError("balance %d cannot cover %s of %d", a.Balance, req.Kind, -tx.Amount)
		}
	}
	if req.Kind == entity.RequestVip {
		if _, ok := w.Vip.Catalog.Lookup(req.Level); !ok {
			return Resolution{}, entity.NewInvariantError("request %s references vip level %d outside the catalog", req.ID, req.Level)
		}
	}

	if err := a.CompleteTransaction(tx.ID, now); err != nil {
		return Resolution{}, err
	}
	resolvedAt := now
	req.Status = entity.RequestApproved
	req.ResolvedAt = &resolvedAt
	a.MarkRequestChanged(req.ID)

	var res Resolution
	switch req.Kind {
	case entity.RequestRecharge:
		res.Referral, err = w.Referral.OnFirstRechargeApproved(a, inviter, req.Amount, now)
		if err != nil {
			return Resolution{}, err
		}
	case entity.RequestVip:
		if err := w.Vip.Activate(a, req.Level, now); err != nil {
			return Resolution{}, err
		}
	}
	res.Request = *req
	return res, nil
}

// Reject closes the request and its ledger entry without touching balance.
func (w *Workflow) Reject(a *entity.Account, requestID string, now time.Time) (entity.Request, error) {
	req, tx, err := w.pending(a, requestID)
	if err != nil {
		return entity.Request{}, err
	}
	if err := a.RejectTransaction(tx.ID, now); err != nil {
		return entity.Request{}, err
	}
	resolvedAt := now
	req.Status = entity.RequestRejected
	req.ResolvedAt = &resolvedAt
	a.MarkRequestChanged(req.ID)
	return *req, nil
}
