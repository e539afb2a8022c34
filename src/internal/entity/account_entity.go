package entity

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCodeLength is the length of generated invite codes.
const ReferralCodeLength = 8

type Profile struct {
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Account is the aggregate every money movement goes through. Balance only
// moves together with a completed ledger entry.
type Account struct {
	ID string `json:"id" db:"id"`
	Profile

	Balance        int64      `json:"balance" db:"balance"`
	VipLevel       int        `json:"vipLevel" db:"vip_level"`
	VipStartDate   *time.Time `json:"vipStartDate,omitempty" db:"vip_start_date"`
	LastProfitDate *time.Time `json:"lastProfitDate,omitempty" db:"last_profit_date"`
	TotalEarnings  int64      `json:"totalEarnings" db:"total_earnings"`

	ReferralCode          string `json:"referralCode" db:"referral_code"`
	ReferredBy            string `json:"referredBy,omitempty" db:"referred_by"`
	HasUsedInvite         bool   `json:"hasUsedInvite" db:"has_used_invite"`
	HasFirstRechargeBonus bool   `json:"hasFirstRechargeBonus" db:"has_first_recharge_bonus"`
	ReferralEarnings      int64  `json:"referralEarnings" db:"referral_earnings"`

	Ledger             []Transaction    `json:"transactions" db:"-"`
	RechargeRequests   []Request        `json:"rechargeRequests" db:"-"`
	WithdrawalRequests []Request        `json:"withdrawalRequests" db:"-"`
	VipRequests        []Request        `json:"vipRequests" db:"-"`
	Referrals          []ReferralRecord `json:"referrals" db:"-"`

	Version   int64     `json:"-" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	changed changeSet
}

type changeSet struct {
	transactions map[string]struct{}
	requests     map[string]struct{}
	referrals    map[string]struct{}
}

func (c *changeSet) mark(set *map[string]struct{}, id string) {
	if *set == nil {
		*set = make(map[string]struct{})
	}
	(*set)[id] = struct{}{}
}

// NewAccount creates an account seeded with the welcome bonus.
func NewAccount(profile Profile, welcomeBonus int64, now time.Time) (*Account, error) {
	code, err := NewReferralCode()
	if err != nil {
		return nil, err
	}
	a := &Account{
		ID:           uuid.NewString(),
		Profile:      profile,
		ReferralCode: code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if welcomeBonus > 0 {
		a.PostCompleted(TxBonus, welcomeBonus, Detail{Description: "Signup bonus"}, now)
	}
	return a, nil
}

// NewReferralCode returns a random upper-case alphanumeric code.
func NewReferralCode() (string, error) {
	buf := make([]byte, ReferralCodeLength)
	max := big.NewInt(int64(len(referralAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = referralAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (a *Account) IsNew() bool {
	return a.Version == 0
}

func (a *Account) IsVip() bool {
	return a.VipLevel > 0 && a.VipStartDate != nil
}

func (a *Account) post(kind TransactionKind, amount int64, status TransactionStatus, detail Detail, now time.Time) *Transaction {
	a.Ledger = append(a.Ledger, Transaction{
		ID:        uuid.NewString(),
		AccountID: a.ID,
		Seq:       len(a.Ledger) + 1,
		Kind:      kind,
		Amount:    amount,
		Status:    status,
		Detail:    detail,
		CreatedAt: now,
		UpdatedAt: now,
	})
	tx := &a.Ledger[len(a.Ledger)-1]
	if status == TxCompleted {
		a.Balance += amount
	}
	a.UpdatedAt = now
	a.changed.mark(&a.changed.transactions, tx.ID)
	return tx
}

// PostCompleted appends a settled entry and applies it to the balance.
func (a *Account) PostCompleted(kind TransactionKind, amount int64, detail Detail, now time.Time) Transaction {
	return *a.post(kind, amount, TxCompleted, detail, now)
}

// PostPending appends an entry that does not touch the balance until it is
// completed.
func (a *Account) PostPending(kind TransactionKind, amount int64, detail Detail, now time.Time) Transaction {
	return *a.post(kind, amount, TxPending, detail, now)
}

func (a *Account) transaction(id string) (*Transaction, error) {
	for i := range a.Ledger {
		if a.Ledger[i].ID == id {
			return &a.Ledger[i], nil
		}
	}
	return nil, NewNotFoundError("transaction %s not found", id)
}

// Transaction returns a copy of the ledger entry with the given id.
func (a *Account) Transaction(id string) (Transaction, bool) {
	tx, err := a.transaction(id)
	if err != nil {
		return Transaction{}, false
	}
	return *tx, true
}

// CompleteTransaction settles a pending entry and applies its amount.
func (a *Account) CompleteTransaction(id string, now time.Time) error {
	tx, err := a.transaction(id)
	if err != nil {
		return err
	}
	if err := tx.transition(TxCompleted, now); err != nil {
		return err
	}
	a.Balance += tx.Amount
	a.UpdatedAt = now
	a.changed.mark(&a.changed.transactions, id)
	return nil
}

// RejectTransaction closes a pending entry without a balance effect.
func (a *Account) RejectTransaction(id string, now time.Time) error {
	tx, err := a.transaction(id)
	if err != nil {
		return err
	}
	if err := tx.transition(TxRejected, now); err != nil {
		return err
	}
	a.UpdatedAt = now
	a.changed.mark(&a.changed.transactions, id)
	return nil
}

// LedgerBalance recomputes the balance from completed entries.
func (a *Account) LedgerBalance() int64 {
	var sum int64
	for _, tx := range a.Ledger {
		if tx.Settled() {
			sum += tx.Amount
		}
	}
	return sum
}

// Consistent reports whether Balance agrees with the ledger.
func (a *Account) Consistent() bool {
	return a.Balance == a.LedgerBalance()
}

// Requests returns the request queue for kind.
func (a *Account) Requests(kind RequestKind) *[]Request {
	switch kind {
	case RequestRecharge:
		return &a.RechargeRequests
	case RequestWithdrawal:
		return &a.WithdrawalRequests
	case RequestVip:
		return &a.VipRequests
	}
	return nil
}

// AddRequest appends a request to its queue.
func (a *Account) AddRequest(r Request) {
	queue := a.Requests(r.Kind)
	if queue == nil {
		return
	}
	*queue = append(*queue, r)
	a.changed.mark(&a.changed.requests, r.ID)
}

// FindRequest looks the id up across all three queues.
func (a *Account) FindRequest(id string) (*Request, error) {
	for _, kind := range []RequestKind{RequestRecharge, RequestWithdrawal, RequestVip} {
		queue := a.Requests(kind)
		for i := range *queue {
			if (*queue)[i].ID == id {
				return &(*queue)[i], nil
			}
		}
	}
	return nil, NewNotFoundError("request %s not found", id)
}

// MarkRequestChanged records that a request returned by FindRequest was
// mutated in place.
func (a *Account) MarkRequestChanged(id string) {
	a.changed.mark(&a.changed.requests, id)
}

// PendingRequests returns copies of pending requests, optionally filtered.
func (a *Account) PendingRequests(kind RequestKind) []Request {
	var out []Request
	for _, k := range []RequestKind{RequestRecharge, RequestWithdrawal, RequestVip} {
		if kind != "" && kind != k {
			continue
		}
		for _, r := range *a.Requests(k) {
			if r.Pending() {
				out = append(out, r)
			}
		}
	}
	return out
}

// SetReferredBy records the inviter once. A second call is an error even
// with the same inviter.
func (a *Account) SetReferredBy(inviterID string) error {
	if a.ReferredBy != "" {
		return NewValidationError("account %s already referred by %s", a.ID, a.ReferredBy)
	}
	if inviterID == "" || inviterID == a.ID {
		return NewValidationError("invalid inviter for account %s", a.ID)
	}
	a.ReferredBy = inviterID
	return nil
}

// Referral returns the inviter-side record for referredID, creating it on
// first use.
func (a *Account) Referral(referredID string, now time.Time) *ReferralRecord {
	for i := range a.Referrals {
		if a.Referrals[i].ReferredID == referredID {
			a.changed.mark(&a.changed.referrals, referredID)
			return &a.Referrals[i]
		}
	}
	a.Referrals = append(a.Referrals, ReferralRecord{
		InviterID:  a.ID,
		ReferredID: referredID,
		JoinedAt:   now,
	})
	a.changed.mark(&a.changed.referrals, referredID)
	return &a.Referrals[len(a.Referrals)-1]
}

// ChangedTransactions returns entries appended or updated since the account
// was loaded or last saved.
func (a *Account) ChangedTransactions() []Transaction {
	var out []Transaction
	for _, tx := range a.Ledger {
		if _, ok := a.changed.transactions[tx.ID]; ok {
			out = append(out, tx)
		}
	}
	return out
}

func (a *Account) ChangedRequests() []Request {
	var out []Request
	for _, kind := range []RequestKind{RequestRecharge, RequestWithdrawal, RequestVip} {
		for _, r := range *a.Requests(kind) {
			if _, ok := a.changed.requests[r.ID]; ok {
				out = append(out, r)
			}
		}
	}
	return out
}

func (a *Account) ChangedReferrals() []ReferralRecord {
	var out []ReferralRecord
	for _, r := range a.Referrals {
		if _, ok := a.changed.referrals[r.ReferredID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns a deep copy, including pending change tracking.
func (a *Account) Clone() *Account {
	c := *a
	c.Ledger = append([]Transaction(nil), a.Ledger...)
	c.RechargeRequests = cloneRequests(a.RechargeRequests)
	c.WithdrawalRequests = cloneRequests(a.WithdrawalRequests)
	c.VipRequests = cloneRequests(a.VipRequests)
	c.Referrals = make([]ReferralRecord, len(a.Referrals))
	for i, r := range a.Referrals {
		if r.LastBonusDate != nil {
			t := *r.LastBonusDate
			r.LastBonusDate = &t
		}
		c.Referrals[i] = r
	}
	c.VipStartDate = cloneTime(a.VipStartDate)
	c.LastProfitDate = cloneTime(a.LastProfitDate)
	c.changed = changeSet{
		transactions: cloneSet(a.changed.transactions),
		requests:     cloneSet(a.changed.requests),
		referrals:    cloneSet(a.changed.referrals),
	}
	return &c
}

// ClearChanges is called by the repository after a successful save.
func (a *Account) ClearChanges() {
	a.changed = changeSet{}
}

func cloneRequests(in []Request) []Request {
	out := make([]Request, len(in))
	for i, r := range in {
		r.ResolvedAt = cloneTime(r.ResolvedAt)
		out[i] = r
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	if in == nil {
		return nil
	}
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
