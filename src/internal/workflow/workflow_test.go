package workflow

import (
	"testing"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/referral"
	"wallet-service/src/internal/vip"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

func newWorkflow(t *testing.T) *Workflow {
	ref, err := referral.NewEngine(referral.DefaultSignupBonus, referral.DefaultFirstRechargeRate, referral.DefaultInviteCode)
	require.NoError(t, err)
	return New(DefaultLimits(), vip.NewEngine(vip.MustDefaultCatalog(), time.UTC), ref)
}

func accountWithBalance(t *testing.T, balance int64) *entity.Account {
	a, err := entity.NewAccount(entity.Profile{}, balance, now)
	require.NoError(t, err)
	return a
}

func TestSubmit_Validation(t *testing.T) {
	w := newWorkflow(t)

	tests := []struct {
		name    string
		balance int64
		sub     Submission
		wantErr *entity.Error
	}{
		{name: "recharge below minimum", balance: 0, sub: Submission{Kind: entity.RequestRecharge, Amount: 9999}, wantErr: entity.ErrValidation},
		{name: "recharge at minimum", balance: 0, sub: Submission{Kind: entity.RequestRecharge, Amount: 10000}},
		{name: "withdrawal below minimum", balance: 100000, sub: Submission{Kind: entity.RequestWithdrawal, Amount: 4999}, wantErr: entity.ErrValidation},
		{name: "withdrawal above maximum", balance: 5000000, sub: Submission{Kind: entity.RequestWithdrawal, Amount: 2000001}, wantErr: entity.ErrValidation},
		{name: "withdrawal over balance", balance: 500000, sub: Submission{Kind: entity.RequestWithdrawal, Amount: 1000000}, wantErr: entity.ErrInsufficientBalance},
		{name: "withdrawal ok", balance: 500000, sub: Submission{Kind: entity.RequestWithdrawal, Amount: 500000}},
		{name: "vip unknown level", balance: 500000, sub: Submission{Kind: entity.RequestVip, Level: 11}, wantErr: entity.ErrValidation},
		{name: "vip over balance", balance: 49999, sub: Submission{Kind: entity.RequestVip, Level: 3}, wantErr: entity.ErrInsufficientBalance},
		{name: "vip ok", balance: 50000, sub: Submission{Kind: entity.RequestVip, Level: 3}},
		{name: "unknown kind", balance: 0, sub: Submission{Kind: "loan", Amount: 10}, wantErr: entity.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := accountWithBalance(t, tt.balance)
			ledgerBefore := len(a.Ledger)

			req, err := w.Submit(a, tt.sub, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, a.Ledger, ledgerBefore)
				assert.Empty(t, a.PendingRequests(""))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.RequestPending, req.Status)
			assert.Len(t, a.Ledger, ledgerBefore+1)
			assert.Equal(t, tt.balance, a.Balance, "submission never moves balance")

			tx, ok := a.Transaction(req.TransactionID)
			require.True(t, ok)
			assert.Equal(t, entity.TxPending, tx.Status)
			assert.Equal(t, req.ID, tx.Detail.RequestID)
		})
	}
}

func TestSubmit_SignedLedgerAmounts(t *testing.T) {
	w := newWorkflow(t)
	a := accountWithBalance(t, 100000)

	recharge, err := w.Submit(a, Submission{Kind: entity.RequestRecharge, Amount: 20000}, now)
	require.NoError(t, err)
	withdrawal, err := w.Submit(a, Submission{Kind: entity.RequestWithdrawal, Amount: 6000}, now)
	require.NoError(t, err)
	purchase, err := w.Submit(a, Submission{Kind: entity.RequestVip, Level: 2}, now)
	require.NoError(t, err)

	tx, _ := a.Transaction(recharge.TransactionID)
	assert.Equal(t, int64(20000), tx.Amount)
	assert.Equal(t, entity.TxRecharge, tx.Kind)
	tx, _ = a.Transaction(withdrawal.TransactionID)
	assert.Equal(t, int64(-6000), tx.Amount)
	tx, _ = a.Transaction(purchase.TransactionID)
	assert.Equal(t, int64(-30000), tx.Amount)
	assert.Equal(t, entity.TxVipPurchase, tx.Kind)
	assert.Equal(t, int64(30000), purchase.Amount)
	assert.Equal(t, 2, purchase.Level)

	assert.Len(t, a.RechargeRequests, 1)
	assert.Len(t, a.WithdrawalRequests, 1)
	assert.Len(t, a.VipRequests, 1)
}

func TestApprove_Recharge(t *testing.T) {
	w := newWorkflow(t)
	inviter := accountWithBalance(t, 2000)
	a := accountWithBalance(t, 2000)
	_, err := w.Referral.OnSignup(a, inviter, now)
	require.NoError(t, err)

	req, err := w.Submit(a, Submission{Kind: entity.RequestRecharge, Amount: 20000}, now)
	require.NoError(t, err)

	res, err := w.Approve(a, inviter, req.ID, now)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, res.Request.Status)
	require.NotNil(t, res.Request.ResolvedAt)
	assert.True(t, res.Referral.Posted)

	assert.Equal(t, int64(22000), a.Balance)
	assert.True(t, a.HasFirstRechargeBonus)
	assert.Equal(t, int64(2000+2000+3000), inviter.Balance)
	assert.True(t, a.Consistent())
	assert.True(t, inviter.Consistent())

	second, err := w.Submit(a, Submission{Kind: entity.RequestRecharge, Amount: 40000}, now)
	require.NoError(t, err)
	res, err = w.Approve(a, inviter, second.ID, now)
	require.NoError(t, err)
	assert.False(t, res.Referral.Posted)
	assert.Equal(t, int64(62000), a.Balance)
	assert.Equal(t, int64(7000), inviter.Balance)
}

func TestApprove_WithdrawalDebitsAtApproval(t *testing.T) {
	w := newWorkflow(t)
	a := accountWithBalance(t, 100000)

	req, err := w.Submit(a, Submission{Kind: entity.RequestWithdrawal, Amount: 60000}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), a.Balance)

	_, err = w.Approve(a, nil, req.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), a.Balance)
	assert.True(t, a.Consistent())
}

func TestApprove_InsufficientAtApprovalLeavesPending(t *testing.T) {
	w := newWorkflow(t)
	a := accountWithBalance(t, 100000)

	first, err := w.Submit(a, Submission{Kind: entity.RequestWithdrawal, Amount: 80000}, now)
	require.NoError(t, err)
	second, err := w.Submit(a, Submission{Kind: entity.RequestWithdrawal, Amount: 80000}, now)
	require.NoError(t, err)

	_, err = w.Approve(a, nil, first.ID, now)
	require.NoError(t, err)

	_, err = w.Approve(a, nil, second.ID, now)
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)
	assert.Equal(t, int64(20000), a.Balance)
	r, err := a.FindRequest(second.ID)
	require.NoError(t, err)
	assert.True(t, r.Pending())
	tx, _ := a.Transaction(second.TransactionID)
	assert.Equal(t, entity.TxPending, tx.Status)
}

func TestApprove_VipPurchaseActivates(t *testing.T) {
	w := newWorkflow(t)
	a := accountWithBalance(t, 60000)

	req, err := w.Submit(a, Submission{Kind: entity.RequestVip, Level: 3}, now)
	require.NoError(t, err)
	_, err = w.Approve(a, nil, req.ID, now)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), a.Balance)
	assert.Equal(t, 3, a.VipLevel)
	require.NotNil(t, a.VipStartDate)
	assert.Equal(t, now, *a.VipStartDate)
	assert.Nil(t, a.LastProfitDate)
	assert.True(t, a.Consistent())
}

func TestReject_NoBalanceChange(t *testing.T) {
	w := newWorkflow(t)
	a := accountWithBalance(t, 100000)

	for _, sub := range []Submission{
		{Kind: entity.RequestRecharge, Amount: 20000},
		{Kind: entity.RequestWithdrawal, Amount: 20000},
		{Kind: entity.RequestVip, Level: 1},
	} {
		req, err := w.Submit(a, sub, now)
		require.NoError(t, err)
		res, err := w.Resolve(a, nil, req.ID, ActionReject, now)
		require.NoError(t, err)
		assert.Equal(t, entity.RequestRejected, res.Request.Status)
		tx, _ := a.Transaction(req.TransactionID)
		assert.Equal(t, entity.TxRejected, tx.Status)
	}
	assert.Equal(t, int64(100000), a.Balance)
	assert.Equal(t, 0, a.VipLevel)
	assert.False(t, a.HasFirstRechargeBonus)
}

func TestResolve_Terminality(t *testing.T) {
	w := newWorkflow(t)
	a := accountWithBalance(t, 100000)

	approved, err := w.Submit(a, Submission{Kind: entity.RequestRecharge, Amount: 20000}, now)
	require.NoError(t, err)
	rejected, err := w.Submit(a, Submission{Kind: entity.RequestWithdrawal, Amount: 20000}, now)
	require.NoError(t, err)
	_, err = w.Resolve(a, nil, approved.ID, ActionApprove, now)
	require.NoError(t, err)
	_, err = w.Resolve(a, nil, rejected.ID, ActionReject, now)
	require.NoError(t, err)
	balance := a.Balance

	for _, id := range []string{approved.ID, rejected.ID} {
		for _, action := range []Action{ActionApprove, ActionReject} {
			_, err := w.Resolve(a, nil, id, action, now)
			assert.ErrorIs(t, err, entity.ErrAlreadyResolved)
		}
	}
	assert.Equal(t, balance, a.Balance)

	_, err = w.Resolve(a, nil, "missing", ActionApprove, now)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = w.Resolve(a, nil, approved.ID, "cancel", now)
	assert.ErrorIs(t, err, entity.ErrValidation)
}
