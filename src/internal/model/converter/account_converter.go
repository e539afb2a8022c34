package converter

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/vip"
)

func AccountToResponse(account *entity.Account, engine *vip.Engine) *model.AccountResponse {
	res := &model.AccountResponse{
		ID:                    account.ID,
		Username:              account.Username,
		Email:                 account.Email,
		Phone:                 account.Phone,
		Balance:               account.Balance,
		VipLevel:              account.VipLevel,
		VipStartDate:          account.VipStartDate,
		LastProfitDate:        account.LastProfitDate,
		TotalEarnings:         account.TotalEarnings,
		ReferralCode:          account.ReferralCode,
		ReferredBy:            account.ReferredBy,
		HasUsedInvite:         account.HasUsedInvite,
		HasFirstRechargeBonus: account.HasFirstRechargeBonus,
		ReferralEarnings:      account.ReferralEarnings,
		CreatedAt:             account.CreatedAt,
	}
	if engine != nil {
		res.DailyProfit = engine.DailyProfit(account)
		res.VipCycleEnd = engine.CycleEnd(account)
	}
	return res
}

// AccountToDetail returns the ledger newest first, as the profile page
// lists it.
func AccountToDetail(account *entity.Account, engine *vip.Engine) *model.AccountDetailResponse {
	ledger := make([]entity.Transaction, len(account.Ledger))
	for i, tx := range account.Ledger {
		ledger[len(ledger)-1-i] = tx
	}
	return &model.AccountDetailResponse{
		AccountResponse:    *AccountToResponse(account, engine),
		Transactions:       ledger,
		RechargeRequests:   nonNil(account.RechargeRequests),
		WithdrawalRequests: nonNil(account.WithdrawalRequests),
		VipRequests:        nonNil(account.VipRequests),
		Referrals:          append([]entity.ReferralRecord{}, account.Referrals...),
	}
}

func nonNil(in []entity.Request) []entity.Request {
	return append([]entity.Request{}, in...)
}
