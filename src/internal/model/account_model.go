package model

import (
	"time"

	"wallet-service/src/internal/entity"
)

type AccountResponse struct {
	ID                    string     `json:"id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone,omitempty"`
	Balance               int64      `json:"balance"`
	VipLevel              int        `json:"vipLevel"`
	VipStartDate          *time.Time `json:"vipStartDate,omitempty"`
	VipCycleEnd           *time.Time `json:"vipCycleEnd,omitempty"`
	DailyProfit           int64      `json:"dailyProfit"`
	LastProfitDate        *time.Time `json:"lastProfitDate,omitempty"`
	TotalEarnings         int64      `json:"totalEarnings"`
	ReferralCode          string     `json:"referralCode"`
	ReferredBy            string     `json:"referredBy,omitempty"`
	HasUsedInvite         bool       `json:"hasUsedInvite"`
	HasFirstRechargeBonus bool       `json:"hasFirstRechargeBonus"`
	ReferralEarnings      int64      `json:"referralEarnings"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// AccountDetailResponse is the profile view with the ledger and queues.
type AccountDetailResponse struct {
	AccountResponse
	Transactions       []entity.Transaction    `json:"transactions"`
	RechargeRequests   []entity.Request        `json:"rechargeRequests"`
	WithdrawalRequests []entity.Request        `json:"withdrawalRequests"`
	VipRequests        []entity.Request        `json:"vipRequests"`
	Referrals          []entity.ReferralRecord `json:"referrals"`
}

type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Account   *AccountResponse `json:"account,omitempty"`
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=64"`
	Email      string `json:"email" validate:"required,email,max=191"`
	Phone      string `json:"phone" validate:"max=32"`
	Password   string `json:"password" validate:"required,min=6,max=100"`
	InviteCode string `json:"inviteCode" validate:"max=16"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,max=100"`
}

type GetProfileRequest struct {
	AccountID string `json:"-" validate:"required,max=36"`
}
