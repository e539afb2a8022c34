package model

import (
	"wallet-service/src/internal/entity"
)

type SubmitRechargeRequest struct {
	AccountID        string `json:"-" validate:"required,max=36"`
	Amount           int64  `json:"amount" validate:"required,gt=0"`
	Network          string `json:"network" validate:"max=32"`
	MobileNumber     string `json:"mobileNumber" validate:"omitempty,msisdn"`
	PaymentReference string `json:"paymentReference" validate:"max=64"`
}

type SubmitWithdrawalRequest struct {
	AccountID    string `json:"-" validate:"required,max=36"`
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	Network      string `json:"network" validate:"required,max=32"`
	MobileNumber string `json:"mobileNumber" validate:"required,msisdn"`
}

type SubmitVipRequest struct {
	AccountID string `json:"-" validate:"required,max=36"`
	Level     int    `json:"level" validate:"required,min=1"`
}

type ResolveRequest struct {
	AccountID string `json:"accountId" validate:"required,max=36"`
	RequestID string `json:"requestId" validate:"required,max=36"`
	Action    string `json:"action" validate:"required,oneof=approve reject"`
}

type ListPendingRequest struct {
	Kind string `query:"kind" validate:"omitempty,oneof=recharge withdrawal vip"`
}

type PendingRequestResponse struct {
	AccountID string         `json:"accountId"`
	Request   entity.Request `json:"request"`
}

type ResolveResponse struct {
	Request       entity.Request   `json:"request"`
	Account       *AccountResponse `json:"account"`
	ReferralBonus int64            `json:"referralBonus,omitempty"`
}
