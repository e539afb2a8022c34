package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		request interface{}
		valid   bool
	}{
		{name: "withdrawal ok", request: &SubmitWithdrawalRequest{AccountID: "a", Amount: 6000, Network: "MTN", MobileNumber: "+256700123456"}, valid: true},
		{name: "withdrawal bad msisdn", request: &SubmitWithdrawalRequest{AccountID: "a", Amount: 6000, Network: "MTN", MobileNumber: "07-00"}, valid: false},
		{name: "recharge without msisdn", request: &SubmitRechargeRequest{AccountID: "a", Amount: 10000}, valid: true},
		{name: "recharge zero", request: &SubmitRechargeRequest{AccountID: "a"}, valid: false},
		{name: "resolve bad action", request: &ResolveRequest{AccountID: "a", RequestID: "r", Action: "cancel"}, valid: false},
		{name: "resolve approve", request: &ResolveRequest{AccountID: "a", RequestID: "r", Action: "approve"}, valid: true},
		{name: "pending any kind", request: &ListPendingRequest{}, valid: true},
		{name: "pending bad kind", request: &ListPendingRequest{Kind: "loan"}, valid: false},
		{name: "register bad email", request: &RegisterRequest{Username: "budi", Email: "nope", Password: "secret1"}, valid: false},
		{name: "register ok", request: &RegisterRequest{Username: "budi", Email: "budi@example.com", Password: "secret1", InviteCode: "2233"}, valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.request)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
