package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet-service/src/internal/referral"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/internal/vip"
	"wallet-service/src/internal/workflow"
	"wallet-service/src/pkg/token"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// NewVipEngine builds the catalog from vip.levels when present, otherwise
// from the built-in price list.
func NewVipEngine(v *viper.Viper) (*vip.Engine, error) {
	levels := vip.DefaultLevels()
	if v.IsSet("vip.levels") {
		levels = nil
		if err := v.UnmarshalKey("vip.levels", &levels); err != nil {
			return nil, fmt.Errorf("vip.levels: %w", err)
		}
	}
	catalog, err := vip.NewCatalog(levels)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(v.GetString("vip.timezone"))
	if err != nil {
		return nil, fmt.Errorf("vip.timezone: %w", err)
	}
	return vip.NewEngine(catalog, loc), nil
}

func NewReferralEngine(v *viper.Viper) (*referral.Engine, error) {
	bonus := int64(referral.DefaultSignupBonus)
	if v.IsSet("referral.signup_bonus") {
		bonus = v.GetInt64("referral.signup_bonus")
	}
	rate := referral.DefaultFirstRechargeRate
	if v.IsSet("referral.first_recharge_rate") {
		rate = v.GetString("referral.first_recharge_rate")
	}
	code := referral.DefaultInviteCode
	if v.IsSet("referral.default_invite_code") {
		code = v.GetString("referral.default_invite_code")
	}
	return referral.NewEngine(bonus, rate, code)
}

func NewWorkflow(v *viper.Viper, vipEngine *vip.Engine, referralEngine *referral.Engine) (*workflow.Workflow, error) {
	limits := workflow.DefaultLimits()
	if v.IsSet("limits") {
		if err := v.UnmarshalKey("limits", &limits); err != nil {
			return nil, fmt.Errorf("limits: %w", err)
		}
	}
	if limits.MinRecharge <= 0 || limits.MinWithdraw <= 0 || limits.MaxWithdraw < limits.MinWithdraw {
		return nil, fmt.Errorf("limits: invalid %+v", limits)
	}
	return workflow.New(limits, vipEngine, referralEngine), nil
}

func NewIssuer(v *viper.Viper) (token.Issuer, error) {
	secret := v.GetString("jwt.secret")
	if len(secret) < 16 {
		return token.Issuer{}, errors.New("jwt.secret must be at least 16 characters")
	}
	return token.Issuer{
		Secret: []byte(secret),
		Issuer: v.GetString("jwt.issuer"),
		TTL:    v.GetDuration("jwt.ttl"),
	}, nil
}

// NewAdminCredential reads admin.email with either admin.password_hash
// (bcrypt) or a plain admin.password that is hashed here.
func NewAdminCredential(v *viper.Viper) (usecase.AdminCredential, error) {
	credential := usecase.AdminCredential{
		Email:        strings.ToLower(strings.TrimSpace(v.GetString("admin.email"))),
		PasswordHash: v.GetString("admin.password_hash"),
	}
	if credential.Email == "" {
		return credential, errors.New("admin.email is required")
	}
	if credential.PasswordHash == "" {
		password := v.GetString("admin.password")
		if password == "" {
			return credential, errors.New("admin.password_hash or admin.password is required")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return credential, err
		}
		credential.PasswordHash = string(hash)
	}
	return credential, nil
}
