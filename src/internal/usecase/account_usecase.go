package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/referral"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/metrics"
	redisPkg "wallet-service/src/pkg/redis"
	"wallet-service/src/pkg/token"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// DefaultWelcomeBonus is credited to every new account.
const DefaultWelcomeBonus = 2000

type AccountUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	unit
	Referral     *referral.Engine
	Vip          *VipUseCase
	Producer     *messaging.AccountProducer
	Issuer       token.Issuer
	WelcomeBonus int64
	BcryptCost   int
	Now          func() time.Time
}

func NewAccountUseCase(
	logger log.Log,
	validate *validator.Validate,
	accountRepository repository.AccountRepository,
	locker redisPkg.Locker,
	referralEngine *referral.Engine,
	vipUseCase *VipUseCase,
	producer *messaging.AccountProducer,
	issuer token.Issuer,
	welcomeBonus int64,
) *AccountUseCase {
	return &AccountUseCase{
		Log:          logger,
		Validate:     validate,
		unit:         unit{Repository: accountRepository, Locker: locker},
		Referral:     referralEngine,
		Vip:          vipUseCase,
		Producer:     producer,
		Issuer:       issuer,
		WelcomeBonus: welcomeBonus,
		BcryptCost:   bcrypt.DefaultCost,
		Now:          time.Now,
	}
}

// Register creates the account with its welcome bonus and, when the invite
// code resolves, credits the inviter in the same save.
func (c *AccountUseCase) Register(ctx context.Context, request *model.RegisterRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("AccountUseCase.Register-validation", err.Error(), "request", request.Email)
		result.Error = toHttpError(err)
		return result
	}
	email := strings.ToLower(strings.TrimSpace(request.Email))

	code, err := c.Referral.NormalizeInviteCode(request.InviteCode)
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}

	if _, err := c.Repository.FindByEmail(ctx, email); err == nil {
		errObj := httpError.NewConflict()
		errObj.Message = "email already registered"
		errObj.Reason = string(entity.KindValidation)
		result.Error = errObj
		return result
	} else if !errors.Is(err, entity.ErrNotFound) {
		c.Log.Error("AccountUseCase.Register", err.Error(), "FindByEmail", email)
		result.Error = toHttpError(err)
		return result
	}

	inviterID := ""
	if code != "" {
		inviter, err := c.Repository.FindByReferralCode(ctx, code)
		switch {
		case err == nil:
			inviterID = inviter.ID
		case errors.Is(err, entity.ErrNotFound):
			c.Log.Info("AccountUseCase.Register", "invite code not found", "referral", code)
		default:
			c.Log.Error("AccountUseCase.Register", err.Error(), "FindByReferralCode", code)
			result.Error = toHttpError(err)
			return result
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), c.BcryptCost)
	if err != nil {
		c.Log.Error("AccountUseCase.Register", err.Error(), "bcrypt", "")
		result.Error = toHttpError(err)
		return result
	}

	now := c.Now()
	account, err := entity.NewAccount(entity.Profile{
		Username:     strings.TrimSpace(request.Username),
		Email:        email,
		Phone:        request.Phone,
		PasswordHash: string(hash),
	}, c.WelcomeBonus, now)
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}

	release, err := c.lock(ctx, "register", account.ID, inviterID)
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}
	defer release()

	toSave := []*entity.Account{account}
	var outcome referral.Outcome
	if inviterID != "" {
		inviter, err := c.Repository.Load(ctx, inviterID)
		if err != nil {
			c.Log.Error("AccountUseCase.Register", err.Error(), "load-inviter", inviterID)
			result.Error = toHttpError(err)
			return result
		}
		outcome, err = c.Referral.OnSignup(account, inviter, now)
		if err != nil {
			result.Error = toHttpError(err)
			return result
		}
		if outcome.Posted {
			toSave = append(toSave, inviter)
		}
	}

	if err := c.save(ctx, "register", toSave...); err != nil {
		c.Log.Error("AccountUseCase.Register", err.Error(), "save", account.ID)
		result.Error = toHttpError(err)
		return result
	}

	c.Log.Info("AccountUseCase.Register", "account registered", account.ID, account.ReferredBy)
	if err := c.Producer.SendRegistered(converter.AccountToRegisteredEvent(account)); err != nil {
		c.Log.Error("AccountUseCase.Register", fmt.Sprintf("failed publish registered event: %v", err), account.ID, "")
	}
	if outcome.Posted {
		metrics.ReferralBonusPosted.WithLabelValues(model.ReferralTriggerSignup).Add(float64(outcome.Amount))
		if err := c.Producer.SendReferralBonus(converter.ReferralToEvent(outcome, account.ID, model.ReferralTriggerSignup, now)); err != nil {
			c.Log.Error("AccountUseCase.Register", fmt.Sprintf("failed publish referral event: %v", err), account.ID, "")
		}
	}

	auth, err := c.authResponse(account, now)
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}
	result.Data = auth
	return result
}

// Login checks the password and settles the VIP cycle before answering.
func (c *AccountUseCase) Login(ctx context.Context, request *model.LoginRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("AccountUseCase.Login-validation", err.Error(), "request", request.Email)
		result.Error = toHttpError(err)
		return result
	}

	account, err := c.Repository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		c.Log.Error("AccountUseCase.Login", err.Error(), "FindByEmail", request.Email)
		result.Error = toHttpError(err)
		return result
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(request.Password)) != nil {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "invalid email or password"
		result.Error = errObj
		return result
	}

	settled, _, err := c.Vip.settle(ctx, account.ID)
	if err != nil {
		c.Log.Error("AccountUseCase.Login", err.Error(), "settle", account.ID)
		result.Error = toHttpError(err)
		return result
	}

	auth, err := c.authResponse(settled, c.Now())
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}
	result.Data = auth
	return result
}

func (c *AccountUseCase) GetProfile(ctx context.Context, request *model.GetProfileRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("AccountUseCase.GetProfile-validation", err.Error(), "request", utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}

	account, _, err := c.Vip.settle(ctx, request.AccountID)
	if err != nil {
		c.Log.Error("AccountUseCase.GetProfile", err.Error(), "settle", request.AccountID)
		result.Error = toHttpError(err)
		return result
	}
	result.Data = converter.AccountToDetail(account, c.Vip.Engine)
	return result
}

func (c *AccountUseCase) authResponse(account *entity.Account, now time.Time) (*model.AuthResponse, error) {
	signed, err := c.Issuer.Generate(token.Metadata{
		AccountID: account.ID,
		Email:     account.Email,
	}, now)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{
		Token:     signed,
		ExpiresAt: now.Add(c.Issuer.TTL),
		Account:   converter.AccountToResponse(account, c.Vip.Engine),
	}, nil
}
