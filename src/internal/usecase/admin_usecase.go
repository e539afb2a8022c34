package usecase

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	"wallet-service/src/internal/vip"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/token"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const defaultListLimit = 50

// AdminCredential is the single operator login, configured with a bcrypt
// hash.
type AdminCredential struct {
	Email        string
	PasswordHash string
}

type AdminUseCase struct {
	Log        log.Log
	Validate   *validator.Validate
	Repository repository.AccountRepository
	Engine     *vip.Engine
	Issuer     token.Issuer
	Credential AdminCredential
	Now        func() time.Time
}

func NewAdminUseCase(
	logger log.Log,
	validate *validator.Validate,
	accountRepository repository.AccountRepository,
	engine *vip.Engine,
	issuer token.Issuer,
	credential AdminCredential,
) *AdminUseCase {
	return &AdminUseCase{
		Log:        logger,
		Validate:   validate,
		Repository: accountRepository,
		Engine:     engine,
		Issuer:     issuer,
		Credential: credential,
		Now:        time.Now,
	}
}

func (c *AdminUseCase) Login(ctx context.Context, request *model.AdminLoginRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("AdminUseCase.Login-validation", err.Error(), "request", request.Email)
		result.Error = toHttpError(err)
		return result
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(c.Credential.Email))) == 1
	passwordOK := bcrypt.CompareHashAndPassword([]byte(c.Credential.PasswordHash), []byte(request.Password)) == nil
	if !emailOK || !passwordOK || c.Credential.PasswordHash == "" {
		c.Log.Warn("AdminUseCase.Login", "invalid admin credentials", "login", email)
		errObj := httpError.NewUnauthorized()
		errObj.Message = "invalid admin credentials"
		result.Error = errObj
		return result
	}

	now := c.Now()
	signed, err := c.Issuer.Generate(token.Metadata{Email: email, IsAdmin: true}, now)
	if err != nil {
		c.Log.Error("AdminUseCase.Login", err.Error(), "token", email)
		result.Error = toHttpError(err)
		return result
	}
	result.Data = &model.AdminAuthResponse{
		Token:     signed,
		ExpiresAt: now.Add(c.Issuer.TTL).Format(time.RFC3339),
		Email:     email,
	}
	return result
}

func (c *AdminUseCase) ListAccounts(ctx context.Context, request *model.ListAccountsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("AdminUseCase.ListAccounts-validation", err.Error(), "request", utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}
	limit := request.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	accounts, err := c.Repository.List(ctx, limit, request.Offset)
	if err != nil {
		c.Log.Error("AdminUseCase.ListAccounts", err.Error(), "list", utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}

	response := make([]*model.AccountResponse, 0, len(accounts))
	for i := range accounts {
		response = append(response, converter.AccountToResponse(&accounts[i], c.Engine))
	}
	result.Data = response
	return result
}

func (c *AdminUseCase) Stats(ctx context.Context) utils.Result {
	var result utils.Result

	stats, err := c.Repository.Stats(ctx)
	if err != nil {
		c.Log.Error("AdminUseCase.Stats", err.Error(), "stats", "")
		result.Error = toHttpError(err)
		return result
	}
	result.Data = stats
	return result
}
