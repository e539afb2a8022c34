package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/repository"
	kafkaPkg "wallet-service/src/pkg/kafka"
	"wallet-service/src/pkg/log"
	redisModule "wallet-service/src/pkg/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapRepository is enough of an AccountRepository for the HTTP flow.
type mapRepository struct {
	repository.AccountRepository
	mu       sync.Mutex
	accounts map[string]*entity.Account
}

func (r *mapRepository) Load(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return a.Clone(), nil
	}
	return nil, entity.NewNotFoundError("account %s not found", id)
}

func (r *mapRepository) Save(_ context.Context, accounts ...*entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range accounts {
		c := a.Clone()
		c.Version = a.Version + 1
		c.ClearChanges()
		r.accounts[a.ID] = c
		a.Version++
		a.ClearChanges()
	}
	return nil
}

func (r *mapRepository) find(match func(*entity.Account) bool) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if match(a) {
			return a.Clone(), nil
		}
	}
	return nil, entity.NewNotFoundError("account not found")
}

func (r *mapRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return a.Email == email })
}

func (r *mapRepository) FindByReferralCode(_ context.Context, code string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return a.ReferralCode == code })
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set("jwt.secret", "0123456789abcdef0123456789abcdef")
	v.Set("admin.email", "admin@aab.com")
	v.Set("admin.password", "admin123")
	return v
}

func newTestApp(t *testing.T) (*fiber.App, *asynq.ServeMux) {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler()})
	mux := asynq.NewServeMux()
	err := Bootstrap(&BootstrapConfig{
		App:        app,
		Log:        log.Discard(),
		Validate:   model.NewValidator(),
		Config:     testConfig(),
		Producer:   kafkaPkg.NoopProducer{},
		Async:      mux,
		Repository: &mapRepository{accounts: map[string]*entity.Account{}},
		Locker:     redisModule.NewLocalLocker(),
	})
	require.NoError(t, err)
	return app, mux
}

func call(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		if len(env.Data) > 0 {
			require.NoError(t, json.Unmarshal(env.Data, out))
		}
	}
	return resp.StatusCode
}

func TestBootstrap_RechargeWithReferralFlow(t *testing.T) {
	app, _ := newTestApp(t)

	var alice model.AuthResponse
	status := call(t, app, "POST", "/api/signup", "", model.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret1", InviteCode: "2233",
	}, &alice)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, alice.Token)
	assert.Equal(t, int64(2000), alice.Account.Balance)

	var bob model.AuthResponse
	status = call(t, app, "POST", "/api/signup", "", model.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "secret2", InviteCode: alice.Account.ReferralCode,
	}, &bob)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, alice.Account.ID, bob.Account.ReferredBy)

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "GET", "/api/user", "", nil, nil))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "GET", "/api/admin/users", bob.Token, nil, nil))

	var recharge entity.Request
	status = call(t, app, "POST", "/api/recharge", bob.Token, map[string]interface{}{"amount": 20000}, &recharge)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, entity.RequestPending, recharge.Status)

	status = call(t, app, "POST", "/api/recharge", bob.Token, map[string]interface{}{"amount": 500}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var admin model.AdminAuthResponse
	status = call(t, app, "POST", "/api/admin/login", "", model.AdminLoginRequest{Email: "admin@aab.com", Password: "admin123"}, &admin)
	require.Equal(t, fiber.StatusOK, status)

	var resolved model.ResolveResponse
	status = call(t, app, "POST", "/api/admin/approve", admin.Token, model.ResolveRequest{
		AccountID: bob.Account.ID, RequestID: recharge.ID, Action: "approve",
	}, &resolved)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(3000), resolved.ReferralBonus)
	assert.Equal(t, int64(22000), resolved.Account.Balance)

	status = call(t, app, "POST", "/api/admin/approve", admin.Token, model.ResolveRequest{
		AccountID: bob.Account.ID, RequestID: recharge.ID, Action: "reject",
	}, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	var profile model.AccountDetailResponse
	status = call(t, app, "GET", "/api/user", alice.Token, nil, &profile)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(7000), profile.Balance)
	assert.Equal(t, int64(5000), profile.ReferralEarnings)
	assert.Len(t, profile.Referrals, 1)
}

func TestBootstrap_PublicRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, fiber.StatusOK, call(t, app, "GET", "/health", "", nil, nil))

	var levels []map[string]interface{}
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", "/api/vip/levels", "", nil, &levels))
	assert.Len(t, levels, 10)

	status := call(t, app, "POST", "/api/admin/login", "", model.AdminLoginRequest{Email: "admin@aab.com", Password: "wrong"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	v := testConfig()
	v.Set("jwt.secret", "short")
	err := Bootstrap(&BootstrapConfig{
		App: fiber.New(), Log: log.Discard(), Validate: model.NewValidator(), Config: v,
		Repository: &mapRepository{accounts: map[string]*entity.Account{}},
	})
	assert.Error(t, err)
}
