package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuer = token.Issuer{Secret: []byte("middleware-secret"), Issuer: "wallet-service", TTL: time.Hour}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(NewLogger(log.Discard()))
	app.Get("/me", VerifyBearer(issuer), RequireAccount(), func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUser(ctx).AccountID)
	})
	app.Get("/admin", VerifyBearer(issuer), RequireAdmin(), func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUser(ctx).Email)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, bearer string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestVerifyBearer(t *testing.T) {
	app := newApp()
	accountToken, err := issuer.Generate(token.Metadata{AccountID: "acc-1", Email: "a@example.com"}, time.Now())
	require.NoError(t, err)
	adminToken, err := issuer.Generate(token.Metadata{Email: "admin@example.com", IsAdmin: true}, time.Now())
	require.NoError(t, err)
	expired, err := issuer.Generate(token.Metadata{AccountID: "acc-1"}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	foreign, err := token.Issuer{Secret: []byte("other"), Issuer: "wallet-service", TTL: time.Hour}.
		Generate(token.Metadata{AccountID: "acc-1"}, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		bearer string
		want   int
	}{
		{name: "missing", path: "/me", want: fiber.StatusUnauthorized},
		{name: "garbage", path: "/me", bearer: "not-a-jwt", want: fiber.StatusUnauthorized},
		{name: "expired", path: "/me", bearer: expired, want: fiber.StatusUnauthorized},
		{name: "wrong secret", path: "/me", bearer: foreign, want: fiber.StatusUnauthorized},
		{name: "account", path: "/me", bearer: accountToken, want: fiber.StatusOK},
		{name: "admin on account route", path: "/me", bearer: adminToken, want: fiber.StatusForbidden},
		{name: "account on admin route", path: "/admin", bearer: accountToken, want: fiber.StatusForbidden},
		{name: "admin", path: "/admin", bearer: adminToken, want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(t, app, tt.path, tt.bearer))
		})
	}
}
