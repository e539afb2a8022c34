package middleware

import (
	"strings"

	"wallet-service/src/pkg/token"
	"wallet-service/src/pkg/utils"

	httpError "wallet-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

const authKey = "auth"

// VerifyBearer parses the Authorization header and stores the claim
// metadata for GetUser.
func VerifyBearer(issuer token.Issuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := issuer.Parse(strings.TrimSpace(raw))
		if err != nil {
			errObj := httpError.NewUnauthorized()
			errObj.Message = err.Error()
			return utils.ResponseError(errObj, ctx)
		}
		ctx.Locals(authKey, &claim.Metadata)
		return ctx.Next()
	}
}

// GetUser returns the authenticated caller. Only valid behind VerifyBearer.
func GetUser(ctx *fiber.Ctx) *token.Metadata {
	meta, ok := ctx.Locals(authKey).(*token.Metadata)
	if !ok {
		return &token.Metadata{}
	}
	return meta
}

func RequireAccount() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if GetUser(ctx).AccountID == "" {
			errObj := httpError.NewForbidden()
			errObj.Message = "account token required"
			return utils.ResponseError(errObj, ctx)
		}
		return ctx.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUser(ctx).IsAdmin {
			errObj := httpError.NewForbidden()
			errObj.Message = "Admin only"
			return utils.ResponseError(errObj, ctx)
		}
		return ctx.Next()
	}
}
