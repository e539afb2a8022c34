package route

import (
	"wallet-service/src/internal/delivery/http"
	"wallet-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteConfig struct {
	App               *fiber.App
	AccountController *http.AccountController
	RequestController *http.RequestController
	VipController     *http.VipController
	AdminController   *http.AdminController
	AuthMiddleware    fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(cors.New())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	c.SetupGuestRoute()
	c.SetupAdminRoute()
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupGuestRoute() {
	c.App.Post("/api/signup", c.AccountController.Register)
	c.App.Post("/api/login", c.AccountController.Login)
	c.App.Post("/api/admin/login", c.AdminController.Login)
	c.App.Get("/api/vip/levels", c.VipController.Levels)
}

func (c *RouteConfig) SetupAuthRoute() {
	account := middleware.RequireAccount()
	api := c.App.Group("/api", c.AuthMiddleware)
	api.Get("/user", account, c.AccountController.GetProfile)
	api.Post("/recharge", account, c.RequestController.SubmitRecharge)
	api.Post("/withdraw", account, c.RequestController.SubmitWithdrawal)
	api.Post("/upgrade-vip", account, c.RequestController.SubmitVip)
	api.Post("/vip/settle", account, c.VipController.Settle)
}

// SetupAdminRoute runs before SetupAuthRoute so admin paths are not
// authenticated twice by the /api group.
func (c *RouteConfig) SetupAdminRoute() {
	admin := c.App.Group("/api/admin", c.AuthMiddleware, middleware.RequireAdmin())
	admin.Get("/users", c.AdminController.ListAccounts)
	admin.Get("/stats", c.AdminController.Stats)
	admin.Get("/requests", c.RequestController.ListPending)
	admin.Post("/approve", c.RequestController.Resolve)
	admin.Post("/accounts/:id/settle", c.VipController.SettleAccount)
	admin.Post("/vip/sweep", c.VipController.TriggerSweep)
}
