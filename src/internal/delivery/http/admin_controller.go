package http

import (
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	Log     log.Log
	UseCase *usecase.AdminUseCase
}

func NewAdminController(useCase *usecase.AdminUseCase, logger log.Log) *AdminController {
	return &AdminController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *AdminController) Login(ctx *fiber.Ctx) error {
	request := new(model.AdminLoginRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.Login", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.Login(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Admin login success", fiber.StatusOK, ctx)
}

func (c *AdminController) ListAccounts(ctx *fiber.Ctx) error {
	request := new(model.ListAccountsRequest)
	if err := ctx.QueryParser(request); err != nil {
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.ListAccounts(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Accounts", fiber.StatusOK, ctx)
}

func (c *AdminController) Stats(ctx *fiber.Ctx) error {
	result := c.UseCase.Stats(ctx.UserContext())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Stats", fiber.StatusOK, ctx)
}
