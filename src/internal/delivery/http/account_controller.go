package http

import (
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	httpError "wallet-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

type AccountController struct {
	Log     log.Log
	UseCase *usecase.AccountUseCase
}

func NewAccountController(useCase *usecase.AccountUseCase, logger log.Log) *AccountController {
	return &AccountController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *AccountController) Register(ctx *fiber.Ctx) error {
	request := new(model.RegisterRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AccountController.Register", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.Register(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Account registered", fiber.StatusCreated, ctx)
}

func (c *AccountController) Login(ctx *fiber.Ctx) error {
	request := new(model.LoginRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AccountController.Login", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.Login(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Login success", fiber.StatusOK, ctx)
}

func (c *AccountController) GetProfile(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.GetProfileRequest{AccountID: auth.AccountID}
	result := c.UseCase.GetProfile(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Get profile", fiber.StatusOK, ctx)
}

func badBody(err error) error {
	errObj := httpError.NewBadRequest()
	errObj.Message = "invalid request body"
	errObj.Reason = err.Error()
	return errObj
}
