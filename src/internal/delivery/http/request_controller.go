package http

import (
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type RequestController struct {
	Log     log.Log
	UseCase *usecase.RequestUseCase
}

func NewRequestController(useCase *usecase.RequestUseCase, logger log.Log) *RequestController {
	return &RequestController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *RequestController) SubmitRecharge(ctx *fiber.Ctx) error {
	request := new(model.SubmitRechargeRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RequestController.SubmitRecharge", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.AccountID = middleware.GetUser(ctx).AccountID
	result := c.UseCase.SubmitRecharge(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Recharge request submitted", fiber.StatusCreated, ctx)
}

func (c *RequestController) SubmitWithdrawal(ctx *fiber.Ctx) error {
	request := new(model.SubmitWithdrawalRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RequestController.SubmitWithdrawal", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.AccountID = middleware.GetUser(ctx).AccountID
	result := c.UseCase.SubmitWithdrawal(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal request submitted", fiber.StatusCreated, ctx)
}

func (c *RequestController) SubmitVip(ctx *fiber.Ctx) error {
	request := new(model.SubmitVipRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RequestController.SubmitVip", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	request.AccountID = middleware.GetUser(ctx).AccountID
	result := c.UseCase.SubmitVip(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "VIP request submitted", fiber.StatusCreated, ctx)
}

func (c *RequestController) ListPending(ctx *fiber.Ctx) error {
	request := new(model.ListPendingRequest)
	if err := ctx.QueryParser(request); err != nil {
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.ListPending(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Pending requests", fiber.StatusOK, ctx)
}

func (c *RequestController) Resolve(ctx *fiber.Ctx) error {
	request := new(model.ResolveRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RequestController.Resolve", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.Resolve(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Request "+request.Action+"d", fiber.StatusOK, ctx)
}
