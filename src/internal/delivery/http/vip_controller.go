package http

import (
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type VipController struct {
	Log     log.Log
	UseCase *usecase.VipUseCase
}

func NewVipController(useCase *usecase.VipUseCase, logger log.Log) *VipController {
	return &VipController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *VipController) Levels(ctx *fiber.Ctx) error {
	result := c.UseCase.Levels()
	return utils.Response(result.Data, "VIP levels", fiber.StatusOK, ctx)
}

// Settle runs the daily settle for the caller.
func (c *VipController) Settle(ctx *fiber.Ctx) error {
	request := &model.SettleRequest{AccountID: middleware.GetUser(ctx).AccountID}
	result := c.UseCase.Settle(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Settled", fiber.StatusOK, ctx)
}

// SettleAccount is the admin variant addressed by path id.
func (c *VipController) SettleAccount(ctx *fiber.Ctx) error {
	request := &model.SettleRequest{AccountID: ctx.Params("id")}
	result := c.UseCase.Settle(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Settled", fiber.StatusOK, ctx)
}

func (c *VipController) TriggerSweep(ctx *fiber.Ctx) error {
	result := c.UseCase.TriggerSweep(ctx.UserContext())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Sweep triggered", fiber.StatusAccepted, ctx)
}
