package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	"wallet-service/src/internal/workflow"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/metrics"
	redisPkg "wallet-service/src/pkg/redis"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type RequestUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	unit
	Workflow *workflow.Workflow
	Producer *messaging.AccountProducer
	Now      func() time.Time
}

func NewRequestUseCase(
	logger log.Log,
	validate *validator.Validate,
	accountRepository repository.AccountRepository,
	locker redisPkg.Locker,
	wf *workflow.Workflow,
	producer *messaging.AccountProducer,
) *RequestUseCase {
	return &RequestUseCase{
		Log:      logger,
		Validate: validate,
		unit:     unit{Repository: accountRepository, Locker: locker},
		Workflow: wf,
		Producer: producer,
		Now:      time.Now,
	}
}

func (c *RequestUseCase) SubmitRecharge(ctx context.Context, request *model.SubmitRechargeRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("RequestUseCase.SubmitRecharge-validation", err.Error(), "request", utils.ConvertString(request))
		return utils.Result{Error: toHttpError(err)}
	}
	return c.submit(ctx, request.AccountID, workflow.Submission{
		Kind:   entity.RequestRecharge,
		Amount: request.Amount,
		Detail: entity.Detail{
			Description:      "Recharge request",
			Network:          request.Network,
			MobileNumber:     request.MobileNumber,
			PaymentReference: request.PaymentReference,
		},
	})
}

func (c *RequestUseCase) SubmitWithdrawal(ctx context.Context, request *model.SubmitWithdrawalRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("RequestUseCase.SubmitWithdrawal-validation", err.Error(), "request", utils.ConvertString(request))
		return utils.Result{Error: toHttpError(err)}
	}
	return c.submit(ctx, request.AccountID, workflow.Submission{
		Kind:   entity.RequestWithdrawal,
		Amount: request.Amount,
		Detail: entity.Detail{
			Description:  "Withdrawal request",
			Network:      request.Network,
			MobileNumber: request.MobileNumber,
		},
	})
}

func (c *RequestUseCase) SubmitVip(ctx context.Context, request *model.SubmitVipRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("RequestUseCase.SubmitVip-validation", err.Error(), "request", utils.ConvertString(request))
		return utils.Result{Error: toHttpError(err)}
	}
	return c.submit(ctx, request.AccountID, workflow.Submission{
		Kind:   entity.RequestVip,
		Level:  request.Level,
		Detail: entity.Detail{Description: fmt.Sprintf("VIP %d purchase", request.Level)},
	})
}

// submit settles any due VIP profit first so the balance check sees it.
func (c *RequestUseCase) submit(ctx context.Context, accountID string, submission workflow.Submission) utils.Result {
	var result utils.Result

	release, err := c.lock(ctx, "request-submit", accountID)
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}
	defer release()

	account, err := c.Repository.Load(ctx, accountID)
	if err != nil {
		c.Log.Error("RequestUseCase.submit", err.Error(), "load", accountID)
		result.Error = toHttpError(err)
		return result
	}

	now := c.Now()
	if _, err := c.Workflow.Vip.Settle(account, now); err != nil {
		c.Log.Error("RequestUseCase.submit", err.Error(), "settle", accountID)
		result.Error = toHttpError(err)
		return result
	}
	req, err := c.Workflow.Submit(account, submission, now)
	if err != nil {
		c.Log.Info("RequestUseCase.submit", err.Error(), string(submission.Kind), accountID)
		result.Error = toHttpError(err)
		return result
	}
	if err := c.save(ctx, "request-submit", account); err != nil {
		c.Log.Error("RequestUseCase.submit", err.Error(), "save", accountID)
		result.Error = toHttpError(err)
		return result
	}

	metrics.RequestsSubmitted.WithLabelValues(string(req.Kind)).Inc()
	c.Log.Info("RequestUseCase.submit", "request submitted", string(req.Kind), utils.ConvertString(req))
	result.Data = req
	return result
}

// Resolve approves or rejects a pending request. The inviter is locked and
// loaded alongside the account only when a first recharge approval may owe
// them a bonus.
func (c *RequestUseCase) Resolve(ctx context.Context, request *model.ResolveRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("RequestUseCase.Resolve-validation", err.Error(), "request", utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}

	peek, err := c.Repository.Load(ctx, request.AccountID)
	if err != nil {
		c.Log.Error("RequestUseCase.Resolve", err.Error(), "load", request.AccountID)
		result.Error = toHttpError(err)
		return result
	}
	inviterID := ""
	if needsInviter(peek, request.RequestID, workflow.Action(request.Action)) {
		inviterID = peek.ReferredBy
	}

	release, err := c.lock(ctx, "request-resolve", request.AccountID, inviterID)
	if err != nil {
		result.Error = toHttpError(err)
		return result
	}
	defer release()

	account, err := c.Repository.Load(ctx, request.AccountID)
	if err != nil {
		c.Log.Error("RequestUseCase.Resolve", err.Error(), "load", request.AccountID)
		result.Error = toHttpError(err)
		return result
	}
	var inviter *entity.Account
	if inviterID != "" {
		inviter, err = c.Repository.Load(ctx, inviterID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			c.Log.Error("RequestUseCase.Resolve", err.Error(), "load-inviter", inviterID)
			result.Error = toHttpError(err)
			return result
		}
	}

	now := c.Now()
	if _, err := c.Workflow.Vip.Settle(account, now); err != nil {
		c.Log.Error("RequestUseCase.Resolve", err.Error(), "settle", request.AccountID)
		result.Error = toHttpError(err)
		return result
	}
	res, err := c.Workflow.Resolve(account, inviter, request.RequestID, workflow.Action(request.Action), now)
	if err != nil {
		c.Log.Info("RequestUseCase.Resolve", err.Error(), request.Action, utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}

	toSave := []*entity.Account{account}
	if res.Referral.Posted {
		toSave = append(toSave, inviter)
	}
	if err := c.save(ctx, "request-resolve", toSave...); err != nil {
		c.Log.Error("RequestUseCase.Resolve", err.Error(), "save", request.AccountID)
		result.Error = toHttpError(err)
		return result
	}

	c.record(account, res, now)
	result.Data = &model.ResolveResponse{
		Request:       res.Request,
		Account:       converter.AccountToResponse(account, c.Workflow.Vip),
		ReferralBonus: res.Referral.Amount,
	}
	return result
}

func needsInviter(account *entity.Account, requestID string, action workflow.Action) bool {
	if action != workflow.ActionApprove || account.ReferredBy == "" || account.HasFirstRechargeBonus {
		return false
	}
	req, err := account.FindRequest(requestID)
	return err == nil && req.Kind == entity.RequestRecharge
}

func (c *RequestUseCase) record(account *entity.Account, res workflow.Resolution, now time.Time) {
	req := res.Request
	metrics.RequestsResolved.WithLabelValues(string(req.Kind), string(req.Status)).Inc()
	c.Log.Info("RequestUseCase.Resolve", "request resolved", string(req.Status), utils.ConvertString(req))

	if err := c.Producer.SendRequestResolved(converter.RequestToEvent(req, now)); err != nil {
		c.Log.Error("RequestUseCase.Resolve", fmt.Sprintf("failed publish request event: %v", err), req.ID, "")
	}
	if res.Referral.Posted {
		metrics.ReferralBonusPosted.WithLabelValues(model.ReferralTriggerFirstRecharge).Add(float64(res.Referral.Amount))
		event := converter.ReferralToEvent(res.Referral, account.ID, model.ReferralTriggerFirstRecharge, now)
		if err := c.Producer.SendReferralBonus(event); err != nil {
			c.Log.Error("RequestUseCase.Resolve", fmt.Sprintf("failed publish referral event: %v", err), req.ID, "")
		}
	}
	if req.Kind == entity.RequestVip && req.Status == entity.RequestApproved {
		if err := c.Producer.SendVip(converter.ActivationToEvent(account, now)); err != nil {
			c.Log.Error("RequestUseCase.Resolve", fmt.Sprintf("failed publish vip event: %v", err), req.ID, "")
		}
	}
}

func (c *RequestUseCase) ListPending(ctx context.Context, request *model.ListPendingRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("RequestUseCase.ListPending-validation", err.Error(), "request", utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}

	requests, err := c.Repository.ListPending(ctx, entity.RequestKind(request.Kind))
	if err != nil {
		c.Log.Error("RequestUseCase.ListPending", err.Error(), "list", request.Kind)
		result.Error = toHttpError(err)
		return result
	}

	response := make([]model.PendingRequestResponse, 0, len(requests))
	for _, req := range requests {
		response = append(response, model.PendingRequestResponse{AccountID: req.AccountID, Request: req})
	}
	result.Data = response
	return result
}
