package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	"wallet-service/src/internal/vip"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/metrics"
	redisPkg "wallet-service/src/pkg/redis"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
)

// TypeVipSettleSweep is the asynq task that settles every active VIP.
const TypeVipSettleSweep = "vip:settle-sweep"

// Enqueuer is the part of asynq.Client the sweep trigger needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type VipUseCase struct {
	Log      log.Log
	Validate *validator.Validate
	unit
	Engine   *vip.Engine
	Producer *messaging.AccountProducer
	Enqueuer Enqueuer
	Now      func() time.Time
}

func NewVipUseCase(
	logger log.Log,
	validate *validator.Validate,
	accountRepository repository.AccountRepository,
	locker redisPkg.Locker,
	engine *vip.Engine,
	producer *messaging.AccountProducer,
) *VipUseCase {
	return &VipUseCase{
		Log:      logger,
		Validate: validate,
		unit:     unit{Repository: accountRepository, Locker: locker},
		Engine:   engine,
		Producer: producer,
		Now:      time.Now,
	}
}

func (c *VipUseCase) Settle(ctx context.Context, request *model.SettleRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("VipUseCase.Settle-validation", err.Error(), "request", utils.ConvertString(request))
		result.Error = toHttpError(err)
		return result
	}

	account, res, err := c.settle(ctx, request.AccountID)
	if err != nil {
		c.Log.Error("VipUseCase.Settle", err.Error(), "settle", request.AccountID)
		result.Error = toHttpError(err)
		return result
	}

	response := &model.SettleResponse{
		Account:        converter.AccountToResponse(account, c.Engine),
		CycleCompleted: res.CycleCompleted,
		ProfitPosted:   res.ProfitPosted,
	}
	if res.Transaction != nil {
		response.Amount = res.Transaction.Amount
		response.DayIndex = res.Transaction.Detail.DayIndex
	}
	result.Data = response
	return result
}

// settle runs the lifecycle engine for one account under its lock and
// persists the account only if something changed.
func (c *VipUseCase) settle(ctx context.Context, accountID string) (*entity.Account, vip.Result, error) {
	release, err := c.lock(ctx, "vip-settle", accountID)
	if err != nil {
		return nil, vip.Result{}, err
	}
	defer release()

	account, err := c.Repository.Load(ctx, accountID)
	if err != nil {
		return nil, vip.Result{}, err
	}

	now := c.Now()
	res, err := c.Engine.Settle(account, now)
	if err != nil {
		return nil, vip.Result{}, err
	}
	if !res.CycleCompleted && !res.ProfitPosted {
		return account, res, nil
	}
	if err := c.save(ctx, "vip-settle", account); err != nil {
		return nil, vip.Result{}, err
	}

	c.record(accountID, res, now)
	return account, res, nil
}

func (c *VipUseCase) record(accountID string, res vip.Result, now time.Time) {
	switch {
	case res.CycleCompleted:
		metrics.VipCycleCompleted.Inc()
		c.Log.Info("VipUseCase", "vip cycle completed", accountID, strconv.Itoa(res.Level))
	case res.ProfitPosted:
		metrics.VipProfitPosted.WithLabelValues(strconv.Itoa(res.Level)).Inc()
	}
	if err := c.Producer.SendVip(converter.SettleToEvent(accountID, res, now)); err != nil {
		c.Log.Error("VipUseCase", fmt.Sprintf("failed publish vip event: %v", err), accountID, "")
	}
}

// SettleAll settles every account with a running cycle. Failures are
// counted and logged; one bad account does not stop the sweep.
func (c *VipUseCase) SettleAll(ctx context.Context) (model.SweepResponse, error) {
	var summary model.SweepResponse

	ids, err := c.Repository.ListActiveVipIDs(ctx)
	if err != nil {
		return summary, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++
		_, res, err := c.settle(ctx, id)
		if err != nil {
			summary.Failed++
			c.Log.Error("VipUseCase.SettleAll", err.Error(), id, string(entity.KindOf(err)))
			continue
		}
		if res.ProfitPosted {
			summary.ProfitPosted++
		}
		if res.CycleCompleted {
			summary.CycleCompleted++
		}
	}
	return summary, nil
}

func (c *VipUseCase) HandleSettleTask(ctx context.Context, t *asynq.Task) error {
	start := time.Now()
	summary, err := c.SettleAll(ctx)
	if err != nil {
		c.Log.Error("VipUseCase.HandleSettleTask", err.Error(), t.Type(), utils.ConvertString(summary))
		return err
	}
	c.Log.Info("VipUseCase.HandleSettleTask", "settle sweep finished", t.Type(), utils.ConvertString(summary))
	if elapsed := time.Since(start); elapsed > time.Minute {
		c.Log.Slow("VipUseCase.HandleSettleTask", "settle sweep is slow", t.Type(), elapsed.String())
	}
	return nil
}

// TriggerSweep queues a sweep, or runs it inline when no queue is
// configured.
func (c *VipUseCase) TriggerSweep(ctx context.Context) utils.Result {
	var result utils.Result

	if c.Enqueuer == nil {
		summary, err := c.SettleAll(ctx)
		if err != nil {
			c.Log.Error("VipUseCase.TriggerSweep", err.Error(), "inline", "")
			result.Error = toHttpError(err)
			return result
		}
		result.Data = summary
		return result
	}

	info, err := c.Enqueuer.EnqueueContext(ctx, asynq.NewTask(TypeVipSettleSweep, nil),
		asynq.MaxRetry(3), asynq.Timeout(30*time.Minute), asynq.Unique(time.Minute))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		errObj := httpError.NewConflict()
		errObj.Message = "a settle sweep is already queued"
		result.Error = errObj
		return result
	}
	if err != nil {
		c.Log.Error("VipUseCase.TriggerSweep", err.Error(), "enqueue", TypeVipSettleSweep)
		result.Error = toHttpError(err)
		return result
	}
	result.Data = map[string]string{"taskId": info.ID, "queue": info.Queue}
	return result
}

func (c *VipUseCase) Levels() utils.Result {
	return utils.Result{Data: c.Engine.Catalog.Levels()}
}
