package usecase

import (
	"context"
	"errors"
	"fmt"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/metrics"
	redisPkg "wallet-service/src/pkg/redis"

	"github.com/go-playground/validator/v10"
)

const lockPrefix = "account:"

// unit is the lock -> load -> mutate -> save cycle every write goes through.
type unit struct {
	Repository repository.AccountRepository
	Locker     redisPkg.Locker
}

func lockKeys(ids ...string) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			keys = append(keys, lockPrefix+id)
		}
	}
	return keys
}

func (u unit) lock(ctx context.Context, operation string, ids ...string) (func(), error) {
	release, err := u.Locker.Lock(ctx, lockKeys(ids...)...)
	if err != nil {
		if errors.Is(err, redisPkg.ErrLockNotAcquired) {
			metrics.ConcurrencyConflicts.WithLabelValues(operation).Inc()
			return nil, entity.NewConcurrencyConflictError("account is busy, try again")
		}
		return nil, err
	}
	return release, nil
}

func (u unit) save(ctx context.Context, operation string, accounts ...*entity.Account) error {
	err := u.Repository.Save(ctx, accounts...)
	if errors.Is(err, entity.ErrConcurrencyConflict) {
		metrics.ConcurrencyConflicts.WithLabelValues(operation).Inc()
	}
	return err
}

// toHttpError maps domain errors onto the http-error objects. Anything that
// is not a user mistake becomes a 500 without leaking the cause.
func toHttpError(err error) error {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		errObj.Reason = string(entity.KindValidation)
		return errObj
	}
	if errors.Is(err, repository.ErrDuplicate) {
		errObj := httpError.NewConflict()
		errObj.Message = "email or referral code already in use"
		errObj.Reason = string(entity.KindValidation)
		return errObj
	}

	kind := entity.KindOf(err)
	switch kind {
	case entity.KindValidation:
		errObj := httpError.NewBadRequest()
		errObj.Message = err.Error()
		errObj.Reason = string(kind)
		return errObj
	case entity.KindInsufficientBalance:
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = err.Error()
		errObj.Reason = string(kind)
		return errObj
	case entity.KindNotFound:
		errObj := httpError.NewNotFound()
		errObj.Message = err.Error()
		errObj.Reason = string(kind)
		return errObj
	case entity.KindAlreadyResolved, entity.KindConcurrencyConflict:
		errObj := httpError.NewConflict()
		errObj.Message = err.Error()
		errObj.Reason = string(kind)
		return errObj
	}

	errObj := httpError.NewInternalServerError()
	if kind == entity.KindInvariant {
		errObj.Reason = string(kind)
	}
	return errObj
}
