package converter

import (
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/referral"
	"wallet-service/src/internal/vip"

	"github.com/google/uuid"
)

func AccountToRegisteredEvent(account *entity.Account) *model.AccountRegisteredEvent {
	return &model.AccountRegisteredEvent{
		EventID:    uuid.NewString(),
		AccountID:  account.ID,
		Username:   account.Username,
		ReferredBy: account.ReferredBy,
		OccurredAt: account.CreatedAt,
	}
}

// SettleToEvent returns nil when the settle changed nothing.
func SettleToEvent(accountID string, res vip.Result, now time.Time) *model.VipEvent {
	event := &model.VipEvent{
		EventID:    uuid.NewString(),
		AccountID:  accountID,
		Level:      res.Level,
		OccurredAt: now,
	}
	switch {
	case res.CycleCompleted:
		event.Type = model.VipEventCycleCompleted
	case res.ProfitPosted && res.Transaction != nil:
		event.Type = model.VipEventProfitPosted
		event.Amount = res.Transaction.Amount
		event.DayIndex = res.Transaction.Detail.DayIndex
	default:
		return nil
	}
	return event
}

func ActivationToEvent(account *entity.Account, now time.Time) *model.VipEvent {
	return &model.VipEvent{
		EventID:    uuid.NewString(),
		AccountID:  account.ID,
		Type:       model.VipEventActivated,
		Level:      account.VipLevel,
		OccurredAt: now,
	}
}

func RequestToEvent(req entity.Request, now time.Time) *model.RequestEvent {
	return &model.RequestEvent{
		EventID:    uuid.NewString(),
		AccountID:  req.AccountID,
		RequestID:  req.ID,
		Kind:       string(req.Kind),
		Status:     string(req.Status),
		Amount:     req.Amount,
		Level:      req.Level,
		OccurredAt: now,
	}
}

// ReferralToEvent returns nil when no bonus was posted.
func ReferralToEvent(out referral.Outcome, referredID, trigger string, now time.Time) *model.ReferralEvent {
	if !out.Posted {
		return nil
	}
	return &model.ReferralEvent{
		EventID:    uuid.NewString(),
		InviterID:  out.InviterID,
		ReferredID: referredID,
		Trigger:    trigger,
		Amount:     out.Amount,
		OccurredAt: now,
	}
}
