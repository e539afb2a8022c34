package vip

import (
	"time"

	"wallet-service/src/internal/entity"
)

const day = 24 * time.Hour

type Engine struct {
	Catalog *Catalog
	// Location decides where a calendar day starts. Defaults to UTC.
	Location *time.Location
}

func NewEngine(catalog *Catalog, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{Catalog: catalog, Location: loc}
}

// Result describes the single mutation Settle applied, if any.
type Result struct {
	CycleCompleted bool                `json:"cycleCompleted"`
	ProfitPosted   bool                `json:"profitPosted"`
	DaysElapsed    int                 `json:"daysElapsed"`
	Level          int                 `json:"level,omitempty"`
	Transaction    *entity.Transaction `json:"transaction,omitempty"`
}

// Settle evaluates the account at now and applies at most one of: closing
// the cycle, or posting today's profit. Calling it again on the same
// calendar day after a posting changes nothing.
func (e *Engine) Settle(a *entity.Account, now time.Time) (Result, error) {
	if !a.IsVip() {
		return Result{}, nil
	}

	level, ok := e.Catalog.Lookup(a.VipLevel)
	if !ok {
		return Result{}, entity.NewInvariantError("account %s has vip level %d outside the catalog", a.ID, a.VipLevel)
	}

	elapsed := DaysElapsed(*a.VipStartDate, now)
	res := Result{DaysElapsed: elapsed, Level: a.VipLevel}

	if elapsed >= level.CycleDays {
		a.VipLevel = 0
		a.VipStartDate = nil
		a.UpdatedAt = now
		res.CycleCompleted = true
		return res, nil
	}

	last := *a.VipStartDate
	if a.LastProfitDate != nil {
		last = *a.LastProfitDate
	}
	if !e.calendarDay(now).After(e.calendarDay(last)) {
		return res, nil
	}

	tx := a.PostCompleted(entity.TxVipProfit, level.DailyProfit, entity.Detail{
		VipLevel:  level.Level,
		DayIndex:  elapsed + 1,
		CycleDays: level.CycleDays,
	}, now)
	a.TotalEarnings += level.DailyProfit
	profitAt := now
	a.LastProfitDate = &profitAt

	res.ProfitPosted = true
	res.Transaction = &tx
	return res, nil
}

// Activate starts a fresh cycle at level. Any running cycle is replaced.
func (e *Engine) Activate(a *entity.Account, level int, now time.Time) error {
	if _, ok := e.Catalog.Lookup(level); !ok {
		return entity.NewValidationError("vip level %d does not exist", level)
	}
	start := now
	a.VipLevel = level
	a.VipStartDate = &start
	a.LastProfitDate = nil
	a.UpdatedAt = now
	return nil
}

// DailyProfit is what the account currently earns per day.
func (e *Engine) DailyProfit(a *entity.Account) int64 {
	if !a.IsVip() {
		return 0
	}
	l, _ := e.Catalog.Lookup(a.VipLevel)
	return l.DailyProfit
}

// CycleEnd is the instant the running cycle terminates.
func (e *Engine) CycleEnd(a *entity.Account) *time.Time {
	if !a.IsVip() {
		return nil
	}
	l, ok := e.Catalog.Lookup(a.VipLevel)
	if !ok {
		return nil
	}
	end := a.VipStartDate.Add(time.Duration(l.CycleDays) * day)
	return &end
}

// DaysElapsed counts whole 24-hour periods since start. Never negative.
func DaysElapsed(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

func (e *Engine) calendarDay(t time.Time) time.Time {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
