package vip

import (
	"testing"
	"time"

	"wallet-service/src/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 5, 20, 14, 30, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func vipAccount(level int, start time.Time, lastProfit *time.Time) *entity.Account {
	return &entity.Account{
		ID:             "acc-1",
		VipLevel:       level,
		VipStartDate:   ptr(start),
		LastProfitDate: lastProfit,
	}
}

func countProfit(a *entity.Account) int {
	n := 0
	for _, tx := range a.Ledger {
		if tx.Kind == entity.TxVipProfit {
			n++
		}
	}
	return n
}

func TestSettle_DailyAccrualScenario(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	a := vipAccount(3, today.AddDate(0, 0, -5), ptr(today.AddDate(0, 0, -1)))

	res, err := engine.Settle(a, today)
	require.NoError(t, err)

	assert.True(t, res.ProfitPosted)
	assert.False(t, res.CycleCompleted)
	assert.Equal(t, int64(10000), a.Balance)
	assert.Equal(t, int64(10000), a.TotalEarnings)
	require.Len(t, a.Ledger, 1)
	tx := a.Ledger[0]
	assert.Equal(t, entity.TxVipProfit, tx.Kind)
	assert.Equal(t, entity.TxCompleted, tx.Status)
	assert.Equal(t, 6, tx.Detail.DayIndex)
	assert.Equal(t, 3, tx.Detail.VipLevel)
	assert.Equal(t, today, *a.LastProfitDate)
	assert.True(t, a.Consistent())
}

func TestSettle_IdempotentWithinCalendarDay(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	a := vipAccount(1, today.AddDate(0, 0, -3), nil)

	for i := 0; i < 5; i++ {
		_, err := engine.Settle(a, today.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, countProfit(a))
	assert.Equal(t, int64(1800), a.Balance)
}

func TestSettle_CalendarDayNotRollingWindow(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	lastProfit := time.Date(2026, 5, 10, 23, 50, 0, 0, time.UTC)
	a := vipAccount(2, start, ptr(lastProfit))

	res, err := engine.Settle(a, time.Date(2026, 5, 11, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, res.ProfitPosted, "a new calendar day is due even 15 minutes later")
	assert.Equal(t, int64(6000), a.Balance)
}

func TestSettle_LocationDecidesDayBoundary(t *testing.T) {
	kampala := time.FixedZone("EAT", 3*3600)
	engine := NewEngine(MustDefaultCatalog(), kampala)
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	lastProfit := time.Date(2026, 5, 10, 19, 0, 0, 0, time.UTC) // 22:00 EAT on the 10th

	a := vipAccount(1, start, ptr(lastProfit))
	res, err := engine.Settle(a, time.Date(2026, 5, 10, 21, 30, 0, 0, time.UTC)) // 00:30 EAT on the 11th
	require.NoError(t, err)
	assert.True(t, res.ProfitPosted)

	b := vipAccount(1, start, ptr(lastProfit))
	utc := NewEngine(MustDefaultCatalog(), time.UTC)
	res, err = utc.Settle(b, time.Date(2026, 5, 10, 21, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, res.ProfitPosted)
}

func TestSettle_FallsBackToStartDate(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	a := vipAccount(1, today.Add(-2*time.Hour), nil)

	res, err := engine.Settle(a, today)
	require.NoError(t, err)
	assert.False(t, res.ProfitPosted, "no profit on the activation day")

	res, err = engine.Settle(a, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, res.ProfitPosted)
	assert.Equal(t, 2, a.Ledger[0].Detail.DayIndex)
}

func TestSettle_CycleTermination(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)

	for _, last := range []*time.Time{nil, ptr(today.AddDate(0, 0, -1)), ptr(today.AddDate(0, 0, -30))} {
		a := vipAccount(5, today.AddDate(0, 0, -60), last)
		a.Balance = 777

		res, err := engine.Settle(a, today)
		require.NoError(t, err)

		assert.True(t, res.CycleCompleted)
		assert.False(t, res.ProfitPosted)
		assert.Equal(t, 0, a.VipLevel)
		assert.Nil(t, a.VipStartDate)
		assert.Equal(t, int64(777), a.Balance)
		assert.Empty(t, a.Ledger)

		res, err = engine.Settle(a, today.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.Empty(t, a.Ledger)
	}
}

func TestSettle_LastDayOfCycleStillAccrues(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	a := vipAccount(1, today.AddDate(0, 0, -59), ptr(today.AddDate(0, 0, -1)))

	res, err := engine.Settle(a, today)
	require.NoError(t, err)
	assert.True(t, res.ProfitPosted)
	assert.Equal(t, 60, a.Ledger[0].Detail.DayIndex)
}

func TestSettle_NoVipIsNoop(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)

	a := &entity.Account{ID: "a", Balance: 5}
	res, err := engine.Settle(a, today)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	b := &entity.Account{ID: "b", VipLevel: 2}
	res, err = engine.Settle(b, today)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, 2, b.VipLevel)
}

func TestSettle_UnknownLevelIsInvariantViolation(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	a := vipAccount(11, today.AddDate(0, 0, -1), nil)

	_, err := engine.Settle(a, today)
	assert.ErrorIs(t, err, entity.ErrInvariant)
	assert.Empty(t, a.Ledger)
}

func TestActivate(t *testing.T) {
	engine := NewEngine(MustDefaultCatalog(), time.UTC)
	a := vipAccount(2, today.AddDate(0, 0, -10), ptr(today.AddDate(0, 0, -1)))

	require.NoError(t, engine.Activate(a, 4, today))
	assert.Equal(t, 4, a.VipLevel)
	assert.Equal(t, today, *a.VipStartDate)
	assert.Nil(t, a.LastProfitDate)
	assert.Equal(t, int64(13000), engine.DailyProfit(a))
	assert.Equal(t, today.AddDate(0, 0, 60), *engine.CycleEnd(a))

	assert.ErrorIs(t, engine.Activate(a, 0, today), entity.ErrValidation)
}

func TestNewCatalog(t *testing.T) {
	c := MustDefaultCatalog()
	assert.Equal(t, 10, c.Size())
	l, ok := c.Lookup(10)
	require.True(t, ok)
	assert.Equal(t, int64(2000000), l.Price)
	_, ok = c.Lookup(0)
	assert.False(t, ok)

	levels := c.Levels()
	levels[0].Price = 1
	l, _ = c.Lookup(1)
	assert.Equal(t, int64(10000), l.Price)

	_, err := NewCatalog([]Level{{Level: 1, Price: 1, DailyProfit: 1}, {Level: 3, Price: 1, DailyProfit: 1}})
	assert.Error(t, err)
	_, err = NewCatalog([]Level{{Level: 1, Price: 0, DailyProfit: 1}})
	assert.Error(t, err)
	_, err = NewCatalog(nil)
	assert.Error(t, err)

	custom, err := NewCatalog([]Level{{Level: 1, Price: 5, DailyProfit: 1}})
	require.NoError(t, err)
	l, _ = custom.Lookup(1)
	assert.Equal(t, DefaultCycleDays, l.CycleDays)
}
