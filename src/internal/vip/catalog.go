// Package vip holds the VIP level catalog and the engine that accrues daily
// profit and closes finished cycles.
package vip

import (
	"fmt"
	"sort"
)

// DefaultCycleDays is the length of every VIP cycle.
const DefaultCycleDays = 60

type Level struct {
	Level       int   `json:"level" mapstructure:"level"`
	Price       int64 `json:"price" mapstructure:"price"`
	DailyProfit int64 `json:"dailyProfit" mapstructure:"daily_profit"`
	CycleDays   int   `json:"cycleDays" mapstructure:"cycle_days"`
}

// DefaultLevels is the production price list.
func DefaultLevels() []Level {
	return []Level{
		{Level: 1, Price: 10000, DailyProfit: 1800, CycleDays: DefaultCycleDays},
		{Level: 2, Price: 30000, DailyProfit: 6000, CycleDays: DefaultCycleDays},
		{Level: 3, Price: 50000, DailyProfit: 10000, CycleDays: DefaultCycleDays},
		{Level: 4, Price: 80000, DailyProfit: 13000, CycleDays: DefaultCycleDays},
		{Level: 5, Price: 120000, DailyProfit: 28000, CycleDays: DefaultCycleDays},
		{Level: 6, Price: 240000, DailyProfit: 60000, CycleDays: DefaultCycleDays},
		{Level: 7, Price: 300000, DailyProfit: 75000, CycleDays: DefaultCycleDays},
		{Level: 8, Price: 600000, DailyProfit: 150000, CycleDays: DefaultCycleDays},
		{Level: 9, Price: 1200000, DailyProfit: 400000, CycleDays: DefaultCycleDays},
		{Level: 10, Price: 2000000, DailyProfit: 600000, CycleDays: DefaultCycleDays},
	}
}

// Catalog is immutable once built. Level N is stored at index N-1 and
// nothing else indexes into it.
type Catalog struct {
	levels []Level
}

func NewCatalog(levels []Level) (*Catalog, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("vip catalog is empty")
	}
	sorted := make([]Level, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	for i, l := range sorted {
		if l.Level != i+1 {
			return nil, fmt.Errorf("vip catalog: levels must be contiguous from 1, got %d at position %d", l.Level, i+1)
		}
		if l.CycleDays == 0 {
			sorted[i].CycleDays = DefaultCycleDays
		}
		if l.Price <= 0 || l.DailyProfit <= 0 || sorted[i].CycleDays < 0 {
			return nil, fmt.Errorf("vip catalog: level %d has non-positive values", l.Level)
		}
	}
	return &Catalog{levels: sorted}, nil
}

// MustDefaultCatalog panics only if DefaultLevels is broken.
func MustDefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultLevels())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Lookup(level int) (Level, bool) {
	if level < 1 || level > len(c.levels) {
		return Level{}, false
	}
	return c.levels[level-1], true
}

func (c *Catalog) Levels() []Level {
	out := make([]Level, len(c.levels))
	copy(out, c.levels)
	return out
}

func (c *Catalog) Size() int {
	return len(c.levels)
}
