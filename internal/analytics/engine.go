package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// Config holds the constants the engine computes against.
type Config struct {
	StartingEquity     decimal.Decimal // Equity before the first trade
	DailyLossLimit     decimal.Decimal // A day losing more than this counts as a limit hit
	OvertradeThreshold int             // More closed trades than this in a day / 24h is overtrading
	RiskPerOpenTrade   decimal.Decimal // Percent of equity assumed at risk per open trade
	Location           *time.Location  // Calendar used for days, hours and weekdays
	Now                func() time.Time
}

// DefaultConfig returns the reference constants.
func DefaultConfig() Config {
	return Config{
		StartingEquity:     decimal.NewFromInt(10000),
		DailyLossLimit:     decimal.NewFromInt(500),
		OvertradeThreshold: 10,
		RiskPerOpenTrade:   decimal.NewFromInt(2),
		Location:           time.UTC,
		Now:                time.Now,
	}
}

// Engine computes analytics reports from immutable trade snapshots.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine; unset config fields fall back to DefaultConfig.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.StartingEquity.IsZero() {
		cfg.StartingEquity = def.StartingEquity
	}
	if cfg.DailyLossLimit.IsZero() {
		cfg.DailyLossLimit = def.DailyLossLimit
	}
	if cfg.OvertradeThreshold <= 0 {
		cfg.OvertradeThreshold = def.OvertradeThreshold
	}
	if cfg.RiskPerOpenTrade.IsZero() {
		cfg.RiskPerOpenTrade = def.RiskPerOpenTrade
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Report computes all five reports from a single snapshot.
// The date range only restricts the summary's closed trades.
func (e *Engine) Report(trades []*domain.Trade, rng domain.DateRange) *domain.AnalyticsReport {
	return &domain.AnalyticsReport{
		Summary:  e.Summary(trades, rng),
		Time:     e.TimeAnalysis(trades),
		Pairs:    e.PairAnalysis(trades),
		Behavior: e.BehaviorAnalysis(trades),
		Risk:     e.RiskAnalysis(trades),
	}
}

func (e *Engine) now() time.Time {
	return e.cfg.Now().In(e.cfg.Location)
}

func (e *Engine) local(t time.Time) time.Time {
	return t.In(e.cfg.Location)
}

// dayKey formats the calendar day of t as YYYY-MM-DD in the engine location.
func (e *Engine) dayKey(t time.Time) string {
	return e.local(t).Format("2006-01-02")
}

func (e *Engine) sameDay(a, b time.Time) bool {
	return e.dayKey(a) == e.dayKey(b)
}
