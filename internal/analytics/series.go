package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// PnlSeries sums profit of every trade (open trades carry floating P/L) per
// day or per ISO week, keyed by the day of the effective time. Weekly keys are
// the Monday of the week. Points are ascending by key.
func (e *Engine) PnlSeries(trades []*domain.Trade, b domain.PnlBucket) *domain.PnlSeries {
	if b != domain.BucketWeekly {
		b = domain.BucketDaily
	}

	sums := make(map[string]decimal.Decimal)
	for _, t := range trades {
		if t == nil {
			continue
		}
		day := e.local(t.EffectiveTime())
		if b == domain.BucketWeekly {
			day = weekStart(day)
		}
		key := day.Format("2006-01-02")
		sums[key] = sums[key].Add(t.ProfitOrZero())
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := &domain.PnlSeries{Bucket: b, Points: make([]domain.PnlPoint, 0, len(keys))}
	for _, k := range keys {
		series.Points = append(series.Points, domain.PnlPoint{DayISO: k, PnL: round2(sums[k])})
	}
	return series
}

// EquitySeries is the end-of-day equity curve over closed trades. The curve
// starts at the starting equity on the open day of the first trade.
func (e *Engine) EquitySeries(trades []*domain.Trade) *domain.EquitySeries {
	chrono := chronological(closedTrades(trades))
	series := &domain.EquitySeries{Points: make([]domain.EquityPoint, 0)}
	if len(chrono) == 0 {
		return series
	}

	byDay := make(map[string]decimal.Decimal)
	byDay[e.dayKey(chrono[0].OpenTime)] = e.cfg.StartingEquity

	running := e.cfg.StartingEquity
	for _, t := range chrono {
		running = running.Add(t.ProfitOrZero())
		byDay[e.dayKey(t.EffectiveTime())] = running
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		series.Points = append(series.Points, domain.EquityPoint{DayISO: k, Equity: round2(byDay[k])})
	}
	return series
}

// weekStart truncates t to midnight of the Monday of its ISO week.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -(isoWeekday(t.Weekday()) - 1))
}
