package analytics

import (
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// Session boundaries by close hour in the engine location.
const (
	londonOpenHour  = 8
	newYorkOpenHour = 16
)

type bucket struct {
	pnl   decimal.Decimal
	count int
	wins  int
}

func (b *bucket) add(p decimal.Decimal) {
	b.pnl = b.pnl.Add(p)
	b.count++
	if p.IsPositive() {
		b.wins++
	}
}

func (b *bucket) stat() domain.BucketStat {
	return domain.BucketStat{
		PnL:        round2(b.pnl),
		TradeCount: b.count,
		WinCount:   b.wins,
		WinRate:    ratio(b.wins, b.count),
	}
}

// TimeAnalysis buckets closed trades by close hour, ISO weekday and session.
// All 24 hours and all 7 weekdays are always present.
func (e *Engine) TimeAnalysis(trades []*domain.Trade) *domain.TimeAnalysis {
	var hours [24]bucket
	var days [7]bucket
	var asia, london, newYork bucket

	for _, t := range closedTrades(trades) {
		closedAt := e.local(t.EffectiveTime())
		p := t.ProfitOrZero()
		h := closedAt.Hour()

		hours[h].add(p)
		days[isoWeekday(closedAt.Weekday())-1].add(p)

		switch {
		case h < londonOpenHour:
			asia.add(p)
		case h < newYorkOpenHour:
			london.add(p)
		default:
			newYork.add(p)
		}
	}

	ta := &domain.TimeAnalysis{
		HourlyPnL:    make([]domain.HourlyPnL, 0, len(hours)),
		DayOfWeekPnL: make([]domain.DayOfWeekPnL, 0, len(days)),
		SessionStats: domain.SessionStats{
			Asia:    asia.stat(),
			London:  london.stat(),
			NewYork: newYork.stat(),
		},
	}
	for h := range hours {
		ta.HourlyPnL = append(ta.HourlyPnL, domain.HourlyPnL{Hour: h, BucketStat: hours[h].stat()})
	}
	for d := range days {
		ta.DayOfWeekPnL = append(ta.DayOfWeekPnL, domain.DayOfWeekPnL{DayOfWeek: d + 1, BucketStat: days[d].stat()})
	}
	return ta
}
