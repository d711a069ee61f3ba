package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// round2 rounds money half-to-even to cents.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// roundPercent rounds a display percentage to two places.
func roundPercent(x float64) float64 {
	return math.Round(x*100) / 100
}

// ratio returns n/d, or 0 when d is 0.
func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func closedTrades(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t != nil && !t.IsOpen() {
			out = append(out, t)
		}
	}
	return out
}

func openTrades(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, 0)
	for _, t := range trades {
		if t != nil && t.IsOpen() {
			out = append(out, t)
		}
	}
	return out
}

// chronological returns a copy of trades sorted oldest first by effective time.
// Ties fall back to open time and then ID so the order is deterministic.
func chronological(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return earlier(out[i], out[j])
	})
	return out
}

// newestFirst returns a copy of trades sorted by effective time descending.
func newestFirst(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return earlier(out[j], out[i])
	})
	return out
}

func earlier(a, b *domain.Trade) bool {
	ea, eb := a.EffectiveTime(), b.EffectiveTime()
	if !ea.Equal(eb) {
		return ea.Before(eb)
	}
	if !a.OpenTime.Equal(b.OpenTime) {
		return a.OpenTime.Before(b.OpenTime)
	}
	return a.ID.String() < b.ID.String()
}

func reversed(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, len(trades))
	for i, t := range trades {
		out[len(trades)-1-i] = t
	}
	return out
}

func isLoss(t *domain.Trade) bool {
	return t.ProfitOrZero().IsNegative()
}

// longestLossRun is the longest run of consecutive losing trades in seq.
// The summary and risk views both rely on it so their streak figures agree.
func longestLossRun(seq []*domain.Trade) int {
	longest, run := 0, 0
	for _, t := range seq {
		if isLoss(t) {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}

// leadingLossRun counts losses from the start of seq until the first non-loss.
func leadingLossRun(seq []*domain.Trade) int {
	n := 0
	for _, t := range seq {
		if !isLoss(t) {
			break
		}
		n++
	}
	return n
}

// maxDrawdown walks chrono (oldest first) from start and returns the largest
// peak-to-trough decline of running equity.
func maxDrawdown(start decimal.Decimal, chrono []*domain.Trade) decimal.Decimal {
	running, peak, maxDD := start, start, decimal.Zero
	for _, t := range chrono {
		running = running.Add(t.ProfitOrZero())
		if running.GreaterThan(peak) {
			peak = running
		}
		if dd := peak.Sub(running); dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	return maxDD
}

// isoWeekday maps time.Weekday (Sunday=0) to ISO numbering (Monday=1 ... Sunday=7).
func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
