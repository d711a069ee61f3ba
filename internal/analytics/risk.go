package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// RiskAnalysis measures per-trade risk, exposure, loss runs and loss-limit breaches.
func (e *Engine) RiskAnalysis(trades []*domain.Trade) *domain.RiskAnalysis {
	chrono := chronological(closedTrades(trades))
	open := openTrades(trades)

	ra := &domain.RiskAnalysis{
		RiskPerTrade:          e.riskPerTrade(chrono),
		ExposureByPair:        exposureByPair(trades),
		ConsecutiveLosses:     longestLossRun(chrono),
		DailyLossLimitHitRate: e.dailyLossLimitHitRate(chrono),
		FloatingPnL:           decimal.Zero,
		OpenTrades:            len(open),
	}

	floating := decimal.Zero
	for _, t := range open {
		floating = floating.Add(t.ProfitOrZero())
	}
	ra.FloatingPnL = round2(floating)

	return ra
}

// riskPerTrade walks chrono from the starting equity. A trade taken while
// equity is not positive has no meaningful risk percent and is skipped.
func (e *Engine) riskPerTrade(chrono []*domain.Trade) domain.RiskPerTrade {
	equity := e.cfg.StartingEquity
	var sum float64
	minRisk, maxRisk := math.Inf(1), math.Inf(-1)
	n := 0

	for _, t := range chrono {
		p := t.ProfitOrZero()
		if equity.IsPositive() {
			r := p.Abs().Div(equity).Mul(hundred).InexactFloat64()
			sum += r
			minRisk = math.Min(minRisk, r)
			maxRisk = math.Max(maxRisk, r)
			n++
		}
		equity = equity.Add(p)
	}

	if n == 0 {
		return domain.RiskPerTrade{}
	}
	return domain.RiskPerTrade{
		AvgRiskPercent: roundPercent(sum / float64(n)),
		MinRiskPercent: roundPercent(minRisk),
		MaxRiskPercent: roundPercent(maxRisk),
	}
}

// exposureByPair splits total volume (open and closed trades) by symbol,
// largest first. Trades without a volume are ignored.
func exposureByPair(trades []*domain.Trade) []domain.ExposureByPair {
	volumes := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range trades {
		if t == nil || !t.Volume.Valid {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		volumes[sym] = volumes[sym].Add(t.Volume.Decimal)
		total = total.Add(t.Volume.Decimal)
	}

	out := make([]domain.ExposureByPair, 0, len(volumes))
	if !total.IsPositive() {
		return out
	}
	for sym, v := range volumes {
		out = append(out, domain.ExposureByPair{
			Symbol:          sym,
			Volume:          v,
			ExposurePercent: roundPercent(v.Div(total).Mul(hundred).InexactFloat64()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Volume.Cmp(out[j].Volume); c != 0 {
			return c > 0
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func (e *Engine) dailyLossLimitHitRate(chrono []*domain.Trade) float64 {
	days := make(map[string]decimal.Decimal)
	for _, t := range chrono {
		key := e.dayKey(t.EffectiveTime())
		days[key] = days[key].Add(t.ProfitOrZero())
	}

	limit := e.cfg.DailyLossLimit.Neg()
	hits := 0
	for _, total := range days {
		if total.LessThan(limit) {
			hits++
		}
	}
	return ratio(hits, len(days))
}
