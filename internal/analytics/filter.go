package analytics

import (
	"strings"

	"tradeJournal/internal/domain"
)

// FilterTrades selects trades matching f, newest first, capped at f.Limit
// (domain.DefaultTradeLimit when unset). The input slice is not modified.
func FilterTrades(trades []*domain.Trade, f domain.TradeFilter) []*domain.Trade {
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))

	selected := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t == nil || !f.Range.Contains(t.EffectiveTime()) {
			continue
		}
		if symbol != "" && !strings.Contains(strings.ToUpper(t.Symbol), symbol) {
			continue
		}
		if f.Outcome != "" && !MatchesOutcome(t, f.Outcome) {
			continue
		}
		selected = append(selected, t)
	}

	selected = newestFirst(selected)

	limit := f.Limit
	if limit <= 0 {
		limit = domain.DefaultTradeLimit
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// MatchesOutcome reports whether the trade's profit (0 when missing) matches outcome.
func MatchesOutcome(t *domain.Trade, outcome domain.TradeOutcome) bool {
	p := t.ProfitOrZero()
	switch outcome {
	case domain.OutcomeWin:
		return p.IsPositive()
	case domain.OutcomeLoss:
		return p.IsNegative()
	case domain.OutcomeBreakeven:
		return p.IsZero()
	default:
		return false
	}
}
