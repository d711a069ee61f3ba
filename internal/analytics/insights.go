package analytics

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

const (
	recentWindow     = 10 // most recent trades examined for the win-rate warning
	recentMinTrades  = 5
	recentMinWinners = 3
)

// insightNamespace seeds name-based insight IDs so identical input yields identical IDs.
var insightNamespace = uuid.MustParse("6f1c3e0a-8d2b-4c59-9e7a-3b5d2f8a1c40")

// Insights derives short observations from the trade history. An empty
// history yields no insights.
func (e *Engine) Insights(trades []*domain.Trade) []domain.Insight {
	live := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t != nil {
			live = append(live, t)
		}
	}

	insights := make([]domain.Insight, 0, 3)
	if len(live) == 0 {
		return insights
	}

	if hour, n := e.busiestHour(live); n > 0 {
		insights = append(insights, newInsight(domain.InsightTimeBased, domain.SeverityInfo,
			"Most Active Hour",
			fmt.Sprintf("You open the most trades at %02d:00 (%d trades)", hour, n)))
	}

	if sym, n, pnl := busiestSymbol(live); n > 0 {
		severity := domain.SeverityInfo
		if pnl.IsNegative() {
			severity = domain.SeverityWarning
		}
		insights = append(insights, newInsight(domain.InsightPairBased, severity,
			"Most Traded Pair",
			fmt.Sprintf("%s has %d trades with %s P/L", sym, n, round2(pnl).StringFixed(2))))
	}

	recent := newestFirst(live)
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}
	if len(recent) >= recentMinTrades {
		wins := 0
		for _, t := range recent {
			if t.ProfitOrZero().IsPositive() {
				wins++
			}
		}
		if wins < recentMinWinners {
			insights = append(insights, newInsight(domain.InsightBehavior, domain.SeverityWarning,
				"Recent Losing Streak",
				fmt.Sprintf("Only %d winners in your last %d trades. Consider reviewing your strategy.", wins, len(recent))))
		}
	}

	return insights
}

// busiestHour returns the open hour with the most trades, lowest hour on ties.
func (e *Engine) busiestHour(trades []*domain.Trade) (hour, count int) {
	var counts [24]int
	for _, t := range trades {
		counts[e.local(t.OpenTime).Hour()]++
	}
	for h, n := range counts {
		if n > count {
			hour, count = h, n
		}
	}
	return hour, count
}

// busiestSymbol returns the most traded symbol, alphabetical on ties, with its total P/L.
func busiestSymbol(trades []*domain.Trade) (symbol string, count int, pnl decimal.Decimal) {
	counts := make(map[string]int)
	sums := make(map[string]decimal.Decimal)
	for _, t := range trades {
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		counts[sym]++
		sums[sym] = sums[sym].Add(t.ProfitOrZero())
	}
	for sym, n := range counts {
		if n > count || (n == count && sym < symbol) {
			symbol, count = sym, n
		}
	}
	return symbol, count, sums[symbol]
}

func newInsight(typ domain.InsightType, severity domain.InsightSeverity, title, message string) domain.Insight {
	return domain.Insight{
		ID:       uuid.NewSHA1(insightNamespace, []byte(string(typ)+"|"+title)),
		Type:     typ,
		Title:    title,
		Message:  message,
		Severity: severity,
	}
}
