package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

const pairListSize = 5

type pairAcc struct {
	pnl                 decimal.Decimal
	count, wins, losses int
	winSum, lossSum     decimal.Decimal
}

// PairAnalysis groups closed trades by upper-cased symbol and ranks them by P/L.
func (e *Engine) PairAnalysis(trades []*domain.Trade) *domain.PairAnalysis {
	groups := make(map[string]*pairAcc)
	for _, t := range closedTrades(trades) {
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		acc, ok := groups[sym]
		if !ok {
			acc = &pairAcc{}
			groups[sym] = acc
		}
		p := t.ProfitOrZero()
		acc.pnl = acc.pnl.Add(p)
		acc.count++
		switch p.Sign() {
		case 1:
			acc.wins++
			acc.winSum = acc.winSum.Add(p)
		case -1:
			acc.losses++
			acc.lossSum = acc.lossSum.Add(p.Abs())
		}
	}

	all := make([]domain.PairPerformance, 0, len(groups))
	for sym, acc := range groups {
		perf := domain.PairPerformance{
			Symbol:     sym,
			PnL:        round2(acc.pnl),
			TradeCount: acc.count,
			WinRate:    ratio(acc.wins, acc.count),
			AvgWin:     decimal.Zero,
			AvgLoss:    decimal.Zero,
		}
		if acc.wins > 0 {
			perf.AvgWin = round2(acc.winSum.Div(decimal.NewFromInt(int64(acc.wins))))
		}
		if acc.losses > 0 {
			perf.AvgLoss = round2(acc.lossSum.Div(decimal.NewFromInt(int64(acc.losses))))
		}
		all = append(all, perf)
	}

	// Sort once: pnl descending, symbol ascending on ties.
	sort.Slice(all, func(i, j int) bool {
		if c := all[i].PnL.Cmp(all[j].PnL); c != 0 {
			return c > 0
		}
		return all[i].Symbol < all[j].Symbol
	})

	top := make([]domain.PairPerformance, 0, pairListSize)
	for i := 0; i < len(all) && i < pairListSize; i++ {
		top = append(top, all[i])
	}

	worst := make([]domain.PairPerformance, 0, pairListSize)
	for i := len(all) - 1; i >= 0 && len(worst) < pairListSize; i-- {
		worst = append(worst, all[i])
	}

	return &domain.PairAnalysis{TopPairs: top, WorstPairs: worst}
}
