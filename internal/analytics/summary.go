package analytics

import (
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// Summary computes the headline metrics.
// Closed trades are restricted to rng by effective time; open trades in the
// snapshot only feed CurrentRisk.
func (e *Engine) Summary(trades []*domain.Trade, rng domain.DateRange) *domain.AnalyticsSummary {
	now := e.now()

	closed := make([]*domain.Trade, 0, len(trades))
	for _, t := range closedTrades(trades) {
		if rng.Contains(t.EffectiveTime()) {
			closed = append(closed, t)
		}
	}
	chrono := chronological(closed)
	open := openTrades(trades)

	var (
		pnl, grossProfit, grossLoss, daily decimal.Decimal
		wins, losses, closedToday          int
	)
	for _, t := range chrono {
		p := t.ProfitOrZero()
		pnl = pnl.Add(p)

		switch p.Sign() {
		case 1:
			wins++
			grossProfit = grossProfit.Add(p)
		case -1:
			losses++
			grossLoss = grossLoss.Add(p.Abs())
		}

		if e.sameDay(t.EffectiveTime(), now) {
			daily = daily.Add(p)
			closedToday++
		}
	}

	s := &domain.AnalyticsSummary{
		PnLTotal:    round2(pnl),
		WinRate:     ratio(wins, len(chrono)),
		MaxDrawdown: round2(maxDrawdown(e.cfg.StartingEquity, chrono)),
		TradeCount:  len(chrono),
		DailyPnL:    round2(daily),
		GrossProfit: round2(grossProfit),
		GrossLoss:   round2(grossLoss),
		CurrentRisk: e.cfg.RiskPerOpenTrade.Mul(decimal.NewFromInt(int64(len(open)))).RoundBank(1),
	}
	s.Equity = round2(e.cfg.StartingEquity.Add(s.PnLTotal))

	if grossLoss.IsPositive() {
		s.ProfitFactor = floatPtr(grossProfit.Div(grossLoss).InexactFloat64())
	}
	if wins > 0 {
		s.AvgWin = domain.Dec(round2(grossProfit.Div(decimal.NewFromInt(int64(wins)))))
	}
	if losses > 0 {
		s.AvgLoss = domain.Dec(round2(grossLoss.Div(decimal.NewFromInt(int64(losses)))))
	}

	s.Expectancy = expectancy(wins, len(chrono), s.AvgWin, s.AvgLoss)

	if s.AvgLoss.Valid && !s.AvgLoss.Decimal.IsZero() {
		avgWin := decimal.Zero
		if s.AvgWin.Valid {
			avgWin = s.AvgWin.Decimal.Abs()
		}
		s.AvgRR = floatPtr(avgWin.Div(s.AvgLoss.Decimal.Abs()).InexactFloat64())
	}

	// Streaks are reported only when there is one.
	if current := leadingLossRun(reversed(chrono)); current > 0 {
		s.LosingStreak = intPtr(current)
	}
	if longest := longestLossRun(chrono); longest > 0 {
		s.MaxLosingStreak = intPtr(longest)
	}

	if closedToday > e.cfg.OvertradeThreshold {
		s.OvertradeWarning = boolPtr(true)
	}

	return s
}

// expectancy = winRate*avgWin - lossRate*|avgLoss|, absent averages count as 0.
func expectancy(wins, total int, avgWin, avgLoss decimal.NullDecimal) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	winRate := decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(total)))
	lossRate := decimal.NewFromInt(1).Sub(winRate)

	w, l := decimal.Zero, decimal.Zero
	if avgWin.Valid {
		w = avgWin.Decimal
	}
	if avgLoss.Valid {
		l = avgLoss.Decimal.Abs()
	}
	return round2(winRate.Mul(w).Sub(lossRate.Mul(l)))
}
