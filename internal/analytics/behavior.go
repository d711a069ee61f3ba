package analytics

import (
	"sort"
	"time"

	"tradeJournal/internal/domain"
)

// revengeHoldFactor: losers held this many times longer than winners flags revenge trading.
const revengeHoldFactor = 1.8

// BehaviorAnalysis compares hold times of winners and losers and checks recent activity.
func (e *Engine) BehaviorAnalysis(trades []*domain.Trade) *domain.BehaviorAnalysis {
	now := e.now()
	windowStart := now.Add(-24 * time.Hour)

	var winHolds, lossHolds []time.Duration
	recent := 0
	for _, t := range closedTrades(trades) {
		switch t.ProfitOrZero().Sign() {
		case 1:
			winHolds = append(winHolds, t.HoldTime())
		case -1:
			lossHolds = append(lossHolds, t.HoldTime())
		}

		closedAt := t.EffectiveTime()
		if !closedAt.Before(windowStart) && !closedAt.After(now) {
			recent++
		}
	}

	stats := domain.HoldTimeStats{
		AvgWinHoldTime:     meanDuration(winHolds),
		AvgLossHoldTime:    meanDuration(lossHolds),
		MedianWinHoldTime:  medianDuration(winHolds),
		MedianLossHoldTime: medianDuration(lossHolds),
		WinCount:           len(winHolds),
		LossCount:          len(lossHolds),
	}

	revenge := len(winHolds) > 0 && len(lossHolds) > 0 &&
		float64(stats.AvgLossHoldTime) > revengeHoldFactor*float64(stats.AvgWinHoldTime)

	return &domain.BehaviorAnalysis{
		HoldTimeStats:          stats,
		RevengeTradingDetected: revenge,
		OvertradingDetected:    recent > e.cfg.OvertradeThreshold,
		TradesLast24h:          recent,
	}
}

func meanDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

// medianDuration picks index n/2 of the sorted values, without interpolation.
func medianDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(ds))
	copy(sorted, ds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}
