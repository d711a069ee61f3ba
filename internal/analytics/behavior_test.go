package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradeJournal/internal/domain"
)

func holdTrade(profit string, hold time.Duration, closeAt time.Time) *domain.Trade {
	return closedTrade("EURUSD", profit, closeAt.Add(-hold), closeAt)
}

func TestBehaviorAnalysis_HoldTimes(t *testing.T) {
	e := newTestEngine()
	past := fixedNow.AddDate(0, 0, -10)
	trades := []*domain.Trade{
		holdTrade("5", 10*time.Minute, past),
		holdTrade("5", 30*time.Minute, past),
		holdTrade("-5", 60*time.Minute, past),
		holdTrade("-5", 20*time.Minute, past),
		holdTrade("-5", 40*time.Minute, past),
		holdTrade("0", 500*time.Minute, past),
	}

	ba := e.BehaviorAnalysis(trades)
	s := ba.HoldTimeStats

	assert.Equal(t, 2, s.WinCount)
	assert.Equal(t, 3, s.LossCount)
	assert.Equal(t, 20*time.Minute, s.AvgWinHoldTime)
	assert.Equal(t, 30*time.Minute, s.MedianWinHoldTime, "index n/2 of an even list")
	assert.Equal(t, 40*time.Minute, s.AvgLossHoldTime)
	assert.Equal(t, 40*time.Minute, s.MedianLossHoldTime)
	// 40m is exactly 2x, above the 1.8 threshold
	assert.True(t, ba.RevengeTradingDetected)
	assert.False(t, ba.OvertradingDetected)
	assert.Nil(t, ba.SlippageImpact)
	assert.Nil(t, ba.SpreadImpact)
}

func TestBehaviorAnalysis_NoRevengeWithoutWinners(t *testing.T) {
	e := newTestEngine()
	past := fixedNow.AddDate(0, 0, -10)

	ba := e.BehaviorAnalysis([]*domain.Trade{holdTrade("-1", time.Hour, past)})

	assert.False(t, ba.RevengeTradingDetected)
	assert.Equal(t, time.Duration(0), ba.HoldTimeStats.AvgWinHoldTime)
}

func TestBehaviorAnalysis_Overtrading(t *testing.T) {
	e := newTestEngine()
	var trades []*domain.Trade
	for i := 0; i < 11; i++ {
		trades = append(trades, holdTrade("1", time.Minute, fixedNow.Add(-time.Duration(i)*2*time.Hour)))
	}
	// outside the window
	trades = append(trades, holdTrade("1", time.Minute, fixedNow.Add(-25*time.Hour)))

	ba := e.BehaviorAnalysis(trades)

	assert.Equal(t, 11, ba.TradesLast24h)
	assert.True(t, ba.OvertradingDetected)

	ba = e.BehaviorAnalysis(trades[1:])
	assert.Equal(t, 10, ba.TradesLast24h)
	assert.False(t, ba.OvertradingDetected)
}

func TestBehaviorAnalysis_Empty(t *testing.T) {
	ba := newTestEngine().BehaviorAnalysis(nil)

	assert.Equal(t, domain.HoldTimeStats{}, ba.HoldTimeStats)
	assert.False(t, ba.RevengeTradingDetected)
	assert.False(t, ba.OvertradingDetected)
}
