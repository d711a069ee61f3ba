package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func TestInsights(t *testing.T) {
	e := newTestEngine()
	base := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	for i := 0; i < 6; i++ {
		open := base.AddDate(0, 0, i)
		trades = append(trades, closedTrade("XAUUSD", "-10", open, open.Add(time.Hour)))
	}
	trades = append(trades, closedTrade("EURUSD", "30", base.Add(-5*time.Hour), base.Add(-4*time.Hour)))

	insights := e.Insights(trades)

	require.Len(t, insights, 3)

	assert.Equal(t, domain.InsightTimeBased, insights[0].Type)
	assert.Equal(t, domain.SeverityInfo, insights[0].Severity)
	assert.Contains(t, insights[0].Message, "14:00")

	assert.Equal(t, domain.InsightPairBased, insights[1].Type)
	assert.Equal(t, domain.SeverityWarning, insights[1].Severity)
	assert.Equal(t, "XAUUSD has 6 trades with -60.00 P/L", insights[1].Message)

	assert.Equal(t, domain.InsightBehavior, insights[2].Type)
	assert.Equal(t, domain.SeverityWarning, insights[2].Severity)
	assert.Contains(t, insights[2].Message, "Only 1 winners in your last 7 trades")

	again := e.Insights(trades)
	for i := range insights {
		assert.Equal(t, insights[i].ID, again[i].ID)
	}
	assert.NotEqual(t, insights[0].ID, insights[1].ID)
}

func TestInsights_NoBehaviorWarningWhenWinning(t *testing.T) {
	e := newTestEngine()

	insights := e.Insights(sequence("EURUSD", "1", "2", "3", "4", "5"))

	require.Len(t, insights, 2)
	assert.Equal(t, domain.SeverityInfo, insights[1].Severity)
}

func TestInsights_TieBreaks(t *testing.T) {
	e := newTestEngine()
	trades := append(sequence("ZAR", "1"), sequence("AUD", "1")...)

	insights := e.Insights(trades)

	require.Len(t, insights, 2)
	assert.Contains(t, insights[0].Message, "09:00")
	assert.Contains(t, insights[1].Message, "AUD has 1 trades")
}

func TestInsights_Empty(t *testing.T) {
	insights := newTestEngine().Insights(nil)

	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}
