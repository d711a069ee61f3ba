package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func TestTimeAnalysis(t *testing.T) {
	e := newTestEngine()
	// 2024-05-12 is a Sunday, 2024-05-13 a Monday.
	sunday := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)

	trades := []*domain.Trade{
		closedTrade("EURUSD", "10", sunday.Add(2*time.Hour), sunday.Add(3*time.Hour)),
		closedTrade("EURUSD", "-4", sunday.Add(3*time.Hour), sunday.Add(3*time.Hour+30*time.Minute)),
		closedTrade("EURUSD", "6", monday.Add(9*time.Hour), monday.Add(10*time.Hour)),
		closedTrade("EURUSD", "-2", monday.Add(17*time.Hour), monday.Add(20*time.Hour)),
		openTrade("EURUSD", "100", monday.Add(3*time.Hour)),
	}

	ta := e.TimeAnalysis(trades)

	require.Len(t, ta.HourlyPnL, 24)
	require.Len(t, ta.DayOfWeekPnL, 7)
	for i, h := range ta.HourlyPnL {
		assert.Equal(t, i, h.Hour)
	}

	h3 := ta.HourlyPnL[3]
	assert.Equal(t, "6.00", h3.PnL.StringFixed(2))
	assert.Equal(t, 2, h3.TradeCount)
	assert.Equal(t, 1, h3.WinCount)
	assert.Equal(t, 0.5, h3.WinRate)
	assert.Equal(t, 0, ta.HourlyPnL[4].TradeCount)
	assert.Equal(t, 0.0, ta.HourlyPnL[4].WinRate)

	sun := ta.DayOfWeekPnL[6]
	assert.Equal(t, 7, sun.DayOfWeek)
	assert.Equal(t, 2, sun.TradeCount)
	mon := ta.DayOfWeekPnL[0]
	assert.Equal(t, 1, mon.DayOfWeek)
	assert.Equal(t, "4.00", mon.PnL.StringFixed(2))

	assert.Equal(t, 2, ta.SessionStats.Asia.TradeCount)
	assert.Equal(t, 1, ta.SessionStats.London.TradeCount)
	assert.Equal(t, 1.0, ta.SessionStats.London.WinRate)
	assert.Equal(t, 1, ta.SessionStats.NewYork.TradeCount)
	assert.Equal(t, "-2.00", ta.SessionStats.NewYork.PnL.StringFixed(2))
}

func TestTimeAnalysis_UsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	cfg := DefaultConfig()
	cfg.Location = loc
	e := NewEngine(cfg)

	// 06:00 UTC is 09:00 local, London session.
	closeAt := time.Date(2024, 5, 13, 6, 0, 0, 0, time.UTC)
	ta := e.TimeAnalysis([]*domain.Trade{closedTrade("EURUSD", "1", closeAt.Add(-time.Hour), closeAt)})

	assert.Equal(t, 1, ta.HourlyPnL[9].TradeCount)
	assert.Equal(t, 1, ta.SessionStats.London.TradeCount)
	assert.Equal(t, 0, ta.SessionStats.Asia.TradeCount)
}
