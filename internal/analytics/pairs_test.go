package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func symbols(perfs []domain.PairPerformance) []string {
	out := make([]string, 0, len(perfs))
	for _, p := range perfs {
		out = append(out, p.Symbol)
	}
	return out
}

func TestPairAnalysis_Aggregates(t *testing.T) {
	e := newTestEngine()
	trades := append(sequence("eurusd", "10", "-4", "20"), sequence("EURUSD", "-6")...)
	trades = append(trades, sequence("XAUUSD", "-50")...)
	trades = append(trades, openTrade("GBPUSD", "99", fixedNow))

	pa := e.PairAnalysis(trades)

	require.Equal(t, []string{"EURUSD", "XAUUSD"}, symbols(pa.TopPairs))
	eur := pa.TopPairs[0]
	assert.Equal(t, "20.00", eur.PnL.StringFixed(2))
	assert.Equal(t, 4, eur.TradeCount)
	assert.Equal(t, 0.5, eur.WinRate)
	assert.Equal(t, "15.00", eur.AvgWin.StringFixed(2))
	assert.Equal(t, "5.00", eur.AvgLoss.StringFixed(2))

	xau := pa.TopPairs[1]
	assert.True(t, xau.AvgWin.IsZero())
	assert.Equal(t, "50.00", xau.AvgLoss.StringFixed(2))

	assert.Equal(t, []string{"XAUUSD", "EURUSD"}, symbols(pa.WorstPairs))
}

func TestPairAnalysis_TopAndWorstDisjoint(t *testing.T) {
	e := newTestEngine()
	var trades []*domain.Trade
	syms := []string{"A1", "B2", "C3", "D4", "E5", "F6", "G7", "H8", "I9", "J10", "K11", "L12"}
	profits := []string{"120", "110", "100", "90", "80", "70", "-10", "-20", "-30", "-40", "-50", "-60"}
	for i, s := range syms {
		trades = append(trades, sequence(s, profits[i])...)
	}

	pa := e.PairAnalysis(trades)

	assert.Equal(t, []string{"A1", "B2", "C3", "D4", "E5"}, symbols(pa.TopPairs))
	assert.Equal(t, []string{"L12", "K11", "J10", "I9", "H8"}, symbols(pa.WorstPairs))
	assert.True(t, pa.TopPairs[0].PnL.GreaterThanOrEqual(pa.TopPairs[len(pa.TopPairs)-1].PnL))

	top := make(map[string]bool)
	for _, p := range pa.TopPairs {
		top[p.Symbol] = true
	}
	for _, p := range pa.WorstPairs {
		assert.False(t, top[p.Symbol], "%s appears in both lists", p.Symbol)
	}
}

func TestPairAnalysis_TiesAreDeterministic(t *testing.T) {
	e := newTestEngine()
	trades := append(sequence("ZZZ", "5"), sequence("AAA", "5")...)

	pa := e.PairAnalysis(trades)

	assert.Equal(t, []string{"AAA", "ZZZ"}, symbols(pa.TopPairs))
	assert.Equal(t, []string{"ZZZ", "AAA"}, symbols(pa.WorstPairs))
}

func TestPairAnalysis_Empty(t *testing.T) {
	pa := newTestEngine().PairAnalysis(nil)

	assert.Empty(t, pa.TopPairs)
	assert.Empty(t, pa.WorstPairs)
}
