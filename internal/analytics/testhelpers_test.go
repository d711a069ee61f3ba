package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

var (
	testAccount = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	// Wednesday, 2024-05-15 12:00 UTC
	fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
)

func newTestEngine() *Engine {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return fixedNow }
	return NewEngine(cfg)
}

// closedTrade builds a closed trade; profit "" means missing.
func closedTrade(symbol, profit string, open, close time.Time) *domain.Trade {
	t := &domain.Trade{
		ID:        uuid.New(),
		AccountID: testAccount,
		Symbol:    symbol,
		Side:      domain.Buy,
		OpenTime:  open,
		CloseTime: domain.TimePtr(close),
		Volume:    domain.Dec(decimal.RequireFromString("1")),
	}
	if profit != "" {
		t.Profit = domain.Dec(decimal.RequireFromString(profit))
	}
	return t
}

func openTrade(symbol, profit string, open time.Time) *domain.Trade {
	t := closedTrade(symbol, profit, open, open)
	t.CloseTime = nil
	return t
}

// sequence builds closed trades one hour apart ending well before fixedNow.
func sequence(symbol string, profits ...string) []*domain.Trade {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	out := make([]*domain.Trade, 0, len(profits))
	for i, p := range profits {
		open := start.Add(time.Duration(i) * time.Hour)
		out = append(out, closedTrade(symbol, p, open, open.Add(30*time.Minute)))
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
