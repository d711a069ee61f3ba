package memory

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// Symbols traded by generated fixtures, with a reference price each.
var fixtureSymbols = []struct {
	symbol string
	price  string
}{
	{"XAUUSD", "2050"},
	{"EURUSD", "1.085"},
	{"GBPUSD", "1.27"},
	{"USDJPY", "151.5"},
	{"US30", "38000"},
	{"BTCUSD", "65000"},
	{"ETHUSD", "3400"},
}

// Fixture is a generated account with its history.
type Fixture struct {
	Account     *domain.TradingAccount
	Trades      []*domain.Trade
	Annotations []*domain.TradeAnnotation
}

// Generator produces deterministic demo data from a seed. Two generators
// with the same seed and clock produce identical fixtures, IDs included.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Accounts generates the two demo accounts with 30 days of history ending at now.
func (g *Generator) Accounts(now time.Time) []Fixture {
	icm := &domain.TradingAccount{
		ID:                   g.uuid(),
		Broker:               "IC Markets",
		Server:               "ICMarkets-Live01",
		Login:                "12345678",
		Status:               domain.AccountSynced,
		LastAttemptedSyncAt:  domain.TimePtr(now.Add(-time.Hour)),
		LastSuccessfulSyncAt: domain.TimePtr(now.Add(-time.Hour)),
		CreatedAt:            now.AddDate(0, 0, -30),
		UpdatedAt:            now.Add(-time.Hour),
	}
	fxtm := &domain.TradingAccount{
		ID:                   g.uuid(),
		Broker:               "FXTM",
		Server:               "FXTM-Demo",
		Login:                "87654321",
		Status:               domain.AccountSynced,
		LastAttemptedSyncAt:  domain.TimePtr(now.Add(-2 * time.Hour)),
		LastSuccessfulSyncAt: domain.TimePtr(now.Add(-2 * time.Hour)),
		CreatedAt:            now.AddDate(0, 0, -15),
		UpdatedAt:            now.Add(-2 * time.Hour),
	}

	out := make([]Fixture, 0, 2)
	for _, acc := range []*domain.TradingAccount{icm, fxtm} {
		trades, notes := g.History(acc.ID, now, 30)
		trades = append(trades, g.OpenTrades(acc.ID, now)...)
		out = append(out, Fixture{Account: acc, Trades: trades, Annotations: notes})
	}
	return out
}

// History generates 1-5 closed trades per day for the given number of days
// back from now. About half of them get a journal annotation.
func (g *Generator) History(accountID uuid.UUID, now time.Time, days int) ([]*domain.Trade, []*domain.TradeAnnotation) {
	var trades []*domain.Trade
	var notes []*domain.TradeAnnotation

	for dayOffset := 0; dayOffset < days; dayOffset++ {
		day := now.AddDate(0, 0, -dayOffset)
		perDay := 1 + g.rnd.Intn(5)
		for i := 0; i < perDay; i++ {
			sym := fixtureSymbols[g.rnd.Intn(len(fixtureSymbols))]
			side := domain.Buy
			if g.rnd.Intn(2) == 1 {
				side = domain.Sell
			}
			openTime := day.Add(-time.Duration(i*2) * time.Hour).Add(-3 * time.Hour)
			closeTime := openTime.Add(time.Duration(15+g.rnd.Intn(106)) * time.Minute)

			base := decimal.RequireFromString(sym.price)
			places := pricePlaces(sym.symbol)
			change := decimal.NewFromFloat(g.between(-2, 2)).Div(decimal.NewFromInt(100))
			closePrice := base.Mul(decimal.NewFromInt(1).Add(change)).RoundBank(places)

			stop, target := base.Mul(decimal.RequireFromString("0.99")), base.Mul(decimal.RequireFromString("1.01"))
			if side == domain.Sell {
				stop, target = target, stop
			}

			t := &domain.Trade{
				ID:         g.uuid(),
				AccountID:  accountID,
				Symbol:     sym.symbol,
				Side:       side,
				OpenTime:   openTime.UTC(),
				CloseTime:  domain.TimePtr(closeTime.UTC()),
				Volume:     domain.Dec(g.money(0.01, 0.5)),
				Profit:     domain.Dec(g.money(-100, 200)),
				OpenPrice:  domain.Dec(base.RoundBank(places)),
				ClosePrice: domain.Dec(closePrice),
				StopLoss:   domain.Dec(stop.RoundBank(places)),
				TakeProfit: domain.Dec(target.RoundBank(places)),
				Commission: domain.Dec(g.money(-1, 0)),
				Swap:       domain.Dec(g.money(-0.5, 0.5)),
			}
			trades = append(trades, t)

			if g.rnd.Intn(2) == 0 {
				notes = append(notes, &domain.TradeAnnotation{
					TradeID:  t.ID,
					NoteText: "Good entry point",
					Tags:     []string{"scalping", "trend"},
				})
			}
		}
	}
	return trades, notes
}

// OpenTrades generates 0-3 open trades opened within the last few hours.
func (g *Generator) OpenTrades(accountID uuid.UUID, now time.Time) []*domain.Trade {
	n := g.rnd.Intn(4)
	out := make([]*domain.Trade, 0, n)
	for i := 0; i < n; i++ {
		sym := fixtureSymbols[g.rnd.Intn(3)]
		side := domain.Buy
		if i%2 == 1 {
			side = domain.Sell
		}
		out = append(out, &domain.Trade{
			ID:        g.uuid(),
			AccountID: accountID,
			Symbol:    sym.symbol,
			Side:      side,
			OpenTime:  now.Add(-time.Duration(i) * time.Hour).UTC(),
			Volume:    domain.Dec(g.money(0.01, 0.5)),
			Profit:    domain.Dec(g.money(-20, 30)),
			OpenPrice: domain.Dec(decimal.RequireFromString(sym.price)),
		})
	}
	return out
}

// uuid draws a random (version 4 layout) UUID from the seeded source.
func (g *Generator) uuid() uuid.UUID {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		// rand.Rand reads never fail
		panic(err)
	}
	return id
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

// money draws a value in [lo, hi] rounded half-to-even to cents.
func (g *Generator) money(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(g.between(lo, hi)).RoundBank(2)
}

// pricePlaces is 2 for gold and indices, 5 for everything else.
func pricePlaces(symbol string) int32 {
	if strings.Contains(symbol, "XAU") || strings.Contains(symbol, "US30") {
		return 2
	}
	return 5
}
