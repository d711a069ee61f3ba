package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func TestRepository_AccountsAndTrades(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(nil)

	acc := &domain.TradingAccount{ID: uuid.New(), Broker: "FXTM", Server: "FXTM-Demo", Login: "1", CreatedAt: testNow}
	require.NoError(t, repo.CreateAccount(ctx, acc))

	dup := &domain.TradingAccount{ID: uuid.New(), Broker: "fxtm", Server: "fxtm-demo", Login: "1", CreatedAt: testNow}
	assert.ErrorIs(t, repo.CreateAccount(ctx, dup), ports.ErrDuplicateEntry)

	closed := &domain.Trade{
		ID: uuid.New(), AccountID: acc.ID, Symbol: "EURUSD", Side: domain.Buy,
		OpenTime: testNow.Add(-2 * time.Hour), CloseTime: domain.TimePtr(testNow.Add(-time.Hour)),
		Profit: domain.Dec(decimal.NewFromInt(5)),
	}
	open := &domain.Trade{ID: uuid.New(), AccountID: acc.ID, Symbol: "XAUUSD", Side: domain.Sell, OpenTime: testNow}
	require.NoError(t, repo.CreateTrades(ctx, []*domain.Trade{closed, open}))
	assert.ErrorIs(t, repo.CreateTrade(ctx, closed), ports.ErrDuplicateEntry)

	got, err := repo.GetClosedTrades(ctx, acc.ID, domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, closed.ID, got[0].ID)

	// returned values are copies
	*got[0].CloseTime = testNow.AddDate(1, 0, 0)
	again, err := repo.FindTradeByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.True(t, again.CloseTime.Equal(testNow.Add(-time.Hour)))

	from := testNow.Add(-30 * time.Minute)
	got, err = repo.GetClosedTrades(ctx, acc.ID, domain.DateRange{From: &from})
	require.NoError(t, err)
	assert.Empty(t, got)

	openTrades, err := repo.GetOpenTrades(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, openTrades, 1)
	assert.Equal(t, open.ID, openTrades[0].ID)

	require.NoError(t, repo.SaveAnnotation(ctx, &domain.TradeAnnotation{TradeID: closed.ID, NoteText: "n", Tags: []string{"a"}}))
	require.NoError(t, repo.DeleteAccount(ctx, acc.ID))
	missing, err := repo.FindTradeByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
	annotation, err := repo.GetAnnotation(ctx, closed.ID)
	require.NoError(t, err)
	assert.Nil(t, annotation)
	assert.ErrorIs(t, repo.DeleteAccount(ctx, acc.ID), ports.ErrNotFound)
}

func TestRepository_CreateTradesIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(nil)
	id := uuid.New()
	a := &domain.Trade{ID: id, Symbol: "EURUSD", OpenTime: testNow}
	b := &domain.Trade{ID: id, Symbol: "EURUSD", OpenTime: testNow}

	err := repo.CreateTrades(ctx, []*domain.Trade{a, b})

	assert.ErrorIs(t, err, ports.ErrDuplicateEntry)
	found, err := repo.FindTradeByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGenerator_Deterministic(t *testing.T) {
	first := NewGenerator(42).Accounts(testNow)
	second := NewGenerator(42).Accounts(testNow)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, NewGenerator(7).Accounts(testNow))
}

func TestGenerator_History(t *testing.T) {
	accountID := uuid.New()
	trades, notes := NewGenerator(1).History(accountID, testNow, 30)

	assert.GreaterOrEqual(t, len(trades), 30)
	assert.LessOrEqual(t, len(trades), 150)
	assert.LessOrEqual(t, len(notes), len(trades))

	for _, tr := range trades {
		assert.Equal(t, accountID, tr.AccountID)
		require.NotNil(t, tr.CloseTime)
		assert.False(t, tr.CloseTime.After(testNow), "no trade closes in the future")
		assert.True(t, tr.CloseTime.After(tr.OpenTime))
		assert.True(t, tr.Side.Valid())
		require.True(t, tr.Profit.Valid)
		assert.True(t, tr.Profit.Decimal.GreaterThanOrEqual(decimal.NewFromInt(-100)))
		assert.True(t, tr.Profit.Decimal.LessThanOrEqual(decimal.NewFromInt(200)))
		assert.LessOrEqual(t, -tr.Profit.Decimal.Exponent(), int32(2))
	}
}

func TestSeededStore(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(nil)
	for _, f := range NewGenerator(42).Accounts(testNow) {
		require.NoError(t, repo.CreateAccount(ctx, f.Account))
		require.NoError(t, repo.CreateTrades(ctx, f.Trades))
	}

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "IC Markets", accounts[1].Broker, "older account listed last")
}
