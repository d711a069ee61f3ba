package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...ports.Fields)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields)  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "trade-journal-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func newAccount(broker, server, login string, created time.Time) *domain.TradingAccount {
	return &domain.TradingAccount{
		ID:        uuid.New(),
		Broker:    broker,
		Server:    server,
		Login:     login,
		Status:    domain.AccountPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func newTrade(accountID uuid.UUID, symbol, profit string, open time.Time, close *time.Time) *domain.Trade {
	t := &domain.Trade{
		ID:         uuid.New(),
		AccountID:  accountID,
		Symbol:     symbol,
		Side:       domain.Sell,
		OpenTime:   open,
		CloseTime:  close,
		Volume:     domain.Dec(decimal.RequireFromString("0.5")),
		OpenPrice:  domain.Dec(decimal.RequireFromString("1.08512")),
		Commission: domain.Dec(decimal.RequireFromString("-3.5")),
	}
	if profit != "" {
		t.Profit = domain.Dec(decimal.RequireFromString(profit))
	}
	return t
}

func TestNewRepository_RequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: filepath.Join(t.TempDir(), "x.db")})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestRepository_Accounts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newAccount("ICMarkets", "ICMarkets-Live01", "1001", base)
	newer := newAccount("Pepperstone", "Pepperstone-Demo", "2002", base.Add(time.Hour))
	newer.LastError = "timeout"
	newer.LastAttemptedSyncAt = domain.TimePtr(base.Add(2 * time.Hour))

	require.NoError(t, repo.CreateAccount(ctx, older))
	require.NoError(t, repo.CreateAccount(ctx, newer))

	tests := []struct {
		name    string
		acc     *domain.TradingAccount
		wantErr error
	}{
		{
			name:    "duplicate is case insensitive on broker and server",
			acc:     newAccount("icmarkets", "icmarkets-live01", "1001", base),
			wantErr: ports.ErrDuplicateEntry,
		},
		{
			name: "same broker different login",
			acc:  newAccount("ICMarkets", "ICMarkets-Live01", "1002", base),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateAccount(ctx, tt.acc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, newer.ID, accounts[0].ID)

	found, err := repo.FindAccountByID(ctx, newer.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "timeout", found.LastError)
	require.NotNil(t, found.LastAttemptedSyncAt)
	assert.True(t, newer.LastAttemptedSyncAt.Equal(*found.LastAttemptedSyncAt))
	assert.Nil(t, found.LastSuccessfulSyncAt)

	missing, err := repo.FindAccountByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_TradesRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)

	acc := newAccount("ICMarkets", "Live", "1", base)
	other := newAccount("ICMarkets", "Live", "2", base)
	require.NoError(t, repo.CreateAccount(ctx, acc))
	require.NoError(t, repo.CreateAccount(ctx, other))

	t1 := newTrade(acc.ID, "EURUSD", "62.30", base, domain.TimePtr(base.Add(time.Hour)))
	t2 := newTrade(acc.ID, "XAUUSD", "", base.Add(2*time.Hour), domain.TimePtr(base.Add(3*time.Hour)))
	t3 := newTrade(acc.ID, "GBPUSD", "-56", base.Add(4*time.Hour), domain.TimePtr(base.Add(5*time.Hour)))
	open := newTrade(acc.ID, "USDJPY", "4.20", base.Add(6*time.Hour), nil)
	foreign := newTrade(other.ID, "EURUSD", "1", base, domain.TimePtr(base.Add(time.Hour)))

	require.NoError(t, repo.CreateTrades(ctx, []*domain.Trade{t1, t2, t3, open}))
	require.NoError(t, repo.CreateTrade(ctx, foreign))

	t.Run("closed trades newest first", func(t *testing.T) {
		trades, err := repo.GetClosedTrades(ctx, acc.ID, domain.DateRange{})
		require.NoError(t, err)
		require.Len(t, trades, 3)
		assert.Equal(t, []uuid.UUID{t3.ID, t2.ID, t1.ID}, []uuid.UUID{trades[0].ID, trades[1].ID, trades[2].ID})
	})

	t.Run("range is inclusive on close time", func(t *testing.T) {
		from := base.Add(time.Hour)
		to := base.Add(3 * time.Hour)
		trades, err := repo.GetClosedTrades(ctx, acc.ID, domain.DateRange{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, trades, 2)
		assert.Equal(t, t2.ID, trades[0].ID)
		assert.Equal(t, t1.ID, trades[1].ID)
	})

	t.Run("open trades", func(t *testing.T) {
		trades, err := repo.GetOpenTrades(ctx, acc.ID)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, open.ID, trades[0].ID)
		assert.Nil(t, trades[0].CloseTime)
	})

	t.Run("decimals and nulls survive", func(t *testing.T) {
		got, err := repo.FindTradeByID(ctx, t1.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "62.30", got.Profit.Decimal.StringFixed(2))
		assert.Equal(t, "1.08512", got.OpenPrice.Decimal.String())
		assert.False(t, got.ClosePrice.Valid)
		assert.Equal(t, domain.Sell, got.Side)
		assert.True(t, t1.OpenTime.Equal(got.OpenTime))
		require.NotNil(t, got.CloseTime)
		assert.True(t, t1.CloseTime.Equal(*got.CloseTime))

		noProfit, err := repo.FindTradeByID(ctx, t2.ID)
		require.NoError(t, err)
		assert.False(t, noProfit.Profit.Valid)
	})

	t.Run("duplicate trade id", func(t *testing.T) {
		err := repo.CreateTrade(ctx, t1)
		assert.ErrorIs(t, err, ports.ErrDuplicateEntry)
	})

	t.Run("missing trade", func(t *testing.T) {
		got, err := repo.FindTradeByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRepository_TradeTimeBounds(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)

	acc := newAccount("ICMarkets", "Live", "1", base)
	require.NoError(t, repo.CreateAccount(ctx, acc))

	farFuture := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	farPast := time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		trade *domain.Trade
	}{
		{"open time past 2262", newTrade(acc.ID, "EURUSD", "5", farFuture, domain.TimePtr(farFuture.Add(time.Hour)))},
		{"close time past 2262", newTrade(acc.ID, "EURUSD", "5", base, domain.TimePtr(farFuture))},
		{"open time before 1677", newTrade(acc.ID, "EURUSD", "5", farPast, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateTrade(ctx, tt.trade)
			assert.ErrorIs(t, err, ports.ErrInvalidRecord)

			got, err := repo.FindTradeByID(ctx, tt.trade.ID)
			require.NoError(t, err)
			assert.Nil(t, got, "rejected trade is not stored")
		})
	}

	edge := newTrade(acc.ID, "XAUUSD", "7", domain.MaxTradeTime.Add(-time.Hour), domain.TimePtr(domain.MaxTradeTime))
	require.NoError(t, repo.CreateTrade(ctx, edge))
	got, err := repo.FindTradeByID(ctx, edge.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, edge.CloseTime.Equal(*got.CloseTime))

	inside := newTrade(acc.ID, "EURUSD", "1", base, domain.TimePtr(base.Add(time.Hour)))
	require.NoError(t, repo.CreateTrade(ctx, inside))

	t.Run("range bounds beyond the storable span are clamped", func(t *testing.T) {
		trades, err := repo.GetClosedTrades(ctx, acc.ID, domain.DateRange{From: &farPast, To: &farFuture})
		require.NoError(t, err)
		require.Len(t, trades, 2)
		assert.Equal(t, edge.ID, trades[0].ID)
		assert.Equal(t, inside.ID, trades[1].ID)

		trades, err = repo.GetClosedTrades(ctx, acc.ID, domain.DateRange{To: &farPast})
		require.NoError(t, err)
		assert.Empty(t, trades)
	})
}

func TestRepository_Annotations(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)

	acc := newAccount("ICMarkets", "Live", "1", base)
	require.NoError(t, repo.CreateAccount(ctx, acc))
	trade := newTrade(acc.ID, "EURUSD", "5", base, domain.TimePtr(base.Add(time.Hour)))
	require.NoError(t, repo.CreateTrade(ctx, trade))

	got, err := repo.GetAnnotation(ctx, trade.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.SaveAnnotation(ctx, &domain.TradeAnnotation{
		TradeID: trade.ID, NoteText: "chased the breakout", Tags: []string{"fomo", "news"},
	}))
	require.NoError(t, repo.SaveAnnotation(ctx, &domain.TradeAnnotation{
		TradeID: trade.ID, NoteText: "chased the breakout, moved stop", Tags: []string{"fomo"},
	}))

	got, err = repo.GetAnnotation(ctx, trade.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "chased the breakout, moved stop", got.NoteText)
	assert.Equal(t, []string{"fomo"}, got.Tags)
}

func TestRepository_DeleteAccountCascades(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)

	acc := newAccount("ICMarkets", "Live", "1", base)
	require.NoError(t, repo.CreateAccount(ctx, acc))
	trade := newTrade(acc.ID, "EURUSD", "5", base, domain.TimePtr(base.Add(time.Hour)))
	require.NoError(t, repo.CreateTrade(ctx, trade))
	require.NoError(t, repo.SaveAnnotation(ctx, &domain.TradeAnnotation{TradeID: trade.ID, NoteText: "x"}))

	require.NoError(t, repo.DeleteAccount(ctx, acc.ID))

	found, err := repo.FindTradeByID(ctx, trade.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	annotation, err := repo.GetAnnotation(ctx, trade.ID)
	require.NoError(t, err)
	assert.Nil(t, annotation)

	err = repo.DeleteAccount(ctx, acc.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
