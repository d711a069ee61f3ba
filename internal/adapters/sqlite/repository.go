package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3" // SQLite driver

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// Repository implements ports.JournalStore using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

var _ ports.JournalStore = (*Repository)(nil)

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository: %w", ports.ErrConfigurationError)
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/trade_journal.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Debug(context.Background(), "Data directory checked/created", ports.Fields{"path": filepath.Dir(dbPath)})

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY between pooled conns.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Debug(context.Background(), "SQLite database connection established", ports.Fields{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Debug(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
// Timestamps are unix nanoseconds (UTC); money columns hold decimal text.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trading_accounts (
		id TEXT PRIMARY KEY,
		broker TEXT NOT NULL,
		server TEXT NOT NULL,
		login TEXT NOT NULL,
		status TEXT NOT NULL,
		last_attempted_sync_at INTEGER NULL,
		last_successful_sync_at INTEGER NULL,
		last_error TEXT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES trading_accounts (id) ON DELETE CASCADE,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		open_time INTEGER NOT NULL,
		close_time INTEGER NULL,
		volume TEXT NULL,
		profit TEXT NULL,
		open_price TEXT NULL,
		close_price TEXT NULL,
		stop_loss TEXT NULL,
		take_profit TEXT NULL,
		commission TEXT NULL,
		swap TEXT NULL
	);

	CREATE TABLE IF NOT EXISTS trade_annotations (
		trade_id TEXT PRIMARY KEY REFERENCES trades (id) ON DELETE CASCADE,
		note_text TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		updated_at INTEGER NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_identity
		ON trading_accounts (broker COLLATE NOCASE, server COLLATE NOCASE, login);
	CREATE INDEX IF NOT EXISTS idx_trades_account_close_time ON trades (account_id, close_time);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- AccountRepository Implementation ---

// CreateAccount saves a new account.
func (r *Repository) CreateAccount(ctx context.Context, acc *domain.TradingAccount) error {
	const query = `
	INSERT INTO trading_accounts (id, broker, server, login, status, last_attempted_sync_at,
	                              last_successful_sync_at, last_error, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		acc.ID.String(), acc.Broker, acc.Server, acc.Login, string(acc.Status),
		nullableTime(acc.LastAttemptedSyncAt), nullableTime(acc.LastSuccessfulSyncAt),
		nullableString(acc.LastError), acc.CreatedAt.UnixNano(), acc.UpdatedAt.UnixNano())
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("account %s/%s/%s: %w", acc.Broker, acc.Server, acc.Login, ports.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert account %s: %w: %w", acc.ID, ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Account created", ports.Fields{"accountID": acc.ID.String(), "broker": acc.Broker})
	return nil
}

// ListAccounts retrieves all accounts, newest first.
func (r *Repository) ListAccounts(ctx context.Context) ([]*domain.TradingAccount, error) {
	const query = `
	SELECT id, broker, server, login, status, last_attempted_sync_at, last_successful_sync_at,
	       last_error, created_at, updated_at
	FROM trading_accounts
	ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	accounts := make([]*domain.TradingAccount, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account during ListAccounts: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *Repository) FindAccountByID(ctx context.Context, id uuid.UUID) (*domain.TradingAccount, error) {
	const query = `
	SELECT id, broker, server, login, status, last_attempted_sync_at, last_successful_sync_at,
	       last_error, created_at, updated_at
	FROM trading_accounts
	WHERE id = ?`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Account not found by ID", ports.Fields{"accountID": id.String()})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query account by ID %s: %w: %w", id, ports.ErrQueryFailed, err)
	}
	return acc, nil
}

// DeleteAccount removes an account together with its trades and their annotations.
func (r *Repository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete of account %s: %w: %w", id, ports.ErrDeleteFailed, err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM trade_annotations WHERE trade_id IN (SELECT id FROM trades WHERE account_id = ?)`,
		`DELETE FROM trades WHERE account_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id.String()); err != nil {
			return fmt.Errorf("failed to delete data of account %s: %w: %w", id, ports.ErrDeleteFailed, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM trading_accounts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w: %w", id, ports.ErrDeleteFailed, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete account %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %s not found for delete: %w", id, ports.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of account %s: %w: %w", id, ports.ErrDeleteFailed, err)
	}
	r.logger.Debug(ctx, "Account deleted", ports.Fields{"accountID": id.String()})
	return nil
}

// --- TradeRepository Implementation ---

const tradeColumns = `id, account_id, symbol, side, open_time, close_time, volume, profit,
	       open_price, close_price, stop_loss, take_profit, commission, swap`

// CreateTrade saves a single trade.
func (r *Repository) CreateTrade(ctx context.Context, trade *domain.Trade) error {
	return r.CreateTrades(ctx, []*domain.Trade{trade})
}

// CreateTrades saves a batch of trades in one transaction.
func (r *Repository) CreateTrades(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin trade import: %w: %w", ports.ErrUpdateFailed, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trades (`+tradeColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare trade insert: %w: %w", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if !domain.ValidTradeTime(t.OpenTime) || (t.CloseTime != nil && !domain.ValidTradeTime(*t.CloseTime)) {
			return fmt.Errorf("trade %s: time outside %s..%s: %w", t.ID,
				domain.MinTradeTime.Format(time.RFC3339), domain.MaxTradeTime.Format(time.RFC3339), ports.ErrInvalidRecord)
		}
		_, err := stmt.ExecContext(ctx,
			t.ID.String(), t.AccountID.String(), t.Symbol, string(t.Side),
			t.OpenTime.UnixNano(), nullableTime(t.CloseTime),
			t.Volume, t.Profit, t.OpenPrice, t.ClosePrice, t.StopLoss, t.TakeProfit, t.Commission, t.Swap)
		if err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("trade %s: %w", t.ID, ports.ErrDuplicateEntry)
			}
			return fmt.Errorf("failed to insert trade %s for symbol %s: %w: %w", t.ID, t.Symbol, ports.ErrUpdateFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade import: %w: %w", ports.ErrUpdateFailed, err)
	}
	r.logger.Debug(ctx, "Trades created", ports.Fields{"count": len(trades)})
	return nil
}

// GetClosedTrades retrieves closed trades of an account within rng, newest first.
func (r *Repository) GetClosedTrades(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) ([]*domain.Trade, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + tradeColumns + ` FROM trades WHERE account_id = ? AND close_time IS NOT NULL`)
	args := []interface{}{accountID.String()}
	if rng.From != nil {
		sb.WriteString(` AND close_time >= ?`)
		args = append(args, boundNano(*rng.From))
	}
	if rng.To != nil {
		sb.WriteString(` AND close_time <= ?`)
		args = append(args, boundNano(*rng.To))
	}
	sb.WriteString(` ORDER BY close_time DESC, id`)

	return r.queryTrades(ctx, "GetClosedTrades", sb.String(), args...)
}

// GetOpenTrades retrieves trades of an account without a close time, newest first.
func (r *Repository) GetOpenTrades(ctx context.Context, accountID uuid.UUID) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades
	WHERE account_id = ? AND close_time IS NULL
	ORDER BY open_time DESC, id`
	return r.queryTrades(ctx, "GetOpenTrades", query, accountID.String())
}

// FindTradeByID retrieves a trade by its unique ID.
func (r *Repository) FindTradeByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = ?`

	trade, err := scanTrade(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Trade not found by ID", ports.Fields{"tradeID": id.String()})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query trade by ID %s: %w: %w", id, ports.ErrQueryFailed, err)
	}
	return trade, nil
}

func (r *Repository) queryTrades(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades during %s: %w: %w", op, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade during %s: %w", op, err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// --- AnnotationRepository Implementation ---

// GetAnnotation retrieves the annotation of a trade.
func (r *Repository) GetAnnotation(ctx context.Context, tradeID uuid.UUID) (*domain.TradeAnnotation, error) {
	const query = `SELECT trade_id, note_text, tags FROM trade_annotations WHERE trade_id = ?`

	a := &domain.TradeAnnotation{}
	var tags string
	err := r.db.QueryRowContext(ctx, query, tradeID.String()).Scan(&a.TradeID, &a.NoteText, &tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not an error, just not annotated
		}
		return nil, fmt.Errorf("failed to query annotation of trade %s: %w: %w", tradeID, ports.ErrQueryFailed, err)
	}
	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of trade %s: %w", tradeID, err)
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a, nil
}

// SaveAnnotation inserts or replaces the annotation of a trade.
func (r *Repository) SaveAnnotation(ctx context.Context, a *domain.TradeAnnotation) error {
	const query = `
	INSERT INTO trade_annotations (trade_id, note_text, tags, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (trade_id) DO UPDATE SET
		note_text = excluded.note_text,
		tags = excluded.tags,
		updated_at = excluded.updated_at`

	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags of trade %s: %w", a.TradeID, err)
	}

	if _, err := r.db.ExecContext(ctx, query, a.TradeID.String(), a.NoteText, string(encoded), time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to save annotation of trade %s: %w: %w", a.TradeID, ports.ErrUpdateFailed, err)
	}
	r.logger.Debug(ctx, "Annotation saved", ports.Fields{"tradeID": a.TradeID.String(), "tags": len(tags)})
	return nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var side string
	var openTime int64
	var closeTime sql.NullInt64
	err := s.Scan(
		&t.ID, &t.AccountID, &t.Symbol, &side, &openTime, &closeTime,
		&t.Volume, &t.Profit, &t.OpenPrice, &t.ClosePrice, &t.StopLoss, &t.TakeProfit, &t.Commission, &t.Swap)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	t.Side = domain.TradeSide(side)
	t.OpenTime = fromUnixNano(openTime)
	t.CloseTime = timeFromNull(closeTime)
	return t, nil
}

// scanAccount scans a row into a domain.TradingAccount struct.
func scanAccount(s scanner) (*domain.TradingAccount, error) {
	a := &domain.TradingAccount{}
	var status string
	var attempted, succeeded sql.NullInt64
	var lastError sql.NullString
	var created, updated int64
	err := s.Scan(&a.ID, &a.Broker, &a.Server, &a.Login, &status, &attempted, &succeeded,
		&lastError, &created, &updated)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	a.Status = domain.AccountStatus(status)
	a.LastAttemptedSyncAt = timeFromNull(attempted)
	a.LastSuccessfulSyncAt = timeFromNull(succeeded)
	a.LastError = lastError.String
	a.CreatedAt = fromUnixNano(created)
	a.UpdatedAt = fromUnixNano(updated)
	return a, nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func timeFromNull(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromUnixNano(n.Int64)
	return &t
}

func nullableTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

// boundNano clamps a range bound to the storable span.
func boundNano(t time.Time) int64 {
	switch {
	case t.Before(domain.MinTradeTime):
		return math.MinInt64
	case t.After(domain.MaxTradeTime):
		return math.MaxInt64
	}
	return t.UnixNano()
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isConstraintViolation reports whether err is a unique or primary key violation.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
