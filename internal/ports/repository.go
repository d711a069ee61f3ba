package ports

import (
	"context"

	"github.com/google/uuid"

	"tradeJournal/internal/domain"
)

// TradeRepository defines the data-access contract the analytics engine consumes.
type TradeRepository interface {
	// GetClosedTrades retrieves the closed trades of an account whose close time falls in rng,
	// ordered by close time descending.
	GetClosedTrades(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) ([]*domain.Trade, error)
	// GetOpenTrades retrieves the trades of an account that have not been closed yet.
	GetOpenTrades(ctx context.Context, accountID uuid.UUID) ([]*domain.Trade, error)
	// FindTradeByID retrieves a trade by its ID.
	// Returns nil, nil if not found.
	FindTradeByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error)
	// CreateTrade saves a single trade.
	CreateTrade(ctx context.Context, trade *domain.Trade) error
	// CreateTrades saves a batch of trades atomically.
	CreateTrades(ctx context.Context, trades []*domain.Trade) error
}

// AccountRepository defines the interface for storing and retrieving trading accounts.
type AccountRepository interface {
	// CreateAccount saves a new account. Returns ErrDuplicateEntry when broker, server
	// and login already exist.
	CreateAccount(ctx context.Context, acc *domain.TradingAccount) error
	// ListAccounts retrieves all accounts, newest first.
	ListAccounts(ctx context.Context) ([]*domain.TradingAccount, error)
	// FindAccountByID retrieves an account by ID.
	// Returns nil, nil if not found.
	FindAccountByID(ctx context.Context, id uuid.UUID) (*domain.TradingAccount, error)
	// DeleteAccount removes an account and all of its trades.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// AnnotationRepository stores journal notes attached to trades.
type AnnotationRepository interface {
	// GetAnnotation retrieves the annotation of a trade.
	// Returns nil, nil if the trade has none.
	GetAnnotation(ctx context.Context, tradeID uuid.UUID) (*domain.TradeAnnotation, error)
	// SaveAnnotation inserts or replaces the annotation of a trade.
	SaveAnnotation(ctx context.Context, a *domain.TradeAnnotation) error
}

// JournalStore is implemented by adapters that back every repository at once.
type JournalStore interface {
	TradeRepository
	AccountRepository
	AnnotationRepository
	Close() error
}
