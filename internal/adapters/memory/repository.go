package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// Repository is an in-process ports.JournalStore. Stored values are copied
// on the way in and out so callers never share memory with the store.
type Repository struct {
	mu          sync.RWMutex
	accounts    map[uuid.UUID]*domain.TradingAccount
	trades      map[uuid.UUID]*domain.Trade
	annotations map[uuid.UUID]*domain.TradeAnnotation
	logger      ports.Logger
}

var _ ports.JournalStore = (*Repository)(nil)

// NewRepository creates an empty in-memory store.
func NewRepository(logger ports.Logger) *Repository {
	return &Repository{
		accounts:    make(map[uuid.UUID]*domain.TradingAccount),
		trades:      make(map[uuid.UUID]*domain.Trade),
		annotations: make(map[uuid.UUID]*domain.TradeAnnotation),
		logger:      logger,
	}
}

// Close is a no-op.
func (r *Repository) Close() error {
	return nil
}

func (r *Repository) CreateAccount(ctx context.Context, acc *domain.TradingAccount) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[acc.ID]; ok {
		return fmt.Errorf("account %s: %w", acc.ID, ports.ErrDuplicateEntry)
	}
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Broker, acc.Broker) &&
			strings.EqualFold(existing.Server, acc.Server) &&
			existing.Login == acc.Login {
			return fmt.Errorf("account %s/%s/%s: %w", acc.Broker, acc.Server, acc.Login, ports.ErrDuplicateEntry)
		}
	}
	r.accounts[acc.ID] = copyAccount(acc)
	r.debug(ctx, "Account created", ports.Fields{"accountID": acc.ID.String()})
	return nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]*domain.TradingAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.TradingAccount, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, copyAccount(acc))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *Repository) FindAccountByID(ctx context.Context, id uuid.UUID) (*domain.TradingAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(acc), nil
}

func (r *Repository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return fmt.Errorf("account %s not found for delete: %w", id, ports.ErrNotFound)
	}
	for tid, t := range r.trades {
		if t.AccountID == id {
			delete(r.annotations, tid)
			delete(r.trades, tid)
		}
	}
	delete(r.accounts, id)
	r.debug(ctx, "Account deleted", ports.Fields{"accountID": id.String()})
	return nil
}

func (r *Repository) CreateTrade(ctx context.Context, trade *domain.Trade) error {
	return r.CreateTrades(ctx, []*domain.Trade{trade})
}

// CreateTrades stores all trades or none.
func (r *Repository) CreateTrades(ctx context.Context, trades []*domain.Trade) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uuid.UUID]bool, len(trades))
	for _, t := range trades {
		if _, ok := r.trades[t.ID]; ok || seen[t.ID] {
			return fmt.Errorf("trade %s: %w", t.ID, ports.ErrDuplicateEntry)
		}
		seen[t.ID] = true
	}
	for _, t := range trades {
		r.trades[t.ID] = copyTrade(t)
	}
	r.debug(ctx, "Trades created", ports.Fields{"count": len(trades)})
	return nil
}

func (r *Repository) GetClosedTrades(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) ([]*domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Trade, 0)
	for _, t := range r.trades {
		if t.AccountID != accountID || t.IsOpen() || !rng.Contains(*t.CloseTime) {
			continue
		}
		out = append(out, copyTrade(t))
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *Repository) GetOpenTrades(ctx context.Context, accountID uuid.UUID) ([]*domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Trade, 0)
	for _, t := range r.trades {
		if t.AccountID == accountID && t.IsOpen() {
			out = append(out, copyTrade(t))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *Repository) FindTradeByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trades[id]
	if !ok {
		return nil, nil
	}
	return copyTrade(t), nil
}

func (r *Repository) GetAnnotation(ctx context.Context, tradeID uuid.UUID) (*domain.TradeAnnotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.annotations[tradeID]
	if !ok {
		return nil, nil
	}
	return copyAnnotation(a), nil
}

func (r *Repository) SaveAnnotation(ctx context.Context, a *domain.TradeAnnotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.annotations[a.TradeID] = copyAnnotation(a)
	return nil
}

func (r *Repository) debug(ctx context.Context, msg string, fields ports.Fields) {
	if r.logger != nil {
		r.logger.Debug(ctx, msg, fields)
	}
}

func sortNewestFirst(trades []*domain.Trade) {
	sort.Slice(trades, func(i, j int) bool {
		ei, ej := trades[i].EffectiveTime(), trades[j].EffectiveTime()
		if !ei.Equal(ej) {
			return ei.After(ej)
		}
		return trades[i].ID.String() < trades[j].ID.String()
	})
}

func copyTrade(t *domain.Trade) *domain.Trade {
	c := *t
	if t.CloseTime != nil {
		c.CloseTime = domain.TimePtr(*t.CloseTime)
	}
	return &c
}

func copyAccount(a *domain.TradingAccount) *domain.TradingAccount {
	c := *a
	if a.LastAttemptedSyncAt != nil {
		c.LastAttemptedSyncAt = domain.TimePtr(*a.LastAttemptedSyncAt)
	}
	if a.LastSuccessfulSyncAt != nil {
		c.LastSuccessfulSyncAt = domain.TimePtr(*a.LastSuccessfulSyncAt)
	}
	return &c
}

func copyAnnotation(a *domain.TradeAnnotation) *domain.TradeAnnotation {
	c := *a
	c.Tags = append([]string{}, a.Tags...)
	return &c
}
