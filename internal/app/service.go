package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tradeJournal/internal/adapters/tracing"
	"tradeJournal/internal/analytics"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/utils"
)

const tracerName = "tradeJournal/internal/app"

// JournalService orchestrates repository reads and analytics computations.
// Every read fetches one snapshot and hands it to the stateless engine.
type JournalService struct {
	logger      ports.Logger
	accounts    ports.AccountRepository
	trades      ports.TradeRepository
	annotations ports.AnnotationRepository
	engine      *analytics.Engine
	validate    *validator.Validate
	tracer      trace.Tracer
	listLimit   int
	now         func() time.Time
}

// Options tunes a JournalService. Zero values fall back to defaults.
type Options struct {
	DefaultListLimit int
	Now              func() time.Time
}

// CreateAccountRequest carries the user input for a new trading account.
type CreateAccountRequest struct {
	Broker string `json:"broker" validate:"required,max=64"`
	Server string `json:"server" validate:"required,max=64"`
	Login  string `json:"login" validate:"required,max=32"`
}

// AnnotateRequest replaces the journal note and tags of a trade.
type AnnotateRequest struct {
	TradeID  uuid.UUID
	NoteText string   `validate:"max=4000"`
	Tags     []string `validate:"max=32,dive,max=48"`
}

// NewJournalService creates a new application service instance.
func NewJournalService(
	logger ports.Logger,
	accounts ports.AccountRepository,
	trades ports.TradeRepository,
	annotations ports.AnnotationRepository,
	engine *analytics.Engine,
	opts Options,
) (*JournalService, error) {
	if logger == nil || accounts == nil || trades == nil || annotations == nil || engine == nil {
		return nil, fmt.Errorf("missing required dependencies for JournalService: %w", ports.ErrConfigurationError)
	}
	if opts.DefaultListLimit < 0 {
		return nil, fmt.Errorf("default list limit must not be negative: %w", ports.ErrConfigurationError)
	}
	if opts.DefaultListLimit == 0 {
		opts.DefaultListLimit = domain.DefaultTradeLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &JournalService{
		logger:      logger,
		accounts:    accounts,
		trades:      trades,
		annotations: annotations,
		engine:      engine,
		validate:    validator.New(),
		tracer:      tracing.Tracer(tracerName),
		listLimit:   opts.DefaultListLimit,
		now:         opts.Now,
	}, nil
}

// --- Accounts ---

// CreateAccount validates and stores a new pending account.
func (s *JournalService) CreateAccount(ctx context.Context, req CreateAccountRequest) (acc *domain.TradingAccount, err error) {
	ctx, span := s.startSpan(ctx, "journal.CreateAccount")
	defer func() { endSpan(span, err) }()

	req.Broker = strings.TrimSpace(req.Broker)
	req.Server = strings.TrimSpace(req.Server)
	req.Login = strings.TrimSpace(req.Login)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	acc = &domain.TradingAccount{
		ID:        uuid.New(),
		Broker:    req.Broker,
		Server:    req.Server,
		Login:     req.Login,
		Status:    domain.AccountPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, ports.ErrDuplicateEntry) {
			s.logger.Warn(ctx, "Account already exists", ports.Fields{"broker": req.Broker, "server": req.Server, "login": req.Login})
		} else {
			s.logger.Error(ctx, err, "Failed to create account")
		}
		return nil, err
	}
	s.logger.Info(ctx, "Account created", ports.Fields{"accountID": acc.ID.String(), "broker": acc.Broker})
	return acc, nil
}

// ListAccounts returns all accounts, newest first.
func (s *JournalService) ListAccounts(ctx context.Context) (accs []*domain.TradingAccount, err error) {
	ctx, span := s.startSpan(ctx, "journal.ListAccounts")
	defer func() { endSpan(span, err) }()

	accs, err = s.accounts.ListAccounts(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accs, nil
}

// DeleteAccount removes an account and its trades.
func (s *JournalService) DeleteAccount(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.startSpan(ctx, "journal.DeleteAccount", attribute.String("account.id", id.String()))
	defer func() { endSpan(span, err) }()

	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Error(ctx, err, "Failed to delete account", ports.Fields{"accountID": id.String()})
		}
		return err
	}
	s.logger.Info(ctx, "Account deleted", ports.Fields{"accountID": id.String()})
	return nil
}

// SeedAccount stores a complete account history (account, trades, annotations).
func (s *JournalService) SeedAccount(ctx context.Context, acc *domain.TradingAccount, trades []*domain.Trade, notes []*domain.TradeAnnotation) (err error) {
	ctx, span := s.startSpan(ctx, "journal.SeedAccount", attribute.String("account.id", acc.ID.String()))
	defer func() { endSpan(span, err) }()

	if err := s.accounts.CreateAccount(ctx, acc); err != nil {
		return err
	}
	if err := s.trades.CreateTrades(ctx, trades); err != nil {
		return err
	}
	for _, n := range notes {
		n.Tags = NormalizeTags(n.Tags)
		if err := s.annotations.SaveAnnotation(ctx, n); err != nil {
			return err
		}
	}
	s.logger.Info(ctx, "Account seeded", ports.Fields{"accountID": acc.ID.String(), "trades": len(trades), "annotations": len(notes)})
	return nil
}

// --- Trades ---

// ListTrades returns the account's trades (closed and open) matching filter,
// newest first. A zero Limit uses the configured default.
func (s *JournalService) ListTrades(ctx context.Context, accountID uuid.UUID, filter domain.TradeFilter) (trades []*domain.Trade, err error) {
	ctx, span := s.startSpan(ctx, "journal.ListTrades", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	if err := s.validateStruct(filter); err != nil {
		return nil, err
	}
	closed, open, err := s.snapshot(ctx, accountID, filter.Range)
	if err != nil {
		return nil, err
	}
	if filter.Limit == 0 {
		filter.Limit = s.listLimit
	}
	trades = analytics.FilterTrades(append(closed, open...), filter)
	span.SetAttributes(attribute.Int("trades.count", len(trades)))
	return trades, nil
}

// GetTrade returns a trade with its annotation.
func (s *JournalService) GetTrade(ctx context.Context, id uuid.UUID) (detail *domain.TradeDetail, err error) {
	ctx, span := s.startSpan(ctx, "journal.GetTrade", attribute.String("trade.id", id.String()))
	defer func() { endSpan(span, err) }()

	trade, err := s.findTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	note, err := s.annotations.GetAnnotation(ctx, id)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load annotation", ports.Fields{"tradeID": id.String()})
		return nil, err
	}
	return &domain.TradeDetail{Trade: trade, Annotation: note}, nil
}

// AnnotateTrade replaces the note and tags of a trade. Tags are trimmed,
// de-duplicated and sorted; blank tags are dropped.
func (s *JournalService) AnnotateTrade(ctx context.Context, req AnnotateRequest) (note *domain.TradeAnnotation, err error) {
	ctx, span := s.startSpan(ctx, "journal.AnnotateTrade", attribute.String("trade.id", req.TradeID.String()))
	defer func() { endSpan(span, err) }()

	req.Tags = NormalizeTags(req.Tags)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.findTrade(ctx, req.TradeID); err != nil {
		return nil, err
	}

	note = &domain.TradeAnnotation{TradeID: req.TradeID, NoteText: strings.TrimSpace(req.NoteText), Tags: req.Tags}
	if err := s.annotations.SaveAnnotation(ctx, note); err != nil {
		s.logger.Error(ctx, err, "Failed to save annotation", ports.Fields{"tradeID": req.TradeID.String()})
		return nil, err
	}
	s.logger.Info(ctx, "Trade annotated", ports.Fields{"tradeID": req.TradeID.String(), "tags": len(note.Tags)})
	return note, nil
}

// ImportTrades reads CSV trades into the account. Nothing is stored when any
// row is invalid.
func (s *JournalService) ImportTrades(ctx context.Context, accountID uuid.UUID, r io.Reader) (n int, err error) {
	ctx, span := s.startSpan(ctx, "journal.ImportTrades", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	if _, err := s.requireAccount(ctx, accountID); err != nil {
		return 0, err
	}
	trades, err := utils.ReadTradesCSV(r, accountID)
	if err != nil {
		s.logger.Warn(ctx, "Rejected trade import", ports.Fields{"accountID": accountID.String(), "reason": err.Error()})
		return 0, fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
	}
	if err := s.trades.CreateTrades(ctx, trades); err != nil {
		s.logger.Error(ctx, err, "Failed to store imported trades", ports.Fields{"accountID": accountID.String()})
		return 0, err
	}
	s.logger.Info(ctx, "Trades imported", ports.Fields{"accountID": accountID.String(), "count": len(trades)})
	return len(trades), nil
}

// ExportTrades writes every trade of the account within rng as CSV, oldest first.
func (s *JournalService) ExportTrades(ctx context.Context, accountID uuid.UUID, rng domain.DateRange, w io.Writer) (n int, err error) {
	ctx, span := s.startSpan(ctx, "journal.ExportTrades", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, open, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return 0, err
	}
	all := append(closed, open...)
	selected := make([]*domain.Trade, 0, len(all))
	for _, t := range all {
		if rng.Contains(t.EffectiveTime()) {
			selected = append(selected, t)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].EffectiveTime().Before(selected[j].EffectiveTime())
	})
	if err := utils.WriteTradesCSV(w, selected); err != nil {
		return 0, fmt.Errorf("failed to write trades CSV: %w", err)
	}
	return len(selected), nil
}

// --- Analytics ---

// Summary computes the headline metrics of an account.
func (s *JournalService) Summary(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (sum *domain.AnalyticsSummary, err error) {
	ctx, span := s.startSpan(ctx, "journal.Summary", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, open, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.engine.Summary(append(closed, open...), rng), nil
}

// TimeAnalysis buckets the account's closed trades by time.
func (s *JournalService) TimeAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (ta *domain.TimeAnalysis, err error) {
	ctx, span := s.startSpan(ctx, "journal.TimeAnalysis", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, _, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.engine.TimeAnalysis(closed), nil
}

// PairAnalysis ranks the account's instruments.
func (s *JournalService) PairAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (pa *domain.PairAnalysis, err error) {
	ctx, span := s.startSpan(ctx, "journal.PairAnalysis", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, _, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.engine.PairAnalysis(closed), nil
}

// BehaviorAnalysis flags behavioral patterns of the account.
func (s *JournalService) BehaviorAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (ba *domain.BehaviorAnalysis, err error) {
	ctx, span := s.startSpan(ctx, "journal.BehaviorAnalysis", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, _, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	ba = s.engine.BehaviorAnalysis(closed)
	if ba.RevengeTradingDetected || ba.OvertradingDetected {
		s.logger.Warn(ctx, "Behavior warning", ports.Fields{
			"accountID":   accountID.String(),
			"revenge":     ba.RevengeTradingDetected,
			"overtrading": ba.OvertradingDetected,
		})
	}
	return ba, nil
}

// RiskAnalysis measures risk of the account; open trades feed exposure and floating P/L.
func (s *JournalService) RiskAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (ra *domain.RiskAnalysis, err error) {
	ctx, span := s.startSpan(ctx, "journal.RiskAnalysis", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, open, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.engine.RiskAnalysis(append(closed, open...)), nil
}

// Report computes all five reports from a single snapshot.
func (s *JournalService) Report(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (rep *domain.AnalyticsReport, err error) {
	ctx, span := s.startSpan(ctx, "journal.Report", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, open, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	rep = s.engine.Report(append(closed, open...), rng)
	s.logger.Debug(ctx, "Report computed", ports.Fields{"accountID": accountID.String(), "closed": len(closed), "open": len(open)})
	return rep, nil
}

// PnlSeries sums P/L per day or week. Open trades count when opened within rng.
func (s *JournalService) PnlSeries(ctx context.Context, accountID uuid.UUID, rng domain.DateRange, bucket domain.PnlBucket) (series *domain.PnlSeries, err error) {
	ctx, span := s.startSpan(ctx, "journal.PnlSeries", attribute.String("account.id", accountID.String()), attribute.String("bucket", string(bucket)))
	defer func() { endSpan(span, err) }()

	switch bucket {
	case "", domain.BucketDaily, domain.BucketWeekly:
	default:
		return nil, fmt.Errorf("unknown bucket %q: %w", bucket, ports.ErrInvalidRequest)
	}

	closed, open, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	trades := closed
	for _, t := range open {
		if rng.Contains(t.OpenTime) {
			trades = append(trades, t)
		}
	}
	return s.engine.PnlSeries(trades, bucket), nil
}

// EquitySeries returns the end-of-day equity curve over closed trades.
func (s *JournalService) EquitySeries(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (series *domain.EquitySeries, err error) {
	ctx, span := s.startSpan(ctx, "journal.EquitySeries", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, _, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.engine.EquitySeries(closed), nil
}

// Insights derives observations from the account's trades.
func (s *JournalService) Insights(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (insights []domain.Insight, err error) {
	ctx, span := s.startSpan(ctx, "journal.Insights", attribute.String("account.id", accountID.String()))
	defer func() { endSpan(span, err) }()

	closed, open, err := s.snapshot(ctx, accountID, rng)
	if err != nil {
		return nil, err
	}
	return s.engine.Insights(append(closed, open...)), nil
}

// --- helpers ---

// snapshot validates the request and loads closed trades within rng plus all
// open trades of an existing account.
func (s *JournalService) snapshot(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (closed, open []*domain.Trade, err error) {
	if rng.Inverted() {
		return nil, nil, fmt.Errorf("date range from %s is after to %s: %w",
			rng.From.Format(time.RFC3339), rng.To.Format(time.RFC3339), ports.ErrInvalidRequest)
	}
	if _, err := s.requireAccount(ctx, accountID); err != nil {
		return nil, nil, err
	}

	closed, err = s.trades.GetClosedTrades(ctx, accountID, rng)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load closed trades", ports.Fields{"accountID": accountID.String()})
		return nil, nil, err
	}
	open, err = s.trades.GetOpenTrades(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load open trades", ports.Fields{"accountID": accountID.String()})
		return nil, nil, err
	}
	return closed, open, nil
}

func (s *JournalService) requireAccount(ctx context.Context, id uuid.UUID) (*domain.TradingAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("account id is required: %w", ports.ErrInvalidRequest)
	}
	acc, err := s.accounts.FindAccountByID(ctx, id)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load account", ports.Fields{"accountID": id.String()})
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("account %s: %w", id, ports.ErrNotFound)
	}
	return acc, nil
}

func (s *JournalService) findTrade(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	trade, err := s.trades.FindTradeByID(ctx, id)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load trade", ports.Fields{"tradeID": id.String()})
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("trade %s: %w", id, ports.ErrNotFound)
	}
	return trade, nil
}

func (s *JournalService) validateStruct(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ports.ErrInvalidRequest)
		}
		return fmt.Errorf("%v: %w", err, ports.ErrInvalidRequest)
	}
	return nil
}

func (s *JournalService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// NormalizeTags trims tags, drops blanks and duplicates, and sorts the rest.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
