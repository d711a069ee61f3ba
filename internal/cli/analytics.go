package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradeJournal/internal/domain"
)

func (c *CLI) analyticsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analytics",
		Aliases: []string{"stats"},
		Short:   "Compute performance reports for an account",
	}

	svc := func() serviceReports { return c.service() }

	var bucket string
	pnl := reportCommand(c, "pnl", "P/L per day or week",
		func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.PnlSeries, error) {
			return svc().PnlSeries(ctx, id, rng, domain.PnlBucket(bucket))
		}, c.renderPnlSeries)
	pnl.Flags().StringVar(&bucket, "bucket", string(domain.BucketDaily), "daily or weekly")

	cmd.AddCommand(
		reportCommand(c, "summary", "Headline metrics",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.AnalyticsSummary, error) {
				return svc().Summary(ctx, id, rng)
			}, c.renderSummary),
		reportCommand(c, "time", "P/L by hour, weekday and session",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.TimeAnalysis, error) {
				return svc().TimeAnalysis(ctx, id, rng)
			}, c.renderTimeAnalysis),
		reportCommand(c, "pairs", "Best and worst instruments",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.PairAnalysis, error) {
				return svc().PairAnalysis(ctx, id, rng)
			}, c.renderPairAnalysis),
		reportCommand(c, "behavior", "Hold times, revenge trading and overtrading",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.BehaviorAnalysis, error) {
				return svc().BehaviorAnalysis(ctx, id, rng)
			}, c.renderBehaviorAnalysis),
		reportCommand(c, "risk", "Risk per trade, exposure and loss limits",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.RiskAnalysis, error) {
				return svc().RiskAnalysis(ctx, id, rng)
			}, c.renderRiskAnalysis),
		reportCommand(c, "report", "All five reports from one snapshot",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.AnalyticsReport, error) {
				return svc().Report(ctx, id, rng)
			}, c.renderReport),
		pnl,
		reportCommand(c, "equity", "End-of-day equity curve",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (*domain.EquitySeries, error) {
				return svc().EquitySeries(ctx, id, rng)
			}, c.renderEquitySeries),
		reportCommand(c, "insights", "Observations about recent trading",
			func(ctx context.Context, id uuid.UUID, rng domain.DateRange) ([]domain.Insight, error) {
				return svc().Insights(ctx, id, rng)
			}, c.renderInsights),
	)
	return cmd
}

// serviceReports is the part of the journal service the analytics commands use.
type serviceReports interface {
	Summary(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.AnalyticsSummary, error)
	TimeAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.TimeAnalysis, error)
	PairAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.PairAnalysis, error)
	BehaviorAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.BehaviorAnalysis, error)
	RiskAnalysis(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.RiskAnalysis, error)
	Report(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.AnalyticsReport, error)
	PnlSeries(ctx context.Context, accountID uuid.UUID, rng domain.DateRange, bucket domain.PnlBucket) (*domain.PnlSeries, error)
	EquitySeries(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) (*domain.EquitySeries, error)
	Insights(ctx context.Context, accountID uuid.UUID, rng domain.DateRange) ([]domain.Insight, error)
}

// reportCommand builds "<use> <account-id> [--from] [--to]" around fetch,
// printing JSON or the table produced by render.
func reportCommand[T any](
	c *CLI,
	use, short string,
	fetch func(ctx context.Context, id uuid.UUID, rng domain.DateRange) (T, error),
	render func(T) error,
) *cobra.Command {
	var rng rangeFlags
	cmd := &cobra.Command{
		Use:   use + " <account-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			dr, err := rng.dateRange(c.location())
			if err != nil {
				return err
			}
			v, err := fetch(cmd.Context(), id, dr)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(v)
			}
			return render(v)
		},
	}
	rng.register(cmd)
	return cmd
}
