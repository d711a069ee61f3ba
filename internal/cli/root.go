package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tradeJournal/internal/app"
)

// Deps is everything a command needs once configuration has been loaded.
type Deps struct {
	Service  *app.JournalService
	Seed     int64            // Default seed for generated demo data
	Now      func() time.Time // Clock for generated demo data
	Location *time.Location   // Calendar for --from / --to dates; nil means UTC
	Close    func() error     // Releases storage, flushes logs and spans
}

// Builder wires the application from the config file named by --config
// (empty means the environment only).
type Builder func(ctx context.Context, configPath string) (*Deps, error)

// CLI is the journal command tree.
type CLI struct {
	build Builder
	in    io.Reader
	out   io.Writer
	root  *cobra.Command

	cfgPath string
	asJSON  bool
	deps    *Deps
}

// New builds the command tree. Dependencies are created lazily, after flags
// have been parsed.
func New(build Builder, in io.Reader, out io.Writer) *CLI {
	c := &CLI{build: build, in: in, out: out}

	root := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal analytics",
		Long: `Journal stores trades per trading account and computes performance analytics.

It provides tools for:
  - Managing trading accounts
  - Importing, exporting and annotating trades
  - Summary, time, pair, behavior and risk reports
  - P/L and equity series, and trading insights`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.build(cmd.Context(), c.cfgPath)
			if err != nil {
				return fmt.Errorf("startup: %w", err)
			}
			c.deps = deps
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "YAML config file (overrides CONFIG_FILE)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		c.accountsCommand(),
		c.tradesCommand(),
		c.analyticsCommand(),
		c.seedCommand(),
	)
	c.root = root
	return c
}

// Execute runs the command line args and releases dependencies afterwards.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)
	if c.deps != nil && c.deps.Close != nil {
		if cerr := c.deps.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	c.deps = nil
	return err
}

func (c *CLI) service() *app.JournalService {
	return c.deps.Service
}

func (c *CLI) location() *time.Location {
	if c.deps == nil || c.deps.Location == nil {
		return time.UTC
	}
	return c.deps.Location
}
