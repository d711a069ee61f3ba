package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
)

func (c *CLI) tradesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List, import, export and annotate trades",
	}
	cmd.AddCommand(
		c.tradesListCommand(),
		c.tradesShowCommand(),
		c.tradesAnnotateCommand(),
		c.tradesImportCommand(),
		c.tradesExportCommand(),
	)
	return cmd
}

func (c *CLI) tradesListCommand() *cobra.Command {
	var (
		rng     rangeFlags
		symbol  string
		outcome string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List trades, newest first",
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
			trades, err := c.service().ListTrades(cmd.Context(), id, domain.TradeFilter{
				Range:   dr,
				Symbol:  symbol,
				Outcome: domain.TradeOutcome(outcome),
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(trades)
			}
			return c.renderTrades(trades)
		},
	}
	rng.register(cmd)
	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol substring, case-insensitive")
	cmd.Flags().StringVar(&outcome, "outcome", "", "win, loss or breakeven")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of trades (default DEFAULT_LIST_LIMIT)")
	return cmd
}

func (c *CLI) tradesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show a trade with its journal note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("trade", args[0])
			if err != nil {
				return err
			}
			detail, err := c.service().GetTrade(cmd.Context(), id)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(detail)
			}
			return c.renderTradeDetail(detail)
		},
	}
}

func (c *CLI) tradesAnnotateCommand() *cobra.Command {
	var (
		note string
		tags []string
	)
	cmd := &cobra.Command{
		Use:   "annotate <trade-id>",
		Short: "Replace the journal note and tags of a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("trade", args[0])
			if err != nil {
				return err
			}
			saved, err := c.service().AnnotateTrade(cmd.Context(), app.AnnotateRequest{TradeID: id, NoteText: note, Tags: tags})
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(saved)
			}
			fmt.Fprintf(c.out, "Annotated trade %s (%d tags)\n", id, len(saved.Tags))
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "note text")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag, repeatable or comma separated")
	return cmd
}

func (c *CLI) tradesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <account-id> <file.csv|->",
		Short: "Import trades from CSV; nothing is stored if any row is invalid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}

			var r io.Reader = c.in
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[1], err)
				}
				defer f.Close()
				r = f
			}

			n, err := c.service().ImportTrades(cmd.Context(), id, r)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(map[string]int{"imported": n})
			}
			fmt.Fprintf(c.out, "Imported %d trades\n", n)
			return nil
		},
	}
}

func (c *CLI) tradesExportCommand() *cobra.Command {
	var (
		rng    rangeFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <account-id>",
		Short: "Export trades as CSV, oldest first",
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

			w := c.out
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			n, err := c.service().ExportTrades(cmd.Context(), id, dr, w)
			if err != nil {
				return err
			}
			if w != c.out {
				fmt.Fprintf(c.out, "Exported %d trades to %s\n", n, output)
			}
			return nil
		},
	}
	rng.register(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default stdout)")
	return cmd
}
