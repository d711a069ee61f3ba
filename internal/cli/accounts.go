package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradeJournal/internal/adapters/memory"
	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
)

func (c *CLI) accountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage trading accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List trading accounts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := c.service().ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(accounts)
			}
			return c.renderAccounts(accounts)
		},
	}

	var req app.CreateAccountRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a trading account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := c.service().CreateAccount(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(acc)
			}
			return c.renderAccounts([]*domain.TradingAccount{acc})
		},
	}
	add.Flags().StringVar(&req.Broker, "broker", "", "broker name")
	add.Flags().StringVar(&req.Server, "server", "", "broker server")
	add.Flags().StringVar(&req.Login, "login", "", "account login")

	remove := &cobra.Command{
		Use:   "remove <account-id>",
		Short: "Delete an account with all its trades",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			if err := c.service().DeleteAccount(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted account %s\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func (c *CLI) seedCommand() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create two demo accounts with 30 days of generated trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = c.deps.Seed
			}
			now := c.deps.Now
			if now == nil {
				return fmt.Errorf("seed: no clock configured")
			}

			fixtures := memory.NewGenerator(seed).Accounts(now())
			accounts := make([]*domain.TradingAccount, 0, len(fixtures))
			for _, f := range fixtures {
				if err := c.service().SeedAccount(cmd.Context(), f.Account, f.Trades, f.Annotations); err != nil {
					return fmt.Errorf("seed %s: %w", f.Account.Broker, err)
				}
				accounts = append(accounts, f.Account)
			}
			if c.asJSON {
				return c.printJSON(accounts)
			}
			return c.renderAccounts(accounts)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (defaults to SEED)")
	return cmd
}
