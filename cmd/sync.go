package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	tracker "github.com/rohanveit/monzo-tracker"
	"github.com/google/subcommands"
)

type syncCmd struct {
	days      int
	accountID string
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "fetch recent Monzo transactions into the workbook" }
func (*syncCmd) Usage() string {
	return `mzt sync [-days <n>] [-account <id>]

  Fetches the transactions of the last n days from the Monzo API and merges
  them into the workbook. Already-known transactions are skipped, touched
  months are rebuilt, balances and overviews recomputed.

Usage Examples:
# Sync the last 30 days of the first open account.
$ mzt sync

`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "How many days of transactions to fetch.")
	f.StringVar(&c.accountID, "account", "", "Account to sync. Defaults to the first open account.")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tokens, err := NewTokenManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	client := tracker.NewClient(tokens)

	accountID := c.accountID
	if accountID == "" {
		accounts, err := client.Accounts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing accounts: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, a := range accounts {
			if !a.Closed {
				accountID = a.ID
				break
			}
		}
		if accountID == "" {
			fmt.Fprintln(os.Stderr, "Error: no open account found")
			return subcommands.ExitFailure
		}
	}

	records, err := client.Transactions(ctx, accountID, c.days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(records) == 0 {
		fmt.Println("No transactions in the window.")
		return subcommands.ExitSuccess
	}

	fresh, err := tracker.Write(records, *workbookFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating workbook: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Fetched %d transactions, %d new, into %s\n", len(records), fresh, *workbookFile)
	return subcommands.ExitSuccess
}
