package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type reauthCmd struct{}

func (*reauthCmd) Name() string     { return "reauth" }
func (*reauthCmd) Synopsis() string { return "discard stored tokens and re-run the Monzo OAuth flow" }
func (*reauthCmd) Usage() string {
	return `mzt reauth

  Clears the stored Monzo tokens and runs the full OAuth authorization flow
  again. Use it when the stored tokens were revoked or belong to the wrong
  account.

`
}

func (*reauthCmd) SetFlags(f *flag.FlagSet) {}

func (c *reauthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tokens, err := NewTokenManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := tokens.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing tokens: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := tokens.AccessToken(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error authenticating: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Authenticated.")
	return subcommands.ExitSuccess
}
