package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the workbook file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `mzt fmt

  Validates and formats the workbook file. This command recovers every record
  from the monthly sheets, rebuilds the sheets from scratch, recomputes the
  balance chain and the overviews, and writes the workbook back in canonical
  JSONL form. Sheets that are not months or overviews are preserved as-is.

`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load workbook: %v\n", err)
		return subcommands.ExitFailure
	}
	if store.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Warning: workbook is empty, nothing to format.")
		return subcommands.ExitSuccess
	}

	formatted, err := store.Fmt()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting workbook: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := SaveStore(formatted); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving workbook: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stderr, "✅ Successfully formatted the workbook.")
	return subcommands.ExitSuccess
}
