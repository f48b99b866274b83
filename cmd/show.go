package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/rohanveit/monzo-tracker/renderer"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a sheet, or the whole workbook index" }
func (*showCmd) Usage() string {
	return `mzt show [<sheet>...]

  Displays the named sheets of the workbook. A monthly sheet lists its
  transactions grouped by category, a yearly overview its projection table.
  Without arguments, displays the workbook index.

Usage Examples:
$ mzt show "January 2026"
$ mzt show "2026 Overview"

`
}

func (*showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading workbook: %v\n", err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		printMarkdown(renderer.WorkbookMarkdown(store))
		return subcommands.ExitSuccess
	}

	for _, name := range f.Args() {
		sheet := store.Sheet(name)
		if sheet == nil {
			fmt.Fprintf(os.Stderr, "Error: no sheet named %q in the workbook\n", name)
			return subcommands.ExitFailure
		}
		if strings.HasSuffix(name, " Overview") {
			printMarkdown(renderer.OverviewMarkdown(sheet))
		} else {
			printMarkdown(renderer.MonthMarkdown(sheet))
		}
	}
	return subcommands.ExitSuccess
}
