package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rohanveit/monzo-tracker/cmd"
)

// completion describes the CLI for shell completion. Complete returns
// immediately unless the shell is asking for completions.
func completion() {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	sub["topic"] = &complete.Command{Args: predict.Something}
	sub["show"] = &complete.Command{Args: predict.Something}

	c := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"workbook-file": predict.Files("*.jsonl"),
			"token-file":    predict.Files("*.json"),
		},
	}
	c.Complete("mzt")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
