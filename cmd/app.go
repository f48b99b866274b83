// Package cmd implements the CLI application to manage the workbook.
package cmd

import (
	"flag"
	"fmt"
	"os"

	tracker "github.com/rohanveit/monzo-tracker"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands lists the subcommands.
// A main package registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&syncCmd{},
	&showCmd{},
	&fmtCmd{},
	&reauthCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var workbookFile = flag.String("workbook-file", tracker.DefaultStorePath, "Path to the workbook file (JSONL format)")
var tokenFile = flag.String("token-file", tracker.DefaultTokenPath(), "Path to the stored Monzo OAuth tokens")

// LoadStore loads the app workbook, an empty one when the file does not exist yet.
func LoadStore() (*tracker.Store, error) {
	return tracker.LoadStore(*workbookFile)
}

// SaveStore writes the app workbook back to its file.
func SaveStore(store *tracker.Store) error {
	return tracker.SaveStore(store, *workbookFile)
}

// NewTokenManager builds the token manager from the environment. A .env file
// in the working directory is loaded first when present.
func NewTokenManager() (*tracker.TokenManager, error) {
	godotenv.Load()

	clientID := os.Getenv("MONZO_CLIENT_ID")
	clientSecret := os.Getenv("MONZO_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("MONZO_CLIENT_ID and MONZO_CLIENT_SECRET must be set (see 'mzt topic auth')")
	}
	redirectURI := os.Getenv("MONZO_REDIRECT_URI")
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	return tracker.NewTokenManager(clientID, clientSecret, redirectURI, *tokenFile), nil
}
