package main

import (
	"os"

	"github.com/ledger/backend/cmd/ledgerctl/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
