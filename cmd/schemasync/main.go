package main

import (
	"errors"
	"fmt"
	"os"

	"schemasync/cmd/schemasync/cli"
)

// Set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		if !errors.Is(err, cli.ErrOutOfSync) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
