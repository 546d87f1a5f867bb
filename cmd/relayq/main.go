// Package main is the entry point for the relayq CLI, the command-line
// interface for the RelayQ hosted message queue service.
package main

import (
	"fmt"
	"os"

	"github.com/relayq/relayq/internal/cmd"
	apperrors "github.com/relayq/relayq/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		os.Exit(1)
	}
}
