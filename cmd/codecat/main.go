// Package main provides the entry point for the codecat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/codecat-dev/codecat/cmd/codecat/cmd"
	cerrors "github.com/codecat-dev/codecat/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprint(os.Stderr, cerrors.FormatForCLI(err))
		os.Exit(1)
	}
}
