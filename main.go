// Package main provides the entry point for secfile, a password-based file
// encryption utility.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/secfile/internal/commands"
	"github.com/idelchi/secfile/internal/config"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cfg := &config.Config{}
	root := commands.NewRootCommand(cfg, version)

	err := root.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
