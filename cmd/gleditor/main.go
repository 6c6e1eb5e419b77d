// Package main provides gleditor, a terminal editor for the global lists of
// work item tracking collections. It exports the lists of an environment
// with witadmin, edits the downloaded XML and imports it back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	// Cancel running witadmin calls on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := execute(ctx, a, newRootCmd(a)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// execute runs root and closes the session log whether or not the command
// succeeded.
func execute(ctx context.Context, a *app, root *cobra.Command) error {
	defer a.teardown()
	return root.ExecuteContext(ctx)
}
