package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/fsbatch/fsbatch/pkg/batch"
)

func main() {
	// On interrupt the context is cancelled: the orchestrator stops
	// dispatching new tasks, lets in-flight transforms finish, and still
	// emits the partial results.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, batch.ErrAborted) {
			pterm.Info.Println("aborted by user")
		} else {
			pterm.Error.Println(err)
		}
		stop()
		os.Exit(exitCodeFor(err))
	}
}
