package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/fontsmith/internal/cli"
	"github.com/matzehuels/fontsmith/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status. Cobra has already
// printed the error.
func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return 130 // Standard shell convention for SIGINT
	case errors.Is(err, errors.ErrCodeCodesExhausted):
		return 3
	default:
		return 1
	}
}
