package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "salespulse/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps run failures to process exit codes: 2 for bad configuration
// or arguments, 3 when there is nothing to analyze, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, apperrors.ErrConfig), errors.Is(err, apperrors.ErrValidation):
		return 2
	case errors.Is(err, apperrors.ErrNoInputData), errors.Is(err, apperrors.ErrInsufficientData):
		return 3
	default:
		return 1
	}
}
