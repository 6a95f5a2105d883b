package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/webup/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		var exitErr *commands.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Reported {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(commands.ExitCode(err))
	}
}
