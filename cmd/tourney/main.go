package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/tourney/internal/cli"
)

func main() {
	// Interrupts cancel the command context so storage calls unwind
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Options{})
	stop()
	os.Exit(code)
}
