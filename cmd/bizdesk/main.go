// Package main is the entry point for the bizdesk CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bizdesk/internal/backend/bizapi"
	"bizdesk/internal/cli"
	"bizdesk/internal/commands"
	"bizdesk/internal/config"
	"bizdesk/internal/notify"
	"bizdesk/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config, n notify.Notifier) (service.Service, error) {
		svc, err := bizapi.New(ctx, cfg, n)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
