package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelbrown/storefront/internal/app"
	"github.com/abelbrown/storefront/internal/config"
	"github.com/abelbrown/storefront/internal/logging"
)

// loadConfig loads the config with .env and environment overrides, or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// openRuntime logs to stderr and builds the runtime, or fatals.
func openRuntime(cfg *config.Config) *app.Runtime {
	logging.InitWriter(os.Stderr, cfg.Log.Level)
	rt, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	return rt
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// fail prints err and exits non-zero.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
