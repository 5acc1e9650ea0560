package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/abelbrown/storefront/internal/logging"
	"github.com/abelbrown/storefront/internal/server"
)

const shutdownTimeout = 5 * time.Second

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (default from config)")
	offline := fs.Bool("offline", false, "Use cached data only")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}
	if *offline {
		cfg.Cache.Offline = true
	}
	rt := openRuntime(cfg)
	defer rt.Close()

	router := server.NewRouter(server.NewHandler(rt.Query, logging.Version), server.Options{
		CORSOrigins: cfg.Serve.CORSOrigins,
		Logger:      logging.WithPrefix("http"),
	})
	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("serving", "addr", cfg.Serve.Addr, "api", rt.Fetch.BaseURL())
		fmt.Printf("Listening on http://%s\n", cfg.Serve.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fail(err)
		}
	case <-ctx.Done():
		logging.Info("shutting down server")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("server shutdown failed", "error", err)
		}
	}
}
