// Command storefront is the terminal product catalog browser.
//
// Usage:
//
//	storefront [-url /products?category=jewelery] [-offline] [-config path]
//
// On exit the final location is printed so it can be shared or passed back
// with -url.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/storefront/internal/app"
	"github.com/abelbrown/storefront/internal/config"
	"github.com/abelbrown/storefront/internal/coord"
	"github.com/abelbrown/storefront/internal/logging"
	"github.com/abelbrown/storefront/internal/otel"
	"github.com/abelbrown/storefront/internal/ui"
)

func main() {
	location := flag.String("url", "", "Initial location, e.g. /products?sort=price-asc")
	offline := flag.Bool("offline", false, "Use cached data only")
	configPath := flag.String("config", config.ConfigPath(), "Config file")
	flag.Parse()

	cfg, err := config.LoadPath(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *offline {
		cfg.Cache.Offline = true
	}

	if err := logging.Init(cfg.Log.Dir, cfg.Log.Level); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	rt, err := app.Open(cfg)
	if err != nil {
		logging.Error("startup failed", "error", err)
		log.Fatalf("Failed to start: %v", err)
	}
	defer rt.Close()
	rt.Events.Info(otel.KindStartup, "main", logging.Version)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coordinator := coord.NewCoordinator(rt.Query, coord.DefaultRefreshInterval)

	// program is assigned before Run, so Send is never called while nil.
	var program *tea.Program
	model := ui.NewAppWithConfig(ui.AppConfig{
		LoadCatalog: coordinator.LoadCmd(ctx),
		Retry:       coordinator.RetryCmd(ctx),
		Send:        func(msg tea.Msg) { program.Send(msg) },
		Location:    *location,
		SearchDelay: cfg.SearchDebounce(),
		PriceDelay:  cfg.PriceDebounce(),
		ShowDebug:   cfg.UI.ShowDebug,
		Obs: ui.ObsConfig{
			Logger: rt.Events,
			Ring:   rt.Ring,
		},
	})

	program = tea.NewProgram(model, tea.WithAltScreen())
	coordinator.Start(ctx, program)

	final, err := program.Run()
	if err != nil {
		logging.Error("program failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
	}

	// Graceful shutdown
	cancel()
	coordinator.Wait()

	if a, ok := final.(ui.App); ok {
		fmt.Println(a.Location())
	}
}
