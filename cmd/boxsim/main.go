// Command boxsim runs the Boxlands micro-economy simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"boxlands/internal/agents"
	"boxlands/internal/api"
	"boxlands/internal/config"
	"boxlands/internal/economy"
	"boxlands/internal/engine"
	"boxlands/internal/persistence"
	"boxlands/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (empty = defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Boxlands — agent-based micro-economy sandbox",
		"seed", cfg.Seed,
		"citizens", cfg.CitizenCount,
		"boxes", cfg.BoxCount,
		"field_radius", cfg.FieldRadius,
	)

	// ── History store ────────────────────────────────────────────────
	var store *persistence.Store
	if cfg.DBPath != "" {
		os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
		store, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("history store opened", "path", cfg.DBPath)
	}

	// ── World ────────────────────────────────────────────────────────
	field := world.NewField(cfg.FieldRadius, cfg.Seed)
	field.ScatterBoxes(cfg.BoxCount)

	spawner := agents.NewSpawner(cfg.Seed, agents.SpawnConfig{
		CapitalMin:                cfg.StartingCapitalMin,
		CapitalMax:                cfg.StartingCapitalMax,
		StartingBoxes:             cfg.StartingBoxes,
		StartingProfitExpectation: cfg.StartingProfitExpectation,
		InvestmentFraction:        cfg.InvestmentFraction,
		Pricing: agents.PricingParams{
			PriceMagnifier:           cfg.PriceMagnifier,
			MinimumProfitExpectation: cfg.MinimumProfitExpectation,
		},
	})
	citizens := spawner.SpawnPopulation(cfg.CitizenCount, field)
	vendor := economy.NewVendor("Vendel")

	slog.Info("world ready",
		"citizens", len(citizens),
		"boxes", field.BoxCount(),
		"vendor", vendor.Name,
	)

	// ── Simulation ───────────────────────────────────────────────────
	sim := engine.NewSimulation(cfg, field, citizens, vendor)
	sim.Spawner = spawner
	if store != nil {
		sim.Recorder = store
	}

	eng := engine.NewEngine(cfg.TickSeconds)
	eng.OnTick = sim.Tick

	// ── HTTP API ─────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("admin_key not set — admin POST endpoints are disabled")
	}
	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		Store:    store,
		Port:     cfg.APIPort,
		AdminKey: cfg.AdminKey,
	}
	apiServer.Start()

	// ── Start ────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nBoxlands is open for business: %d citizens, %d boxes on the field.\n",
		len(citizens), field.BoxCount())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	fmt.Println("Simulation stopped.")
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
