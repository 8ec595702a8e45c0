package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/virtual-patient-simulator/internal/api"
	"github.com/virtual-patient-simulator/internal/config"
	"github.com/virtual-patient-simulator/internal/domain"
	"github.com/virtual-patient-simulator/internal/generator"
	"github.com/virtual-patient-simulator/internal/model"
	"github.com/virtual-patient-simulator/internal/simulation"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(&cfg.Logging)

	// Load the three model capability pairs; any missing artifact is fatal
	registry, err := model.Load(&cfg.Models, logger)
	if err != nil {
		log.Fatalf("Failed to load models: %v", err)
	}

	catalog, err := generator.NewImageCatalog(cfg.Images.Root, cfg.Images.CacheSize, logger)
	if err != nil {
		log.Fatalf("Failed to create image catalog: %v", err)
	}

	gen, err := generator.New(domain.DefaultTables(), catalog, logger)
	if err != nil {
		log.Fatalf("Failed to create patient generator: %v", err)
	}

	store, err := simulation.NewFileStore(cfg.Simulation.OutputDir)
	if err != nil {
		log.Fatalf("Failed to create record store: %v", err)
	}

	opts := []simulation.EngineOption{
		simulation.WithSeed(cfg.Simulation.Seed),
		simulation.WithWorkers(cfg.Simulation.BatchWorkers),
	}

	var history domain.HistoryStore
	if cfg.Simulation.HistoryDB != "" {
		sqliteHistory, err := simulation.NewSQLiteHistory(cfg.Simulation.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer sqliteHistory.Close()
		history = sqliteHistory
		opts = append(opts, simulation.WithHistory(history))
	}

	engine := simulation.NewEngine(gen, registry, store, logger, opts...)

	log.Printf("Starting virtual patient simulator on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Create server
	server := api.NewServer(cfg, engine, history)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
