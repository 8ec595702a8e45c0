// Command simulate runs virtual patient simulations from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/virtual-patient-simulator/internal/config"
	"github.com/virtual-patient-simulator/internal/domain"
	"github.com/virtual-patient-simulator/internal/generator"
	"github.com/virtual-patient-simulator/internal/model"
	"github.com/virtual-patient-simulator/internal/simulation"
)

func main() {
	count := flag.Int("n", 1, "number of patients to simulate")
	seed := flag.Int64("seed", 0, "base random seed (0 seeds from the clock)")
	workers := flag.Int("workers", 1, "concurrent runs (1 = sequential)")
	flag.Parse()

	if *count < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		os.Exit(2)
	}

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(&cfg.Logging)

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

	baseSeed := cfg.Simulation.Seed
	if *seed != 0 {
		baseSeed = *seed
	}

	opts := []simulation.EngineOption{
		simulation.WithSeed(baseSeed),
		simulation.WithWorkers(*workers),
	}
	if cfg.Simulation.HistoryDB != "" {
		history, err := simulation.NewSQLiteHistory(cfg.Simulation.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer history.Close()
		opts = append(opts, simulation.WithHistory(history))
	}

	engine := simulation.NewEngine(gen, registry, store, logger, opts...)

	results := engine.RunBatch(context.Background(), *count)

	failed := 0
	correct := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Printf("[%d/%d] failed: %v\n", result.Index+1, *count, result.Err)
			continue
		}
		record := result.Record
		for _, ok := range record.Correctness {
			if ok {
				correct++
			}
		}
		fmt.Printf("[%d/%d] patient %s ground_truth=%s outcome=%s stored=%s\n",
			result.Index+1, *count, record.Patient.PatientID,
			record.Patient.GroundTruth, record.Outcome, record.StoredPath)
	}

	fmt.Printf("\n%d runs, %d failed, %d correct positive predictions\n", *count, failed, correct)
	if failed > 0 {
		os.Exit(1)
	}
}
