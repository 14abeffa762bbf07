package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"fleet-rental-pricing/internal/batch"
	"fleet-rental-pricing/internal/config"
	"fleet-rental-pricing/internal/logger"
	"fleet-rental-pricing/internal/metrics"
	"fleet-rental-pricing/internal/pricing"
	"fleet-rental-pricing/internal/report"
	"fleet-rental-pricing/internal/repository/memory"
	"fleet-rental-pricing/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (defaults and environment only when empty)")
	input := flag.String("input", "", "Batch input file (overrides batch.input_path)")
	output := flag.String("output", "", "JSON report file (overrides batch.output_path)")
	style := flag.String("style", "", "Report style, level1 to level6 (overrides report.style)")
	xlsx := flag.String("xlsx", "", "Optional XLSX report file (overrides batch.xlsx_path)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using the process environment")
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.FromEnv()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	override(&cfg.Batch.InputPath, *input)
	override(&cfg.Batch.OutputPath, *output)
	override(&cfg.Batch.XLSXPath, *xlsx)
	override(&cfg.Report.Style, *style)

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting batch run...", "input", cfg.Batch.InputPath, "output", cfg.Batch.OutputPath, "style", cfg.Report.Style)

	params, err := cfg.Pricing.Params()
	if err != nil {
		log.Fatalf("Failed to build pricing parameters: %v", err)
	}

	doc, err := batch.LoadFile(cfg.Batch.InputPath)
	if err != nil {
		log.Fatalf("Failed to load batch input: %v", err)
	}

	store := memory.NewStore()
	rentalSvc := service.NewRentalService(store.CarRepository, store.RentalRepository,
		pricing.NewEngine(params), metrics.New(prometheus.NewRegistry()))
	runner := batch.NewRunner(rentalSvc)

	ctx := context.Background()
	res, err := runner.Run(ctx, doc)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	rep, err := runner.WriteReportFile(ctx, cfg.Batch.OutputPath, cfg.Report.Style)
	if err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if cfg.Batch.XLSXPath != "" {
		data, err := report.BuildXLSX(rep)
		if err != nil {
			log.Fatalf("Failed to build workbook: %v", err)
		}
		if err := os.WriteFile(cfg.Batch.XLSXPath, data, 0o644); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		logger.Info("Workbook written", "path", cfg.Batch.XLSXPath)
	}

	if len(res.Rejected) > 0 {
		logger.Warn("Some records were left out", "run_id", res.RunID, "rejected", len(res.Rejected))
	}
	logger.Info("Batch run finished",
		"run_id", res.RunID, "style", rep.Style, "items", len(rep.Items), "rejected", len(res.Rejected))
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
