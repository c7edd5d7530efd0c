package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rfa-explorer/internal/app"
	"rfa-explorer/internal/config"
	"rfa-explorer/internal/explorer"
	"rfa-explorer/internal/logging"
	"rfa-explorer/internal/reporting"
	"rfa-explorer/internal/storage/memory"
)

func main() {
	// Parse flags
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	configPath := flag.String("config", os.Getenv("RFA_CONFIG"), "Path to YAML config file")
	csvPath := flag.String("csv", "", "Allocation CSV path (overrides config)")
	offline := flag.Bool("offline", false, "Skip price fetching; USD values and premiums are omitted")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *csvPath != "" {
		cfg.Source.CSVPath = *csvPath
	}

	logger := logging.New("rfa-report", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src, closeSource, err := app.NewSource(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating allocation source: %v\n", err)
		os.Exit(1)
	}
	defer closeSource()

	opts := explorer.Options{
		Source:    src,
		Snapshots: memory.NewPriceSnapshotStore(),
		Logger:    logger,
	}
	if !*offline {
		opts.Prices = app.NewPriceClient(cfg)
	}
	svc := explorer.New(opts)

	if !*offline {
		if err := svc.RefreshPrices(ctx); err != nil {
			// Report still renders; prices show as unavailable.
			fmt.Fprintf(os.Stderr, "Warning: prices unavailable: %v\n", err)
		}
	}

	report := reporting.NewGenerator(svc).Generate(ctx)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, "ALLOCATIONS.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}

	csvOut := filepath.Join(*outputDir, "allocations.csv")
	if err := os.WriteFile(csvOut, []byte(reporting.RenderCSV(report.Table.Rows)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvOut, err)
		os.Exit(1)
	}

	fmt.Println("Allocation report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvOut)
}
