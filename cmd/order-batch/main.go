package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"order-dispatch/internal/analyze"
	"order-dispatch/internal/common"
	"order-dispatch/internal/menu"
	"order-dispatch/internal/pipeline"
	"order-dispatch/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file = flag.String("file", "", "order spreadsheet (.xlsx) to process (required)")
		save = flag.Bool("save", false, "persist the processed batch to the history database")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: --file is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	items, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		logger.Error("failed to load menu", "path", cfg.Menu.Path, "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("failed to open spreadsheet", "path", *file, "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = f.Close()
	}()

	processor := pipeline.NewProcessor(items, logger)
	result, err := processor.Process(f)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Layout: %s\n", result.Layout)
	fmt.Printf("Orders: %d\n\n", len(result.Orders))
	for _, o := range result.Orders {
		fmt.Printf("%3d  #%-4s %-12s %s, %s %s\n",
			o.Index, o.Delivery, o.Customer, o.Address, o.City, o.ZipCode)
	}

	all := make([]int, len(result.Orders))
	for i := range all {
		all[i] = i
	}
	totals, grand := analyze.Totals(result.Orders, menu.Names(items), all)
	fmt.Printf("\nItem totals (%d items):\n", grand)
	for _, t := range totals {
		fmt.Printf("  %4d × %s\n", t.Quantity, t.Item)
	}

	if len(result.Discrepancies) > 0 {
		fmt.Printf("\nSummary mismatches:\n")
		for _, d := range result.Discrepancies {
			fmt.Printf("  %s: parsed %d, summary says %d\n", d.Item, d.Computed, d.Expected)
		}
	} else {
		fmt.Printf("\nAll parsed totals match the summary block.\n")
	}

	if *save {
		db, err := repository.Open(ctx, cfg.History.Path, logger)
		if err != nil {
			logger.Error("failed to open history database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(db, logger)

		batch := &repository.Batch{
			ID:            uuid.New(),
			Filename:      filepath.Base(*file),
			Layout:        string(result.Layout),
			CreatedAt:     time.Now(),
			Orders:        result.Orders,
			Discrepancies: result.Discrepancies,
		}
		if err := repository.NewBatchRepository(db, logger).Save(ctx, batch); err != nil {
			logger.Error("failed to save batch", "error", err)
			os.Exit(1)
		}
		fmt.Printf("\nSaved batch %s\n", batch.ID)
	}
}
