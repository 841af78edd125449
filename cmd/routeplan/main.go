package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"order-dispatch/internal/common"
	"order-dispatch/internal/geocode"
	"order-dispatch/internal/repository"
	"order-dispatch/internal/route"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		list    = flag.Bool("list", false, "list recent batches and exit")
		batchID = flag.String("batch", "", "batch id to plan a route for")
		start   = flag.String("start", "", "free-text start address")
		orders  = flag.String("orders", "", "comma-separated order indices to include (default: all)")
	)
	flag.Parse()

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

	db, err := repository.Open(ctx, cfg.History.Path, logger)
	if err != nil {
		logger.Error("failed to open history database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)
	repo := repository.NewBatchRepository(db, logger)

	if *list {
		summaries, err := repo.List(ctx, 20)
		if err != nil {
			logger.Error("failed to list batches", "error", err)
			os.Exit(1)
		}
		for _, s := range summaries {
			fmt.Printf("%s  %-10s %3d orders  %s\n",
				s.ID, s.Layout, s.Orders, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return
	}

	if *batchID == "" || *start == "" {
		printError("Error: --batch and --start are required\n")
		os.Exit(1)
	}
	if err := cfg.RequireMapsKey(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	id, err := uuid.Parse(*batchID)
	if err != nil {
		printError("Error: invalid --batch id: %v\n", err)
		os.Exit(1)
	}
	batch, err := repo.Get(ctx, id)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	selected, err := parseSelection(*orders, len(batch.Orders))
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	deliveries := make([]route.Delivery, 0, len(selected))
	for _, idx := range selected {
		o := batch.Orders[idx]
		deliveries = append(deliveries, route.Delivery{
			OrderIndex: o.Index,
			Customer:   o.Customer,
			Address:    o.Address,
			City:       o.City,
			ZipCode:    o.ZipCode,
		})
	}

	cache := geocode.NewFileCache(cfg.Cache.Path, logger)
	client := geocode.NewClient(cfg.Maps.APIKey, cfg.Maps.GeocodeTimeout, logger)
	resolver := geocode.NewResolver(cache, client, logger)
	matrix := route.NewMatrixClient(cfg.Maps.APIKey, cfg.Maps.MatrixTimeout, logger)
	optimizer := route.NewOptimizer(resolver, matrix, cfg.Route.SearchBudget, logger)

	stops, err := optimizer.OptimizeRoute(ctx, deliveries, *start)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	for _, s := range stops {
		mins := s.DurationSeconds / 60
		if s.OrderIndex == route.StartWaypoint {
			fmt.Printf("%2d. %s (start)\n", s.StopNumber, s.Address)
			continue
		}
		fmt.Printf("%2d. %-12s %s, %s %s  (+%d min)\n",
			s.StopNumber, s.Customer, s.Address, s.City, s.ZipCode, mins)
	}
}

// parseSelection parses "0,2,5" into order indices, defaulting to all orders.
func parseSelection(s string, total int) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid order index %q", part)
		}
		if idx < 0 || idx >= total {
			return nil, fmt.Errorf("order index %d out of range (batch has %d orders)", idx, total)
		}
		out = append(out, idx)
	}
	return out, nil
}
