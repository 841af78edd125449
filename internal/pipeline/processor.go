package pipeline

import (
	"io"
	"log/slog"
	"time"

	"order-dispatch/internal/match"
	"order-dispatch/internal/menu"
	"order-dispatch/internal/reconcile"
	"order-dispatch/internal/spreadsheet"
)

// Result is a fully processed spreadsheet: extracted orders with per-item
// quantities, the reconciliation diagnostics, and which layout was detected.
type Result struct {
	Orders        []spreadsheet.Order
	Discrepancies []reconcile.Discrepancy
	Layout        spreadsheet.Layout
}

// Processor coordinates extraction, item matching and reconciliation for one
// uploaded spreadsheet.
type Processor struct {
	logger  *slog.Logger
	names   []string
	matcher *match.Matcher
}

func NewProcessor(items []menu.Item, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	names := menu.Names(items)
	return &Processor{
		logger:  logger,
		names:   names,
		matcher: match.NewMatcher(names),
	}
}

// Process runs the full extraction pipeline over one .xlsx export.
// Reconciliation mismatches come back as data, never as an error.
func (p *Processor) Process(r io.Reader) (*Result, error) {
	start := time.Now()

	wb, err := spreadsheet.OpenWorkbook(r)
	if err != nil {
		p.logger.Error("pipeline.open.failed", "error", err)
		return nil, err
	}

	layout := wb.DetectLayout()
	summary := wb.ReadSummary(layout)

	orders, err := wb.ExtractOrders(layout)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "layout", layout, "error", err)
		return nil, err
	}
	p.logger.Info("pipeline.extract.ok",
		"layout", layout,
		"orders", len(orders),
		"summary_items", len(summary),
	)

	for i := range orders {
		p.matcher.Annotate(&orders[i])
	}

	discrepancies := reconcile.Check(orders, p.names, summary)
	if len(discrepancies) > 0 {
		p.logger.Warn("pipeline.reconcile.mismatch", "count", len(discrepancies))
	}

	p.logger.Info("pipeline.process.ok",
		"layout", layout,
		"orders", len(orders),
		"discrepancies", len(discrepancies),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Orders:        orders,
		Discrepancies: discrepancies,
		Layout:        layout,
	}, nil
}
