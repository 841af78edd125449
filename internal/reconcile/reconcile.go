package reconcile

import (
	"regexp"

	"order-dispatch/internal/spreadsheet"
)

// Discrepancy records one item whose computed total across all orders
// disagrees with the vendor's own summary block. Purely diagnostic.
type Discrepancy struct {
	Item     string
	Computed int
	Expected int
}

var whitespace = regexp.MustCompile(`\s+`)

// Check compares per-item computed totals against the vendor summary. Items
// absent from the summary are skipped: an order batch may simply not include
// them. The summary is tried under the literal label first, then under a
// whitespace-stripped normalization.
func Check(orders []spreadsheet.Order, itemNames []string, summary map[string]int) []Discrepancy {
	if len(summary) == 0 {
		return nil
	}

	normalized := make(map[string]int, len(summary))
	for k, v := range summary {
		normalized[normalize(k)] = v
	}

	var discrepancies []Discrepancy
	for _, name := range itemNames {
		computed := 0
		for _, o := range orders {
			computed += o.Quantities[name]
		}
		if computed == 0 {
			continue
		}

		expected, ok := summary[name]
		if !ok {
			expected, ok = normalized[normalize(name)]
		}
		if !ok {
			continue
		}
		if computed != expected {
			discrepancies = append(discrepancies, Discrepancy{
				Item:     name,
				Computed: computed,
				Expected: expected,
			})
		}
	}
	return discrepancies
}

func normalize(name string) string {
	return whitespace.ReplaceAllString(name, "")
}
