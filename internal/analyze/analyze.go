package analyze

import (
	"sort"

	"order-dispatch/internal/spreadsheet"
)

// ItemTotal is one menu item's quantity summed over a selection of orders.
type ItemTotal struct {
	Item     string
	Quantity int
}

// Totals sums item quantities over the selected order indices and returns the
// non-zero totals sorted by quantity descending (ties keep menu-list order),
// plus the grand total item count. An empty selection yields an empty result.
// Out-of-range indices are ignored.
func Totals(orders []spreadsheet.Order, itemNames []string, selected []int) ([]ItemTotal, int) {
	if len(selected) == 0 {
		return nil, 0
	}

	sums := make(map[string]int, len(itemNames))
	for _, idx := range selected {
		if idx < 0 || idx >= len(orders) {
			continue
		}
		for name, qty := range orders[idx].Quantities {
			sums[name] += qty
		}
	}

	var totals []ItemTotal
	grand := 0
	for _, name := range itemNames {
		if sums[name] > 0 {
			totals = append(totals, ItemTotal{Item: name, Quantity: sums[name]})
			grand += sums[name]
		}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Quantity > totals[j].Quantity
	})
	return totals, grand
}
