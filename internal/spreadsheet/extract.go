package spreadsheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"order-dispatch/internal/common"
)

// ExtractOrders selects the seven canonical columns for the given layout and
// returns every row that looks like a real order: non-empty customer and an
// item text containing the 总价 marker. The trailing summary block fails that
// filter and drops out here.
func (w *Workbook) ExtractOrders(layout Layout) ([]Order, error) {
	fieldAt, err := w.resolveColumns(layout)
	if err != nil {
		return nil, err
	}

	var orders []Order
	for _, row := range w.body() {
		if emptyAt(row, layoutColumns[layout]) {
			continue
		}
		customer := strings.TrimSpace(cellAt(row, fieldAt[fieldCustomer]))
		itemsText := cellAt(row, fieldAt[fieldItems])
		if customer == "" || !strings.Contains(itemsText, orderRowMarker) {
			continue
		}
		orders = append(orders, Order{
			Index:     len(orders),
			Delivery:  normalizeNumeric(cellAt(row, fieldAt[fieldDelivery])),
			Customer:  customer,
			ItemsText: itemsText,
			Phone:     normalizeNumeric(cellAt(row, fieldAt[fieldPhone])),
			Address:   cellAt(row, fieldAt[fieldAddress]),
			City:      cellAt(row, fieldAt[fieldCity]),
			ZipCode:   normalizeNumeric(cellAt(row, fieldAt[fieldZip])),
		})
	}

	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: make sure the file is a valid group-order .xlsx export", common.ErrNoOrders)
	}
	return orders, nil
}

// resolveColumns maps each canonical field to its sheet column index for the
// given layout, based on the header row.
func (w *Workbook) resolveColumns(layout Layout) (map[string]int, error) {
	header := w.header()
	cols := layoutColumns[layout]

	present := 0
	for _, c := range cols {
		if strings.TrimSpace(cellAt(header, c)) != "" {
			present++
		}
	}
	if present < requiredColumns {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", common.ErrStructural, requiredColumns, present)
	}

	fieldAt := make(map[string]int, requiredColumns)
	for _, c := range cols {
		name := strings.TrimSpace(cellAt(header, c))
		if field, ok := headerFields[name]; ok {
			if _, dup := fieldAt[field]; !dup {
				fieldAt[field] = c
			}
		}
	}
	for _, field := range []string{fieldDelivery, fieldCustomer, fieldItems, fieldPhone, fieldAddress, fieldCity, fieldZip} {
		if _, ok := fieldAt[field]; !ok {
			return nil, fmt.Errorf("%w: missing expected column for %s", common.ErrStructural, field)
		}
	}
	return fieldAt, nil
}

func emptyAt(row []string, cols []int) bool {
	for _, c := range cols {
		if strings.TrimSpace(cellAt(row, c)) != "" {
			return false
		}
	}
	return true
}

var intString = regexp.MustCompile(`^-?\d+$`)

// normalizeNumeric renders whole-number floating values ("123.0", "1.23e4")
// as plain integer strings; spreadsheet numeric typing produces these for
// sequence ids, phones and postal codes. Clean digit strings pass through
// untouched so leading zeros survive.
func normalizeNumeric(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || intString.MatchString(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}
