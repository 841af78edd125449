package spreadsheet

import (
	"strconv"
	"strings"
)

// ReadSummary extracts the vendor's own per-item totals (the 商品汇总 block)
// from the sheet. A missing summary section is not an error; reconciliation
// is simply skipped, so the result is an empty map.
func (w *Workbook) ReadSummary(layout Layout) map[string]int {
	if layout == LayoutRaw {
		return w.readSummaryRaw()
	}
	return w.readSummaryFormatted()
}

// readSummaryRaw handles raw platform exports, where the summary block reuses
// the order table's columns: the row whose first cell is 商品 heads the
// block, labels sit in the first column and quantities in the 内容 column,
// and the 总计 row terminates it.
func (w *Workbook) readSummaryRaw() map[string]int {
	result := make(map[string]int)

	qtyCol := -1
	for i, c := range w.header() {
		if strings.TrimSpace(c) == "内容" {
			qtyCol = i
			break
		}
	}
	if qtyCol == -1 {
		return result
	}

	body := w.body()
	start := -1
	for i, row := range body {
		if strings.TrimSpace(cellAt(row, 0)) == summaryItemHeader {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return result
	}

	for _, row := range body[start:] {
		label := strings.TrimSpace(cellAt(row, 0))
		if label == grandTotalCell {
			break
		}
		qty := strings.TrimSpace(cellAt(row, qtyCol))
		if label == "" || qty == "" {
			continue
		}
		n, err := strconv.Atoi(normalizeNumeric(qty))
		if err != nil {
			continue
		}
		result[label] = n
	}
	return result
}

// readSummaryFormatted handles hand-formatted exports, which carry an inline
// section labeled 商品汇总 with its own 商品/数量 sub-headers on the next
// row. The first matching sub-header column wins; hand-formatted sheets
// sometimes repeat columns per delivery day.
func (w *Workbook) readSummaryFormatted() map[string]int {
	result := make(map[string]int)
	body := w.body()

	width := 0
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}

	sectionRow := -1
	for c := 0; c < width && sectionRow == -1; c++ {
		for i, row := range body {
			if strings.TrimSpace(cellAt(row, c)) == summarySectionCell {
				sectionRow = i
				break
			}
		}
	}
	if sectionRow == -1 || sectionRow+1 >= len(body) {
		return result
	}

	subHeader := body[sectionRow+1]
	itemCol, qtyCol := -1, -1
	for c := 0; c < width; c++ {
		switch strings.TrimSpace(cellAt(subHeader, c)) {
		case summaryItemHeader:
			if itemCol == -1 {
				itemCol = c
			}
		case summaryQtyHeader:
			if qtyCol == -1 {
				qtyCol = c
			}
		}
	}
	if itemCol == -1 || qtyCol == -1 {
		return result
	}

	for _, row := range body[sectionRow+2:] {
		label := strings.TrimSpace(cellAt(row, itemCol))
		if label == "" || label == grandTotalCell {
			break
		}
		n, err := strconv.Atoi(normalizeNumeric(strings.TrimSpace(cellAt(row, qtyCol))))
		if err != nil {
			continue
		}
		result[label] = n
	}
	return result
}
