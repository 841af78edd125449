package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"order-dispatch/internal/common"
)

// Workbook is the first sheet of an uploaded export, fully materialized as
// rows of strings. All extraction runs against this snapshot so the
// underlying file handle is released immediately after opening.
type Workbook struct {
	rows [][]string
}

// OpenWorkbook reads the first sheet of an .xlsx export.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.WrapError(err, "open workbook")
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrStructural)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.WrapError(err, "read sheet rows")
	}
	if len(rows) <= metadataRows {
		return nil, fmt.Errorf("%w: missing header row", common.ErrStructural)
	}
	return &Workbook{rows: rows}, nil
}

// DetectLayout classifies the export by reading only the header row: the 标签
// column is present in raw platform exports and absent from hand-formatted
// ones.
func (w *Workbook) DetectLayout() Layout {
	for _, c := range w.header() {
		if strings.TrimSpace(c) == tagColumnHeader {
			return LayoutRaw
		}
	}
	return LayoutFormatted
}

func (w *Workbook) header() []string {
	return w.rows[metadataRows]
}

func (w *Workbook) body() [][]string {
	return w.rows[metadataRows+1:]
}

// cellAt returns the raw value of column i, tolerating short rows (excelize
// drops trailing empty cells).
func cellAt(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}
