package readers

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hnthap/kb-mcp/kb"
	"github.com/xuri/excelize/v2"
)

// Column header aliases, matched case-insensitively.
var columnAliases = map[string]string{
	"question":     "question",
	"answer":       "answer",
	"product":      "product",
	"product name": "product",
	"category":     "category",
	"description":  "description",
	"price":        "price",
	"price (vnd)":  "price",
}

// XLSXReader loads knowledge rows from the first sheet of an Excel workbook.
// The first row is treated as headers.
type XLSXReader struct {
	Log *slog.Logger
}

func (r *XLSXReader) CanRead(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".xlsx" || ext == ".xlsm"
}

// ReadRows maps the workbook into kb.Row records. Missing Question/Answer
// columns are reported as a warning, not an error: the caller still gets
// whatever parsed.
func (r *XLSXReader) ReadRows(path string) ([]kb.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	cols := make(map[string]int)
	for i, header := range cells[0] {
		key, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]
		if !ok {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}

	if _, ok := cols["question"]; !ok {
		r.warn("workbook has no Question column", path)
	}
	if _, ok := cols["answer"]; !ok {
		r.warn("workbook has no Answer column", path)
	}

	rows := make([]kb.Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		cell := func(key string) string {
			i, ok := cols[key]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		rows = append(rows, kb.Row{
			Question:    cell("question"),
			Answer:      cell("answer"),
			ProductName: cell("product"),
			Category:    cell("category"),
			Description: cell("description"),
			Price:       cell("price"),
		})
	}

	return rows, nil
}

func (r *XLSXReader) warn(msg, path string) {
	if r.Log == nil {
		return
	}

	r.Log.Warn(msg, "file", path)
}
