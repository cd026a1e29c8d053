// Package excelsrc reads clinic data exports (one workbook, one sheet per
// entity type) as migration source rows. The first row of each sheet is the
// header; every other row is keyed by it.
package excelsrc

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"toothpickeve.com/migrate/internal/metrics"
	"toothpickeve.com/migrate/internal/source"
)

// Workbook wraps one open Excel file.
type Workbook struct {
	file *excelize.File
	path string
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

// Close releases the file handle.
func (w *Workbook) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// Rows reads an entire sheet into header-keyed rows. Sheets are read eagerly;
// clinic exports are small enough that streaming buys nothing. Cells the
// sheet leaves empty are absent from the row, so normalizers see nil rather
// than "".
func (w *Workbook) Rows(sheet string) ([]source.Row, error) {
	raw, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]source.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(source.Row, len(header))
		empty := true
		for i, name := range header {
			if name == "" || i >= len(cells) {
				continue
			}
			if cells[i] == "" {
				continue
			}
			row[name] = cells[i]
			empty = false
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	metrics.RecordSourceRows("excel", sheet, len(rows))
	log.Debug().
		Str("sheet", sheet).
		Int("rows", len(rows)).
		Msg("Read workbook sheet")

	return rows, nil
}

// Iterator returns the sheet's rows behind the standard source contract.
func (w *Workbook) Iterator(sheet string) (source.Iterator, error) {
	rows, err := w.Rows(sheet)
	if err != nil {
		return nil, err
	}
	return source.NewSliceIterator(rows), nil
}

// DistinctValues collects the distinct non-empty values of one column across
// a sheet, preserving first-seen order. The doctor stage harvests provider
// names this way since the workbook has no doctors sheet of its own.
func (w *Workbook) DistinctValues(sheet, column string) ([]string, error) {
	rows, err := w.Rows(sheet)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var values []string
	for _, row := range rows {
		v, ok := row[column].(string)
		if !ok || v == "" {
			continue
		}
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values, nil
}
