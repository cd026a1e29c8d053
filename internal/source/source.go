// Package source defines the contract between migration stages and the
// places raw records come from. A source yields untyped rows; field encodings
// are whatever the legacy store or spreadsheet happened to contain, and the
// normalizers downstream are responsible for making sense of them.
package source

// Row is one raw record keyed by source field name. Values are untyped on
// purpose: the same field arrives as a string from one export and a number
// from another.
type Row map[string]any

// Get returns the named field or nil when absent.
func (r Row) Get(field string) any {
	return r[field]
}

// Iterator walks the rows of one entity type in source order.
type Iterator interface {
	// Next returns the next row, or false when the source is exhausted or
	// failed. After false, Err distinguishes the two.
	Next() (Row, bool)
	// Err reports the first error encountered while iterating.
	Err() error
	// Close releases the underlying cursor or file handle.
	Close() error
}

// SliceIterator adapts an in-memory row slice to the Iterator contract.
// Sources that must read eagerly (spreadsheet sheets) and tests both use it.
type SliceIterator struct {
	rows []Row
	pos  int
}

// NewSliceIterator wraps already-materialized rows.
func NewSliceIterator(rows []Row) *SliceIterator {
	return &SliceIterator{rows: rows}
}

func (it *SliceIterator) Next() (Row, bool) {
	if it.pos >= len(it.rows) {
		return nil, false
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true
}

func (it *SliceIterator) Err() error { return nil }

func (it *SliceIterator) Close() error { return nil }
