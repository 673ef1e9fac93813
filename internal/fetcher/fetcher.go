// Package fetcher reads tabular source files (CSV, TSV, XLSX) and resolves
// remote or archived data sources to local files.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnsupportedFormat is returned when a table file extension is not recognized.
var ErrUnsupportedFormat = eris.New("fetcher: unsupported table format")

// Table is a header row plus data rows, all as strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column (case-insensitive), or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns row[col], or "" when the row is short.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ReadTable opens path and parses it according to its extension.
func ReadTable(ctx context.Context, path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		opts := CSVOptions{HasHeader: true, TrimSpace: true}
		if ext == ".tsv" {
			opts.Delimiter = '\t'
		}
		return ReadCSV(ctx, f, opts)
	case ".xlsx":
		return ReadXLSX(path, XLSXOptions{})
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "fetcher: %s", path)
	}
}
