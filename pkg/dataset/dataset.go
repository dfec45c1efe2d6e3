// Package dataset loads uploaded tabular payloads into in-memory tables.
// Parsing is delegated to the gota dataframe library; this package only
// stages bytes, classifies failures, and exposes the table shape the rest of
// the system needs.
package dataset

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/voxquery/voxquery/internal/tmpfile"
	"github.com/voxquery/voxquery/pkg/core"
)

// Table is the loaded representation of one uploaded file. It is owned by
// the session and replaced wholesale on re-upload.
type Table struct {
	name string
	df   dataframe.DataFrame
}

// Load parses data as delimited tabular content. The caller has already
// validated the filename extension; filename is retained only for display.
//
// The payload is staged through a temp file which is removed before Load
// returns, success or failure.
func Load(data []byte, filename string) (*Table, error) {
	var df dataframe.DataFrame
	var parseErr error
	err := tmpfile.Run("voxquery-upload-*.csv", data, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open staged upload: %w", err)
		}
		defer f.Close()

		df = dataframe.ReadCSV(f)
		parseErr = df.Error()
		return nil
	})
	// Staging faults are infrastructure trouble, not malformed data.
	if err != nil {
		return nil, core.Wrap(core.ErrUnexpected, "Failed to load CSV file", err)
	}
	if parseErr != nil {
		return nil, core.Wrap(core.ErrParseFailure, "Failed to load CSV file", parseErr)
	}
	if df.Nrow() == 0 && df.Ncol() == 0 {
		return nil, core.New(core.ErrParseFailure, "Failed to load CSV file: no tabular data found")
	}
	return &Table{name: filename, df: df}, nil
}

// Name returns the filename the table was loaded from.
func (t *Table) Name() string {
	return t.name
}

// Rows returns the number of data rows (excluding the header).
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return t.df.Ncol()
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	return t.df.Names()
}

// Records returns the header row followed by at most limit data rows.
// limit <= 0 means all rows.
func (t *Table) Records(limit int) [][]string {
	records := t.df.Records()
	if limit <= 0 || len(records) <= limit+1 {
		return records
	}
	return records[:limit+1]
}
