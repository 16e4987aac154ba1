// Package table holds the in-memory tabular model produced by decoding an
// uploaded file, together with the decoder and the column type normalizer.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind classifies a column's values
type Kind string

const (
	KindText    Kind = "text"
	KindNumeric Kind = "numeric"
)

// Column is a named, ordered sequence of cell values, one per row.
// Text always holds the decoded raw cells. When Kind is KindNumeric,
// Numbers holds the parsed values with NaN marking missing entries.
type Column struct {
	Name    string
	Kind    Kind
	Text    []string
	Numbers []float64
}

// Table is an ordered set of equally sized columns
type Table struct {
	Columns  []Column
	RowCount int
}

// ColumnNames returns the header names in original order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Rows materializes the table as row-major records for serialization.
// Numeric cells become float64 (nil when missing), text cells string.
func (t *Table) Rows() []map[string]interface{} {
	rows := make([]map[string]interface{}, t.RowCount)
	for i := 0; i < t.RowCount; i++ {
		row := make(map[string]interface{}, len(t.Columns))
		for _, c := range t.Columns {
			if c.Kind == KindNumeric {
				v := c.Numbers[i]
				if math.IsNaN(v) {
					row[c.Name] = nil
				} else {
					row[c.Name] = v
				}
				continue
			}
			if isMissing(c.Text[i]) {
				row[c.Name] = nil
			} else {
				row[c.Name] = c.Text[i]
			}
		}
		rows[i] = row
	}
	return rows
}

// CellString returns the display form of the cell at (col, row), and
// whether the cell holds a value at all.
func (c *Column) CellString(row int) (string, bool) {
	if c.Kind == KindNumeric {
		v := c.Numbers[row]
		if math.IsNaN(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	if isMissing(c.Text[row]) {
		return "", false
	}
	return c.Text[row], true
}

// isMissing reports whether a raw cell counts as absent
func isMissing(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
