package table

import (
	"math"
	"strconv"
	"strings"
)

// numericThreshold is the fraction of rows that must parse as numbers
// for a text column to be reclassified. The denominator is the total
// row count, not the count of present values.
const numericThreshold = 0.5

func nan() float64 { return math.NaN() }

// NormalizeTypes reclassifies text columns as numeric in place, without
// altering column names or order. For each text column it strips
// thousands-separator commas, parses every value, and adopts the parsed
// sequence when at least half of all rows produced a number. Each
// column's decision is independent of every other column's.
func NormalizeTypes(t *Table) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != KindText {
			continue
		}
		parsed := make([]float64, t.RowCount)
		hits := 0
		for j, raw := range col.Text {
			v, ok := parseLooseNumber(raw)
			if ok {
				parsed[j] = v
				hits++
			} else {
				parsed[j] = nan()
			}
		}
		if t.RowCount > 0 && float64(hits)/float64(t.RowCount) >= numericThreshold {
			col.Numbers = parsed
			col.Kind = KindNumeric
		}
	}
}

// parseLooseNumber parses a cell as a float after removing commas.
// Missing or unparseable cells report no value.
func parseLooseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
