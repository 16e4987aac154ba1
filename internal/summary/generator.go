// Package summary derives the aggregate statistics record from a
// normalized table.
package summary

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/table"
)

// maxDistributionEntries caps the categorical frequency breakdown
const maxDistributionEntries = 10

// Generate computes a Summary from a normalized table. The computation
// is deterministic: the same table always yields identical contents.
func Generate(t *table.Table) *dataset.Summary {
	s := &dataset.Summary{
		TotalCount:         t.RowCount,
		Averages:           make(map[string]float64),
		TypeDistribution:   make(map[string]int),
		ColumnNames:        t.ColumnNames(),
		NumericColumns:     []string{},
		CategoricalColumns: []string{},
	}

	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind == table.KindNumeric {
			s.NumericColumns = append(s.NumericColumns, col.Name)
			// Two columns may normalize to the same key; the later
			// column wins, matching upstream behavior.
			s.Averages[NormalizeKey(col.Name)] = columnMean(col)
		} else {
			s.CategoricalColumns = append(s.CategoricalColumns, col.Name)
		}
	}

	// Distribution column: first categorical in original order, else the
	// first column overall, even if numeric.
	switch {
	case len(s.CategoricalColumns) > 0:
		s.DistributionColumn = s.CategoricalColumns[0]
	case len(t.Columns) > 0:
		s.DistributionColumn = t.Columns[0].Name
	}

	if s.DistributionColumn != "" {
		for i := range t.Columns {
			if t.Columns[i].Name == s.DistributionColumn {
				s.TypeDistribution = distribution(&t.Columns[i], t.RowCount)
				break
			}
		}
	}

	return s
}

// NormalizeKey lower-cases a column name and replaces spaces with
// underscores, producing the summary map key for that column.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// columnMean is the arithmetic mean of the column's present values,
// rounded to 2 decimal places, or 0 when every value is missing.
func columnMean(col *table.Column) float64 {
	values := make([]float64, 0, len(col.Numbers))
	for _, v := range col.Numbers {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	mean, err := stats.Mean(values)
	if err != nil || math.IsNaN(mean) {
		return 0
	}
	return math.Round(mean*100) / 100
}

// distribution counts occurrences of the column's present values and
// keeps the most frequent maxDistributionEntries distinct values.
// Ties between equal counts break by first-encountered order.
func distribution(col *table.Column, rowCount int) map[string]int {
	counts := make(map[string]int)
	var order []string
	for row := 0; row < rowCount; row++ {
		label, ok := col.CellString(row)
		if !ok {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	firstSeen := make(map[string]int, len(order))
	for i, label := range order {
		firstSeen[label] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] > counts[order[b]]
		}
		return firstSeen[order[a]] < firstSeen[order[b]]
	})

	if len(order) > maxDistributionEntries {
		order = order[:maxDistributionEntries]
	}
	top := make(map[string]int, len(order))
	for _, label := range order {
		top[label] = counts[label]
	}
	return top
}
