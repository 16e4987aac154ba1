package summary

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/table"
)

func mustTable(t *testing.T, csvText string) *table.Table {
	t.Helper()
	tbl, err := table.DecodeCSV([]byte(csvText))
	require.NoError(t, err)
	table.NormalizeTypes(tbl)
	return tbl
}

func TestGenerate_AveragesAndDistribution(t *testing.T) {
	tbl := mustTable(t, strings.Join([]string{
		"equipment,flowrate,pressure",
		"reactor,15,4",
		"pump,17,5",
		"reactor,8,2",
		"valve,10,3",
	}, "\n"))

	s := Generate(tbl)

	assert.Equal(t, 4, s.TotalCount)
	assert.Equal(t, []string{"equipment", "flowrate", "pressure"}, s.ColumnNames)
	assert.Equal(t, []string{"flowrate", "pressure"}, s.NumericColumns)
	assert.Equal(t, []string{"equipment"}, s.CategoricalColumns)
	assert.Equal(t, 12.5, s.Averages["flowrate"])
	assert.Equal(t, 3.5, s.Averages["pressure"])
	assert.Equal(t, "equipment", s.DistributionColumn)
	assert.Equal(t, map[string]int{"reactor": 2, "pump": 1, "valve": 1}, s.TypeDistribution)
}

func TestGenerate_MeanRoundedToTwoPlaces(t *testing.T) {
	tbl := mustTable(t, "v\n1\n2\n4\n")

	s := Generate(tbl)

	// 7/3 = 2.333...
	assert.Equal(t, 2.33, s.Averages["v"])
}

func TestGenerate_MeanSkipsMissing(t *testing.T) {
	tbl := mustTable(t, "v,pad\n10,a\n,b\n20,c\n")

	s := Generate(tbl)

	assert.Equal(t, 15.0, s.Averages["v"])
}

func TestGenerate_AllMissingNumericAveragesZero(t *testing.T) {
	tbl := mustTable(t, "v,pad\n,a\n,b\n")

	s := Generate(tbl)

	assert.Equal(t, 0.0, s.Averages["v"])
}

func TestGenerate_KeyNormalization(t *testing.T) {
	tbl := mustTable(t, "Flow Rate,pad\n10,a\n20,b\n")

	s := Generate(tbl)

	assert.Contains(t, s.Averages, "flow_rate")
	// The original spelling survives in the column lists
	assert.Equal(t, []string{"Flow Rate"}, s.NumericColumns)
}

func TestGenerate_DuplicateKeysLastColumnWins(t *testing.T) {
	tbl := mustTable(t, "Flow Rate,flow_rate,pad\n10,100,a\n20,200,b\n")

	s := Generate(tbl)

	require.Len(t, s.Averages, 1)
	assert.Equal(t, 150.0, s.Averages["flow_rate"])
	assert.Equal(t, []string{"Flow Rate", "flow_rate"}, s.NumericColumns)
}

func TestGenerate_IdenticalHeaderNames(t *testing.T) {
	tbl := mustTable(t, " a , a\nx,1\ny,2\n")

	s := Generate(tbl)

	assert.Equal(t, []string{"a", "a"}, s.ColumnNames)
	assert.Equal(t, []string{"a"}, s.NumericColumns)
	assert.Equal(t, []string{"a"}, s.CategoricalColumns)
	assert.Equal(t, 1.5, s.Averages["a"])
	// The first column named "a" is categorical, so it supplies the
	// distribution
	assert.Equal(t, "a", s.DistributionColumn)
	assert.Equal(t, map[string]int{"x": 1, "y": 1}, s.TypeDistribution)
}

func TestGenerate_DistributionFallsBackToFirstColumn(t *testing.T) {
	tbl := mustTable(t, "a,b\n1,10\n1,20\n2,30\n")

	s := Generate(tbl)

	assert.Empty(t, s.CategoricalColumns)
	assert.Equal(t, "a", s.DistributionColumn)
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, s.TypeDistribution)
}

func TestGenerate_TiedCountsBothSurvive(t *testing.T) {
	tbl := mustTable(t, "equipment,pad\nreactor,a\npump,b\nreactor,c\npump,d\n")

	s := Generate(tbl)

	assert.Equal(t, map[string]int{"reactor": 2, "pump": 2}, s.TypeDistribution)
}

func TestGenerate_DistributionCapsAtTen(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("category,pad\n")
	// 12 distinct values; "hot" dominates so it must survive the cap
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "cat_%02d,x\n", i)
	}
	for i := 0; i < 5; i++ {
		sb.WriteString("hot,x\n")
	}

	s := Generate(mustTable(t, sb.String()))

	assert.Len(t, s.TypeDistribution, 10)
	assert.Equal(t, 5, s.TypeDistribution["hot"])
}

func TestGenerate_DistributionSkipsMissing(t *testing.T) {
	tbl := mustTable(t, "category,pad\nreactor,a\n,b\n  ,c\npump,d\n")

	s := Generate(tbl)

	assert.Equal(t, map[string]int{"reactor": 1, "pump": 1}, s.TypeDistribution)
	// Missing cells still count toward the record total
	assert.Equal(t, 4, s.TotalCount)
}

func TestGenerate_Deterministic(t *testing.T) {
	csvText := "equipment,flowrate\nreactor,15\npump,17\nreactor,8\n"

	first := Generate(mustTable(t, csvText))
	second := Generate(mustTable(t, csvText))

	assert.Equal(t, first, second)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "flow_rate", NormalizeKey("Flow Rate"))
	assert.Equal(t, "pressure", NormalizeKey("PRESSURE"))
	assert.Equal(t, "a__b", NormalizeKey("A  B"))
}
