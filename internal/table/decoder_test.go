package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
)

func TestDecodeCSV_UTF8(t *testing.T) {
	data := []byte("equipment,flowrate\nreactor,15\npump,17\n")

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"equipment", "flowrate"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.RowCount)
	assert.Equal(t, KindText, tbl.Columns[0].Kind)
	assert.Equal(t, KindNumeric, tbl.Columns[1].Kind)
	assert.Equal(t, []float64{15, 17}, tbl.Columns[1].Numbers)
}

func TestDecodeCSV_UTF8BOMStripped(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,value\nalpha,1\n")...)

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	// The BOM must not leak into the first column name
	assert.Equal(t, "name", tbl.Columns[0].Name)
}

func TestDecodeCSV_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in latin-1 but an invalid standalone byte in UTF-8
	data := []byte("unit,temp\ncaf\xe9,20\n")

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	assert.Equal(t, "café", tbl.Columns[0].Text[0])
}

func TestDecodeCSV_HeaderTrimmed(t *testing.T) {
	data := []byte("  equipment , flowrate \nreactor,15\n")

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"equipment", "flowrate"}, tbl.ColumnNames())
}

func TestDecodeCSV_HeaderOnlyIsEmptyInput(t *testing.T) {
	_, err := DecodeCSV([]byte("equipment,flowrate\n"))

	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestDecodeCSV_NoColumns(t *testing.T) {
	_, err := DecodeCSV([]byte(""))

	assert.Error(t, err)
}

func TestDecodeCSV_ExtraFieldsSkippedShortRowsPadded(t *testing.T) {
	data := []byte("a,b\n1,2\n3,4,5\n6\n")

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	// The 3-field row is dropped, the 1-field row is padded
	assert.Equal(t, 2, tbl.RowCount)
	assert.Equal(t, []string{"2", ""}, tbl.Columns[1].Text)
}

func TestDecode_DispatchesOnExtension(t *testing.T) {
	tbl, err := Decode(strings.NewReader("x\n1\n"), "readings.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.RowCount)

	// Non-xlsx extensions fall through to CSV parsing
	tbl, err = Decode(strings.NewReader("x\n1\n"), "readings.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.RowCount)

	_, err = Decode(strings.NewReader("not a workbook"), "readings.xlsx")
	assert.True(t, core.IsIngestError(err))
}

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeXLSX_MatchesCSVSemantics(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"equipment", "flowrate"},
		{"reactor", 15},
		{"pump", 17},
	})

	tbl, err := DecodeXLSX(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"equipment", "flowrate"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.RowCount)
	assert.Equal(t, KindText, tbl.Columns[0].Kind)
	assert.Equal(t, KindNumeric, tbl.Columns[1].Kind)
	assert.Equal(t, []float64{15, 17}, tbl.Columns[1].Numbers)
}

func TestDecodeXLSX_OverWideRowTruncated(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"equipment", "flowrate"},
		{"reactor", 15, "stray"},
		{"pump", 17},
	})

	tbl, err := DecodeXLSX(bytes.NewReader(data))
	require.NoError(t, err)

	// Cells beyond the header are dropped; the row itself survives
	assert.Equal(t, 2, tbl.RowCount)
	assert.Len(t, tbl.Columns, 2)
	assert.Equal(t, []float64{15, 17}, tbl.Columns[1].Numbers)
}

func TestDecodeCSV_AllMissingColumnIsNumeric(t *testing.T) {
	data := []byte("name,empty\nalpha,\nbeta, \n")

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	assert.Equal(t, KindNumeric, tbl.Columns[1].Kind)
	_, ok := tbl.Columns[1].CellString(0)
	assert.False(t, ok)
}

func TestDecodeCSV_DuplicateHeaderNamesSurvive(t *testing.T) {
	tbl, err := DecodeCSV([]byte(" a , a\nx,1\ny,2\n"))
	require.NoError(t, err)

	// Both columns keep their trimmed name; order is preserved
	assert.Equal(t, []string{"a", "a"}, tbl.ColumnNames())
	assert.Equal(t, KindText, tbl.Columns[0].Kind)
	assert.Equal(t, KindNumeric, tbl.Columns[1].Kind)

	// Row maps have one slot per name; the later column wins it
	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, float64(1), rows[0]["a"])
	assert.Equal(t, float64(2), rows[1]["a"])
}

func TestRows_MissingCellsAreNil(t *testing.T) {
	data := []byte("name,value\nalpha,1\n,2\n")

	tbl, err := DecodeCSV(data)
	require.NoError(t, err)

	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0]["name"])
	assert.Equal(t, float64(1), rows[0]["value"])
	assert.Nil(t, rows[1]["name"])
}
