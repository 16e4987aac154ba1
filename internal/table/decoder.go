package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsetCandidate is one rung of the encoding fallback ladder. decode
// returns the file content as UTF-8 text or an error when the bytes are
// not valid in that charset.
type charsetCandidate struct {
	name   string
	decode func([]byte) (string, error)
}

// charsetLadder lists the encodings tried in order. The first candidate
// that decodes and yields a parseable header wins; later candidates are
// never tried after a success. latin-1 accepts any byte sequence, so the
// trailing entries exist to mirror the documented contract rather than
// to be reachable.
var charsetLadder = []charsetCandidate{
	{"utf-8", decodeUTF8},
	{"utf-8-sig", decodeUTF8SIG},
	{"latin-1", decodeCharmapFunc(charmap.ISO8859_1)},
	{"cp1252", decodeCharmapFunc(charmap.Windows1252)},
	{"iso-8859-1", decodeCharmapFunc(charmap.ISO8859_1)},
}

func decodeUTF8(data []byte) (string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		// Defer to the utf-8-sig rung so the signature is stripped
		// instead of leaking into the first column name.
		return "", fmt.Errorf("input carries a UTF-8 signature")
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("input is not valid UTF-8")
	}
	return string(data), nil
}

func decodeUTF8SIG(data []byte) (string, error) {
	if !bytes.HasPrefix(data, utf8BOM) {
		return "", fmt.Errorf("input has no UTF-8 signature")
	}
	rest := data[len(utf8BOM):]
	if !utf8.Valid(rest) {
		return "", fmt.Errorf("input is not valid UTF-8 after signature")
	}
	return string(rest), nil
}

func decodeCharmapFunc(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// Decode turns the raw bytes of an uploaded file into a Table. CSV input
// goes through the charset fallback ladder; .xlsx input is decoded from
// its first sheet. Column names are trimmed of surrounding whitespace
// before any downstream component sees them.
func Decode(r io.Reader, filename string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return DecodeXLSX(bytes.NewReader(data))
	}
	return DecodeCSV(data)
}

// DecodeCSV parses comma-delimited text with a header row, attempting
// each charset in the fallback ladder until one produces a parseable
// header. Rows with extra fields are skipped with a warning; rows with
// missing trailing fields are padded with empty cells.
func DecodeCSV(data []byte) (*Table, error) {
	var lastErr error
	for _, cand := range charsetLadder {
		text, err := cand.decode(data)
		if err != nil {
			lastErr = err
			continue
		}
		header, rows, err := parseCSVText(text)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", cand.name, err)
			continue
		}
		return buildTable(header, rows)
	}
	return nil, core.NewDecodeError(lastErr)
}

// parseCSVText splits decoded text into a trimmed header and raw rows.
// A row whose field count exceeds the header is malformed and skipped
// with a warning, matching lenient bad-line handling; a short row is
// padded so every column keeps an equal row count.
func parseCSVText(text string) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[Decoder] Skipping malformed row %d: %v", line, err)
			continue
		}
		if len(rec) > len(header) {
			log.Printf("[Decoder] Skipping row %d: %d fields, expected %d", line, len(rec), len(header))
			continue
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// DecodeXLSX reads the first sheet of an Excel workbook, treating the
// first row as the header.
func DecodeXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, core.NewDecodeError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrNoColumns
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewDecodeError(err)
	}
	if len(raw) == 0 {
		return nil, core.ErrNoColumns
	}

	header := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		header[i] = strings.TrimSpace(name)
	}

	var rows [][]string
	for i, rec := range raw[1:] {
		if len(rec) > len(header) {
			log.Printf("[Decoder] Truncating sheet row %d: %d cells, expected %d", i+2, len(rec), len(header))
			rec = rec[:len(header)]
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return buildTable(header, rows)
}

// buildTable assembles columns from raw rows and applies the initial
// type classification: a column whose non-missing values all parse as
// numbers is numeric from the start; mixed columns stay text until the
// normalizer decides.
func buildTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, core.ErrNoColumns
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	t := &Table{
		Columns:  make([]Column, len(header)),
		RowCount: len(rows),
	}
	for i, name := range header {
		col := Column{
			Name: name,
			Kind: KindText,
			Text: make([]string, len(rows)),
		}
		for j, rec := range rows {
			col.Text[j] = rec[i]
		}
		classifyInitial(&col)
		t.Columns[i] = col
	}
	return t, nil
}

// classifyInitial marks a column numeric when every present value parses
// as a float. An all-missing column is numeric as well (its mean is
// undefined and reported as 0 downstream).
func classifyInitial(col *Column) {
	parsed := make([]float64, len(col.Text))
	for i, raw := range col.Text {
		if isMissing(raw) {
			parsed[i] = nan()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return
		}
		parsed[i] = v
	}
	col.Kind = KindNumeric
	col.Numbers = parsed
}
