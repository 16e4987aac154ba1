// Package report assembles dataset metadata, summary tables, and
// rendered charts into a paginated PDF document.
package report

import (
	"bytes"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/summary"
)

const (
	maxAverageRows      = 15
	maxDistributionRows = 10
	avgLabelLimit       = 30
	categoryLabelLimit  = 25

	timestampLayout = "January 2, 2006 at 3:04 PM"
)

// ChartRenderer is the slice of the renderer the composer needs
type ChartRenderer interface {
	DistributionChart(counts map[string]int) ([]byte, error)
	AveragesChart(averages map[string]float64) ([]byte, error)
}

// Composer builds PDF reports from stored summaries. The clock is
// injectable so tests get stable generation timestamps.
type Composer struct {
	renderer ChartRenderer
	printer  *message.Printer
	titler   cases.Caser
	now      func() time.Time
}

// NewComposer creates a composer backed by the given chart renderer
func NewComposer(renderer ChartRenderer) *Composer {
	return &Composer{
		renderer: renderer,
		printer:  message.NewPrinter(language.English),
		titler:   cases.Title(language.English),
		now:      time.Now,
	}
}

// WithClock overrides the generation timestamp source
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Compose produces the complete report document for a dataset and its
// summary. A failure rendering one chart is replaced with a fallback
// note; the rest of the document still completes.
func (c *Composer) Compose(ds *dataset.Dataset, s *dataset.Summary) ([]byte, error) {
	// Render both charts up front, concurrently and independently. Each
	// goroutine records its own outcome; neither aborts the other.
	var distPNG, avgPNG []byte
	var distErr, avgErr error
	var g errgroup.Group
	if len(s.TypeDistribution) > 0 {
		g.Go(func() error {
			distPNG, distErr = c.renderer.DistributionChart(s.TypeDistribution)
			if distErr != nil {
				log.Printf("[ReportComposer] Distribution chart failed: %v", distErr)
			}
			return nil
		})
	}
	if len(s.Averages) > 0 {
		g.Go(func() error {
			avgPNG, avgErr = c.renderer.AveragesChart(s.Averages)
			if avgErr != nil {
				log.Printf("[ReportComposer] Averages chart failed: %v", avgErr)
			}
			return nil
		})
	}
	g.Wait()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(c.now())
	pdf.SetModificationDate(c.now())
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	c.writeTitleBlock(pdf)
	c.writeDatasetInfo(pdf, tr, ds, s)
	if len(s.Averages) > 0 {
		c.writeAveragesTable(pdf, tr, s)
	}
	if len(s.TypeDistribution) > 0 {
		c.writeDistributionTable(pdf, tr, s)
	}

	// Visualizations open on a fresh page
	pdf.AddPage()
	c.writeHeading(pdf, "Data Visualizations")
	c.rule(pdf, 0.3, 224, 224, 224)
	pdf.Ln(6)

	if len(s.TypeDistribution) > 0 {
		c.writeSubheading(pdf, "Category Distribution Chart")
		c.placeChart(pdf, tr, "distribution-chart", distPNG, distErr)
		pdf.Ln(10)
	}
	if len(s.Averages) > 0 {
		c.writeSubheading(pdf, "Numeric Averages Chart")
		c.placeChart(pdf, tr, "averages-chart", avgPNG, avgErr)
	}

	c.writeFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build report document: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Composer) writeTitleBlock(pdf *fpdf.Fpdf) {
	c.rule(pdf, 1.0, 102, 126, 234)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 12, "Data Analysis Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 8, "Generated on "+c.now().Format(timestampLayout), "", 1, "C", false, 0, "")
	pdf.Ln(8)
}

func (c *Composer) writeDatasetInfo(pdf *fpdf.Fpdf, tr func(string) string, ds *dataset.Dataset, s *dataset.Summary) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	tableW := pageW - left - right

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(102, 126, 234)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(tableW, 11, "Dataset Information", "1", 1, "C", true, 0, "")

	rows := [][2]string{
		{"Filename:", ds.Filename},
		{"Uploaded:", ds.UploadedAt.Format(timestampLayout)},
		{"Total Records:", c.printer.Sprintf("%d", s.TotalCount)},
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(248, 249, 250)
	pdf.SetTextColor(44, 62, 80)
	labelW := tableW * 0.33
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW, 9, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(tableW-labelW, 9, tr(row[1]), "1", 1, "L", true, 0, "")
	}
	pdf.Ln(10)
}

// writeAveragesTable lists up to maxAverageRows numeric means in
// original column order, labels title-cased and capped, values with
// thousands separators and 2 decimal places.
func (c *Composer) writeAveragesTable(pdf *fpdf.Fpdf, tr func(string) string, s *dataset.Summary) {
	c.writeHeading(pdf, "Numeric Statistics")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 7, "Average values for numeric columns in your dataset:", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	tableW := pageW - left - right
	labelW := tableW * 0.55

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(52, 152, 219)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelW, 10, "Parameter", "1", 0, "C", true, 0, "")
	pdf.CellFormat(tableW-labelW, 10, "Average Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(44, 62, 80)
	for i, key := range c.averageKeys(s) {
		if i >= maxAverageRows {
			break
		}
		label := c.titler.String(strings.ReplaceAll(key, "_", " "))
		if len([]rune(label)) > avgLabelLimit {
			label = string([]rune(label)[:avgLabelLimit-3]) + "..."
		}
		c.zebra(pdf, i)
		pdf.CellFormat(labelW, 8, tr(label), "1", 0, "L", true, 0, "")
		pdf.CellFormat(tableW-labelW, 8, c.printer.Sprintf("%.2f", s.Averages[key]), "1", 1, "R", true, 0, "")
	}
	pdf.Ln(10)
}

// averageKeys returns the summary's average map keys in original column
// order, derived from the numeric column list. Columns that collapsed
// onto the same key appear once, at their last position.
func (c *Composer) averageKeys(s *dataset.Summary) []string {
	var keys []string
	seen := make(map[string]int)
	for _, name := range s.NumericColumns {
		key := summary.NormalizeKey(name)
		if _, ok := s.Averages[key]; !ok {
			continue
		}
		if at, ok := seen[key]; ok {
			keys = append(keys[:at], keys[at+1:]...)
			for k, pos := range seen {
				if pos > at {
					seen[k] = pos - 1
				}
			}
		}
		seen[key] = len(keys)
		keys = append(keys, key)
	}
	return keys
}

// writeDistributionTable lists up to maxDistributionRows categories by
// descending count with each category's share of the displayed total.
func (c *Composer) writeDistributionTable(pdf *fpdf.Fpdf, tr func(string) string, s *dataset.Summary) {
	c.writeHeading(pdf, "Category Distribution")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 7, "Top categories by frequency:", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	type categoryRow struct {
		label string
		count int
	}
	rows := make([]categoryRow, 0, len(s.TypeDistribution))
	for label, count := range s.TypeDistribution {
		rows = append(rows, categoryRow{label, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].label < rows[j].label
	})
	if len(rows) > maxDistributionRows {
		rows = rows[:maxDistributionRows]
	}
	total := 0
	for _, row := range rows {
		total += row.count
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	tableW := pageW - left - right
	labelW := tableW * 0.55
	countW := (tableW - labelW) / 2

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(39, 174, 96)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelW, 10, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(countW, 10, "Count", "1", 0, "C", true, 0, "")
	pdf.CellFormat(countW, 10, "Percentage", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(44, 62, 80)
	for i, row := range rows {
		label := row.label
		if len([]rune(label)) > categoryLabelLimit {
			label = string([]rune(label)[:categoryLabelLimit]) + "..."
		}
		percentage := 0.0
		if total > 0 {
			percentage = float64(row.count) / float64(total) * 100
		}
		c.zebra(pdf, i)
		pdf.CellFormat(labelW, 8, tr(label), "1", 0, "L", true, 0, "")
		pdf.CellFormat(countW, 8, c.printer.Sprintf("%d", row.count), "1", 0, "C", true, 0, "")
		pdf.CellFormat(countW, 8, fmt.Sprintf("%.1f%%", percentage), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(10)
}

// placeChart embeds a rendered PNG centered on the page, or a fallback
// note when that chart's rendering failed.
func (c *Composer) placeChart(pdf *fpdf.Fpdf, tr func(string) string, name string, png []byte, renderErr error) {
	if renderErr != nil || len(png) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Chart could not be generated: %v", renderErr)), "", 1, "C", false, 0, "")
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pageW, _ := pdf.GetPageSize()
	const imgW, imgH = 150.0, 100.0
	pdf.ImageOptions(name, (pageW-imgW)/2, pdf.GetY(), imgW, imgH, true, opts, 0, "")
}

func (c *Composer) writeHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 11, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (c *Composer) writeSubheading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (c *Composer) writeFooter(pdf *fpdf.Fpdf) {
	pdf.Ln(12)
	c.rule(pdf, 0.3, 224, 224, 224)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 7, "Generated by CHEMVIZ - All data is confidential", "", 1, "C", false, 0, "")
}

// rule draws a full-width horizontal line at the current Y position
func (c *Composer) rule(pdf *fpdf.Fpdf, width float64, r, g, b int) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(width)
	y := pdf.GetY()
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(2)
}

// zebra alternates row fill colors in summary tables
func (c *Composer) zebra(pdf *fpdf.Fpdf, row int) {
	if row%2 == 0 {
		pdf.SetFillColor(255, 255, 255)
	} else {
		pdf.SetFillColor(248, 249, 250)
	}
}
