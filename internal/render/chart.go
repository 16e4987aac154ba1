// Package render turns summary statistics into raster bar-chart images.
// The renderer carries its full configuration in an explicit value built
// once at startup; there is no process-wide plotting state.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
)

const (
	// Display caps, independent of any cap applied upstream
	maxBars = 10

	distLabelLimit = 20
	avgLabelLimit  = 18
)

// palette is the fixed cyclic bar color palette, indexed by position
var palette = []color.Color{
	color.RGBA{0x66, 0x7e, 0xea, 0xff},
	color.RGBA{0x76, 0x4b, 0xa2, 0xff},
	color.RGBA{0x11, 0x99, 0x8e, 0xff},
	color.RGBA{0x38, 0xef, 0x7d, 0xff},
	color.RGBA{0xf5, 0x57, 0x6c, 0xff},
	color.RGBA{0xf0, 0x93, 0xfb, 0xff},
	color.RGBA{0xe6, 0x7e, 0x22, 0xff},
	color.RGBA{0x1a, 0xbc, 0x9c, 0xff},
	color.RGBA{0x34, 0x98, 0xdb, 0xff},
	color.RGBA{0x9b, 0x59, 0xb6, 0xff},
}

// Config holds the renderer's figure dimensions and bar geometry
type Config struct {
	Width    vg.Length
	Height   vg.Length
	BarWidth vg.Length
}

// DefaultConfig returns the standard chart dimensions
func DefaultConfig() Config {
	return Config{
		Width:    10 * vg.Inch,
		Height:   6 * vg.Inch,
		BarWidth: vg.Points(24),
	}
}

// Renderer produces PNG bar charts from label/value mappings. Rendering
// is pure: the same input always yields the same bytes.
type Renderer struct {
	cfg    Config
	titler cases.Caser
}

// NewRenderer creates a renderer with the given configuration
func NewRenderer(cfg Config) *Renderer {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = vg.Points(24)
	}
	return &Renderer{cfg: cfg, titler: cases.Title(language.English)}
}

type bar struct {
	label      string
	value      float64
	annotation string
}

// DistributionChart renders the category frequency breakdown. An empty
// mapping produces a placeholder image, never an error.
func (r *Renderer) DistributionChart(counts map[string]int) ([]byte, error) {
	if len(counts) == 0 {
		return r.placeholder("No distribution data available")
	}
	bars := make([]bar, 0, len(counts))
	for label, count := range counts {
		bars = append(bars, bar{
			label:      truncateLabel(label, distLabelLimit),
			value:      float64(count),
			annotation: strconv.Itoa(count),
		})
	}
	bars = capBars(bars, false)
	return r.barChart(bars, "Distribution by Category", "Category", "Count", false)
}

// AveragesChart renders per-column mean values. An empty mapping
// produces a placeholder image, never an error.
func (r *Renderer) AveragesChart(averages map[string]float64) ([]byte, error) {
	if len(averages) == 0 {
		return r.placeholder("No numeric data available")
	}
	bars := make([]bar, 0, len(averages))
	for key, value := range averages {
		label := r.titler.String(strings.ReplaceAll(key, "_", " "))
		bars = append(bars, bar{
			label:      truncateLabel(label, avgLabelLimit),
			value:      value,
			annotation: strconv.FormatFloat(value, 'f', 2, 64),
		})
	}
	bars = capBars(bars, true)
	return r.barChart(bars, "Average Parameter Values", "Parameter", "Average Value", true)
}

// truncateLabel shortens a label beyond the limit with an ellipsis suffix
func truncateLabel(label string, limit int) string {
	runes := []rune(label)
	if len(runes) <= limit {
		return label
	}
	return string(runes[:limit]) + "..."
}

// capBars orders bars by descending value (absolute value when byAbs is
// set) and keeps the top maxBars. Equal values order by label so output
// does not depend on map iteration.
func capBars(bars []bar, byAbs bool) []bar {
	magnitude := func(b bar) float64 {
		if byAbs {
			if b.value < 0 {
				return -b.value
			}
		}
		return b.value
	}
	sort.Slice(bars, func(i, j int) bool {
		mi, mj := magnitude(bars[i]), magnitude(bars[j])
		if mi != mj {
			return mi > mj
		}
		return bars[i].label < bars[j].label
	})
	if len(bars) > maxBars {
		bars = bars[:maxBars]
	}
	return bars
}

// barChart draws the bars with the cyclic palette and a value
// annotation above each bar, scaling the Y axis to 120% of the maximum
// to leave label headroom.
func (r *Renderer) barChart(bars []bar, title, xLabel, yLabel string, byAbs bool) ([]byte, error) {
	magnitudes := make([]float64, len(bars))
	for i, b := range bars {
		magnitudes[i] = b.value
		if byAbs && magnitudes[i] < 0 {
			magnitudes[i] = -magnitudes[i]
		}
	}
	maxV := floats.Max(magnitudes)
	if maxV <= 0 {
		maxV = 1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	// One BarChart per bar: the plotter carries a single fill color, so
	// cycling the palette by position needs a chart per position.
	labels := make([]string, len(bars))
	for i, b := range bars {
		values := make(plotter.Values, len(bars))
		values[i] = b.value
		bc, err := plotter.NewBarChart(values, r.cfg.BarWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrChartRender, err)
		}
		bc.Color = palette[i%len(palette)]
		bc.LineStyle.Width = 0
		p.Add(bc)
		labels[i] = b.label
	}
	p.NominalX(labels...)
	p.Y.Min = 0
	p.Y.Max = 1.2 * maxV

	xys := make(plotter.XYs, len(bars))
	texts := make([]string, len(bars))
	for i, b := range bars {
		top := b.value
		if top < 0 {
			top = 0
		}
		xys[i] = plotter.XY{X: float64(i), Y: top + 0.02*maxV}
		texts[i] = b.annotation
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrChartRender, err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YBottom
	}
	p.Add(annotations)

	return r.encodePNG(p)
}

// placeholder renders a centered message on an otherwise blank figure
func (r *Renderer) placeholder(message string) ([]byte, error) {
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	lbl, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.5, Y: 0.5}},
		Labels: []string{message},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrChartRender, err)
	}
	lbl.TextStyle[0].XAlign = text.XCenter
	lbl.TextStyle[0].YAlign = text.YCenter
	lbl.TextStyle[0].Font.Size = vg.Points(14)
	p.Add(lbl)

	return r.encodePNG(p)
}

func (r *Renderer) encodePNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(r.cfg.Width, r.cfg.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrChartRender, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrChartRender, err)
	}
	return buf.Bytes(), nil
}
