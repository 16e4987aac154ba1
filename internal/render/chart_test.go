package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

func TestDistributionChart_ProducesPNG(t *testing.T) {
	r := NewRenderer(DefaultConfig())

	png, err := r.DistributionChart(map[string]int{
		"reactor": 5,
		"pump":    3,
		"valve":   1,
	})

	require.NoError(t, err)
	require.True(t, len(png) > len(pngSignature))
	assert.Equal(t, pngSignature, png[:len(pngSignature)])
}

func TestDistributionChart_EmptyRendersPlaceholder(t *testing.T) {
	r := NewRenderer(DefaultConfig())

	png, err := r.DistributionChart(nil)

	require.NoError(t, err)
	assert.Equal(t, pngSignature, png[:len(pngSignature)])
}

func TestAveragesChart_ProducesPNG(t *testing.T) {
	r := NewRenderer(DefaultConfig())

	png, err := r.AveragesChart(map[string]float64{
		"flow_rate": 12.5,
		"pressure":  3.5,
	})

	require.NoError(t, err)
	assert.Equal(t, pngSignature, png[:len(pngSignature)])
}

func TestAveragesChart_EmptyRendersPlaceholder(t *testing.T) {
	r := NewRenderer(DefaultConfig())

	png, err := r.AveragesChart(map[string]float64{})

	require.NoError(t, err)
	assert.Equal(t, pngSignature, png[:len(pngSignature)])
}

func TestAveragesChart_Deterministic(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	in := map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4}

	first, err := r.AveragesChart(in)
	require.NoError(t, err)
	second, err := r.AveragesChart(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short", 20))
	assert.Equal(t, "exactly_twenty_chars", truncateLabel("exactly_twenty_chars", 20))
	assert.Equal(t, "this_label_is_much_t...", truncateLabel("this_label_is_much_too_long", 20))
	// Truncation is rune-aware, not byte-aware
	assert.Equal(t, "héllo...", truncateLabel("héllo wörld", 5))
}

func TestCapBars_OrdersAndCaps(t *testing.T) {
	bars := make([]bar, 0, 12)
	for _, b := range []bar{
		{label: "low", value: 1},
		{label: "high", value: 100},
		{label: "mid", value: 50},
	} {
		bars = append(bars, b)
	}

	out := capBars(bars, false)

	require.Len(t, out, 3)
	assert.Equal(t, "high", out[0].label)
	assert.Equal(t, "mid", out[1].label)
	assert.Equal(t, "low", out[2].label)
}

func TestCapBars_TiesBreakByLabel(t *testing.T) {
	out := capBars([]bar{
		{label: "zeta", value: 7},
		{label: "alpha", value: 7},
	}, false)

	assert.Equal(t, "alpha", out[0].label)
	assert.Equal(t, "zeta", out[1].label)
}

func TestCapBars_AbsoluteMagnitude(t *testing.T) {
	out := capBars([]bar{
		{label: "small", value: 2},
		{label: "negative", value: -50},
		{label: "positive", value: 10},
	}, true)

	assert.Equal(t, "negative", out[0].label)
	assert.Equal(t, "positive", out[1].label)
	assert.Equal(t, "small", out[2].label)
}

func TestCapBars_KeepsTopTen(t *testing.T) {
	bars := make([]bar, 15)
	for i := range bars {
		bars[i] = bar{label: string(rune('a' + i)), value: float64(i)}
	}

	out := capBars(bars, false)

	require.Len(t, out, 10)
	assert.Equal(t, float64(14), out[0].value)
	assert.Equal(t, float64(5), out[9].value)
}
