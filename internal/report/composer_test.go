package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
)

// stubRenderer returns canned chart bytes or errors
type stubRenderer struct {
	distPNG []byte
	distErr error
	avgPNG  []byte
	avgErr  error
}

func (s *stubRenderer) DistributionChart(map[string]int) ([]byte, error) {
	return s.distPNG, s.distErr
}

func (s *stubRenderer) AveragesChart(map[string]float64) ([]byte, error) {
	return s.avgPNG, s.avgErr
}

// tinyPNG is a valid 1x1 transparent PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func testDataset() (*dataset.Dataset, *dataset.Summary) {
	ds := &dataset.Dataset{
		ID:         core.DatasetID(core.NewID()),
		OwnerID:    core.OwnerID("user-1"),
		Filename:   "readings.csv",
		UploadedAt: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
	s := &dataset.Summary{
		TotalCount:         4,
		Averages:           map[string]float64{"flowrate": 12.5, "pressure": 3.5},
		TypeDistribution:   map[string]int{"reactor": 2, "pump": 1, "valve": 1},
		ColumnNames:        []string{"equipment", "flowrate", "pressure"},
		NumericColumns:     []string{"flowrate", "pressure"},
		CategoricalColumns: []string{"equipment"},
		DistributionColumn: "equipment",
	}
	return ds, s
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
}

func TestCompose_ProducesPDF(t *testing.T) {
	renderer := &stubRenderer{distPNG: tinyPNG, avgPNG: tinyPNG}
	composer := NewComposer(renderer).WithClock(fixedClock)
	ds, s := testDataset()

	doc, err := composer.Compose(ds, s)

	require.NoError(t, err)
	require.True(t, len(doc) > 4)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestCompose_CompletesWhenChartsFail(t *testing.T) {
	renderer := &stubRenderer{
		distErr: errors.New("render blew up"),
		avgErr:  errors.New("render blew up"),
	}
	composer := NewComposer(renderer).WithClock(fixedClock)
	ds, s := testDataset()

	doc, err := composer.Compose(ds, s)

	// Chart failures degrade to a fallback note, never a failed report
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestCompose_EmptySummarySkipsSections(t *testing.T) {
	renderer := &stubRenderer{}
	composer := NewComposer(renderer).WithClock(fixedClock)
	ds, _ := testDataset()
	s := &dataset.Summary{
		TotalCount:       0,
		Averages:         map[string]float64{},
		TypeDistribution: map[string]int{},
		ColumnNames:      []string{},
	}

	doc, err := composer.Compose(ds, s)

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestCompose_Deterministic(t *testing.T) {
	ds, s := testDataset()

	first, err := NewComposer(&stubRenderer{distPNG: tinyPNG, avgPNG: tinyPNG}).
		WithClock(fixedClock).Compose(ds, s)
	require.NoError(t, err)
	second, err := NewComposer(&stubRenderer{distPNG: tinyPNG, avgPNG: tinyPNG}).
		WithClock(fixedClock).Compose(ds, s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAverageKeys_OriginalColumnOrder(t *testing.T) {
	composer := NewComposer(&stubRenderer{})
	s := &dataset.Summary{
		Averages:       map[string]float64{"pressure": 3.5, "flow_rate": 12.5},
		NumericColumns: []string{"pressure", "Flow Rate"},
	}

	assert.Equal(t, []string{"pressure", "flow_rate"}, composer.averageKeys(s))
}

func TestAverageKeys_CollidingColumnsAppearOnce(t *testing.T) {
	composer := NewComposer(&stubRenderer{})
	s := &dataset.Summary{
		Averages:       map[string]float64{"flow_rate": 150, "pressure": 3.5},
		NumericColumns: []string{"Flow Rate", "pressure", "flow_rate"},
	}

	// The colliding key keeps its last position
	assert.Equal(t, []string{"pressure", "flow_rate"}, composer.averageKeys(s))
}
