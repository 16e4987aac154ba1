package dataset

import (
	"time"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
)

// Dataset represents one stored upload and its location in blob storage.
// The associated Summary is created exactly once, right after ingestion,
// and never mutated afterwards.
type Dataset struct {
	ID      core.DatasetID `json:"id"`
	OwnerID core.OwnerID   `json:"owner_id"`

	// File information
	Filename string `json:"filename"`
	FilePath string `json:"file_path,omitempty"`

	UploadedAt time.Time `json:"uploaded_at"`

	// Populated when loaded with its summary (0 or 1 per dataset)
	Summary *Summary `json:"summary,omitempty"`
}

// Summary holds the aggregate statistics derived from a decoded table.
// Immutable once computed; deleted together with its owning dataset.
type Summary struct {
	TotalCount int `json:"total_count"`

	// Averages maps normalized numeric column names (lower-cased, spaces
	// replaced by underscores) to means rounded to 2 decimal places.
	// An undefined mean (all values missing) is stored as 0.
	Averages map[string]float64 `json:"averages"`

	// TypeDistribution maps category labels of the distribution column to
	// occurrence counts. At most 10 entries, the most frequent values.
	TypeDistribution map[string]int `json:"type_distribution"`

	// ColumnNames preserves the original post-trim header order.
	ColumnNames []string `json:"column_names"`

	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`

	// DistributionColumn records which column produced TypeDistribution.
	// Empty when the table had no columns.
	DistributionColumn string `json:"distribution_column,omitempty"`
}

// NewDataset creates a dataset record for a fresh upload
func NewDataset(owner core.OwnerID, filename string) *Dataset {
	return &Dataset{
		ID:         core.DatasetID(core.NewID()),
		OwnerID:    owner,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}
}
