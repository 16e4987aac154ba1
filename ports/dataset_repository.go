package ports

import (
	"context"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
)

// DatasetRepository defines the interface for dataset record storage
type DatasetRepository interface {
	// Create inserts the dataset record. The summary is committed
	// separately via SaveSummary so the record exists before any
	// derived data references it.
	Create(ctx context.Context, ds *dataset.Dataset) error

	// SaveSummary attaches the computed summary to a dataset. Called
	// once per dataset; the summary is immutable afterwards.
	SaveSummary(ctx context.Context, id core.DatasetID, s *dataset.Summary) error

	// GetByID returns the dataset with its summary, scoped to the owner.
	// Returns core.ErrDatasetNotFound when missing or owned by someone else.
	GetByID(ctx context.Context, id core.DatasetID, owner core.OwnerID) (*dataset.Dataset, error)

	// ListByOwner returns the owner's datasets newest-first, with
	// summaries attached. limit <= 0 means no limit.
	ListByOwner(ctx context.Context, owner core.OwnerID, limit int) ([]*dataset.Dataset, error)

	// Delete removes the dataset record and cascades to its summary.
	Delete(ctx context.Context, id core.DatasetID) error
}
