// Package history enforces the per-owner retention cap on stored
// datasets.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/ports"
)

// DefaultLimit is the retention cap applied when no override is given
const DefaultLimit = 5

// Evictor deletes an owner's oldest datasets beyond the retention cap.
// The policy is strictly count-based. Run it only after the triggering
// dataset's record and summary are durably committed.
type Evictor struct {
	repo  ports.DatasetRepository
	files ports.FileStorage
	limit int
}

// NewEvictor creates an evictor with the given retention limit.
// A non-positive limit falls back to DefaultLimit.
func NewEvictor(repo ports.DatasetRepository, files ports.FileStorage, limit int) *Evictor {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Evictor{repo: repo, files: files, limit: limit}
}

// Enforce applies the configured retention limit for one owner
func (e *Evictor) Enforce(ctx context.Context, owner core.OwnerID) error {
	return e.EnforceLimit(ctx, owner, e.limit)
}

// EnforceLimit applies an overridden retention limit for one owner.
// The owner's datasets are listed newest-first; every record beyond
// position limit is deleted, backing file first, then metadata.
// Deletions are independent: a failed file delete is surfaced but does
// not stop the remaining excess records from being removed.
func (e *Evictor) EnforceLimit(ctx context.Context, owner core.OwnerID, limit int) error {
	if limit <= 0 {
		limit = e.limit
	}

	datasets, err := e.repo.ListByOwner(ctx, owner, 0)
	if err != nil {
		return fmt.Errorf("failed to list datasets for eviction: %w", err)
	}
	if len(datasets) <= limit {
		return nil
	}

	var errs []error
	for _, ds := range datasets[limit:] {
		if ds.FilePath != "" {
			if err := e.files.Delete(ctx, ds.FilePath); err != nil {
				log.Printf("[Evictor] Failed to delete file %s for dataset %s: %v", ds.FilePath, ds.ID, err)
				errs = append(errs, fmt.Errorf("delete file for dataset %s: %w", ds.ID, err))
			}
		}
		if err := e.repo.Delete(ctx, ds.ID); err != nil {
			log.Printf("[Evictor] Failed to delete dataset record %s: %v", ds.ID, err)
			errs = append(errs, fmt.Errorf("delete dataset %s: %w", ds.ID, err))
			continue
		}
		log.Printf("[Evictor] Evicted dataset %s (%s) for owner %s", ds.ID, ds.Filename, owner)
	}
	return errors.Join(errs...)
}
