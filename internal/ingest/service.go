// Package ingest orchestrates the upload pipeline: decode, normalize,
// summarize, persist, then enforce the retention cap.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
	apperrors "github.com/NIHAL-JAGDALE/CHEMVIZ/internal/errors"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/history"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/summary"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/table"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/ports"
)

// DefaultMaxUploadBytes caps upload size when no config is given
const DefaultMaxUploadBytes = 10 * 1024 * 1024

// Upload describes one incoming file
type Upload struct {
	Owner    core.OwnerID
	Filename string
	File     io.Reader
}

// Service runs the ingestion pipeline and owns the collaborating ports
type Service struct {
	repo           ports.DatasetRepository
	files          ports.FileStorage
	evictor        *history.Evictor
	maxUploadBytes int64
}

// NewService creates the ingestion service
func NewService(repo ports.DatasetRepository, files ports.FileStorage, evictor *history.Evictor, maxUploadBytes int64) *Service {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Service{
		repo:           repo,
		files:          files,
		evictor:        evictor,
		maxUploadBytes: maxUploadBytes,
	}
}

// Ingest validates and decodes the upload, computes its summary,
// persists record, summary and blob, and finally enforces the owner's
// retention cap. Decode and validation failures are terminal and never
// retried here.
func (s *Service) Ingest(ctx context.Context, up Upload) (*dataset.Dataset, error) {
	if err := s.validate(up); err != nil {
		return nil, err
	}

	data, err := s.readCapped(up.File)
	if err != nil {
		return nil, err
	}

	tbl, err := table.Decode(bytes.NewReader(data), up.Filename)
	if err != nil {
		return nil, err
	}
	table.NormalizeTypes(tbl)
	sum := summary.Generate(tbl)

	ds := dataset.NewDataset(up.Owner, up.Filename)
	path, err := s.files.Store(ctx, bytes.NewReader(data), up.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}
	ds.FilePath = path

	if err := s.repo.Create(ctx, ds); err != nil {
		s.discardBlob(ctx, path)
		return nil, fmt.Errorf("failed to create dataset record: %w", err)
	}
	if err := s.repo.SaveSummary(ctx, ds.ID, sum); err != nil {
		s.discardBlob(ctx, path)
		if delErr := s.repo.Delete(ctx, ds.ID); delErr != nil {
			log.Printf("[Ingest] Failed to remove record %s after summary failure: %v", ds.ID, delErr)
		}
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}
	ds.Summary = sum

	// Eviction runs only after record and summary are committed, so a
	// crash here loses nothing; the cap may be exceeded by one until
	// the next upload.
	if err := s.evictor.Enforce(ctx, up.Owner); err != nil {
		log.Printf("[Ingest] Eviction after upload %s reported errors: %v", ds.ID, err)
	}

	log.Printf("[Ingest] Ingested dataset %s (%s): %d rows, %d columns",
		ds.ID, ds.Filename, sum.TotalCount, len(sum.ColumnNames))
	return ds, nil
}

// RawData re-decodes a stored dataset's blob for the raw data endpoint
func (s *Service) RawData(ctx context.Context, id core.DatasetID, owner core.OwnerID) (*table.Table, error) {
	ds, err := s.repo.GetByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	f, err := s.files.Open(ctx, ds.FilePath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "file for dataset %s is no longer available", id)
	}
	defer f.Close()

	tbl, err := table.Decode(f, ds.Filename)
	if err != nil {
		return nil, err
	}
	table.NormalizeTypes(tbl)
	return tbl, nil
}

// Delete removes one dataset on the owner's request: blob first, then
// the record (the summary cascades with it).
func (s *Service) Delete(ctx context.Context, id core.DatasetID, owner core.OwnerID) error {
	ds, err := s.repo.GetByID(ctx, id, owner)
	if err != nil {
		return err
	}
	if ds.FilePath != "" {
		if err := s.files.Delete(ctx, ds.FilePath); err != nil {
			log.Printf("[Ingest] Failed to delete file %s for dataset %s: %v", ds.FilePath, ds.ID, err)
		}
	}
	return s.repo.Delete(ctx, ds.ID)
}

// discardBlob best-effort removes a stored file after a failed ingest
func (s *Service) discardBlob(ctx context.Context, path string) {
	if err := s.files.Delete(ctx, path); err != nil {
		log.Printf("[Ingest] Failed to remove orphaned file %s: %v", path, err)
	}
}

func (s *Service) validate(up Upload) error {
	if up.File == nil {
		return core.NewInvalidUploadError("no file provided")
	}
	if up.Filename == "" {
		return core.NewInvalidUploadError("no filename provided")
	}
	if up.Owner.String() == "" {
		return core.NewInvalidUploadError("no owner identity provided")
	}
	switch strings.ToLower(filepath.Ext(up.Filename)) {
	case ".csv", ".xlsx":
	default:
		return core.NewInvalidUploadError("only CSV and XLSX files are allowed")
	}
	return nil
}

// readCapped materializes the upload, rejecting streams over the cap
func (s *Service) readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, core.NewInvalidUploadError(
			fmt.Sprintf("file exceeds the %d byte size limit", s.maxUploadBytes))
	}
	return data, nil
}
