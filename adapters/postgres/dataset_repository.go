package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
	apperrors "github.com/NIHAL-JAGDALE/CHEMVIZ/internal/errors"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/ports"
)

// dbError tags a storage failure with the database error code while
// keeping the driver error in the chain.
func dbError(message string, err error) error {
	e := apperrors.DatabaseError(message)
	e.Cause = err
	return e
}

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// Create inserts a new dataset record
func (r *datasetRepository) Create(ctx context.Context, ds *dataset.Dataset) error {
	query := `INSERT INTO datasets (id, owner_id, filename, file_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		ds.ID, ds.OwnerID, ds.Filename, ds.FilePath, ds.UploadedAt,
	)
	if err != nil {
		return dbError("failed to create dataset", err)
	}
	return nil
}

// SaveSummary attaches the computed summary to a dataset record
func (r *datasetRepository) SaveSummary(ctx context.Context, id core.DatasetID, s *dataset.Summary) error {
	averages, err := json.Marshal(s.Averages)
	if err != nil {
		return fmt.Errorf("failed to marshal averages: %w", err)
	}
	distribution, err := json.Marshal(s.TypeDistribution)
	if err != nil {
		return fmt.Errorf("failed to marshal type distribution: %w", err)
	}
	columnNames, err := json.Marshal(s.ColumnNames)
	if err != nil {
		return fmt.Errorf("failed to marshal column names: %w", err)
	}
	numericCols, err := json.Marshal(s.NumericColumns)
	if err != nil {
		return fmt.Errorf("failed to marshal numeric columns: %w", err)
	}
	categoricalCols, err := json.Marshal(s.CategoricalColumns)
	if err != nil {
		return fmt.Errorf("failed to marshal categorical columns: %w", err)
	}

	query := `INSERT INTO dataset_summaries (
		dataset_id, total_count, averages, type_distribution,
		column_names, numeric_columns, categorical_columns, distribution_column
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		id, s.TotalCount, averages, distribution,
		columnNames, numericCols, categoricalCols, s.DistributionColumn,
	)
	if err != nil {
		return dbError("failed to save summary", err)
	}
	return nil
}

// GetByID retrieves a dataset with its summary, scoped to the owner
func (r *datasetRepository) GetByID(ctx context.Context, id core.DatasetID, owner core.OwnerID) (*dataset.Dataset, error) {
	query := selectQuery + ` WHERE d.id = $1 AND d.owner_id = $2`

	row := r.db.QueryRowxContext(ctx, query, id, owner)
	ds, err := scanDataset(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("dataset", id.String())
		}
		return nil, dbError("failed to get dataset", err)
	}
	return ds, nil
}

// ListByOwner retrieves the owner's datasets newest-first
func (r *datasetRepository) ListByOwner(ctx context.Context, owner core.OwnerID, limit int) ([]*dataset.Dataset, error) {
	query := selectQuery + ` WHERE d.owner_id = $1 ORDER BY d.uploaded_at DESC, d.id DESC`
	args := []interface{}{owner}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query datasets", err)
	}
	defer rows.Close()

	var datasets []*dataset.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, dbError("failed to scan dataset", err)
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

// Delete removes a dataset; the summary cascades at the schema level
func (r *datasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return dbError("failed to delete dataset", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return dbError("failed to get rows affected", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("dataset", id.String())
	}
	return nil
}

const selectQuery = `SELECT
	d.id, d.owner_id, d.filename, COALESCE(d.file_path, '') AS file_path, d.uploaded_at,
	s.total_count, s.averages, s.type_distribution, s.column_names,
	s.numeric_columns, s.categorical_columns, s.distribution_column
	FROM datasets d
	LEFT JOIN dataset_summaries s ON s.dataset_id = d.id`

// rowScanner covers both *sqlx.Row and *sqlx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDataset(row rowScanner) (*dataset.Dataset, error) {
	var ds dataset.Dataset
	var totalCount sql.NullInt64
	var distributionColumn sql.NullString
	var averages, distribution, columnNames, numericCols, categoricalCols []byte

	err := row.Scan(
		&ds.ID, &ds.OwnerID, &ds.Filename, &ds.FilePath, &ds.UploadedAt,
		&totalCount, &averages, &distribution, &columnNames,
		&numericCols, &categoricalCols, &distributionColumn,
	)
	if err != nil {
		return nil, err
	}

	// No summary row means ingestion was interrupted; the record is
	// still listable.
	if !totalCount.Valid {
		return &ds, nil
	}

	s := &dataset.Summary{
		TotalCount:         int(totalCount.Int64),
		DistributionColumn: distributionColumn.String,
	}
	if err := json.Unmarshal(averages, &s.Averages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal averages: %w", err)
	}
	if err := json.Unmarshal(distribution, &s.TypeDistribution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal type distribution: %w", err)
	}
	if err := json.Unmarshal(columnNames, &s.ColumnNames); err != nil {
		return nil, fmt.Errorf("failed to unmarshal column names: %w", err)
	}
	if err := json.Unmarshal(numericCols, &s.NumericColumns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal numeric columns: %w", err)
	}
	if err := json.Unmarshal(categoricalCols, &s.CategoricalColumns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categorical columns: %w", err)
	}
	ds.Summary = s
	return &ds, nil
}
