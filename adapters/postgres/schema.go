package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the dataset tables when they do not exist yet
func EnsureSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			owner_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			file_path TEXT,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_owner_uploaded
			ON datasets (owner_id, uploaded_at DESC)`,
		`CREATE TABLE IF NOT EXISTS dataset_summaries (
			dataset_id UUID PRIMARY KEY REFERENCES datasets(id) ON DELETE CASCADE,
			total_count INTEGER NOT NULL,
			averages JSONB NOT NULL DEFAULT '{}',
			type_distribution JSONB NOT NULL DEFAULT '{}',
			column_names JSONB NOT NULL DEFAULT '[]',
			numeric_columns JSONB NOT NULL DEFAULT '[]',
			categorical_columns JSONB NOT NULL DEFAULT '[]',
			distribution_column TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
