package migration

import (
	"context"
	"database/sql"

	"registrymail/internal/errors"
)

// Execer is the subset of *sqlx.DB the migrations need
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db Execer) error {
	if err := r.createBusinessesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create businesses table")
	}

	if err := r.createEditableBusinessDataTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create editable_business_data table")
	}

	return nil
}

func (r *MigrationRunner) createBusinessesTable(ctx context.Context, db Execer) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS businesses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			business_name TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createEditableBusinessDataTable(ctx context.Context, db Execer) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS editable_business_data (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			business_id UUID NOT NULL UNIQUE REFERENCES businesses(id) ON DELETE CASCADE,
			primary_email TEXT,
			alternate_email TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}
