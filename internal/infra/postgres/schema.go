package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Tables lists the tables the schema creates
var Tables = []string{"role_grants", "audit_events"}

const (
	tableExistsSQL = `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = $1
	)`

	errApplySchemaFmt = "failed to apply schema: %w"
	errCheckTableFmt  = "failed to check table %s: %w"
	errMissingTable   = "table %s was not created"
)

// Migrate applies the schema and verifies every table exists
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf(errApplySchemaFmt, err)
	}

	for _, table := range Tables {
		var exists bool
		if err := db.Pool.QueryRow(ctx, tableExistsSQL, table).Scan(&exists); err != nil {
			return fmt.Errorf(errCheckTableFmt, table, err)
		}
		if !exists {
			return fmt.Errorf(errMissingTable, table)
		}
	}
	return nil
}
