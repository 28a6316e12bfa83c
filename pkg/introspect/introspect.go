// Package introspect reads a schema snapshot from a live database.
package introspect

import (
	"context"
	"fmt"

	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Drivers lists the supported driver names.
var Drivers = []string{DriverSQLite, DriverPostgres}

// Error is an introspection failure for a specific driver.
type Error struct {
	Driver string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s introspection: %s: %v", e.Driver, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load connects to the database identified by driver and dsn and reads
// its tables, columns and functions.
func Load(ctx context.Context, driver, dsn string) (*schema.Schema, error) {
	switch canonical(driver) {
	case DriverSQLite:
		return SQLite(ctx, dsn)
	case DriverPostgres:
		return Postgres(ctx, dsn)
	default:
		return nil, &Error{Driver: driver, Op: "load", Err: fmt.Errorf("unsupported driver")}
	}
}

// Supported reports whether driver names a supported database.
func Supported(driver string) bool {
	return canonical(driver) != ""
}

func canonical(driver string) string {
	switch driver {
	case DriverSQLite:
		return DriverSQLite
	case DriverPostgres, "postgresql", "pgx":
		return DriverPostgres
	}
	return ""
}

// columnRow is one column of one table, as returned by the catalog queries.
type columnRow struct {
	Catalog  string
	Database string
	Table    string
	Column   string
	Type     string
}

// buildTables groups rows into tables. Rows of the same table must be
// adjacent; column order within a table is preserved.
func buildTables(rows []columnRow) []*schema.Table {
	var tables []*schema.Table
	var current *schema.Table
	for _, r := range rows {
		if current == nil || current.Catalog != r.Catalog || current.Database != r.Database || current.TableName != r.Table {
			current = &schema.Table{Catalog: r.Catalog, Database: r.Database, TableName: r.Table}
			tables = append(tables, current)
		}
		current.AddColumn(r.Column, r.Type)
	}
	return tables
}
