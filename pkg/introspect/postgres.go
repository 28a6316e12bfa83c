package introspect

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

const postgresColumnsQuery = `
SELECT table_catalog, table_schema, table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_catalog, table_schema, table_name, ordinal_position`

const postgresFunctionsQuery = `
SELECT DISTINCT routine_name, COALESCE(data_type, '')
FROM information_schema.routines
WHERE routine_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY routine_name`

// Postgres connects with the pgx connection string dsn and reads the
// schema from information_schema. Tables carry the catalog and schema
// names as Catalog and Database.
func Postgres(ctx context.Context, dsn string) (*schema.Schema, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, &Error{Driver: DriverPostgres, Op: "connect", Err: err}
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, postgresColumnsQuery)
	if err != nil {
		return nil, &Error{Driver: DriverPostgres, Op: "query columns", Err: err}
	}
	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (columnRow, error) {
		var r columnRow
		err := row.Scan(&r.Catalog, &r.Database, &r.Table, &r.Column, &r.Type)
		return r, err
	})
	if err != nil {
		return nil, &Error{Driver: DriverPostgres, Op: "read columns", Err: err}
	}

	rows, err = conn.Query(ctx, postgresFunctionsQuery)
	if err != nil {
		return nil, &Error{Driver: DriverPostgres, Op: "query functions", Err: err}
	}
	funcs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*schema.Function, error) {
		f := &schema.Function{}
		err := row.Scan(&f.Name, &f.Description)
		return f, err
	})
	if err != nil {
		return nil, &Error{Driver: DriverPostgres, Op: "read functions", Err: err}
	}

	s := schema.NewSchema()
	s.Tables = buildTables(columns)
	s.Functions = funcs
	return s, nil
}
