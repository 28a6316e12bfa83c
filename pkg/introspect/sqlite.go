package introspect

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

const sqliteColumnsQuery = `
SELECT m.name, p.name, p.type
FROM sqlite_master AS m
JOIN pragma_table_info(m.name) AS p
WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'
ORDER BY m.name, p.cid`

const sqliteFunctionsQuery = `SELECT DISTINCT name FROM pragma_function_list ORDER BY name`

// SQLite opens the database file (or ":memory:") at dsn and reads its schema.
func SQLite(ctx context.Context, dsn string) (*schema.Schema, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &Error{Driver: DriverSQLite, Op: "open", Err: err}
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	return SQLiteDB(ctx, db)
}

// SQLiteDB reads the schema of an already open SQLite database.
func SQLiteDB(ctx context.Context, db *sql.DB) (*schema.Schema, error) {
	rows, err := db.QueryContext(ctx, sqliteColumnsQuery)
	if err != nil {
		return nil, &Error{Driver: DriverSQLite, Op: "query columns", Err: err}
	}
	defer rows.Close()

	var columns []columnRow
	for rows.Next() {
		var r columnRow
		if err := rows.Scan(&r.Table, &r.Column, &r.Type); err != nil {
			return nil, &Error{Driver: DriverSQLite, Op: "scan columns", Err: err}
		}
		columns = append(columns, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Driver: DriverSQLite, Op: "read columns", Err: err}
	}

	s := schema.NewSchema()
	s.Tables = buildTables(columns)
	s.Functions = sqliteFunctions(ctx, db)
	return s, nil
}

// sqliteFunctions lists built-in and registered functions. Builds without
// pragma_function_list yield no functions.
func sqliteFunctions(ctx context.Context, db *sql.DB) []*schema.Function {
	rows, err := db.QueryContext(ctx, sqliteFunctionsQuery)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var funcs []*schema.Function
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil
		}
		funcs = append(funcs, &schema.Function{Name: name})
	}
	return funcs
}
