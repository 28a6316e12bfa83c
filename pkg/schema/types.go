// Package schema provides the schema snapshot consumed by the completion
// engine. A snapshot lists tables with their ordered columns and the
// functions callable in expressions. It can be built in code, loaded from
// JSON, YAML or SQL DDL files, or produced by the introspect package.
package schema

// Schema is a read-only snapshot of a database catalog.
type Schema struct {
	Tables    []*Table    `json:"tables" yaml:"tables"`
	Functions []*Function `json:"functions" yaml:"functions"`
}

// Table is a table reference with its ordered columns. Catalog and Database
// are empty when absent; TableName alone is then the identity.
type Table struct {
	Catalog   string   `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Database  string   `json:"database,omitempty" yaml:"database,omitempty"`
	TableName string   `json:"tableName" yaml:"tableName"`
	Columns   []Column `json:"columns" yaml:"columns"`
}

// Column is a column of a table. Description is free text, typically the
// declared data type.
type Column struct {
	ColumnName  string `json:"columnName" yaml:"columnName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Function is a function callable in expressions.
type Function struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// QualifiedName returns the table name prefixed by whichever of database
// and catalog are present.
func (t *Table) QualifiedName() string {
	name := t.TableName
	if t.Database != "" {
		name = t.Database + "." + name
		if t.Catalog != "" {
			name = t.Catalog + "." + name
		}
	}
	return name
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.ColumnName
	}
	return names
}
