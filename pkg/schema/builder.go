package schema

import "strings"

// NewSchema creates a new empty schema.
func NewSchema() *Schema {
	return &Schema{}
}

// AddTable adds a table to the schema and returns it.
// If a table with the same name and no catalog or database already exists,
// it returns the existing one.
func (s *Schema) AddTable(name string) *Table {
	if t := s.FindTable("", "", name); t != nil {
		return t
	}
	t := &Table{TableName: name}
	s.Tables = append(s.Tables, t)
	return t
}

// InDatabase sets the database (schema) qualifier of the table.
func (t *Table) InDatabase(database string) *Table {
	t.Database = database
	return t
}

// InCatalog sets the catalog qualifier of the table.
func (t *Table) InCatalog(catalog string) *Table {
	t.Catalog = catalog
	return t
}

// AddColumn appends a column and returns the table for chaining.
func (t *Table) AddColumn(name, description string) *Table {
	t.Columns = append(t.Columns, Column{ColumnName: name, Description: description})
	return t
}

// AddColumns appends columns without descriptions.
func (t *Table) AddColumns(names ...string) *Table {
	for _, name := range names {
		t.AddColumn(name, "")
	}
	return t
}

// AddFunction adds a function to the schema and returns the schema for chaining.
func (s *Schema) AddFunction(name, description string) *Schema {
	s.Functions = append(s.Functions, &Function{Name: name, Description: description})
	return s
}

// FindTable returns the table with the given identity triple. Table names
// compare case-insensitively.
func (s *Schema) FindTable(catalog, database, name string) *Table {
	if s == nil {
		return nil
	}
	for _, t := range s.Tables {
		if t.Catalog == catalog && t.Database == database && strings.EqualFold(t.TableName, name) {
			return t
		}
	}
	return nil
}

// LookupTable returns the first table called name in any catalog and
// database.
func (s *Schema) LookupTable(name string) *Table {
	if s == nil {
		return nil
	}
	for _, t := range s.Tables {
		if strings.EqualFold(t.TableName, name) {
			return t
		}
	}
	return nil
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].ColumnName, name) {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c.ColumnName, name) {
			return true
		}
	}
	return false
}

// TableCount returns the number of tables.
func (s *Schema) TableCount() int {
	if s == nil {
		return 0
	}
	return len(s.Tables)
}
