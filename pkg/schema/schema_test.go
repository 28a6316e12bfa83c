package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSchema(t *testing.T) {
	s := NewSchema()
	if s == nil {
		t.Fatal("NewSchema returned nil")
	}
	if s.TableCount() != 0 {
		t.Errorf("TableCount() = %d, want 0", s.TableCount())
	}
}

func TestAddTable(t *testing.T) {
	s := NewSchema()
	tbl := s.AddTable("users")

	if tbl == nil {
		t.Fatal("AddTable returned nil")
	}
	if tbl.TableName != "users" {
		t.Errorf("TableName = %q, want %q", tbl.TableName, "users")
	}

	// Adding same table should return existing
	if tbl2 := s.AddTable("users"); tbl2 != tbl {
		t.Error("Adding same table should return existing one")
	}

	// A qualified table with the same name is a different table
	s.AddTable("other").InDatabase("public")
	if s.TableCount() != 2 {
		t.Errorf("TableCount() = %d, want 2", s.TableCount())
	}
}

func TestTableColumns(t *testing.T) {
	s := NewSchema()
	tbl := s.AddTable("users").
		AddColumn("id", "INTEGER").
		AddColumn("name", "TEXT").
		AddColumns("email", "created_at")

	want := []string{"id", "name", "email", "created_at"}
	if diff := cmp.Diff(want, tbl.ColumnNames()); diff != "" {
		t.Errorf("ColumnNames() mismatch (-want +got):\n%s", diff)
	}
	if tbl.Columns[0].Description != "INTEGER" {
		t.Errorf("Description = %q, want INTEGER", tbl.Columns[0].Description)
	}
	if !tbl.HasColumn("EMAIL") {
		t.Error("HasColumn(EMAIL) should be case-insensitive")
	}
	if tbl.HasColumn("missing") {
		t.Error("HasColumn(missing) = true, want false")
	}
}

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		table *Table
		want  string
	}{
		{&Table{TableName: "t"}, "t"},
		{&Table{Database: "db", TableName: "t"}, "db.t"},
		{&Table{Catalog: "cat", Database: "db", TableName: "t"}, "cat.db.t"},
		{&Table{Catalog: "cat", TableName: "t"}, "t"},
	}
	for _, tt := range tests {
		if got := tt.table.QualifiedName(); got != tt.want {
			t.Errorf("QualifiedName() = %q, want %q", got, tt.want)
		}
	}
}

func TestFindTable(t *testing.T) {
	s := NewSchema()
	s.AddTable("users")
	s.AddTable("orders").InDatabase("shop").InCatalog("main")

	if s.FindTable("", "", "USERS") == nil {
		t.Error("FindTable(users) should match case-insensitively")
	}
	if s.FindTable("main", "shop", "orders") == nil {
		t.Error("FindTable(main.shop.orders) = nil")
	}
	if s.FindTable("", "", "orders") != nil {
		t.Error("FindTable(orders) without qualifiers should not match a qualified table")
	}

	var nilSchema *Schema
	if nilSchema.FindTable("", "", "users") != nil {
		t.Error("FindTable on nil schema should return nil")
	}
}

func TestLookupTable(t *testing.T) {
	s := NewSchema()
	s.AddTable("orders").InDatabase("shop").AddColumn("Total", "DECIMAL(10, 2)")

	tbl := s.LookupTable("ORDERS")
	if tbl == nil {
		t.Fatal("LookupTable(ORDERS) = nil")
	}
	if col := tbl.Column("total"); col == nil || col.Description != "DECIMAL(10, 2)" {
		t.Errorf("Column(total) = %+v", col)
	}
	if tbl.Column("missing") != nil {
		t.Error("Column(missing) should be nil")
	}
	if s.LookupTable("users") != nil {
		t.Error("LookupTable(users) should be nil")
	}
}

func TestAddFunction(t *testing.T) {
	s := NewSchema().
		AddFunction("LOWER", "lower case").
		AddFunction("UPPER", "")

	if len(s.Functions) != 2 {
		t.Fatalf("len(Functions) = %d, want 2", len(s.Functions))
	}
	if s.Functions[0].Name != "LOWER" || s.Functions[0].Description != "lower case" {
		t.Errorf("Functions[0] = %+v", s.Functions[0])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewSchema()
	s.AddTable("users").InDatabase("public").AddColumn("id", "integer")
	s.AddFunction("now", "current time")

	data, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONKeys(t *testing.T) {
	data := []byte(`{
		"tables": [
			{"catalog": "c", "database": "d", "tableName": "t",
			 "columns": [{"columnName": "a", "description": "int"}]}
		],
		"functions": [{"name": "f"}]
	}`)

	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	want := &Schema{
		Tables: []*Table{{
			Catalog:   "c",
			Database:  "d",
			TableName: "t",
			Columns:   []Column{{ColumnName: "a", Description: "int"}},
		}},
		Functions: []*Function{{Name: "f"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseJSON() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseJSON([]byte("{")); err == nil {
		t.Error("ParseJSON(invalid) should fail")
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
tables:
  - tableName: employees
    database: hr
    columns:
      - columnName: id
        description: integer
      - columnName: name
functions:
  - name: COALESCE
    description: first non-null argument
`)

	got, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error: %v", err)
	}
	want := &Schema{
		Tables: []*Table{{
			Database:  "hr",
			TableName: "employees",
			Columns: []Column{
				{ColumnName: "id", Description: "integer"},
				{ColumnName: "name"},
			},
		}},
		Functions: []*Function{{Name: "COALESCE", Description: "first non-null argument"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDDL(t *testing.T) {
	ddl := `
-- application tables
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	balance DECIMAL(10, 2) DEFAULT 0,
	"display name" TEXT COMMENT 'shown in the UI',
	CONSTRAINT users_name UNIQUE (name)
);

CREATE INDEX users_name_idx ON users (name);

create table if not exists shop.orders (
	id bigint,
	user_id integer references users (id),
	placed_at timestamp with time zone,
	primary key (id)
);

INSERT INTO users (id, name) VALUES (1, 'a;b');
`

	got, err := ParseDDL(ddl)
	if err != nil {
		t.Fatalf("ParseDDL() error: %v", err)
	}

	want := &Schema{
		Tables: []*Table{
			{
				TableName: "users",
				Columns: []Column{
					{ColumnName: "id", Description: "INTEGER"},
					{ColumnName: "name", Description: "VARCHAR(255)"},
					{ColumnName: "balance", Description: "DECIMAL(10, 2)"},
					{ColumnName: "display name", Description: "TEXT - shown in the UI"},
				},
			},
			{
				Database:  "shop",
				TableName: "orders",
				Columns: []Column{
					{ColumnName: "id", Description: "BIGINT"},
					{ColumnName: "user_id", Description: "INTEGER"},
					{ColumnName: "placed_at", Description: "TIMESTAMP WITH TIME ZONE"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDDL() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDDLError(t *testing.T) {
	if _, err := ParseDDL("CREATE TABLE broken ("); err == nil {
		t.Error("ParseDDL(unterminated) should fail")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	s := NewSchema()
	s.AddTable("t").AddColumn("a", "int")
	jsonPath := filepath.Join(dir, "schema.json")
	if err := s.SaveToJSON(jsonPath); err != nil {
		t.Fatalf("SaveToJSON() error: %v", err)
	}

	yamlPath := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(yamlPath, []byte("tables:\n  - tableName: t\n    columns:\n      - columnName: a\n        description: int\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sqlPath := filepath.Join(dir, "schema.sql")
	if err := os.WriteFile(sqlPath, []byte("CREATE TABLE t (a int);"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath, sqlPath} {
		got, err := Load(path)
		if err != nil {
			t.Errorf("Load(%s) error: %v", filepath.Base(path), err)
			continue
		}
		want := &Schema{Tables: []*Table{{TableName: "t", Columns: []Column{{ColumnName: "a", Description: "INT"}}}}}
		if filepath.Ext(path) != ".sql" {
			want.Tables[0].Columns[0].Description = "int"
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Load(%s) mismatch (-want +got):\n%s", filepath.Base(path), diff)
		}
	}

	if _, err := Load(filepath.Join(dir, "schema.txt")); err == nil {
		t.Error("Load(missing .txt) should fail")
	}
	txtPath := filepath.Join(dir, "schema.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txtPath); err == nil {
		t.Error("Load(.txt) should fail with unsupported extension")
	}
}

func TestSnapshotValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"table without name", `{"tables": [{"columns": []}]}`, "tables[0]"},
		{"column without name", `{"tables": [{"tableName": "t", "columns": [{"columnName": "a"}, {"description": "int"}]}]}`, "tables[0].columns[1]"},
		{"function without name", `{"functions": [{"name": "f"}, {"description": "x"}]}`, "functions[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			var snapErr *SnapshotError
			if !errors.As(err, &snapErr) {
				t.Fatalf("ParseJSON() error = %v, want *SnapshotError", err)
			}
			if snapErr.Path != tt.path {
				t.Errorf("Path = %q, want %q", snapErr.Path, tt.path)
			}
		})
	}

	if _, err := ParseYAML([]byte("tables:\n  - database: hr\n")); err == nil {
		t.Error("ParseYAML() accepted a table without a name")
	}
}
