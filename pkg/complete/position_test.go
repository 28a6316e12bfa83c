package complete

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

func span(line, start, end int) types.Location {
	return types.Location{
		Start: types.Point{Line: line, Column: start},
		End:   types.Point{Line: line, Column: end},
	}
}

func TestIsPosInLocation(t *testing.T) {
	loc := span(1, 8, 14)
	tests := []struct {
		pos  types.Position
		want bool
	}{
		{types.Position{Line: 0, Column: 7}, false},
		{types.Position{Line: 0, Column: 8}, true},
		{types.Position{Line: 0, Column: 14}, true},
		{types.Position{Line: 0, Column: 15}, false},
		{types.Position{Line: 1, Column: 10}, false},
	}
	for _, tt := range tests {
		if got := IsPosInLocation(loc, tt.pos); got != tt.want {
			t.Errorf("IsPosInLocation(%+v) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	multiLine := types.Location{
		Start: types.Point{Line: 1, Column: 1},
		End:   types.Point{Line: 2, Column: 5},
	}
	if IsPosInLocation(multiLine, types.Position{Line: 0, Column: 3}) {
		t.Error("multi-line spans should never match")
	}
}

func TestColumnRefByPos(t *testing.T) {
	loc1, loc2 := span(1, 8, 10), span(1, 12, 16)
	refs := []*ast.ColumnRef{
		{Column: "synthetic"},
		{Column: "a", Location: &loc1},
		{Table: "t", Column: "b", Location: &loc2},
	}

	if got := ColumnRefByPos(refs, types.Position{Column: 13}); got == nil || got.Column != "b" {
		t.Errorf("ColumnRefByPos(13) = %+v, want column b", got)
	}
	if got := ColumnRefByPos(refs, types.Position{Column: 11}); got != nil {
		t.Errorf("ColumnRefByPos(11) = %+v, want nil", got)
	}
}

func TestNearestFromTableFromPos(t *testing.T) {
	outer := &ast.SubqueryNode{As: "sub", Location: span(1, 15, 60)}
	inner := &ast.TableNode{Table: "employees", Location: span(1, 40, 50)}
	other := &ast.TableNode{Table: "departments", Location: span(1, 62, 75)}
	nodes := []ast.FromTableNode{outer, inner, other}

	tests := []struct {
		column int
		want   ast.FromTableNode
	}{
		{45, inner},
		{20, outer},
		{70, other},
		{5, nil},
	}
	for _, tt := range tests {
		got := NearestFromTableFromPos(nodes, types.Position{Column: tt.column})
		if got != tt.want {
			t.Errorf("NearestFromTableFromPos(%d) = %+v, want %+v", tt.column, got, tt.want)
		}
	}
}

func TestAllNestedFromNodes(t *testing.T) {
	from, err := parse.ParseFromClause("SELECT * FROM (SELECT * FROM (SELECT 1 FROM a) x, b) y, c")
	if err != nil {
		t.Fatalf("ParseFromClause() error: %v", err)
	}

	var got []string
	for _, node := range AllNestedFromNodes(from.Tables) {
		got = append(got, AliasFromFromTableNode(node))
	}
	want := []string{"y", "x", "a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AllNestedFromNodes() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateTablesFromFromNodes(t *testing.T) {
	from, err := parse.ParseFromClause("SELECT x.col FROM (SELECT a AS col, t.b, COUNT(*), lower(c) AS d FROM t) x, u")
	if err != nil {
		t.Fatalf("ParseFromClause() error: %v", err)
	}

	got := CreateTablesFromFromNodes(AllNestedFromNodes(from.Tables))
	want := []*schema.Table{{
		TableName: "x",
		Columns:   []schema.Column{{ColumnName: "col"}, {ColumnName: "b"}, {ColumnName: "d"}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateTablesFromFromNodes() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsTableMatch(t *testing.T) {
	employees := &schema.Table{Catalog: "main", Database: "hr", TableName: "employees"}

	tests := []struct {
		name string
		node ast.FromTableNode
		want bool
	}{
		{"bare name", &ast.TableNode{Table: "employees"}, true},
		{"case-insensitive", &ast.TableNode{Table: "EMPLOYEES"}, true},
		{"database qualified", &ast.TableNode{DB: "hr", Table: "employees"}, true},
		{"fully qualified", &ast.TableNode{Catalog: "main", DB: "hr", Table: "employees"}, true},
		{"other database", &ast.TableNode{DB: "sales", Table: "employees"}, false},
		{"other catalog", &ast.TableNode{Catalog: "aux", DB: "hr", Table: "employees"}, false},
		{"other table", &ast.TableNode{Table: "departments"}, false},
		{"subquery alias", &ast.SubqueryNode{As: "employees"}, true},
		{"subquery other alias", &ast.SubqueryNode{As: "sub"}, false},
		{"subquery without alias", &ast.SubqueryNode{}, true},
		{"incomplete subquery", &ast.IncompleteSubqueryNode{As: "employees"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTableMatch(tt.node, employees); got != tt.want {
				t.Errorf("IsTableMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindColumnAtPosition(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		column int
		want   string
	}{
		{"projection", "SELECT a, t.b FROM t", 12, "b"},
		{"first projection", "SELECT a, t.b FROM t", 8, "a"},
		{"where column", "SELECT * FROM t WHERE flag", 25, "flag"},
		{"star without where", "SELECT * FROM t", 8, ""},
		{"comparison in where is ignored", "SELECT * FROM t WHERE x = 1", 23, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parse.Parse(tt.sql)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			sel, ok := stmt.(*ast.SelectStatement)
			if !ok {
				t.Fatalf("statement = %T, want *ast.SelectStatement", stmt)
			}

			got := ""
			if ref := FindColumnAtPosition(sel, types.Position{Column: tt.column}); ref != nil {
				got = ref.Column
			}
			if got != tt.want {
				t.Errorf("FindColumnAtPosition() = %q, want %q", got, tt.want)
			}
		})
	}
}
