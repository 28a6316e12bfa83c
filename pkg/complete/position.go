package complete

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// IsPosInLocation reports whether the cursor lies in a single-line span.
// Spans covering several lines never match. The 1-based span columns are
// compared with the 0-based cursor column as they are, so a cursor just
// past the end of a node still counts as inside it.
func IsPosInLocation(loc types.Location, pos types.Position) bool {
	return loc.Start.Line == pos.Line+1 &&
		loc.Start.Column <= pos.Column &&
		loc.End.Line == pos.Line+1 &&
		loc.End.Column >= pos.Column
}

// ColumnRefByPos returns the first reference whose span holds the cursor.
// References without a location are skipped.
func ColumnRefByPos(refs []*ast.ColumnRef, pos types.Position) *ast.ColumnRef {
	for _, ref := range refs {
		if ref == nil || ref.Location == nil {
			continue
		}
		if IsPosInLocation(*ref.Location, pos) {
			return ref
		}
	}
	return nil
}

// NearestFromTableFromPos returns the innermost FROM item holding the
// cursor. nodes must be flattened by AllNestedFromNodes, which puts
// children after their parent, so the last match is the innermost.
func NearestFromTableFromPos(nodes []ast.FromTableNode, pos types.Position) ast.FromTableNode {
	for i := len(nodes) - 1; i >= 0; i-- {
		if IsPosInLocation(nodes[i].Loc(), pos) {
			return nodes[i]
		}
	}
	return nil
}

// AllNestedFromNodes flattens FROM items depth-first. Each subquery is
// followed by the FROM items of its own SELECT.
func AllNestedFromNodes(nodes []ast.FromTableNode) []ast.FromTableNode {
	var out []ast.FromTableNode
	for _, node := range nodes {
		out = append(out, node)
		if sub, ok := node.(*ast.SubqueryNode); ok && sub.Subquery != nil && sub.Subquery.From != nil {
			out = append(out, AllNestedFromNodes(sub.Subquery.From.Tables)...)
		}
	}
	return out
}

// CreateTablesFromFromNodes builds a pseudo-table for every subquery FROM
// item. The table is named after the subquery alias and has one column per
// output column that has a name (its alias, or the referenced column).
func CreateTablesFromFromNodes(nodes []ast.FromTableNode) []*schema.Table {
	var tables []*schema.Table
	for _, node := range nodes {
		sub, ok := node.(*ast.SubqueryNode)
		if !ok || sub.Subquery == nil {
			continue
		}
		t := &schema.Table{TableName: sub.As}
		if cols, ok := sub.Subquery.Columns.(ast.ColumnList); ok {
			for _, col := range cols {
				if name := outputColumnName(col); name != "" {
					t.AddColumn(name, "")
				}
			}
		}
		tables = append(tables, t)
	}
	return tables
}

func outputColumnName(col *ast.ResultColumn) string {
	if col.As != "" {
		return col.As
	}
	if ref, ok := col.Expr.(*ast.ColumnRef); ok && ref.Column != "*" {
		return ref.Column
	}
	return ""
}

// IsTableMatch reports whether a FROM item refers to table. A subquery
// matches the pseudo-table named after its alias; one without an alias
// matches any table. A table reference matches when each qualifier it
// spells out agrees. Names compare case-insensitively.
func IsTableMatch(node ast.FromTableNode, table *schema.Table) bool {
	switch n := node.(type) {
	case *ast.SubqueryNode:
		return n.As == "" || strings.EqualFold(n.As, table.TableName)
	case *ast.TableNode:
		if n.Table != "" && !strings.EqualFold(n.Table, table.TableName) {
			return false
		}
		if n.DB != "" && !strings.EqualFold(n.DB, table.Database) {
			return false
		}
		if n.Catalog != "" && !strings.EqualFold(n.Catalog, table.Catalog) {
			return false
		}
		return true
	default:
		return false
	}
}

// FindColumnAtPosition returns the column reference under the cursor in
// the projection list or in a WHERE clause that is a bare column.
func FindColumnAtPosition(stmt *ast.SelectStatement, pos types.Position) *ast.ColumnRef {
	var refs []*ast.ColumnRef
	if cols, ok := stmt.Columns.(ast.ColumnList); ok {
		for _, col := range cols {
			if ref, ok := col.Expr.(*ast.ColumnRef); ok {
				refs = append(refs, ref)
			}
		}
	}
	if ref, ok := stmt.Where.(*ast.ColumnRef); ok {
		refs = append(refs, ref)
	}
	return ColumnRefByPos(refs, pos)
}
