package analyze

import (
	"strconv"
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// ExtractReferences parses a SQL statement and extracts all schema references.
func ExtractReferences(sql string) (*References, types.StatementType, types.Errors) {
	result := parse.Check(sql)
	if !result.IsValid() {
		return NewReferences(), result.Type, result.Errors
	}
	e := newReferenceExtractor()
	e.statement(result.Statement)
	return e.refs, result.Type, nil
}

// referenceExtractor walks a statement collecting references. Column uses
// keep their scope so they can be resolved against the schema afterwards.
type referenceExtractor struct {
	refs *References
	uses []columnUse
}

func newReferenceExtractor() *referenceExtractor {
	return &referenceExtractor{refs: NewReferences()}
}

func (e *referenceExtractor) statement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.SelectStatement:
		e.selectStatement(s, nil, true)

	case *ast.InsertStatement:
		target := e.addTable(s.Table)
		sc := &scope{tables: []*TableRef{target}}
		for _, name := range s.Columns {
			e.refs.InsertColumns = appendUnique(e.refs.InsertColumns, name)
			loc := target.Location
			e.use(&ast.ColumnRef{Column: name, Location: &loc}, sc)
		}
		for _, row := range s.Values {
			for _, value := range row {
				e.expr(value, sc, nil)
			}
		}
		if s.Select != nil {
			e.selectStatement(s.Select, nil, false)
		}

	case *ast.UpdateStatement:
		sc := &scope{tables: []*TableRef{e.addTable(s.Table)}}
		for _, a := range s.Set {
			e.refs.UpdateColumns = appendUnique(e.refs.UpdateColumns, a.Column.Column)
			e.use(a.Column, sc)
			e.expr(a.Value, sc, nil)
		}
		e.expr(s.Where, sc, &e.refs.WhereColumns)

	case *ast.DeleteStatement:
		sc := &scope{tables: []*TableRef{e.addTable(s.Table)}}
		e.expr(s.Where, sc, &e.refs.WhereColumns)

	case *ast.CreateTableStatement:
		e.addTable(s.Table)
	case *ast.AlterTableStatement:
		e.addTable(s.Table)
	case *ast.DropTableStatement:
		e.addTable(s.Table)
	}
}

// selectStatement records a SELECT. Only the outermost one fills the
// per-clause column lists.
func (e *referenceExtractor) selectStatement(s *ast.SelectStatement, parent *scope, outer bool) {
	sc := &scope{parent: parent}
	bucket := func(list *[]string) *[]string {
		if outer {
			return list
		}
		return nil
	}

	if s.From != nil {
		for _, item := range s.From.Tables {
			switch n := item.(type) {
			case *ast.TableNode:
				sc.tables = append(sc.tables, e.addTable(n))
			case *ast.SubqueryNode:
				sc.subqueries = append(sc.subqueries, n.As)
				e.selectStatement(n.Subquery, parent, false)
			case *ast.IncompleteSubqueryNode:
				sc.subqueries = append(sc.subqueries, n.As)
			}
		}
		for _, item := range s.From.Tables {
			switch n := item.(type) {
			case *ast.TableNode:
				e.joinCondition(n.On, n.Using, sc)
			case *ast.SubqueryNode:
				e.joinCondition(n.On, n.Using, sc)
			}
		}
	}

	switch cols := s.Columns.(type) {
	case *ast.Star:
		if outer {
			e.refs.HasSelectStar = true
			e.refs.SelectColumns = appendUnique(e.refs.SelectColumns, "*")
		}
	case ast.ColumnList:
		for _, col := range cols {
			if col.As != "" {
				sc.aliases = append(sc.aliases, col.As)
			}
			e.expr(col.Expr, sc, bucket(&e.refs.SelectColumns))
		}
	}

	e.expr(s.Where, sc, bucket(&e.refs.WhereColumns))
	for _, expr := range s.GroupBy {
		e.expr(expr, sc, bucket(&e.refs.GroupByColumns))
	}
	e.expr(s.Having, sc, nil)
	for _, item := range s.OrderBy {
		e.expr(item.Expr, sc, bucket(&e.refs.OrderByColumns))
	}

	if outer {
		if lit, ok := s.Limit.(*ast.Literal); ok && lit.Kind == ast.LiteralNumber {
			if n, err := strconv.Atoi(lit.Value); err == nil {
				e.refs.Limit = n
			}
		}
	}
}

func (e *referenceExtractor) joinCondition(on ast.Expr, using []string, sc *scope) {
	e.expr(on, sc, nil)
	for _, name := range using {
		e.addColumn(name)
	}
}

func (e *referenceExtractor) expr(x ast.Expr, sc *scope, bucket *[]string) {
	switch n := x.(type) {
	case nil:
	case *ast.ColumnRef:
		e.use(n, sc)
		if bucket != nil {
			*bucket = appendUnique(*bucket, n.Column)
		}
	case *ast.FunctionCall:
		e.call(n)
		for _, arg := range n.Args {
			e.expr(arg, sc, bucket)
		}
	case *ast.BinaryExpr:
		e.expr(n.Left, sc, bucket)
		e.expr(n.Right, sc, bucket)
	case *ast.UnaryExpr:
		e.expr(n.Operand, sc, bucket)
	case *ast.InExpr:
		e.expr(n.Expr, sc, bucket)
		for _, item := range n.List {
			e.expr(item, sc, bucket)
		}
		if n.Subquery != nil {
			e.selectStatement(n.Subquery, sc, false)
		}
	case *ast.BetweenExpr:
		e.expr(n.Expr, sc, bucket)
		e.expr(n.Low, sc, bucket)
		e.expr(n.High, sc, bucket)
	case *ast.IsNullExpr:
		e.expr(n.Expr, sc, bucket)
	case *ast.CaseExpr:
		e.expr(n.Operand, sc, bucket)
		for _, w := range n.Whens {
			e.expr(w.When, sc, bucket)
			e.expr(w.Then, sc, bucket)
		}
		e.expr(n.Else, sc, bucket)
	case *ast.ExistsExpr:
		e.selectStatement(n.Subquery, sc, false)
	case *ast.SubqueryExpr:
		e.selectStatement(n.Select, sc, false)
	case *ast.ParenExpr:
		e.expr(n.Expr, sc, bucket)
	}
}

func (e *referenceExtractor) use(ref *ast.ColumnRef, sc *scope) {
	e.uses = append(e.uses, columnUse{ref: ref, scope: sc})
	e.addColumn(ref.Column)
}

func (e *referenceExtractor) addColumn(name string) {
	if name == "*" {
		return
	}
	e.refs.Columns = appendUnique(e.refs.Columns, name)
}

func (e *referenceExtractor) call(n *ast.FunctionCall) {
	name := strings.ToLower(n.Name)
	e.refs.Functions = appendUnique(e.refs.Functions, name)
	e.refs.FunctionCalls = append(e.refs.FunctionCalls, &FunctionCall{
		Name:     name,
		ArgCount: len(n.Args),
		HasStar:  n.Star,
		Location: copyLocation(n.Location),
	})
}

func (e *referenceExtractor) addTable(n *ast.TableNode) *TableRef {
	ref := &TableRef{
		Catalog:  n.Catalog,
		Database: n.DB,
		Table:    n.Table,
		Alias:    n.As,
		Location: n.Location,
	}
	e.refs.Tables = append(e.refs.Tables, ref)
	return ref
}

// appendUnique appends item unless an equal string (ignoring case) is present.
func appendUnique(slice []string, item string) []string {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return slice
		}
	}
	return append(slice, item)
}

func copyLocation(loc *types.Location) *types.Location {
	if loc == nil {
		return nil
	}
	c := *loc
	return &c
}
