package parse

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
)

// errExpectedColumnName is the message of the error raised inside an
// INSERT column list.
const errExpectedColumnName = "EXPECTED COLUMN NAME"

func (p *parser) parseInput() (ast.Statement, error) {
	if len(p.tokens) == 0 {
		return &ast.EmptyStatement{}, nil
	}
	stmt := p.parseStatement()
	if stmt == nil {
		return nil, p.syntaxError()
	}
	p.symbol(";")
	if !p.atEnd() {
		p.expect(endExpected)
		return nil, p.syntaxError()
	}
	return stmt, nil
}

func (p *parser) parseStatement() ast.Statement {
	start := p.pos
	if sel := p.parseSelect(); sel != nil {
		return sel
	}
	alternatives := []func() ast.Statement{
		p.parseInsert,
		p.parseUpdate,
		p.parseDelete,
		p.parseCreateTable,
		p.parseAlterTable,
		p.parseDropTable,
	}
	for _, alt := range alternatives {
		if p.fatal != nil {
			return nil
		}
		p.pos = start
		if stmt := alt(); stmt != nil {
			return stmt
		}
	}
	return nil
}

func (p *parser) parseSelect() *ast.SelectStatement {
	start := p.pos
	if !p.keyword("SELECT") {
		return nil
	}
	stmt := &ast.SelectStatement{}
	if p.keyword("DISTINCT") {
		stmt.Distinct = true
	} else {
		p.keyword("ALL")
	}

	cols, ok := p.parseResultColumns()
	if !ok {
		return nil
	}
	stmt.Columns = cols

	if p.keyword("FROM") {
		if stmt.From = p.parseFromList(false); stmt.From == nil {
			return nil
		}
	}
	if p.keyword("WHERE") {
		if stmt.Where = p.parseExpr(); stmt.Where == nil {
			return nil
		}
	}
	if p.keywords("GROUP", "BY") {
		if stmt.GroupBy = p.parseExprList(); stmt.GroupBy == nil {
			return nil
		}
	}
	if p.keyword("HAVING") {
		if stmt.Having = p.parseExpr(); stmt.Having == nil {
			return nil
		}
	}
	if p.keywords("ORDER", "BY") {
		if stmt.OrderBy = p.parseOrderBy(); stmt.OrderBy == nil {
			return nil
		}
	}
	if p.keyword("LIMIT") {
		if stmt.Limit = p.parseExpr(); stmt.Limit == nil {
			return nil
		}
		if p.keyword("OFFSET") || p.symbol(",") {
			if stmt.Offset = p.parseExpr(); stmt.Offset == nil {
				return nil
			}
		}
	}

	stmt.Location = p.span(start)
	return stmt
}

func (p *parser) parseResultColumns() (ast.ResultColumns, bool) {
	start := p.pos
	if p.symbol("*") {
		return &ast.Star{Location: p.span(start)}, true
	}

	var list ast.ColumnList
	for {
		expr := p.parseExpr()
		if expr == nil {
			return nil, false
		}
		list = append(list, &ast.ResultColumn{Expr: expr, As: p.parseAlias()})
		if !p.symbol(",") {
			break
		}
	}
	return list, true
}

// parseAlias parses an optional "[AS] name". A dangling AS is left
// unconsumed.
func (p *parser) parseAlias() string {
	mark := p.pos
	if p.keyword("AS") {
		if name, ok := p.ident(); ok {
			return name
		}
		p.pos = mark
		return ""
	}
	if name, ok := p.ident(); ok {
		return name
	}
	return ""
}

func (p *parser) parseOrderBy() []*ast.OrderItem {
	var items []*ast.OrderItem
	for {
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		item := &ast.OrderItem{Expr: expr}
		if p.keyword("DESC") {
			item.Desc = true
		} else {
			p.keyword("ASC")
		}
		items = append(items, item)
		if !p.symbol(",") {
			return items
		}
	}
}

// parseTableName parses name[.name[.name]] as table, db.table or
// catalog.db.table.
func (p *parser) parseTableName() *ast.TableNode {
	start := p.pos
	name, ok := p.ident()
	if !ok {
		return nil
	}
	parts := []string{name}
	for len(parts) < 3 {
		mark := p.pos
		if !p.peekSymbol(".") {
			break
		}
		p.pos++
		next, ok := p.ident()
		if !ok {
			p.pos = mark
			break
		}
		parts = append(parts, next)
	}

	node := &ast.TableNode{}
	switch len(parts) {
	case 1:
		node.Table = parts[0]
	case 2:
		node.DB, node.Table = parts[0], parts[1]
	default:
		node.Catalog, node.DB, node.Table = parts[0], parts[1], parts[2]
	}
	node.Location = p.span(start)
	return node
}

func (p *parser) parseInsert() ast.Statement {
	start := p.pos
	if !p.keyword("INSERT") || !p.keyword("INTO") {
		return nil
	}
	table := p.parseTableName()
	if table == nil {
		return nil
	}
	stmt := &ast.InsertStatement{Table: table}

	if p.symbol("(") {
		for {
			name, ok := p.ident()
			if !ok {
				p.abort(errExpectedColumnName)
				return nil
			}
			stmt.Columns = append(stmt.Columns, name)
			if p.symbol(",") {
				continue
			}
			if p.symbol(")") {
				break
			}
			p.abort(errExpectedColumnName)
			return nil
		}
	}

	if p.keyword("VALUES") {
		for {
			if !p.symbol("(") {
				return nil
			}
			row := p.parseExprList()
			if row == nil || !p.symbol(")") {
				return nil
			}
			stmt.Values = append(stmt.Values, row)
			if !p.symbol(",") {
				break
			}
		}
	} else if stmt.Select = p.parseSelect(); stmt.Select == nil {
		return nil
	}

	stmt.Location = p.span(start)
	return stmt
}

func (p *parser) parseUpdate() ast.Statement {
	start := p.pos
	if !p.keyword("UPDATE") {
		return nil
	}
	table := p.parseTableName()
	if table == nil {
		return nil
	}
	table.As = p.parseAlias()
	table.Location = p.span(start + 1)
	if !p.keyword("SET") {
		return nil
	}

	stmt := &ast.UpdateStatement{Table: table}
	for {
		colStart := p.pos
		ref, ok := p.parseColumnRef()
		if !ok {
			return nil
		}
		ref.Location = p.spanPtr(colStart)
		if !p.symbol("=") {
			return nil
		}
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		stmt.Set = append(stmt.Set, &ast.Assignment{Column: ref, Value: value})
		if !p.symbol(",") {
			break
		}
	}
	if p.keyword("WHERE") {
		if stmt.Where = p.parseExpr(); stmt.Where == nil {
			return nil
		}
	}

	stmt.Location = p.span(start)
	return stmt
}

func (p *parser) parseDelete() ast.Statement {
	start := p.pos
	if !p.keyword("DELETE") || !p.keyword("FROM") {
		return nil
	}
	table := p.parseTableName()
	if table == nil {
		return nil
	}
	stmt := &ast.DeleteStatement{Table: table}
	if p.keyword("WHERE") {
		if stmt.Where = p.parseExpr(); stmt.Where == nil {
			return nil
		}
	}
	stmt.Location = p.span(start)
	return stmt
}

func (p *parser) parseCreateTable() ast.Statement {
	start := p.pos
	if !p.keyword("CREATE") {
		return nil
	}
	if !p.keyword("TEMPORARY") {
		p.keyword("TEMP")
	}
	if !p.keyword("TABLE") {
		return nil
	}
	stmt := &ast.CreateTableStatement{IfNotExists: p.keywords("IF", "NOT", "EXISTS")}
	if stmt.Table = p.parseTableName(); stmt.Table == nil {
		return nil
	}
	if !p.symbol("(") {
		return nil
	}
	for {
		switch {
		case p.keywords("PRIMARY", "KEY"):
			cols, ok := p.identList()
			if !ok {
				return nil
			}
			stmt.Constraints = append(stmt.Constraints, "PRIMARY KEY ("+strings.Join(cols, ", ")+")")
		case p.keyword("UNIQUE"):
			cols, ok := p.identList()
			if !ok {
				return nil
			}
			stmt.Constraints = append(stmt.Constraints, "UNIQUE ("+strings.Join(cols, ", ")+")")
		default:
			col := p.parseColumnDef()
			if col == nil {
				return nil
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if !p.symbol(",") {
			break
		}
	}
	if !p.symbol(")") {
		return nil
	}
	stmt.Location = p.span(start)
	return stmt
}

func (p *parser) parseColumnDef() *ast.ColumnDef {
	name, ok := p.ident()
	if !ok {
		return nil
	}
	dataType, ok := p.parseDataType()
	if !ok {
		return nil
	}
	col := &ast.ColumnDef{Name: name, DataType: dataType}

	for {
		switch {
		case p.keywords("PRIMARY", "KEY"):
			col.Constraints = append(col.Constraints, "PRIMARY KEY")
		case p.keywords("NOT", "NULL"):
			col.Constraints = append(col.Constraints, "NOT NULL")
		case p.keyword("NULL"):
			col.Constraints = append(col.Constraints, "NULL")
		case p.keyword("UNIQUE"):
			col.Constraints = append(col.Constraints, "UNIQUE")
		case p.keyword("DEFAULT"):
			valueStart := p.pos
			if p.parsePrimary() == nil {
				return nil
			}
			col.Constraints = append(col.Constraints, "DEFAULT "+p.sourceText(valueStart))
		case p.keyword("REFERENCES"):
			refStart := p.pos
			if p.parseTableName() == nil {
				return nil
			}
			if p.peekSymbol("(") {
				if _, ok := p.identList(); !ok {
					return nil
				}
			}
			col.Constraints = append(col.Constraints, "REFERENCES "+p.sourceText(refStart))
		default:
			return col
		}
	}
}

// parseDataType parses a type name with optional "(n[, m])" arguments.
func (p *parser) parseDataType() (string, bool) {
	start := p.pos
	if _, ok := p.ident(); !ok {
		return "", false
	}
	mark := p.pos
	if p.symbol("(") {
		ok := p.number()
		if ok && p.symbol(",") {
			ok = p.number()
		}
		if !ok || !p.symbol(")") {
			p.pos = mark
		}
	}
	return p.sourceText(start), true
}

func (p *parser) parseAlterTable() ast.Statement {
	start := p.pos
	if !p.keywords("ALTER", "TABLE") {
		return nil
	}
	table := p.parseTableName()
	if table == nil {
		return nil
	}
	stmt := &ast.AlterTableStatement{Table: table}

	switch {
	case p.keyword("ADD"):
		p.keyword("COLUMN")
		stmt.Action = ast.AlterAddColumn
		if stmt.Column = p.parseColumnDef(); stmt.Column == nil {
			return nil
		}
	case p.keyword("DROP"):
		p.keyword("COLUMN")
		stmt.Action = ast.AlterDropColumn
		name, ok := p.ident()
		if !ok {
			return nil
		}
		stmt.Name = name
	case p.keyword("ALTER"):
		p.keyword("COLUMN")
		stmt.Action = ast.AlterAlterColumn
		name, ok := p.ident()
		if !ok {
			return nil
		}
		stmt.Name = name
		changeStart := p.pos
		if !p.parseAlterColumnChange() {
			return nil
		}
		stmt.Change = p.sourceText(changeStart)
	case p.keyword("RENAME"):
		if p.keyword("TO") {
			stmt.Action = ast.AlterRenameTable
			name, ok := p.ident()
			if !ok {
				return nil
			}
			stmt.Name = name
			break
		}
		p.keyword("COLUMN")
		stmt.Action = ast.AlterRenameColumn
		name, ok := p.ident()
		if !ok || !p.keyword("TO") {
			return nil
		}
		newName, ok := p.ident()
		if !ok {
			return nil
		}
		stmt.Name, stmt.NewName = name, newName
	default:
		return nil
	}

	stmt.Location = p.span(start)
	return stmt
}

func (p *parser) parseAlterColumnChange() bool {
	switch {
	case p.keywords("SET", "DEFAULT"):
		return p.parseExpr() != nil
	case p.keywords("DROP", "DEFAULT"):
		return true
	case p.keywords("SET", "NOT", "NULL"):
		return true
	case p.keywords("DROP", "NOT", "NULL"):
		return true
	case p.keyword("TYPE"):
		_, ok := p.parseDataType()
		return ok
	}
	return false
}

func (p *parser) parseDropTable() ast.Statement {
	start := p.pos
	if !p.keywords("DROP", "TABLE") {
		return nil
	}
	stmt := &ast.DropTableStatement{IfExists: p.keywords("IF", "EXISTS")}
	if stmt.Table = p.parseTableName(); stmt.Table == nil {
		return nil
	}
	stmt.Location = p.span(start)
	return stmt
}

// sourceText returns the raw source of the tokens consumed since start.
func (p *parser) sourceText(start int) string {
	if p.pos <= start {
		return ""
	}
	return p.src[p.tokens[start].Start:p.tokens[p.pos-1].End]
}
