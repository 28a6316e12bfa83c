package parse

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Expression parsing, lowest precedence first. Every parse method returns
// a nil interface on failure.

func (p *parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *parser) parseExprList() []ast.Expr {
	var list []ast.Expr
	for {
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		list = append(list, expr)
		if !p.symbol(",") {
			return list
		}
	}
}

func (p *parser) parseOr() ast.Expr {
	start := p.pos
	left := p.parseAnd()
	if left == nil {
		return nil
	}
	for {
		mark := p.pos
		if !p.keyword("OR") {
			return left
		}
		right := p.parseAnd()
		if right == nil {
			p.pos = mark
			return left
		}
		left = &ast.BinaryExpr{Op: "OR", Left: left, Right: right, Location: p.spanPtr(start)}
	}
}

func (p *parser) parseAnd() ast.Expr {
	start := p.pos
	left := p.parseNot()
	if left == nil {
		return nil
	}
	for {
		mark := p.pos
		if !p.keyword("AND") {
			return left
		}
		right := p.parseNot()
		if right == nil {
			p.pos = mark
			return left
		}
		left = &ast.BinaryExpr{Op: "AND", Left: left, Right: right, Location: p.spanPtr(start)}
	}
}

func (p *parser) parseNot() ast.Expr {
	start := p.pos
	if p.keyword("NOT") {
		operand := p.parseNot()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Op: "NOT", Operand: operand, Location: p.spanPtr(start)}
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() ast.Expr {
	start := p.pos
	left := p.parseAdditive()
	if left == nil {
		return nil
	}

	mark := p.pos
	if op, ok := p.operator("comparison operator", "=", "<>", "!=", "<=", ">=", "<", ">"); ok {
		right := p.parseAdditive()
		if right == nil {
			p.pos = mark
			return left
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Location: p.spanPtr(start)}
	}

	if p.keyword("IS") {
		not := p.keyword("NOT")
		if !p.keyword("NULL") {
			p.pos = mark
			return left
		}
		return &ast.IsNullExpr{Expr: left, Not: not, Location: p.spanPtr(start)}
	}

	not := p.keyword("NOT")
	switch {
	case p.keyword("IN"):
		in := &ast.InExpr{Expr: left, Not: not}
		if !p.parseInTarget(in) {
			p.pos = mark
			return left
		}
		in.Location = p.spanPtr(start)
		return in
	case p.keyword("LIKE"):
		right := p.parseAdditive()
		if right == nil {
			p.pos = mark
			return left
		}
		op := "LIKE"
		if not {
			op = "NOT LIKE"
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Location: p.spanPtr(start)}
	case p.keyword("BETWEEN"):
		low := p.parseAdditive()
		if low == nil || !p.keyword("AND") {
			p.pos = mark
			return left
		}
		high := p.parseAdditive()
		if high == nil {
			p.pos = mark
			return left
		}
		return &ast.BetweenExpr{Expr: left, Not: not, Low: low, High: high, Location: p.spanPtr(start)}
	}

	p.pos = mark
	return left
}

// parseInTarget parses "(" (select | expr list) ")".
func (p *parser) parseInTarget(in *ast.InExpr) bool {
	if !p.symbol("(") {
		return false
	}
	open := p.pos
	if sel := p.parseSelect(); sel != nil && p.symbol(")") {
		in.Subquery = sel
		return true
	}
	p.pos = open
	if in.List = p.parseExprList(); in.List == nil {
		return false
	}
	return p.symbol(")")
}

func (p *parser) parseAdditive() ast.Expr {
	start := p.pos
	left := p.parseMultiplicative()
	if left == nil {
		return nil
	}
	for {
		mark := p.pos
		var op string
		switch {
		case p.symbol("+"):
			op = "+"
		case p.symbol("-"):
			op = "-"
		default:
			var ok bool
			if op, ok = p.operator("operator", "||"); !ok {
				return left
			}
		}
		right := p.parseMultiplicative()
		if right == nil {
			p.pos = mark
			return left
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Location: p.spanPtr(start)}
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	start := p.pos
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		mark := p.pos
		op := "*"
		if !p.symbol("*") {
			var ok bool
			if op, ok = p.operator("operator", "/", "%"); !ok {
				return left
			}
		}
		right := p.parseUnary()
		if right == nil {
			p.pos = mark
			return left
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Location: p.spanPtr(start)}
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.pos
	for _, op := range []string{"-", "+"} {
		if p.symbol(op) {
			operand := p.parseUnary()
			if operand == nil {
				return nil
			}
			return &ast.UnaryExpr{Op: op, Operand: operand, Location: p.spanPtr(start)}
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	start := p.pos
	if tok := p.peek(); tok != nil {
		switch tok.Type {
		case tokenize.TokenNumber:
			p.pos++
			return &ast.Literal{Kind: ast.LiteralNumber, Value: tok.Text, Location: p.spanPtr(start)}
		case tokenize.TokenString:
			p.pos++
			return &ast.Literal{Kind: ast.LiteralString, Value: tok.Text, Location: p.spanPtr(start)}
		case tokenize.TokenPlaceholder:
			p.pos++
			return &ast.Placeholder{Value: tok.Text, Location: p.spanPtr(start)}
		}
	}
	p.expect(types.OtherExpected("number"))
	p.expect(types.OtherExpected("string"))

	switch {
	case p.keyword("NULL"):
		return &ast.Literal{Kind: ast.LiteralNull, Value: "NULL", Location: p.spanPtr(start)}
	case p.keyword("TRUE"):
		return &ast.Literal{Kind: ast.LiteralBool, Value: "TRUE", Location: p.spanPtr(start)}
	case p.keyword("FALSE"):
		return &ast.Literal{Kind: ast.LiteralBool, Value: "FALSE", Location: p.spanPtr(start)}
	case p.keyword("CASE"):
		return p.parseCase(start)
	case p.keyword("EXISTS"):
		if !p.symbol("(") {
			return nil
		}
		sel := p.parseSelect()
		if sel == nil || !p.symbol(")") {
			return nil
		}
		return &ast.ExistsExpr{Subquery: sel, Location: p.spanPtr(start)}
	case p.symbol("("):
		open := p.pos
		if sel := p.parseSelect(); sel != nil && p.symbol(")") {
			return &ast.SubqueryExpr{Select: sel, Location: p.spanPtr(start)}
		}
		p.pos = open
		inner := p.parseExpr()
		if inner == nil || !p.symbol(")") {
			return nil
		}
		return &ast.ParenExpr{Expr: inner, Location: p.spanPtr(start)}
	}

	if tok := p.peek(); tok != nil && tok.IsWord() && !tokenize.IsReserved(tok.Text) &&
		p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Text == "(" {
		return p.parseFunctionCall(start)
	}

	ref, ok := p.parseColumnRef()
	if !ok {
		return nil
	}
	ref.Location = p.spanPtr(start)
	return ref
}

func (p *parser) parseFunctionCall(start int) ast.Expr {
	call := &ast.FunctionCall{Name: p.tokens[p.pos].Text}
	p.pos++
	if !p.symbol("(") {
		return nil
	}
	switch {
	case p.symbol("*"):
		call.Star = true
	case p.symbol(")"):
		call.Location = p.spanPtr(start)
		return call
	default:
		call.Distinct = p.keyword("DISTINCT")
		if call.Args = p.parseExprList(); call.Args == nil {
			return nil
		}
	}
	if !p.symbol(")") {
		return nil
	}
	call.Location = p.spanPtr(start)
	return call
}

func (p *parser) parseCase(start int) ast.Expr {
	expr := &ast.CaseExpr{}
	if !p.peekKeyword("WHEN") {
		if expr.Operand = p.parseExpr(); expr.Operand == nil {
			return nil
		}
	}
	for p.keyword("WHEN") {
		when := p.parseExpr()
		if when == nil || !p.keyword("THEN") {
			return nil
		}
		then := p.parseExpr()
		if then == nil {
			return nil
		}
		expr.Whens = append(expr.Whens, &ast.WhenClause{When: when, Then: then})
	}
	if len(expr.Whens) == 0 {
		return nil
	}
	if p.keyword("ELSE") {
		if expr.Else = p.parseExpr(); expr.Else == nil {
			return nil
		}
	}
	if !p.keyword("END") {
		return nil
	}
	expr.Location = p.spanPtr(start)
	return expr
}

// parseColumnRef parses name{.name | .* | [expr]}. With two or more name
// parts the first is the table qualifier and the rest form the column.
// Subscripts are accepted and dropped. The caller sets the location.
// Separators are matched without recording expectations so "." and "["
// never show up as suggested continuations.
func (p *parser) parseColumnRef() (*ast.ColumnRef, bool) {
	first, ok := p.ident()
	if !ok {
		return nil, false
	}
	parts := []string{first}
loop:
	for {
		mark := p.pos
		switch {
		case p.peekSymbol("."):
			p.pos++
			if p.symbol("*") {
				parts = append(parts, "*")
				break loop
			}
			part, ok := p.ident()
			if !ok {
				p.pos = mark
				break loop
			}
			parts = append(parts, part)
		case p.peekSymbol("["):
			p.pos++
			if p.parseExpr() == nil || !p.symbol("]") {
				p.pos = mark
				break loop
			}
		default:
			break loop
		}
	}

	if len(parts) == 1 {
		return &ast.ColumnRef{Column: parts[0]}, true
	}
	return &ast.ColumnRef{Table: parts[0], Column: strings.Join(parts[1:], ".")}, true
}

func (p *parser) number() bool {
	if tok := p.peek(); tok != nil && tok.Type == tokenize.TokenNumber {
		p.pos++
		return true
	}
	p.expect(types.OtherExpected("number"))
	return false
}
