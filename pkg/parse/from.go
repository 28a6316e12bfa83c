package parse

import (
	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// parseFromList parses "from_item { , from_item | join }". In tolerant mode
// it stops at the first item that cannot be parsed and keeps what it has,
// and a parenthesised item that is not a complete SELECT becomes an
// *ast.IncompleteSubqueryNode.
func (p *parser) parseFromList(tolerant bool) *ast.FromClause {
	start := p.pos
	first := p.parseFromItem(tolerant)
	if first == nil {
		return nil
	}
	tables := []ast.FromTableNode{first}

	for {
		mark := p.pos
		if p.symbol(",") {
			item := p.parseFromItem(tolerant)
			if item == nil {
				if tolerant {
					p.pos = mark
					break
				}
				return nil
			}
			tables = append(tables, item)
			continue
		}

		join, ok := p.parseJoinKeyword()
		if !ok {
			break
		}
		item := p.parseFromItem(tolerant)
		if item == nil {
			if tolerant {
				p.pos = mark
				break
			}
			return nil
		}
		if !p.parseJoinCondition(item, join) {
			if !tolerant {
				return nil
			}
			tables = append(tables, item)
			break
		}
		tables = append(tables, item)
	}

	return &ast.FromClause{Tables: tables, Location: p.span(start)}
}

func (p *parser) parseJoinKeyword() (ast.JoinType, bool) {
	start := p.pos
	join := ast.JoinPlain
	switch {
	case p.keyword("INNER"):
		join = ast.JoinInner
	case p.keyword("LEFT"):
		p.keyword("OUTER")
		join = ast.JoinLeft
	case p.keyword("RIGHT"):
		p.keyword("OUTER")
		join = ast.JoinRight
	case p.keyword("CROSS"):
		join = ast.JoinCross
	}
	if !p.keyword("JOIN") {
		p.pos = start
		return ast.JoinNone, false
	}
	return join, true
}

// parseJoinCondition records the join type on item and parses an optional
// ON or USING condition. It reports false when a condition was started but
// is malformed; item still carries the join type then.
func (p *parser) parseJoinCondition(item ast.FromTableNode, join ast.JoinType) bool {
	var on ast.Expr
	var using []string
	ok := true
	switch {
	case p.keyword("ON"):
		on = p.parseExpr()
		ok = on != nil
	case p.keyword("USING"):
		using, ok = p.identList()
	}

	switch n := item.(type) {
	case *ast.TableNode:
		n.Join, n.On, n.Using = join, on, using
	case *ast.SubqueryNode:
		n.Join, n.On, n.Using = join, on, using
	}
	return ok
}

func (p *parser) parseFromItem(tolerant bool) ast.FromTableNode {
	start := p.pos
	if p.symbol("(") {
		if sel := p.parseSelect(); sel != nil && p.symbol(")") {
			node := &ast.SubqueryNode{Subquery: sel, As: p.parseAlias()}
			node.Location = p.span(start)
			return node
		}
		if !tolerant {
			return nil
		}
		return p.incompleteSubquery(start)
	}

	node := p.parseTableName()
	if node == nil {
		return nil
	}
	node.As = p.parseAlias()
	node.Location = p.span(start)
	return node
}

// incompleteSubquery captures the raw text between the parenthesis at
// tokens[open] and its matching ")" (or the end of input).
func (p *parser) incompleteSubquery(open int) *ast.IncompleteSubqueryNode {
	depth := 1
	closeIdx := len(p.tokens)
	for i := open + 1; i < len(p.tokens); i++ {
		tok := &p.tokens[i]
		if !isSymbolToken(tok) {
			continue
		}
		if tok.Text == "(" {
			depth++
		} else if tok.Text == ")" {
			depth--
			if depth == 0 {
				closeIdx = i
				break
			}
		}
	}

	node := &ast.IncompleteSubqueryNode{}
	if inner := p.tokens[open+1 : closeIdx]; len(inner) > 0 {
		first, last := inner[0], inner[len(inner)-1]
		node.Text = p.src[first.Start:last.End]
		node.Location = types.Location{Start: first.Pos, End: last.EndPos}
	} else {
		pt := p.tokens[open].EndPos
		node.Location = types.Location{Start: pt, End: pt}
	}

	if closeIdx < len(p.tokens) {
		p.pos = closeIdx + 1
		node.As = p.parseAlias()
	} else {
		p.pos = closeIdx
	}
	return node
}

// findTopLevelFrom returns the index of the first FROM keyword outside
// parentheses, or -1.
func (p *parser) findTopLevelFrom() int {
	depth := 0
	for i := range p.tokens {
		tok := &p.tokens[i]
		switch {
		case isSymbolToken(tok) && tok.Text == "(":
			depth++
		case isSymbolToken(tok) && tok.Text == ")":
			if depth > 0 {
				depth--
			}
		case depth == 0 && tok.Is("FROM"):
			return i
		}
	}
	return -1
}
