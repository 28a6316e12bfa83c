package parse

import (
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// parser is a backtracking recursive-descent parser over the significant
// tokens of one input. Every failed match records what would have been
// accepted at that token; only the furthest failing position is kept, so
// the final error reports the alternatives valid where parsing got stuck.
type parser struct {
	src    string
	tokens []tokenize.Token
	pos    int
	end    types.Point

	failPos  int
	expected []types.Expected

	// fatal aborts all remaining alternatives once set.
	fatal *types.SyntaxError
}

func newParser(src string) (*parser, error) {
	all, err := tokenize.Lex(src)
	if err != nil {
		return nil, err
	}
	tokens := make([]tokenize.Token, 0, len(all))
	for _, tok := range all {
		if tok.Type != tokenize.TokenComment {
			tokens = append(tokens, tok)
		}
	}
	return &parser{
		src:     src,
		tokens:  tokens,
		end:     tokenize.EndPoint(src),
		failPos: -1,
	}, nil
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() *tokenize.Token {
	if p.atEnd() {
		return nil
	}
	return &p.tokens[p.pos]
}

// expect records exp as acceptable at the current position.
func (p *parser) expect(exp types.Expected) {
	if p.pos < p.failPos {
		return
	}
	if p.pos > p.failPos {
		p.failPos = p.pos
		p.expected = p.expected[:0]
	}
	p.expected = append(p.expected, exp)
}

// keyword consumes the bare word kw.
func (p *parser) keyword(kw string) bool {
	if tok := p.peek(); tok != nil && tok.Is(kw) {
		p.pos++
		return true
	}
	p.expect(types.LiteralExpected(kw))
	return false
}

// keywords consumes a keyword sequence, or nothing.
func (p *parser) keywords(kws ...string) bool {
	start := p.pos
	for _, kw := range kws {
		if !p.keyword(kw) {
			p.pos = start
			return false
		}
	}
	return true
}

func (p *parser) peekKeyword(kw string) bool {
	tok := p.peek()
	return tok != nil && tok.Is(kw)
}

func isSymbolToken(tok *tokenize.Token) bool {
	return tok.Type == tokenize.TokenPunctuation || tok.Type == tokenize.TokenOperator
}

// symbol consumes the punctuation or operator s.
func (p *parser) symbol(s string) bool {
	if tok := p.peek(); tok != nil && isSymbolToken(tok) && tok.Text == s {
		p.pos++
		return true
	}
	p.expect(types.LiteralExpected(s))
	return false
}

func (p *parser) peekSymbol(s string) bool {
	tok := p.peek()
	return tok != nil && isSymbolToken(tok) && tok.Text == s
}

// operator consumes one of ops, recording a single descriptive expectation
// on failure instead of one literal per operator.
func (p *parser) operator(description string, ops ...string) (string, bool) {
	if tok := p.peek(); tok != nil && tok.Type == tokenize.TokenOperator {
		for _, op := range ops {
			if tok.Text == op {
				p.pos++
				return op, true
			}
		}
	}
	p.expect(types.OtherExpected(description))
	return "", false
}

// ident consumes an identifier: a quoted identifier or a bare word that is
// not reserved.
func (p *parser) ident() (string, bool) {
	if tok := p.peek(); tok != nil {
		switch {
		case tok.Type == tokenize.TokenQuotedIdentifier:
			p.pos++
			return tokenize.Unquote(tok.Text), true
		case tok.IsWord() && !tokenize.IsReserved(tok.Text):
			p.pos++
			return tok.Text, true
		}
	}
	p.expect(types.OtherExpected("identifier"))
	return "", false
}

// identList parses "(" ident {"," ident} ")".
func (p *parser) identList() ([]string, bool) {
	if !p.symbol("(") {
		return nil, false
	}
	var names []string
	for {
		name, ok := p.ident()
		if !ok {
			return nil, false
		}
		names = append(names, name)
		if !p.symbol(",") {
			break
		}
	}
	if !p.symbol(")") {
		return nil, false
	}
	return names, true
}

// span returns the location from tokens[start] to the last consumed token.
func (p *parser) span(start int) types.Location {
	if start >= len(p.tokens) || p.pos <= start {
		pt := p.end
		if start < len(p.tokens) {
			pt = p.tokens[start].Pos
		}
		return types.Location{Start: pt, End: pt}
	}
	return types.Location{Start: p.tokens[start].Pos, End: p.tokens[p.pos-1].EndPos}
}

func (p *parser) spanPtr(start int) *types.Location {
	loc := p.span(start)
	return &loc
}

// syntaxError builds the error for the furthest failure seen so far.
func (p *parser) syntaxError() *types.SyntaxError {
	if p.fatal != nil {
		return p.fatal
	}
	found := ""
	loc := types.Location{Start: p.end, End: p.end}
	if p.failPos >= 0 && p.failPos < len(p.tokens) {
		tok := p.tokens[p.failPos]
		found = tok.Text
		loc = tok.Location()
	}
	return types.NewSyntaxError(p.expected, found, loc)
}

// abort stops parsing with a custom message at the furthest failure.
func (p *parser) abort(message string) {
	err := p.syntaxError()
	err.Message = message
	p.fatal = err
}
