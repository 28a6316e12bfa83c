// Package parse provides the SQL parser used by completion and linting.
package parse

import (
	"fmt"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

var endExpected = types.EndExpected()

// InternalError reports a parser defect rather than bad input.
type InternalError struct {
	Input string
	Cause any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("parse: internal error: %v", e.Cause)
}

// Unwrap returns the panic value when it is an error.
func (e *InternalError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Parse parses a single SQL statement. Input holding no statement yields
// *ast.EmptyStatement. Invalid input yields a *types.SyntaxError listing
// what was expected at the furthest point the parser reached.
func Parse(input string) (stmt ast.Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			stmt, err = nil, &InternalError{Input: input, Cause: r}
		}
	}()

	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	return p.parseInput()
}

// ParseFromClause extracts the FROM clause of a possibly broken statement.
// Text before the first top-level FROM and anything after the last usable
// FROM item are ignored. It fails when no FROM item can be parsed.
func ParseFromClause(input string) (from *ast.FromClause, err error) {
	defer func() {
		if r := recover(); r != nil {
			from, err = nil, &InternalError{Input: input, Cause: r}
		}
	}()

	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	idx := p.findTopLevelFrom()
	if idx < 0 {
		p.pos = len(p.tokens)
		p.expect(types.LiteralExpected("FROM"))
		return nil, p.syntaxError()
	}
	p.pos = idx + 1
	if from = p.parseFromList(true); from == nil {
		return nil, p.syntaxError()
	}
	return from, nil
}

// Parser is the stateless SQL parser. Its zero value is ready to use.
type Parser struct{}

// Parse implements the strict parse.
func (Parser) Parse(input string) (ast.Statement, error) {
	return Parse(input)
}

// ParseFromClause implements the FROM-clause recovery parse.
func (Parser) ParseFromClause(input string) (*ast.FromClause, error) {
	return ParseFromClause(input)
}

// IsValid returns true if the SQL input is syntactically valid
func IsValid(input string) bool {
	_, err := Parse(input)
	return err == nil
}
