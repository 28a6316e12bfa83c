package parse

import (
	"fmt"
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Result contains the result of parsing one statement of a larger input
type Result struct {
	// Input is the statement text
	Input string

	// Start is where Input begins within the whole input
	Start types.Point

	// Statement is the parsed statement (nil if parsing failed)
	Statement ast.Statement

	// Type is the detected statement type
	Type types.StatementType

	// Err is the syntax error, if any
	Err *types.SyntaxError

	// Errors contains the diagnostics for this statement, positioned
	// relative to the whole input
	Errors types.Errors
}

// HasErrors returns true if there were any parsing errors
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// IsValid returns true if parsing succeeded without errors
func (r *Result) IsValid() bool {
	return !r.HasErrors() && r.Statement != nil
}

// Check parses a single statement into a Result.
func Check(input string) *Result {
	return check(input, types.Point{Line: 1, Column: 1})
}

// Multiple parses multiple SQL statements separated by semicolons
func Multiple(input string) []*Result {
	var results []*Result
	for _, seg := range tokenize.SplitStatements(input) {
		results = append(results, check(seg.Text, seg.Start))
	}
	return results
}

func check(input string, start types.Point) *Result {
	result := &Result{Input: input, Start: start}

	stmt, err := Parse(input)
	if err == nil {
		result.Statement = stmt
		result.Type = stmt.Type()
		return result
	}

	se, ok := types.AsSyntaxError(err)
	if !ok {
		result.Errors = types.Errors{&types.Error{
			Line:    start.Line,
			Column:  start.Column - 1,
			Offset:  start.Offset,
			Message: err.Error(),
			Query:   input,
		}}
		return result
	}

	result.Err = se
	result.Type = detectStatementType(input)
	result.Errors = types.Errors{toDiagnostic(se, input, start)}
	return result
}

// toDiagnostic converts a syntax error into a user-facing diagnostic,
// shifting its position by the statement's start.
func toDiagnostic(se *types.SyntaxError, input string, start types.Point) *types.Error {
	at := se.Location.Start
	column := at.Column - 1
	if at.Line == 1 {
		column += start.Column - 1
	}
	diag := &types.Error{
		Line:            at.Line + start.Line - 1,
		Column:          column,
		Offset:          at.Offset + start.Offset,
		Message:         se.Message,
		FriendlyMessage: friendlyMessage(se),
		Query:           input,
	}
	if suggestion := SuggestKeyword(se.Found); suggestion != "" {
		diag.Suggestion = "Did you mean '" + suggestion + "'?"
	}
	return diag
}

const maxFriendlyExpected = 6

func friendlyMessage(se *types.SyntaxError) string {
	var expected []string
	for _, exp := range se.Expected {
		if exp.Type == types.ExpectedEnd {
			continue
		}
		expected = append(expected, strings.Trim(exp.Description, `"`))
	}
	if len(expected) > maxFriendlyExpected {
		expected = append(expected[:maxFriendlyExpected], "...")
	}

	var b strings.Builder
	if se.Found == "" {
		b.WriteString("Incomplete statement")
	} else {
		fmt.Fprintf(&b, "Unexpected '%s'", se.Found)
	}
	if len(expected) > 0 {
		b.WriteString(", expected ")
		b.WriteString(strings.Join(expected, ", "))
	}
	return b.String()
}

// detectStatementType guesses the statement type from its leading keywords
// when the statement does not parse.
func detectStatementType(input string) types.StatementType {
	tokens, err := tokenize.Lex(input)
	if err != nil {
		return types.StatementUnknown
	}
	var words []string
	for _, tok := range tokens {
		if tok.Type == tokenize.TokenComment {
			continue
		}
		if !tok.IsWord() || len(words) == 2 {
			break
		}
		words = append(words, strings.ToUpper(tok.Text))
	}
	if len(words) == 0 {
		return types.StatementUnknown
	}

	switch words[0] {
	case "SELECT":
		return types.StatementSelect
	case "INSERT":
		return types.StatementInsert
	case "UPDATE":
		return types.StatementUpdate
	case "DELETE":
		return types.StatementDelete
	}
	if len(words) < 2 || words[1] != "TABLE" {
		return types.StatementUnknown
	}
	switch words[0] {
	case "CREATE":
		return types.StatementCreateTable
	case "ALTER":
		return types.StatementAlterTable
	case "DROP":
		return types.StatementDropTable
	}
	return types.StatementUnknown
}
