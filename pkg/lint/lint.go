package lint

import (
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Check validates SQL and returns any errors found. Statements are
// separated by semicolons and positions are relative to the whole input.
func Check(input string) types.Errors {
	var allErrors types.Errors
	for _, r := range parse.Multiple(input) {
		allErrors = append(allErrors, r.Errors...)
	}
	return allErrors
}

// CheckStatement validates a single SQL statement.
func CheckStatement(input string) types.Errors {
	return parse.Check(input).Errors
}

// IsValid returns true if the SQL input is syntactically valid
func IsValid(input string) bool {
	return !Check(input).HasErrors()
}

// Result contains detailed lint results for a statement
type Result struct {
	Input   string
	Type    types.StatementType
	Errors  types.Errors
	IsValid bool
}

// Analyze performs detailed analysis on a single SQL statement
func Analyze(input string) *Result {
	return newResult(parse.Check(input))
}

// AnalyzeMultiple performs detailed analysis on multiple SQL statements
func AnalyzeMultiple(input string) []*Result {
	var results []*Result
	for _, pr := range parse.Multiple(input) {
		results = append(results, newResult(pr))
	}
	return results
}

func newResult(pr *parse.Result) *Result {
	return &Result{
		Input:   pr.Input,
		Type:    pr.Type,
		Errors:  pr.Errors,
		IsValid: pr.IsValid(),
	}
}
