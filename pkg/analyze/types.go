// Package analyze provides schema-aware analysis of SQL statements.
// It extracts the tables, columns and functions a statement references,
// validates them against a schema and reports risky statements.
package analyze

import (
	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Result contains the result of analyzing a SQL statement.
type Result struct {
	// Query is the statement text
	Query string

	// Type is the statement type (SELECT, INSERT, UPDATE, DELETE, etc.)
	Type types.StatementType

	// IsValid is true if the statement is syntactically valid
	IsValid bool

	// SyntaxErrors contains any syntax errors from parsing
	SyntaxErrors types.Errors

	// References contains all schema objects referenced in the statement
	References *References

	// SchemaErrors contains errors from schema validation (unknown tables, columns, etc.)
	SchemaErrors []*SchemaError

	// Warnings contains non-fatal issues (UPDATE without WHERE, SELECT *, etc.)
	Warnings []*Warning
}

// TableRef is a table named by the statement.
type TableRef struct {
	Catalog  string         `json:"catalog,omitempty"`
	Database string         `json:"database,omitempty"`
	Table    string         `json:"table"`
	Alias    string         `json:"alias,omitempty"`
	Location types.Location `json:"location"`
}

// References contains all schema objects referenced in a statement.
type References struct {
	// Tables are the tables named in FROM clauses or as the statement target
	Tables []*TableRef `json:"tables"`

	// Columns are all column names referenced, without qualifiers
	Columns []string `json:"columns"`

	SelectColumns  []string `json:"selectColumns"`
	WhereColumns   []string `json:"whereColumns"`
	GroupByColumns []string `json:"groupByColumns"`
	OrderByColumns []string `json:"orderByColumns"`
	UpdateColumns  []string `json:"updateColumns"`
	InsertColumns  []string `json:"insertColumns"`

	// Functions are the distinct function names, lower-cased
	Functions []string `json:"functions"`

	// FunctionCalls contains detailed info about each function call
	FunctionCalls []*FunctionCall `json:"functionCalls"`

	// HasSelectStar is true when the outermost projection is a bare *
	HasSelectStar bool `json:"hasSelectStar,omitempty"`

	// Limit is the LIMIT value if it is a number literal, -1 otherwise
	Limit int `json:"limit"`
}

// FunctionCall represents a function call with argument details.
type FunctionCall struct {
	// Name is the function name (lowercase)
	Name string `json:"name"`

	// ArgCount is the number of arguments passed
	ArgCount int `json:"argCount"`

	// HasStar is true if the argument is * (e.g., count(*))
	HasStar bool `json:"hasStar,omitempty"`

	Location *types.Location `json:"location,omitempty"`
}

// SchemaError represents an error from schema validation.
type SchemaError struct {
	Type       SchemaErrorType
	Message    string
	Suggestion string
	Object     string // The object name that caused the error (table, column, function)
	Location   *types.Location
}

// SchemaErrorType identifies the kind of schema error.
type SchemaErrorType string

const (
	ErrUnknownTable          SchemaErrorType = "unknown_table"
	ErrUnknownColumn         SchemaErrorType = "unknown_column"
	ErrAmbiguousColumn       SchemaErrorType = "ambiguous_column"
	ErrDuplicateColumn       SchemaErrorType = "duplicate_column"
	ErrFunctionArgCount      SchemaErrorType = "function_arg_count"
	ErrFunctionArgCountRange SchemaErrorType = "function_arg_count_range"
)

// Warning represents a non-fatal issue with the statement.
type Warning struct {
	Type       WarningType
	Severity   Severity
	Message    string
	Suggestion string
	Location   *types.Location
}

// WarningType identifies the kind of warning.
type WarningType string

const (
	WarnNoWhereClause   WarningType = "no_where_clause"
	WarnNoLimit         WarningType = "no_limit"
	WarnLargeLimit      WarningType = "large_limit"
	WarnSelectStar      WarningType = "select_star"
	WarnUnknownFunction WarningType = "unknown_function"
	WarnTableExists     WarningType = "table_exists"
)

// Severity indicates how serious a warning is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// HasSchemaErrors returns true if there are any schema validation errors.
func (r *Result) HasSchemaErrors() bool {
	return len(r.SchemaErrors) > 0
}

// HasWarnings returns true if there are any warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasErrors returns true if there are any errors (syntax or schema).
func (r *Result) HasErrors() bool {
	return len(r.SyntaxErrors) > 0 || len(r.SchemaErrors) > 0
}

// AllErrors returns all errors (syntax + schema) as a combined list.
func (r *Result) AllErrors() []string {
	var errs []string
	for _, e := range r.SyntaxErrors {
		errs = append(errs, e.DisplayMessage())
	}
	for _, e := range r.SchemaErrors {
		errs = append(errs, e.Message)
	}
	return errs
}

// WarningsOfType returns all warnings of a specific type.
func (r *Result) WarningsOfType(t WarningType) []*Warning {
	var result []*Warning
	for _, w := range r.Warnings {
		if w.Type == t {
			result = append(result, w)
		}
	}
	return result
}

// ErrorsOfType returns all schema errors of a specific type.
func (r *Result) ErrorsOfType(t SchemaErrorType) []*SchemaError {
	var result []*SchemaError
	for _, e := range r.SchemaErrors {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// NewReferences creates a new empty References.
func NewReferences() *References {
	return &References{
		Tables:         make([]*TableRef, 0),
		Columns:        make([]string, 0),
		SelectColumns:  make([]string, 0),
		WhereColumns:   make([]string, 0),
		GroupByColumns: make([]string, 0),
		OrderByColumns: make([]string, 0),
		UpdateColumns:  make([]string, 0),
		InsertColumns:  make([]string, 0),
		Functions:      make([]string, 0),
		FunctionCalls:  make([]*FunctionCall, 0),
		Limit:          -1,
	}
}

// AnalyzeOptions configures analysis behavior.
type AnalyzeOptions struct {
	// Schema is the schema to validate against (optional)
	Schema *schema.Schema

	// WarnOnSelectStar warns about SELECT * queries
	WarnOnSelectStar bool

	// WarnOnNoLimit warns about SELECT queries without LIMIT
	WarnOnNoLimit bool

	// LargeLimitThreshold triggers a warning when LIMIT exceeds this value (0 = disabled)
	LargeLimitThreshold int
}

// DefaultOptions returns default analysis options.
func DefaultOptions() *AnalyzeOptions {
	return &AnalyzeOptions{}
}

// scope is the set of FROM items visible to the column references of one
// SELECT, UPDATE or DELETE. Correlated references resolve through parent.
type scope struct {
	tables     []*TableRef
	subqueries []string // aliases of derived tables, "" when unaliased
	aliases    []string // projection aliases, usable in ORDER BY
	parent     *scope
}

// columnUse is a column reference together with the scope it appears in.
type columnUse struct {
	ref   *ast.ColumnRef
	scope *scope
}
