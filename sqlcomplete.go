// Package sqlcomplete provides context-aware SQL completion together with
// parsing, linting, schema analysis and formatting.
//
// This is a convenience package that re-exports the main types and functions
// from the sub-packages. For more control, import the sub-packages directly:
//
//   - github.com/tentacle-scylla/sqlcomplete/pkg/complete   - Auto-completion
//   - github.com/tentacle-scylla/sqlcomplete/pkg/parse      - Parsing SQL statements
//   - github.com/tentacle-scylla/sqlcomplete/pkg/lint       - Syntax checking
//   - github.com/tentacle-scylla/sqlcomplete/pkg/analyze    - Schema-aware analysis
//   - github.com/tentacle-scylla/sqlcomplete/pkg/format     - Formatting SQL statements
//   - github.com/tentacle-scylla/sqlcomplete/pkg/schema     - Schema snapshots
//   - github.com/tentacle-scylla/sqlcomplete/pkg/introspect - Schema introspection
//   - github.com/tentacle-scylla/sqlcomplete/pkg/hover      - Hover information
//   - github.com/tentacle-scylla/sqlcomplete/pkg/tokenize   - Syntax highlighting tokens
package sqlcomplete

import (
	"context"

	"github.com/tentacle-scylla/sqlcomplete/pkg/analyze"
	"github.com/tentacle-scylla/sqlcomplete/pkg/complete"
	"github.com/tentacle-scylla/sqlcomplete/pkg/format"
	"github.com/tentacle-scylla/sqlcomplete/pkg/hover"
	"github.com/tentacle-scylla/sqlcomplete/pkg/introspect"
	"github.com/tentacle-scylla/sqlcomplete/pkg/lint"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Re-export types
type (
	// Position is a 0-based editor cursor
	Position = types.Position

	// Error represents a parsing or validation error with position information
	Error = types.Error

	// Errors is a collection of Error pointers
	Errors = types.Errors

	// StatementType represents the type of SQL statement
	StatementType = types.StatementType

	// ParseResult contains the result of checking a SQL statement
	ParseResult = parse.Result

	// LintResult contains detailed lint results for a statement
	LintResult = lint.Result

	// FormatStyle defines the formatting style for SQL output
	FormatStyle = format.Style

	// FormatOptions configures the formatter behavior
	FormatOptions = format.Options

	// Schema is a snapshot of tables, columns and functions
	Schema = schema.Schema

	// Table represents a table in the schema
	Table = schema.Table

	// Column represents a column in a table
	Column = schema.Column

	// Function is a function callable in expressions
	Function = schema.Function

	// CompletionItem represents a single completion suggestion
	CompletionItem = complete.CompletionItem

	// CompletionResult holds the candidates and the syntax error, if any
	CompletionResult = complete.CompletionResult

	// CompletionOptions configures completion behavior
	CompletionOptions = complete.CompletionOptions

	// CompletionKind identifies the type of completion item
	CompletionKind = complete.CompletionKind

	// HoverInfo contains information about a token at a position
	HoverInfo = hover.HoverInfo

	// HoverContext provides context for hover resolution
	HoverContext = hover.HoverContext

	// HoverKind identifies the type of hover target
	HoverKind = hover.HoverKind

	// AnalyzeResult contains the result of analyzing a SQL statement
	AnalyzeResult = analyze.Result

	// AnalyzeOptions configures analysis behavior
	AnalyzeOptions = analyze.AnalyzeOptions

	// SchemaError represents an error from schema validation
	SchemaError = analyze.SchemaError

	// Token represents a single token for syntax highlighting
	Token = tokenize.Token

	// TokenType identifies the semantic type of a token
	TokenType = tokenize.TokenType

	// TokenContext provides schema names for enhanced tokenization
	TokenContext = tokenize.Context
)

// Re-export statement type constants
const (
	StatementUnknown     = types.StatementUnknown
	StatementSelect      = types.StatementSelect
	StatementInsert      = types.StatementInsert
	StatementUpdate      = types.StatementUpdate
	StatementDelete      = types.StatementDelete
	StatementCreateTable = types.StatementCreateTable
	StatementAlterTable  = types.StatementAlterTable
	StatementDropTable   = types.StatementDropTable
)

// Re-export completion kinds
const (
	KindKeyword  = complete.KindKeyword
	KindColumn   = complete.KindColumn
	KindTable    = complete.KindTable
	KindFunction = complete.KindFunction
	KindAlias    = complete.KindAlias
	KindUtility  = complete.KindUtility
)

// Re-export format style constants
const (
	FormatCompact = format.Compact
	FormatPretty  = format.Pretty
)

// Complete returns completion candidates for the cursor at pos in sql
func Complete(sql string, pos Position, s *Schema) (*CompletionResult, error) {
	return complete.Complete(sql, pos, s)
}

// CompleteWithOptions returns completion candidates with custom options
func CompleteWithOptions(sql string, pos Position, s *Schema, opts *CompletionOptions) (*CompletionResult, error) {
	return complete.CompleteWithOptions(sql, pos, s, opts)
}

// Check parses a single SQL statement and reports syntax errors
func Check(input string) *ParseResult {
	return parse.Check(input)
}

// CheckMultiple parses semicolon-separated SQL statements
func CheckMultiple(input string) []*ParseResult {
	return parse.Multiple(input)
}

// IsValid returns true if the SQL input is syntactically valid
func IsValid(input string) bool {
	return lint.IsValid(input)
}

// Lint validates SQL and returns any errors found
func Lint(input string) Errors {
	return lint.Check(input)
}

// LintMultiple returns detailed lint results for each statement
func LintMultiple(input string) []*LintResult {
	return lint.AnalyzeMultiple(input)
}

// Analyze checks a SQL statement against the schema in opts
func Analyze(sql string, opts *AnalyzeOptions) *AnalyzeResult {
	return analyze.Analyze(sql, opts)
}

// AnalyzeMultiple checks each statement of the input against the schema in opts
func AnalyzeMultiple(input string, opts *AnalyzeOptions) []*AnalyzeResult {
	return analyze.AnalyzeMultiple(input, opts)
}

// DefaultAnalyzeOptions returns default analysis options
func DefaultAnalyzeOptions() *AnalyzeOptions {
	return analyze.DefaultOptions()
}

// FormatString validates and formats a SQL string
func FormatString(input string, opts FormatOptions) (string, error) {
	return format.String(input, opts)
}

// Pretty is a convenience function for pretty formatting
func Pretty(input string) (string, error) {
	return format.PrettyString(input)
}

// Compact is a convenience function for compact formatting
func Compact(input string) (string, error) {
	return format.CompactString(input)
}

// NewSchema creates an empty schema
func NewSchema() *Schema {
	return schema.NewSchema()
}

// LoadSchema reads a schema snapshot from a .json, .yaml, .yml, .sql or .ddl file
func LoadSchema(path string) (*Schema, error) {
	return schema.Load(path)
}

// IntrospectSchema reads the schema of a live database ("sqlite" or "postgres")
func IntrospectSchema(ctx context.Context, driver, dsn string) (*Schema, error) {
	return introspect.Load(ctx, driver, dsn)
}

// GetHoverInfo returns hover information for the token at the given position
func GetHoverInfo(ctx *HoverContext) *HoverInfo {
	return hover.GetHoverInfo(ctx)
}

// GetTokens returns all tokens from a SQL string with semantic classification
func GetTokens(input string, ctx *TokenContext) []Token {
	return tokenize.Tokenize(input, ctx)
}
