// Package complete provides context-aware SQL auto-completion.
//
// Completion works on the text before the cursor. When that text parses,
// the statement under the cursor selects the candidate builders. When it
// does not, the FROM clause of the whole text is recovered so that table
// aliases and subqueries still scope column suggestions.
package complete

import (
	"go.uber.org/zap"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
)

// CompletionKind identifies the type of completion item.
type CompletionKind string

const (
	KindKeyword  CompletionKind = "keyword"
	KindColumn   CompletionKind = "column"
	KindTable    CompletionKind = "table"
	KindFunction CompletionKind = "function"
	KindAlias    CompletionKind = "alias"
	KindUtility  CompletionKind = "utility"
)

// CompletionItem represents a single completion suggestion.
type CompletionItem struct {
	// Label is the display text shown in the completion list
	Label string `json:"label"`

	// Kind identifies the type of completion (keyword, table, column, etc.)
	Kind CompletionKind `json:"kind"`

	// Detail provides additional info (e.g., column type)
	Detail string `json:"detail,omitempty"`

	// InsertText is the text to insert (defaults to Label if empty)
	InsertText string `json:"insertText,omitempty"`

	// FilterText is used for filtering (defaults to Label if empty)
	FilterText string `json:"filterText,omitempty"`

	// Documentation provides extended documentation
	Documentation string `json:"documentation,omitempty"`
}

// GetInsertText returns the text to insert, defaulting to Label.
func (c *CompletionItem) GetInsertText() string {
	if c.InsertText != "" {
		return c.InsertText
	}
	return c.Label
}

// GetFilterText returns the text to filter on, defaulting to Label.
func (c *CompletionItem) GetFilterText() string {
	if c.FilterText != "" {
		return c.FilterText
	}
	return c.Label
}

// ErrorDescriptor describes the syntax error of the text before the cursor.
type ErrorDescriptor struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

// CompletionResult is the outcome of a completion request. Error is nil
// when the text before the cursor parsed.
type CompletionResult struct {
	Candidates []CompletionItem `json:"candidates"`
	Error      *ErrorDescriptor `json:"error"`
}

// Parser is the parsing capability the completer depends on.
type Parser interface {
	// Parse parses one statement. Syntax errors are *types.SyntaxError;
	// any other error aborts completion.
	Parse(input string) (ast.Statement, error)
	// ParseFromClause recovers the FROM clause of a broken statement.
	ParseFromClause(input string) (*ast.FromClause, error)
}

// CompletionOptions configures completion behavior.
type CompletionOptions struct {
	// JupyterLabMode prefixes insert and filter text with the character
	// that triggered completion (a space or a dot).
	JupyterLabMode bool

	// Parser defaults to parse.Parser.
	Parser Parser

	// Logger receives debug traces. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the default completion options.
func DefaultOptions() *CompletionOptions {
	return &CompletionOptions{
		Parser: parse.Parser{},
		Logger: zap.NewNop(),
	}
}
