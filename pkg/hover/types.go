// Package hover describes the SQL token under a cursor: keywords,
// functions, column types, and the tables, aliases and columns of a schema.
package hover

import "github.com/tentacle-scylla/sqlcomplete/pkg/schema"

// HoverKind identifies the type of hover target.
type HoverKind string

const (
	HoverKeyword  HoverKind = "keyword"
	HoverFunction HoverKind = "function"
	HoverTable    HoverKind = "table"
	HoverColumn   HoverKind = "column"
	HoverAlias    HoverKind = "alias"
	HoverType     HoverKind = "type"
	HoverOperator HoverKind = "operator"
)

// Range represents a text range in the query.
type Range struct {
	// Start is the starting byte offset (inclusive)
	Start int `json:"start"`
	// End is the ending byte offset (exclusive)
	End int `json:"end"`
}

// HoverInfo contains information about a token at a position.
type HoverInfo struct {
	// Content is the hover text (markdown)
	Content string `json:"content"`

	// Range is the text range this hover applies to
	Range *Range `json:"range,omitempty"`

	// Kind identifies the type of token
	Kind HoverKind `json:"kind"`

	// Name is the token name (e.g., column name, function name)
	Name string `json:"name"`
}

// HoverContext provides context for hover resolution.
type HoverContext struct {
	// Query is the full SQL text
	Query string

	// Position is the cursor byte offset in Query
	Position int

	// Schema is the optional schema for context-aware hovers
	Schema *schema.Schema
}
