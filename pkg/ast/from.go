package ast

import "github.com/tentacle-scylla/sqlcomplete/pkg/types"

// FromClause holds the items of a FROM clause in source order. Joined
// items follow the item they join onto.
type FromClause struct {
	Tables   []FromTableNode `json:"tables"`
	Location types.Location  `json:"location"`
}

// FromTableNode is one item of a FROM clause: *TableNode, *SubqueryNode or
// *IncompleteSubqueryNode.
type FromTableNode interface {
	// Alias returns the explicit alias, or "".
	Alias() string
	// Loc returns the node's span.
	Loc() types.Location
	fromTableNode()
}

// JoinType is the join keyword sequence that introduced a FROM item.
type JoinType string

const (
	JoinNone  JoinType = ""
	JoinPlain JoinType = "JOIN"
	JoinInner JoinType = "INNER JOIN"
	JoinLeft  JoinType = "LEFT JOIN"
	JoinRight JoinType = "RIGHT JOIN"
	JoinCross JoinType = "CROSS JOIN"
)

// TableNode references a table by up to three qualifiers. Its location
// spans the qualified name through the alias.
type TableNode struct {
	Catalog  string         `json:"catalog,omitempty"`
	DB       string         `json:"db,omitempty"`
	Table    string         `json:"table"`
	As       string         `json:"as,omitempty"`
	Join     JoinType       `json:"join,omitempty"`
	On       Expr           `json:"on,omitempty"`
	Using    []string       `json:"using,omitempty"`
	Location types.Location `json:"location"`
}

// SubqueryNode is a parenthesised SELECT used as a FROM item.
type SubqueryNode struct {
	Subquery *SelectStatement `json:"subquery"`
	As       string           `json:"as,omitempty"`
	Join     JoinType         `json:"join,omitempty"`
	On       Expr             `json:"on,omitempty"`
	Using    []string         `json:"using,omitempty"`
	Location types.Location   `json:"location"`
}

// IncompleteSubqueryNode is a parenthesised FROM item whose content is not
// a valid SELECT. It is only produced by FROM-clause recovery. Text is the
// raw source between the parentheses and Location spans exactly that text.
type IncompleteSubqueryNode struct {
	Text     string         `json:"text"`
	As       string         `json:"as,omitempty"`
	Location types.Location `json:"location"`
}

func (n *TableNode) Alias() string              { return n.As }
func (n *SubqueryNode) Alias() string           { return n.As }
func (n *IncompleteSubqueryNode) Alias() string { return n.As }

func (n *TableNode) Loc() types.Location              { return n.Location }
func (n *SubqueryNode) Loc() types.Location           { return n.Location }
func (n *IncompleteSubqueryNode) Loc() types.Location { return n.Location }

func (*TableNode) fromTableNode()              {}
func (*SubqueryNode) fromTableNode()           {}
func (*IncompleteSubqueryNode) fromTableNode() {}
