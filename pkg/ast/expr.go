package ast

import "github.com/tentacle-scylla/sqlcomplete/pkg/types"

// Expr is an expression node. Loc returns nil for nodes built without a
// source position.
type Expr interface {
	Loc() *types.Location
	exprNode()
}

// ColumnRef is a possibly qualified column reference. Column is "*" for
// "t.*".
type ColumnRef struct {
	Table    string          `json:"table,omitempty"`
	Column   string          `json:"column"`
	Location *types.Location `json:"location,omitempty"`
}

// LiteralKind classifies a Literal.
type LiteralKind string

const (
	LiteralNumber LiteralKind = "number"
	LiteralString LiteralKind = "string"
	LiteralBool   LiteralKind = "bool"
	LiteralNull   LiteralKind = "null"
)

// Literal is a constant value. Value holds the source text.
type Literal struct {
	Kind     LiteralKind     `json:"kind"`
	Value    string          `json:"value"`
	Location *types.Location `json:"location,omitempty"`
}

// Placeholder is a bind parameter such as $1, ? or :name.
type Placeholder struct {
	Value    string          `json:"value"`
	Location *types.Location `json:"location,omitempty"`
}

// FunctionCall is a call such as COUNT(*) or lower(name).
type FunctionCall struct {
	Name     string          `json:"name"`
	Args     []Expr          `json:"args,omitempty"`
	Distinct bool            `json:"distinct,omitempty"`
	Star     bool            `json:"star,omitempty"`
	Location *types.Location `json:"location,omitempty"`
}

// BinaryExpr is a binary operation. Op is upper-cased for word operators.
type BinaryExpr struct {
	Op       string          `json:"op"`
	Left     Expr            `json:"left"`
	Right    Expr            `json:"right"`
	Location *types.Location `json:"location,omitempty"`
}

// UnaryExpr is a prefix operation: "-", "+" or "NOT".
type UnaryExpr struct {
	Op       string          `json:"op"`
	Operand  Expr            `json:"operand"`
	Location *types.Location `json:"location,omitempty"`
}

// InExpr is "x [NOT] IN (list)" or "x [NOT] IN (subquery)".
type InExpr struct {
	Expr     Expr             `json:"expr"`
	Not      bool             `json:"not,omitempty"`
	List     []Expr           `json:"list,omitempty"`
	Subquery *SelectStatement `json:"subquery,omitempty"`
	Location *types.Location  `json:"location,omitempty"`
}

// BetweenExpr is "x [NOT] BETWEEN low AND high".
type BetweenExpr struct {
	Expr     Expr            `json:"expr"`
	Not      bool            `json:"not,omitempty"`
	Low      Expr            `json:"low"`
	High     Expr            `json:"high"`
	Location *types.Location `json:"location,omitempty"`
}

// IsNullExpr is "x IS [NOT] NULL".
type IsNullExpr struct {
	Expr     Expr            `json:"expr"`
	Not      bool            `json:"not,omitempty"`
	Location *types.Location `json:"location,omitempty"`
}

// WhenClause is one WHEN ... THEN ... arm of a CASE.
type WhenClause struct {
	When Expr `json:"when"`
	Then Expr `json:"then"`
}

// CaseExpr is a CASE expression.
type CaseExpr struct {
	Operand  Expr            `json:"operand,omitempty"`
	Whens    []*WhenClause   `json:"whens"`
	Else     Expr            `json:"else,omitempty"`
	Location *types.Location `json:"location,omitempty"`
}

// ExistsExpr is "EXISTS (subquery)".
type ExistsExpr struct {
	Subquery *SelectStatement `json:"subquery"`
	Location *types.Location  `json:"location,omitempty"`
}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	Select   *SelectStatement `json:"select"`
	Location *types.Location  `json:"location,omitempty"`
}

// ParenExpr is a parenthesised expression.
type ParenExpr struct {
	Expr     Expr            `json:"expr"`
	Location *types.Location `json:"location,omitempty"`
}

func (e *ColumnRef) Loc() *types.Location    { return e.Location }
func (e *Literal) Loc() *types.Location      { return e.Location }
func (e *Placeholder) Loc() *types.Location  { return e.Location }
func (e *FunctionCall) Loc() *types.Location { return e.Location }
func (e *BinaryExpr) Loc() *types.Location   { return e.Location }
func (e *UnaryExpr) Loc() *types.Location    { return e.Location }
func (e *InExpr) Loc() *types.Location       { return e.Location }
func (e *BetweenExpr) Loc() *types.Location  { return e.Location }
func (e *IsNullExpr) Loc() *types.Location   { return e.Location }
func (e *CaseExpr) Loc() *types.Location     { return e.Location }
func (e *ExistsExpr) Loc() *types.Location   { return e.Location }
func (e *SubqueryExpr) Loc() *types.Location { return e.Location }
func (e *ParenExpr) Loc() *types.Location    { return e.Location }

func (*ColumnRef) exprNode()    {}
func (*Literal) exprNode()      {}
func (*Placeholder) exprNode()  {}
func (*FunctionCall) exprNode() {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*InExpr) exprNode()       {}
func (*BetweenExpr) exprNode()  {}
func (*IsNullExpr) exprNode()   {}
func (*CaseExpr) exprNode()     {}
func (*ExistsExpr) exprNode()   {}
func (*SubqueryExpr) exprNode() {}
func (*ParenExpr) exprNode()    {}
