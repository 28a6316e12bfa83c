// Package ast defines the syntax tree produced by the SQL parser.
//
// Statements, FROM items, result column lists and expressions are closed
// sets: each is an interface with an unexported marker method, so a type
// switch over the listed implementations is exhaustive.
package ast

import "github.com/tentacle-scylla/sqlcomplete/pkg/types"

// Statement is a parsed SQL statement.
type Statement interface {
	// Type reports the statement kind. EmptyStatement reports
	// types.StatementUnknown.
	Type() types.StatementType
	statementNode()
}

// EmptyStatement is the result of parsing input that holds no statement.
type EmptyStatement struct{}

// SelectStatement is a SELECT query.
type SelectStatement struct {
	Distinct bool           `json:"distinct,omitempty"`
	Columns  ResultColumns  `json:"columns"`
	From     *FromClause    `json:"from,omitempty"`
	Where    Expr           `json:"where,omitempty"`
	GroupBy  []Expr         `json:"groupBy,omitempty"`
	Having   Expr           `json:"having,omitempty"`
	OrderBy  []*OrderItem   `json:"orderBy,omitempty"`
	Limit    Expr           `json:"limit,omitempty"`
	Offset   Expr           `json:"offset,omitempty"`
	Location types.Location `json:"location"`
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Expr Expr `json:"expr"`
	Desc bool `json:"desc,omitempty"`
}

// InsertStatement is an INSERT INTO statement. Exactly one of Values and
// Select is set.
type InsertStatement struct {
	Table    *TableNode       `json:"table"`
	Columns  []string         `json:"columns,omitempty"`
	Values   [][]Expr         `json:"values,omitempty"`
	Select   *SelectStatement `json:"select,omitempty"`
	Location types.Location   `json:"location"`
}

// Assignment is one SET term of an UPDATE.
type Assignment struct {
	Column *ColumnRef `json:"column"`
	Value  Expr       `json:"value"`
}

// UpdateStatement is an UPDATE statement.
type UpdateStatement struct {
	Table    *TableNode     `json:"table"`
	Set      []*Assignment  `json:"set"`
	Where    Expr           `json:"where,omitempty"`
	Location types.Location `json:"location"`
}

// DeleteStatement is a DELETE FROM statement.
type DeleteStatement struct {
	Table    *TableNode     `json:"table"`
	Where    Expr           `json:"where,omitempty"`
	Location types.Location `json:"location"`
}

// ColumnDef is a column definition in CREATE TABLE or ALTER TABLE ADD.
type ColumnDef struct {
	Name        string   `json:"name"`
	DataType    string   `json:"dataType"`
	Constraints []string `json:"constraints,omitempty"`
}

// CreateTableStatement is a CREATE TABLE statement.
type CreateTableStatement struct {
	Table       *TableNode     `json:"table"`
	IfNotExists bool           `json:"ifNotExists,omitempty"`
	Columns     []*ColumnDef   `json:"columns"`
	Constraints []string       `json:"constraints,omitempty"`
	Location    types.Location `json:"location"`
}

// AlterAction identifies what an ALTER TABLE statement does.
type AlterAction string

const (
	AlterAddColumn    AlterAction = "ADD COLUMN"
	AlterDropColumn   AlterAction = "DROP COLUMN"
	AlterAlterColumn  AlterAction = "ALTER COLUMN"
	AlterRenameColumn AlterAction = "RENAME COLUMN"
	AlterRenameTable  AlterAction = "RENAME TO"
)

// AlterTableStatement is an ALTER TABLE statement.
type AlterTableStatement struct {
	Table  *TableNode  `json:"table"`
	Action AlterAction `json:"action"`
	// Column is set for AlterAddColumn.
	Column *ColumnDef `json:"column,omitempty"`
	// Name is the affected column, or the new table name for AlterRenameTable.
	Name string `json:"name,omitempty"`
	// NewName is the new column name for AlterRenameColumn.
	NewName string `json:"newName,omitempty"`
	// Change describes an AlterAlterColumn change, e.g. "SET NOT NULL".
	Change   string         `json:"change,omitempty"`
	Location types.Location `json:"location"`
}

// DropTableStatement is a DROP TABLE statement.
type DropTableStatement struct {
	Table    *TableNode     `json:"table"`
	IfExists bool           `json:"ifExists,omitempty"`
	Location types.Location `json:"location"`
}

func (*EmptyStatement) Type() types.StatementType       { return types.StatementUnknown }
func (*SelectStatement) Type() types.StatementType      { return types.StatementSelect }
func (*InsertStatement) Type() types.StatementType      { return types.StatementInsert }
func (*UpdateStatement) Type() types.StatementType      { return types.StatementUpdate }
func (*DeleteStatement) Type() types.StatementType      { return types.StatementDelete }
func (*CreateTableStatement) Type() types.StatementType { return types.StatementCreateTable }
func (*AlterTableStatement) Type() types.StatementType  { return types.StatementAlterTable }
func (*DropTableStatement) Type() types.StatementType   { return types.StatementDropTable }

func (*EmptyStatement) statementNode()       {}
func (*SelectStatement) statementNode()      {}
func (*InsertStatement) statementNode()      {}
func (*UpdateStatement) statementNode()      {}
func (*DeleteStatement) statementNode()      {}
func (*CreateTableStatement) statementNode() {}
func (*AlterTableStatement) statementNode()  {}
func (*DropTableStatement) statementNode()   {}

// ResultColumns is the projection of a SELECT: either *Star or ColumnList.
type ResultColumns interface {
	resultColumns()
}

// Star is a bare "*" projection.
type Star struct {
	Location types.Location `json:"location"`
}

// ResultColumn is one projected expression with its optional alias.
type ResultColumn struct {
	Expr Expr   `json:"expr"`
	As   string `json:"as,omitempty"`
}

// ColumnList is an explicit projection list.
type ColumnList []*ResultColumn

func (*Star) resultColumns()      {}
func (ColumnList) resultColumns() {}
