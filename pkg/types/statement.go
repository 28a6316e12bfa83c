package types

// StatementType represents the type of SQL statement
type StatementType int

const (
	// StatementUnknown is reported for empty input, which parses to a
	// statement without a type.
	StatementUnknown StatementType = iota
	StatementSelect
	StatementInsert
	StatementUpdate
	StatementDelete
	StatementCreateTable
	StatementAlterTable
	StatementDropTable
)

// String returns the string representation of the statement type
func (s StatementType) String() string {
	switch s {
	case StatementSelect:
		return "SELECT"
	case StatementInsert:
		return "INSERT"
	case StatementUpdate:
		return "UPDATE"
	case StatementDelete:
		return "DELETE"
	case StatementCreateTable:
		return "CREATE TABLE"
	case StatementAlterTable:
		return "ALTER TABLE"
	case StatementDropTable:
		return "DROP TABLE"
	default:
		return "UNKNOWN"
	}
}

// IsDML returns true if the statement is a Data Manipulation Language statement
func (s StatementType) IsDML() bool {
	switch s {
	case StatementSelect, StatementInsert, StatementUpdate, StatementDelete:
		return true
	default:
		return false
	}
}

// IsDDL returns true if the statement is a Data Definition Language statement
func (s StatementType) IsDDL() bool {
	switch s {
	case StatementCreateTable, StatementAlterTable, StatementDropTable:
		return true
	default:
		return false
	}
}
