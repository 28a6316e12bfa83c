package tokenize

import "strings"

// sqlKeywords are recognised as keywords for highlighting and typo hints.
var sqlKeywords = []string{
	// DML
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "AS", "DISTINCT", "ALL", "JOIN", "INNER", "LEFT", "RIGHT",
	"FULL", "OUTER", "CROSS", "ON", "USING", "AND", "OR", "NOT", "NULL", "IS",
	"IN", "LIKE", "BETWEEN", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END",
	"TRUE", "FALSE", "ASC", "DESC", "UNION", "INSERT", "INTO", "VALUES",
	"UPDATE", "SET", "DELETE",

	// DDL
	"CREATE", "ALTER", "DROP", "TABLE", "ADD", "COLUMN", "RENAME", "TO", "IF",
	"PRIMARY", "KEY", "UNIQUE", "DEFAULT", "REFERENCES", "FOREIGN", "CHECK",
	"CONSTRAINT", "TYPE", "INDEX", "VIEW", "TEMPORARY", "TEMP",
}

// reserved keywords can never be used as bare identifiers or aliases.
var reserved = makeSet([]string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "AS", "DISTINCT", "ALL", "JOIN", "INNER", "LEFT", "RIGHT",
	"FULL", "OUTER", "CROSS", "ON", "USING", "AND", "OR", "NOT", "NULL", "IS",
	"IN", "LIKE", "BETWEEN", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END",
	"TRUE", "FALSE", "ASC", "DESC", "UNION", "INSERT", "INTO", "VALUES",
	"UPDATE", "SET", "DELETE", "CREATE", "ALTER", "DROP", "TABLE",
})

var keywordSet = makeSet(sqlKeywords)

var dataTypes = makeSet([]string{
	"int", "integer", "bigint", "smallint", "tinyint", "real", "float",
	"double", "decimal", "numeric", "boolean", "bool", "text", "varchar",
	"char", "date", "time", "timestamp", "timestamptz", "blob", "bytea",
	"json", "jsonb", "uuid", "serial", "bigserial",
})

// Keywords returns the SQL keyword list.
func Keywords() []string {
	return append([]string(nil), sqlKeywords...)
}

// IsKeyword reports whether word is a SQL keyword (case-insensitive).
func IsKeyword(word string) bool {
	return keywordSet[strings.ToLower(word)]
}

// IsReserved reports whether word cannot be used as a bare identifier.
func IsReserved(word string) bool {
	return reserved[strings.ToLower(word)]
}

// IsDataType reports whether word names a common column type.
func IsDataType(word string) bool {
	return dataTypes[strings.ToLower(word)]
}

// makeSet creates a case-insensitive lookup set from a slice of strings.
func makeSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[strings.ToLower(item)] = true
	}
	return m
}
