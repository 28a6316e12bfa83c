package complete

import (
	"strings"
	"unicode"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// TrimAfterCursor returns the text before the cursor: every line before
// pos.Line in full and the first pos.Column characters of line pos.Line.
// A cursor past the last line leaves sql unchanged.
func TrimAfterCursor(sql string, pos types.Position) string {
	lines := strings.Split(sql, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return sql
	}

	line := []rune(lines[pos.Line])
	col := pos.Column
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}

	kept := append(lines[:pos.Line:pos.Line], string(line[:col]))
	return strings.Join(kept, "\n")
}

// LastToken returns the identifier fragment at the end of text, the
// prefix completions are matched against. Bracket subscripts are removed
// wherever they occur and quote characters are dropped, so
// "abc[0].def[0].g" yields "abc.def.g".
func LastToken(text string) string {
	runes := []rune(text)
	start := 0
	for i := len(runes) - 1; i >= 0; i-- {
		if !isTokenRune(runes[i]) {
			start = i + 1
			break
		}
	}
	return normalizeToken(string(runes[start:]))
}

func isTokenRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '_', '.', ':', '\'', '"', '[', ']':
		return true
	}
	return false
}

func normalizeToken(token string) string {
	for {
		stripped := stripSubscript(token)
		if stripped == token {
			break
		}
		token = stripped
	}
	return strings.NewReplacer("'", "", `"`, "").Replace(token)
}

// stripSubscript removes the first closed "[...]" group.
func stripSubscript(s string) string {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s
	}
	end := strings.IndexByte(s[open:], ']')
	if end < 0 {
		return s
	}
	return s[:open] + s[open+end+1:]
}

// MakeTableAlias suggests an alias for a table: its first three characters.
func MakeTableAlias(tableName string) string {
	runes := []rune(tableName)
	if len(runes) <= 3 {
		return tableName
	}
	return string(runes[:3])
}

// MakeTableName renders the most qualified name the table has. A catalog
// is always followed by the database.
func MakeTableName(t *schema.Table) string {
	switch {
	case t.Catalog != "":
		return t.Catalog + "." + t.Database + "." + t.TableName
	case t.Database != "":
		return t.Database + "." + t.TableName
	default:
		return t.TableName
	}
}

// MakeColumnName qualifies columnName with alias when alias is set.
func MakeColumnName(alias, columnName string) string {
	if alias == "" {
		return columnName
	}
	return alias + "." + columnName
}

// AliasFromFromTableNode returns the name a FROM item is referenced by:
// its alias, else the bare table name of a table reference. Subqueries
// without an alias have none.
func AliasFromFromTableNode(node ast.FromTableNode) string {
	if node == nil {
		return ""
	}
	if as := node.Alias(); as != "" {
		return as
	}
	if t, ok := node.(*ast.TableNode); ok {
		return t.Table
	}
	return ""
}
