package complete

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

// Expected literals that never make useful completions.
var undesiredLiterals = map[string]bool{
	"+": true, "-": true, "*": true, "$": true, ":": true,
	"COUNT": true, "AVG": true, "SUM": true,
	"`": true, `"`: true, "'": true,
}

// Expected literals completed as multi-word keywords.
var literalRemaps = map[string]string{
	"ORDER": "ORDER BY",
	"GROUP": "GROUP BY",
	"LEFT":  "LEFT JOIN",
	"RIGHT": "RIGHT JOIN",
	"INNER": "INNER JOIN",
}

// Join types in the order they are tried against the typed token.
var joinTypes = []string{"INNER", "LEFT", "RIGHT"}

// BasicKeywordCandidates returns the statement-level keywords.
func BasicKeywordCandidates() []CompletionItem {
	items := make([]CompletionItem, len(BasicKeywords))
	for i, kw := range BasicKeywords {
		items[i] = makeKeywordItem(kw)
	}
	return items
}

// KeywordCandidatesFromExpected turns the literal tokens a parser expected
// into keyword completions.
func KeywordCandidatesFromExpected(literals []string) []CompletionItem {
	hasAdd := false
	for _, lit := range literals {
		if lit == "ADD" {
			hasAdd = true
			break
		}
	}

	seen := make(map[string]bool)
	var items []CompletionItem
	for _, lit := range literals {
		if seen[lit] || undesiredLiterals[lit] {
			continue
		}
		seen[lit] = true

		kw := lit
		if remap, ok := literalRemaps[lit]; ok {
			kw = remap
		} else if lit == "ALTER" {
			kw = "ALTER TABLE"
			if hasAdd {
				kw = "ALTER COLUMN"
			}
		}
		items = append(items, makeKeywordItem(kw))
	}
	return items
}

// tableNameVariants lists every name a table can be referenced by.
func tableNameVariants(t *schema.Table) []string {
	names := []string{t.TableName}
	if t.Database != "" {
		names = append(names, t.Database+"."+t.TableName)
	}
	if t.Catalog != "" {
		names = append(names, t.Catalog+"."+t.Database+"."+t.TableName)
	}
	return names
}

// TableCandidates returns the tables whose name extends token. With
// qualified set, database- and catalog-qualified names are offered too.
func TableCandidates(tables []*schema.Table, token string, qualified bool) []CompletionItem {
	var items []CompletionItem
	for _, t := range tables {
		names := []string{t.TableName}
		if qualified {
			names = tableNameVariants(t)
		}
		for _, name := range names {
			id := NewIdentifier(token, name, "", KindTable)
			if id.MatchesLastToken() {
				items = append(items, id.ToCompletionItem())
			}
		}
	}
	return items
}

// UnscopedColumnCandidates returns the columns of every table whose name
// extends token.
func UnscopedColumnCandidates(tables []*schema.Table, token string) []CompletionItem {
	var items []CompletionItem
	for _, t := range tables {
		for _, col := range t.Columns {
			id := NewIdentifier(token, col.ColumnName, col.Description, KindColumn)
			if id.MatchesLastToken() {
				items = append(items, id.ToCompletionItem())
			}
		}
	}
	return items
}

// ScopedColumnCandidates returns "alias.column" completions for the FROM
// items the token is already qualified with.
func ScopedColumnCandidates(nodes []ast.FromTableNode, tables []*schema.Table, token string) []CompletionItem {
	var items []CompletionItem
	for _, t := range tables {
		for _, node := range nodes {
			if !IsTableMatch(node, t) {
				continue
			}
			alias := AliasFromFromTableNode(node)
			if !strings.HasPrefix(token, alias+".") {
				continue
			}
			for _, col := range t.Columns {
				id := NewIdentifier(token, MakeColumnName(alias, col.ColumnName), col.Description, KindColumn)
				if id.MatchesLastToken() {
					items = append(items, id.ToCompletionItem())
				}
			}
		}
	}
	return items
}

// AliasCandidates returns the explicit FROM aliases starting with token.
func AliasCandidates(nodes []ast.FromTableNode, token string) []CompletionItem {
	var items []CompletionItem
	for _, node := range nodes {
		if as := node.Alias(); as != "" && strings.HasPrefix(as, token) {
			items = append(items, CompletionItem{Label: as, Kind: KindAlias, Detail: "alias"})
		}
	}
	return items
}

// SelectAllColumnsCandidates offers, for each aliased FROM table, one item
// inserting all of its columns. It only applies right after SELECT.
func SelectAllColumnsCandidates(nodes []ast.FromTableNode, tables []*schema.Table, token string) []CompletionItem {
	if token != "" && token != "SELECT" {
		return nil
	}

	var items []CompletionItem
	for _, t := range tables {
		for _, node := range nodes {
			if !IsTableMatch(node, t) {
				continue
			}
			alias := AliasFromFromTableNode(node)
			if alias == "" || len(t.Columns) == 0 {
				continue
			}
			cols := make([]string, len(t.Columns))
			for i, col := range t.Columns {
				cols[i] = MakeColumnName(alias, col.ColumnName)
			}
			items = append(items, CompletionItem{
				Label:      "Select all columns from " + alias,
				Kind:       KindUtility,
				Detail:     "utility",
				InsertText: strings.Join(cols, ",\n"),
			})
		}
	}
	return items
}

// FunctionCandidates returns the functions whose name starts with token,
// ignoring case. An upper-case token yields upper-case names; otherwise
// the typed prefix is kept as typed.
func FunctionCandidates(funcs []*schema.Function, token string) []CompletionItem {
	if token == "" {
		items := make([]CompletionItem, len(funcs))
		for i, f := range funcs {
			items[i] = functionItem(f, f.Name)
		}
		return items
	}

	lower := strings.ToLower(token)
	upper := token != lower && token == strings.ToUpper(token)
	prefixLen := len([]rune(token))

	var items []CompletionItem
	for _, f := range funcs {
		if !strings.HasPrefix(strings.ToLower(f.Name), lower) {
			continue
		}
		name := f.Name
		switch {
		case upper:
			name = strings.ToUpper(name)
		case !strings.HasPrefix(name, token):
			name = token + string([]rune(name)[prefixLen:])
		}
		items = append(items, functionItem(f, name))
	}
	return items
}

func functionItem(f *schema.Function, label string) CompletionItem {
	detail := f.Description
	if detail == "" {
		detail = "function"
	}
	return CompletionItem{
		Label:         label,
		Kind:          KindFunction,
		Detail:        detail,
		Documentation: f.Description,
	}
}

// StructuralJoinCandidates is offered while the cursor sits on a table
// reference in a FROM clause: more tables, the join keywords, and ON when
// the reference was joined without a condition yet.
func StructuralJoinCandidates(node ast.FromTableNode, tables []*schema.Table, token string) []CompletionItem {
	t, ok := node.(*ast.TableNode)
	if !ok {
		return nil
	}
	items := TableCandidates(tables, token, true)
	items = append(items, makeKeywordItem("INNER JOIN"), makeKeywordItem("LEFT JOIN"))
	if t.Join != ast.JoinNone && t.On == nil {
		items = append(items, makeKeywordItem("ON"))
	}
	return items
}

// InferredJoinCandidates synthesizes complete JOIN clauses when a join
// keyword is being typed. Every other table sharing a column name with the
// table of from is joined on that column.
func InferredJoinCandidates(literals []string, from ast.FromTableNode, tables []*schema.Table, token string) []CompletionItem {
	if from == nil || !containsString(literals, "JOIN") {
		return nil
	}

	joinType := ""
	upper := strings.ToUpper(token)
	for _, jt := range joinTypes {
		if strings.HasPrefix(jt, upper) {
			joinType = jt
			break
		}
	}
	if joinType == "" {
		return nil
	}

	var fromTable *schema.Table
	for _, t := range tables {
		if IsTableMatch(from, t) {
			fromTable = t
			break
		}
	}
	if fromTable == nil {
		return nil
	}
	fromAlias := AliasFromFromTableNode(from)

	var items []CompletionItem
	for _, other := range tables {
		if other == fromTable || IsTableMatch(from, other) {
			continue
		}
		alias := MakeTableAlias(other.TableName)
		for _, col := range other.Columns {
			if !fromTable.HasColumn(col.ColumnName) {
				continue
			}
			clause := joinType + " JOIN " + MakeTableName(other) + " AS " + alias +
				" ON " + MakeColumnName(alias, col.ColumnName) + " = " + MakeColumnName(fromAlias, col.ColumnName)
			items = append(items, CompletionItem{
				Label:  clause,
				Kind:   KindKeyword,
				Detail: "join on shared column " + col.ColumnName,
			})
		}
	}
	return items
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
