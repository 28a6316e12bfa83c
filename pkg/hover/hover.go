package hover

import (
	"fmt"
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/complete"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
)

// GetHoverInfo returns hover information for the token at the given position.
func GetHoverInfo(ctx *HoverContext) *HoverInfo {
	if ctx == nil || ctx.Query == "" {
		return nil
	}

	tokens, err := tokenize.Lex(ctx.Query)
	if err != nil {
		return nil
	}
	i := tokenIndexAt(tokens, ctx.Position)
	if i < 0 {
		return nil
	}
	return resolveHoverInfo(tokens, i, ctx)
}

// FindTokenAtPosition finds the token at the given byte offset. A cursor
// just past a word still designates that word.
func FindTokenAtPosition(query string, position int) *tokenize.Token {
	tokens, err := tokenize.Lex(query)
	if err != nil {
		return nil
	}
	i := tokenIndexAt(tokens, position)
	if i < 0 {
		return nil
	}
	return &tokens[i]
}

func tokenIndexAt(tokens []tokenize.Token, position int) int {
	for i, tok := range tokens {
		if tok.Start <= position && position < tok.End {
			return i
		}
	}
	for i, tok := range tokens {
		if tok.End == position && (tok.IsWord() || tok.Type == tokenize.TokenQuotedIdentifier) {
			return i
		}
	}
	return -1
}

func resolveHoverInfo(tokens []tokenize.Token, i int, ctx *HoverContext) *HoverInfo {
	tok := tokens[i]
	rng := &Range{Start: tok.Start, End: tok.End}

	switch tok.Type {
	case tokenize.TokenOperator, tokenize.TokenPunctuation:
		if tok.Text == "*" {
			return &HoverInfo{
				Content: "**\\***\n\nAll columns of the tables in FROM",
				Range:   rng,
				Kind:    HoverOperator,
				Name:    "*",
			}
		}
		return nil
	case tokenize.TokenKeyword, tokenize.TokenIdentifier, tokenize.TokenQuotedIdentifier:
	default:
		return nil
	}

	if isCall(tokens, i) {
		if info := resolveFunctionHover(tok.Text, ctx.Schema); info != nil {
			info.Range = rng
			return info
		}
	}

	if tok.Type == tokenize.TokenKeyword {
		info := GetKeywordInfo(tok.Text)
		if info == nil {
			return nil
		}
		return &HoverInfo{
			Content: formatKeywordHover(info),
			Range:   rng,
			Kind:    HoverKeyword,
			Name:    info.Name,
		}
	}

	info := resolveIdentifierHover(tokens, i, ctx)
	if info != nil {
		info.Range = rng
	}
	return info
}

// isCall reports whether tokens[i] is a function name: an identifier
// followed by "(" that does not name the table of INSERT INTO or CREATE
// TABLE.
func isCall(tokens []tokenize.Token, i int) bool {
	if tokens[i].Type != tokenize.TokenIdentifier || i+1 >= len(tokens) || tokens[i+1].Text != "(" {
		return false
	}
	if i > 0 {
		prev := tokens[i-1]
		if prev.Is("INTO") || prev.Is("TABLE") || prev.Is("EXISTS") {
			return false
		}
	}
	return true
}

// resolveFunctionHover prefers the schema's description of a function over
// the built-in documentation.
func resolveFunctionHover(name string, s *schema.Schema) *HoverInfo {
	if s != nil {
		for _, f := range s.Functions {
			if strings.EqualFold(f.Name, name) && f.Description != "" {
				return &HoverInfo{
					Content: fmt.Sprintf("**%s**\n\n%s", f.Name, f.Description),
					Kind:    HoverFunction,
					Name:    f.Name,
				}
			}
		}
	}

	if info := GetFunctionInfo(name); info != nil {
		return &HoverInfo{
			Content: formatFunctionHover(info),
			Kind:    HoverFunction,
			Name:    info.Name,
		}
	}
	return &HoverInfo{
		Content: fmt.Sprintf("**%s**\n\nFunction", name),
		Kind:    HoverFunction,
		Name:    name,
	}
}

// resolveIdentifierHover resolves an identifier against the FROM clause
// and the schema: qualified column, alias, table, column of a FROM table,
// then column type.
func resolveIdentifierHover(tokens []tokenize.Token, i int, ctx *HoverContext) *HoverInfo {
	name := tokenize.Unquote(tokens[i].Text)
	nodes := fromNodes(ctx.Query)

	if qualifier := qualifierOf(tokens, i); qualifier != "" {
		if tbl := tableForQualifier(ctx.Schema, nodes, qualifier); tbl != nil {
			if col := tbl.Column(name); col != nil {
				return columnHover(col, tbl)
			}
		}
		for _, tbl := range tablesOf(ctx.Schema) {
			if strings.EqualFold(tbl.Database, qualifier) && strings.EqualFold(tbl.TableName, name) {
				return tableHover(tbl)
			}
		}
		return nil
	}

	for _, node := range nodes {
		if node.Alias() != "" && strings.EqualFold(node.Alias(), name) {
			return aliasHover(node, name)
		}
	}

	if tbl := ctx.Schema.LookupTable(name); tbl != nil {
		return tableHover(tbl)
	}

	for _, tbl := range tablesOf(ctx.Schema) {
		for _, node := range nodes {
			if !complete.IsTableMatch(node, tbl) {
				continue
			}
			if col := tbl.Column(name); col != nil {
				return columnHover(col, tbl)
			}
		}
	}

	if info := GetTypeInfo(name); info != nil {
		return &HoverInfo{
			Content: formatTypeHover(info),
			Kind:    HoverType,
			Name:    info.Name,
		}
	}
	return nil
}

// qualifierOf returns the identifier before "name." when tokens[i] is the
// part after a dot.
func qualifierOf(tokens []tokenize.Token, i int) string {
	if i < 2 || tokens[i-1].Text != "." {
		return ""
	}
	prev := tokens[i-2]
	if !prev.IsWord() && prev.Type != tokenize.TokenQuotedIdentifier {
		return ""
	}
	return tokenize.Unquote(prev.Text)
}

func fromNodes(query string) []ast.FromTableNode {
	from, err := parse.ParseFromClause(query)
	if err != nil || from == nil {
		return nil
	}
	return complete.AllNestedFromNodes(from.Tables)
}

func tableForQualifier(s *schema.Schema, nodes []ast.FromTableNode, qualifier string) *schema.Table {
	for _, node := range nodes {
		if !strings.EqualFold(complete.AliasFromFromTableNode(node), qualifier) {
			continue
		}
		for _, tbl := range tablesOf(s) {
			if complete.IsTableMatch(node, tbl) {
				return tbl
			}
		}
	}
	return s.LookupTable(qualifier)
}

func tablesOf(s *schema.Schema) []*schema.Table {
	if s == nil {
		return nil
	}
	return s.Tables
}

func aliasHover(node ast.FromTableNode, alias string) *HoverInfo {
	target := "subquery"
	if t, ok := node.(*ast.TableNode); ok {
		parts := []string{t.Table}
		if t.DB != "" {
			parts = append([]string{t.DB}, parts...)
		}
		if t.Catalog != "" {
			parts = append([]string{t.Catalog}, parts...)
		}
		target = strings.Join(parts, ".")
	}
	return &HoverInfo{
		Content: fmt.Sprintf("**%s** (alias)\n\n%s", alias, target),
		Kind:    HoverAlias,
		Name:    alias,
	}
}

func tableHover(tbl *schema.Table) *HoverInfo {
	return &HoverInfo{
		Content: formatTableHover(tbl),
		Kind:    HoverTable,
		Name:    tbl.TableName,
	}
}

func columnHover(col *schema.Column, tbl *schema.Table) *HoverInfo {
	return &HoverInfo{
		Content: formatColumnHover(col, tbl),
		Kind:    HoverColumn,
		Name:    col.ColumnName,
	}
}

// formatKeywordHover formats hover content for a keyword.
func formatKeywordHover(info *KeywordInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n\n", info.Name))
	sb.WriteString(info.Description)
	if info.Syntax != "" {
		sb.WriteString("\n\n```sql\n")
		sb.WriteString(info.Syntax)
		sb.WriteString("\n```")
	}
	return sb.String()
}

// formatFunctionHover formats hover content for a function.
func formatFunctionHover(info *FunctionInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s** → `%s`\n\n", info.Signature, info.ReturnType))
	sb.WriteString(info.Description)
	return sb.String()
}

// formatTypeHover formats hover content for a type.
func formatTypeHover(info *TypeInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n\n", info.Name))
	sb.WriteString(info.Description)
	if info.Size != "" {
		sb.WriteString(fmt.Sprintf("\n\nSize: %s", info.Size))
	}
	return sb.String()
}

// formatColumnHover formats hover content for a column.
func formatColumnHover(col *schema.Column, tbl *schema.Table) string {
	var sb strings.Builder
	if col.Description != "" {
		sb.WriteString(fmt.Sprintf("**%s**: `%s`\n\n", col.ColumnName, col.Description))
	} else {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", col.ColumnName))
	}
	sb.WriteString(fmt.Sprintf("Table: %s", tbl.QualifiedName()))
	return sb.String()
}

// formatTableHover formats hover content for a table.
func formatTableHover(tbl *schema.Table) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n\n", tbl.QualifiedName()))
	sb.WriteString(fmt.Sprintf("%d column(s)", len(tbl.Columns)))
	if names := tbl.ColumnNames(); len(names) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(names, ", "))
	}
	return sb.String()
}
