package schema

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
)

//nolint:govet // Participle struct tags are DSL, not reflect tags
type createTable struct {
	Temporary   bool            `"CREATE" @("TEMP" | "TEMPORARY")? "TABLE"`
	IfNotExists bool            `@("IF" "NOT" "EXISTS")?`
	Name        *qualifiedName  `@@`
	Elements    []*tableElement `"(" @@ ("," @@)* ")"`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type qualifiedName struct {
	Parts []string `@(Ident | QuotedIdent) ("." @(Ident | QuotedIdent))*`
}

// tableElement is a column definition or a table constraint. Both start
// with a word, so the distinction is made after parsing.
//
//nolint:govet // Participle struct tags are DSL, not reflect tags
type tableElement struct {
	Name  string        `@(Ident | QuotedIdent)`
	Items []*clauseItem `@@*`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type clauseItem struct {
	Group *parenGroup `  @@`
	Token string      `| @(Ident | QuotedIdent | String | Number | Operator | Placeholder | Unknown | "." | ";" | "[" | "]" | "{" | "}" | ":")`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type parenGroup struct {
	Items []*groupItem `"(" @@* ")"`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type groupItem struct {
	Group *parenGroup `  @@`
	Token string      `| @(Ident | QuotedIdent | String | Number | Operator | Placeholder | Unknown | "," | "." | ";" | "[" | "]" | "{" | "}" | ":")`
}

var ddlParser = participle.MustBuild[createTable](
	participle.Lexer(tokenize.Definition),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.CaseInsensitive("Ident"),
)

// Words that end the data type of a column definition.
var constraintWords = map[string]bool{
	"CONSTRAINT": true, "PRIMARY": true, "NOT": true, "NULL": true,
	"UNIQUE": true, "CHECK": true, "DEFAULT": true, "REFERENCES": true,
	"COLLATE": true, "GENERATED": true, "AS": true, "COMMENT": true,
	"AUTO_INCREMENT": true, "AUTOINCREMENT": true, "IDENTITY": true,
	"ON": true,
}

// Leading words of table-level constraints.
var tableConstraintWords = map[string]bool{
	"CONSTRAINT": true, "PRIMARY": true, "UNIQUE": true, "CHECK": true,
	"FOREIGN": true, "KEY": true, "INDEX": true, "FULLTEXT": true,
	"EXCLUDE": true, "PERIOD": true,
}

// ParseDDL builds a schema from CREATE TABLE statements. Other statements
// are skipped. Each column's description is its declared type, followed by
// its COMMENT text when one is given.
func ParseDDL(input string) (*Schema, error) {
	s := NewSchema()
	for _, seg := range tokenize.SplitStatements(input) {
		if !isCreateTable(seg.Text) {
			continue
		}
		stmt, err := ddlParser.ParseString("", seg.Text, participle.AllowTrailing(true))
		if err != nil {
			return nil, fmt.Errorf("parse ddl at line %d: %w", seg.Start.Line, err)
		}
		s.Tables = append(s.Tables, stmt.table())
	}
	return s, nil
}

func isCreateTable(text string) bool {
	tokens, err := tokenize.Lex(text)
	if err != nil {
		return false
	}
	var words []string
	for _, tok := range tokens {
		if tok.Type == tokenize.TokenComment {
			continue
		}
		words = append(words, strings.ToUpper(tok.Text))
		if len(words) == 3 {
			break
		}
	}
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	if words[1] == "TEMP" || words[1] == "TEMPORARY" {
		return len(words) == 3 && words[2] == "TABLE"
	}
	return words[1] == "TABLE"
}

func (c *createTable) table() *Table {
	t := &Table{}
	parts := make([]string, len(c.Name.Parts))
	for i, p := range c.Name.Parts {
		parts[i] = tokenize.Unquote(p)
	}
	switch len(parts) {
	case 1:
		t.TableName = parts[0]
	case 2:
		t.Database, t.TableName = parts[0], parts[1]
	default:
		n := len(parts)
		t.Catalog, t.Database, t.TableName = parts[n-3], parts[n-2], parts[n-1]
	}

	for _, el := range c.Elements {
		if tableConstraintWords[strings.ToUpper(el.Name)] {
			continue
		}
		t.AddColumn(tokenize.Unquote(el.Name), el.description())
	}
	return t
}

func (e *tableElement) description() string {
	typ := e.dataType()
	comment := e.comment()
	switch {
	case comment == "":
		return typ
	case typ == "":
		return comment
	default:
		return typ + " - " + comment
	}
}

// dataType renders the leading words of the definition that are not
// constraint keywords, with an optional parameter list.
func (e *tableElement) dataType() string {
	var b strings.Builder
	for _, item := range e.Items {
		if item.Group != nil {
			if b.Len() == 0 {
				break
			}
			b.WriteString(item.Group.String())
			continue
		}
		if constraintWords[strings.ToUpper(item.Token)] || !isWord(item.Token) {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToUpper(item.Token))
	}
	return b.String()
}

func (e *tableElement) comment() string {
	for i, item := range e.Items {
		if !strings.EqualFold(item.Token, "COMMENT") || i+1 >= len(e.Items) {
			continue
		}
		if next := e.Items[i+1].Token; strings.HasPrefix(next, "'") {
			return tokenize.Unquote(next)
		}
	}
	return ""
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c >= 0x80
}

// String renders the group as it would be written in DDL, e.g. "(10, 2)".
func (g *parenGroup) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range g.Items {
		text := item.Token
		if item.Group != nil {
			text = item.Group.String()
		}
		if i > 0 && text != "," {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	b.WriteByte(')')
	return b.String()
}
