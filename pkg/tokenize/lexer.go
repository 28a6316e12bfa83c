package tokenize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Definition is the participle lexer for SQL. It is shared by the completion
// parser and the DDL schema loader. The final catch-all rule means lexing
// never fails on partial input: an unterminated string or comment degrades
// to single-character tokens.
var Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n\f]+`},
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "QuotedIdent", Pattern: "\"(?:[^\"]|\"\")*\"|`[^`]*`"},
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_$]*`},
	{Name: "Placeholder", Pattern: `\$[0-9]+|\?|:[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Operator", Pattern: `<>|!=|<=|>=|\|\||::|[-+*/%=<>]`},
	{Name: "Punct", Pattern: `[(),.;\[\]{}:]`},
	{Name: "Unknown", Pattern: `.`},
})

var symbolNames = func() map[lexer.TokenType]string {
	names := make(map[lexer.TokenType]string)
	for name, tt := range Definition.Symbols() {
		names[tt] = name
	}
	return names
}()

// Lex splits input into positioned tokens. Whitespace is dropped; comments
// are kept. Identifier tokens that spell a keyword get TokenKeyword.
func Lex(input string) ([]Token, error) {
	lex, err := Definition.LexString("", input)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	var tokens []Token
	pos := types.Point{Line: 1, Column: 1}
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("lex: %w", err)
		}
		if tok.EOF() {
			break
		}

		end := advance(pos, tok.Value)
		kind := lexicalType(symbolNames[tok.Type], tok.Value)
		if kind != "" {
			tokens = append(tokens, Token{
				Start:  pos.Offset,
				End:    end.Offset,
				Text:   tok.Value,
				Type:   kind,
				Pos:    pos,
				EndPos: end,
			})
		}
		pos = end
	}
	return tokens, nil
}

// EndPoint returns the point just past the last character of input.
func EndPoint(input string) types.Point {
	return advance(types.Point{Line: 1, Column: 1}, input)
}

func lexicalType(symbol, value string) TokenType {
	switch symbol {
	case "Whitespace":
		return ""
	case "Comment", "BlockComment":
		return TokenComment
	case "String":
		return TokenString
	case "QuotedIdent":
		return TokenQuotedIdentifier
	case "Number":
		return TokenNumber
	case "Ident":
		if IsKeyword(value) {
			return TokenKeyword
		}
		return TokenIdentifier
	case "Placeholder":
		return TokenPlaceholder
	case "Operator":
		return TokenOperator
	case "Punct":
		return TokenPunctuation
	default:
		return TokenUnknown
	}
}

// advance moves p past text. Columns count runes.
func advance(p types.Point, text string) types.Point {
	p.Offset += len(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		p.Line += strings.Count(text, "\n")
		p.Column = utf8.RuneCountInString(text[i+1:]) + 1
	} else {
		p.Column += utf8.RuneCountInString(text)
	}
	return p
}

// Unquote strips the delimiters of a quoted identifier or string literal
// and collapses doubled quote characters.
func Unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	q := text[0]
	if (q != '"' && q != '\'' && q != '`') || text[len(text)-1] != q {
		return text
	}
	inner := text[1 : len(text)-1]
	return strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
}
