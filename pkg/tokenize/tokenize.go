// Package tokenize provides SQL lexing and tokenization for syntax highlighting.
package tokenize

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// TokenType identifies the semantic type of a token.
type TokenType string

const (
	TokenKeyword          TokenType = "keyword"
	TokenFunction         TokenType = "function"
	TokenDataType         TokenType = "type"
	TokenString           TokenType = "string"
	TokenNumber           TokenType = "number"
	TokenComment          TokenType = "comment"
	TokenIdentifier       TokenType = "identifier"
	TokenQuotedIdentifier TokenType = "quoted_identifier"
	TokenOperator         TokenType = "operator"
	TokenPunctuation      TokenType = "punctuation"
	TokenPlaceholder      TokenType = "placeholder"
	TokenTable            TokenType = "table"
	TokenColumn           TokenType = "column"
	TokenUnknown          TokenType = "unknown"
)

// Token is a single lexed token. Start and End are byte offsets (End
// exclusive); Pos and EndPos carry 1-based line/column positions.
type Token struct {
	Start  int         `json:"start"`
	End    int         `json:"end"`
	Text   string      `json:"text"`
	Type   TokenType   `json:"type"`
	Pos    types.Point `json:"-"`
	EndPos types.Point `json:"-"`
}

// IsWord reports whether the token is a bare word (keyword or identifier).
func (t Token) IsWord() bool {
	return t.Type == TokenKeyword || t.Type == TokenIdentifier
}

// Is reports whether the token is the bare word kw, ignoring case.
func (t Token) Is(kw string) bool {
	return t.IsWord() && strings.EqualFold(t.Text, kw)
}

// Location returns the token's span.
func (t Token) Location() types.Location {
	return types.Location{Start: t.Pos, End: t.EndPos}
}

// Context provides semantic information for enhanced tokenization.
type Context struct {
	Tables    []string
	Columns   []string
	Functions []string
}

// Tokenize returns all tokens from a SQL string with semantic classification.
func Tokenize(input string, ctx *Context) []Token {
	if input == "" {
		return nil
	}

	tokens, err := Lex(input)
	if err != nil {
		return nil
	}

	var tableMap, columnMap, functionMap map[string]bool
	if ctx != nil {
		tableMap = makeSet(ctx.Tables)
		columnMap = makeSet(ctx.Columns)
		functionMap = makeSet(ctx.Functions)
	}

	for i := range tokens {
		tokens[i].Type = classify(tokens, i, tableMap, columnMap, functionMap)
	}
	return tokens
}

// classify refines the lexical type of tokens[i] using its neighbours and
// the optional schema context.
func classify(tokens []Token, i int, tables, columns, functions map[string]bool) TokenType {
	tok := tokens[i]
	if !tok.IsWord() && tok.Type != TokenQuotedIdentifier {
		return tok.Type
	}

	lowerText := strings.ToLower(Unquote(tok.Text))
	if i+1 < len(tokens) && tokens[i+1].Text == "(" && tok.Type != TokenQuotedIdentifier {
		if functions[lowerText] || !IsReserved(lowerText) {
			return TokenFunction
		}
	}

	if tok.Type == TokenKeyword && IsReserved(lowerText) {
		return TokenKeyword
	}

	if tables[lowerText] {
		return TokenTable
	}
	if columns[lowerText] {
		return TokenColumn
	}
	if tok.Type == TokenKeyword {
		return TokenKeyword
	}
	if tok.Type == TokenIdentifier && IsDataType(lowerText) {
		return TokenDataType
	}
	return tok.Type
}
