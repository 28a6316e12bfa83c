// Package format pretty-prints and compacts SQL.
package format

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Style defines the formatting style for SQL output
type Style int

const (
	// Compact produces single-line, minimal whitespace output
	Compact Style = iota

	// Pretty produces multi-line, indented output
	Pretty
)

// Options configures the formatter behavior
type Options struct {
	Style             Style
	IndentString      string // Default: "    " (4 spaces)
	UppercaseKeywords bool   // Also uppercases column types in DDL
}

// DefaultOptions returns the options used for pretty formatting
func DefaultOptions() Options {
	return Options{
		Style:             Pretty,
		IndentString:      "    ",
		UppercaseKeywords: true,
	}
}

// CompactOptions returns options for compact formatting
func CompactOptions() Options {
	return Options{
		Style:             Compact,
		IndentString:      "",
		UppercaseKeywords: true,
	}
}

// Format formats a token stream. Statements are separated at top-level
// semicolons and each one is terminated with a semicolon. Comments are kept;
// in Compact style line comments become block comments.
func Format(tokens []tokenize.Token, opts Options) string {
	f := &formatter{opts: opts, tokens: tokens}
	return f.format()
}

// String validates and formats SQL input
func String(input string, opts Options) (string, error) {
	var errs types.Errors
	for _, result := range parse.Multiple(input) {
		errs = append(errs, result.Errors...)
	}
	if errs.HasErrors() {
		return "", errs
	}

	tokens, err := tokenize.Lex(input)
	if err != nil {
		return "", err
	}
	return Format(tokens, opts), nil
}

// PrettyString is a convenience function for pretty formatting
func PrettyString(input string) (string, error) {
	return String(input, DefaultOptions())
}

// CompactString is a convenience function for compact formatting
func CompactString(input string) (string, error) {
	return String(input, CompactOptions())
}

type parenKind int

const (
	parenInline parenKind = iota
	parenSubquery
	parenBlock // column definitions of CREATE TABLE
)

// formatter handles the formatting logic
type formatter struct {
	opts   Options
	tokens []tokenize.Token
	output strings.Builder

	// per statement
	emitted     []tokenize.Token
	parens      []parenKind
	opened      int
	unary       bool
	needNewline bool

	fresh          bool // output is at the start of an indented line
	afterStatement bool
	lastRaw        *tokenize.Token
}

func (f *formatter) format() string {
	for i := range f.tokens {
		tok := f.tokens[i]
		switch {
		case tok.Type == tokenize.TokenComment:
			f.comment(tok)
		case isPunct(tok, ";") && len(f.parens) == 0:
			f.terminate()
		default:
			f.token(i)
		}
		f.lastRaw = &f.tokens[i]
	}
	f.terminate()
	return strings.TrimSpace(f.output.String())
}

func (f *formatter) pretty() bool {
	return f.opts.Style == Pretty
}

func (f *formatter) token(i int) {
	tok := f.tokens[i]
	f.startItem()

	if isPunct(tok, ")") {
		kind := parenInline
		if n := len(f.parens); n > 0 {
			kind = f.parens[n-1]
			f.parens = f.parens[:n-1]
		}
		if (f.pretty() && kind != parenInline) || f.needNewline {
			f.newline()
		}
		f.output.WriteString(")")
		f.emit(tok)
		return
	}

	open := isPunct(tok, "(")
	kind := parenInline
	if open {
		kind = f.parenKind(i)
	}

	switch {
	case f.needNewline:
		f.newline()
	case f.pretty() && f.breaksBefore(tok):
		f.newline()
	case f.needsSpace(tok):
		f.output.WriteString(" ")
	}

	f.output.WriteString(f.text(tok))
	f.unary = isUnarySign(tok, f.prev(0))
	f.emit(tok)

	switch {
	case open:
		f.parens = append(f.parens, kind)
		f.opened++
		if f.pretty() && kind != parenInline {
			f.newline()
		}
	case isPunct(tok, ",") && f.pretty() && f.top() == parenBlock:
		f.newline()
	}
}

func (f *formatter) emit(tok tokenize.Token) {
	f.emitted = append(f.emitted, tok)
	f.fresh = false
	f.needNewline = false
}

// startItem separates a new statement from the previous one.
func (f *formatter) startItem() {
	if !f.afterStatement {
		return
	}
	f.afterStatement = false
	f.needNewline = false
	if f.pretty() {
		f.output.WriteString("\n\n")
		f.fresh = true
		return
	}
	f.output.WriteString(" ")
	f.fresh = true
}

func (f *formatter) comment(tok tokenize.Token) {
	trailing := f.lastRaw != nil && f.lastRaw.EndPos.Line == tok.Pos.Line
	if trailing && f.output.Len() > 0 {
		f.output.WriteString(" ")
	} else {
		f.startItem()
		switch {
		case f.output.Len() == 0 || f.fresh:
		case f.pretty():
			f.newline()
		default:
			f.output.WriteString(" ")
		}
	}

	if f.pretty() {
		f.output.WriteString(strings.TrimRight(tok.Text, " \t"))
		f.needNewline = strings.HasPrefix(tok.Text, "--")
		f.fresh = false
		return
	}
	f.output.WriteString(compactComment(tok.Text))
	f.fresh = false
}

// terminate ends the current statement. Empty statements are dropped.
func (f *formatter) terminate() {
	if len(f.emitted) == 0 {
		return
	}
	if f.needNewline {
		f.newline()
	}
	f.output.WriteString(";")
	f.emitted = nil
	f.parens = nil
	f.opened = 0
	f.unary = false
	f.needNewline = false
	f.afterStatement = true
}

func (f *formatter) newline() {
	f.output.WriteString("\n")
	f.output.WriteString(strings.Repeat(f.opts.IndentString, f.level()))
	f.fresh = true
	f.needNewline = false
}

// level is the indentation depth: one per open subquery or column block.
func (f *formatter) level() int {
	n := 0
	for _, kind := range f.parens {
		if kind != parenInline {
			n++
		}
	}
	return n
}

func (f *formatter) top() parenKind {
	if len(f.parens) == 0 {
		return parenInline
	}
	return f.parens[len(f.parens)-1]
}

// prev returns the n-th previously emitted token of the statement, counting
// back from the most recent.
func (f *formatter) prev(n int) *tokenize.Token {
	i := len(f.emitted) - 1 - n
	if i < 0 {
		return nil
	}
	return &f.emitted[i]
}

func (f *formatter) firstWord() string {
	if len(f.emitted) == 0 || !f.emitted[0].IsWord() {
		return ""
	}
	return strings.ToUpper(f.emitted[0].Text)
}

// Keywords that start a clause on a new line in pretty mode
var clauseKeywords = map[string]bool{
	"FROM":   true,
	"WHERE":  true,
	"GROUP":  true,
	"HAVING": true,
	"ORDER":  true,
	"LIMIT":  true,
	"VALUES": true,
	"JOIN":   true,
	"INNER":  true,
	"LEFT":   true,
	"RIGHT":  true,
	"FULL":   true,
	"CROSS":  true,
}

var joinWords = map[string]bool{
	"INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"OUTER": true, "CROSS": true, "NATURAL": true,
}

func (f *formatter) breaksBefore(tok tokenize.Token) bool {
	prev := f.prev(0)
	if prev == nil || f.fresh || tok.Type != tokenize.TokenKeyword {
		return false
	}
	if f.top() == parenInline && len(f.parens) > 0 {
		return false
	}

	word := strings.ToUpper(tok.Text)
	switch {
	case word == "SELECT":
		return !isPunct(*prev, "(")
	case word == "SET":
		return f.firstWord() == "UPDATE"
	case joinWords[word] || word == "JOIN":
		return !(prev.Type == tokenize.TokenKeyword && joinWords[strings.ToUpper(prev.Text)])
	}
	return clauseKeywords[word]
}

func (f *formatter) needsSpace(tok tokenize.Token) bool {
	if f.fresh || f.unary {
		return false
	}
	if f.lastRaw != nil && f.lastRaw.Type == tokenize.TokenComment {
		return f.output.Len() > 0
	}
	prev := f.prev(0)
	if prev == nil {
		return false
	}

	switch {
	case isPunct(*prev, "("), isPunct(*prev, "."), isPunct(*prev, "["), prev.Text == "::":
		return false
	case isPunct(tok, ","), isPunct(tok, "."), isPunct(tok, "]"), isPunct(tok, "["), tok.Text == "::":
		return false
	}

	if isPunct(tok, "(") {
		switch prev.Type {
		case tokenize.TokenIdentifier, tokenize.TokenQuotedIdentifier:
			// "users (id, name)" after INTO or TABLE, "count(*)" otherwise
			intro := f.nameIntroducer()
			return intro != nil && (intro.Is("INTO") || intro.Is("TABLE") || intro.Is("EXISTS"))
		case tokenize.TokenPunctuation:
			return isPunct(*prev, ",")
		}
	}
	return true
}

// nameIntroducer returns the token before the trailing dotted name of the
// statement, or nil.
func (f *formatter) nameIntroducer() *tokenize.Token {
	n := 0
	for {
		dot, part := f.prev(n+1), f.prev(n+2)
		if dot == nil || part == nil || !isPunct(*dot, ".") || !isName(*part) {
			break
		}
		n += 2
	}
	return f.prev(n + 1)
}

func (f *formatter) parenKind(i int) parenKind {
	for _, next := range f.tokens[i+1:] {
		if next.Type == tokenize.TokenComment {
			continue
		}
		if next.Is("SELECT") {
			return parenSubquery
		}
		break
	}
	if f.firstWord() == "CREATE" && len(f.parens) == 0 && f.opened == 0 {
		if intro := f.nameIntroducer(); intro != nil && (intro.Is("TABLE") || intro.Is("EXISTS")) {
			return parenBlock
		}
	}
	return parenInline
}

func (f *formatter) text(tok tokenize.Token) string {
	if !f.opts.UppercaseKeywords {
		return tok.Text
	}
	if tok.Type == tokenize.TokenKeyword {
		return strings.ToUpper(tok.Text)
	}
	if tok.Type == tokenize.TokenIdentifier && tokenize.IsDataType(tok.Text) && f.typePosition() {
		return strings.ToUpper(tok.Text)
	}
	return tok.Text
}

// typePosition reports whether the next token sits where a column type is
// expected: after "::", after TYPE, or after a column name in DDL.
func (f *formatter) typePosition() bool {
	prev := f.prev(0)
	if prev == nil {
		return false
	}
	if prev.Text == "::" || prev.Is("TYPE") {
		return true
	}
	switch f.firstWord() {
	case "CREATE", "ALTER":
		return isName(*prev) && f.prev(1) != nil && !isPunct(*f.prev(1), ".")
	}
	return false
}

func isPunct(tok tokenize.Token, text string) bool {
	return tok.Type == tokenize.TokenPunctuation && tok.Text == text
}

func isName(tok tokenize.Token) bool {
	return tok.Type == tokenize.TokenIdentifier || tok.Type == tokenize.TokenQuotedIdentifier
}

// isUnarySign reports whether tok is a sign applied to what follows.
func isUnarySign(tok tokenize.Token, prev *tokenize.Token) bool {
	if tok.Type != tokenize.TokenOperator || (tok.Text != "-" && tok.Text != "+") {
		return false
	}
	if prev == nil {
		return true
	}
	switch prev.Type {
	case tokenize.TokenOperator, tokenize.TokenKeyword:
		return true
	case tokenize.TokenPunctuation:
		return prev.Text == "(" || prev.Text == ","
	}
	return false
}

func compactComment(text string) string {
	body := text
	if strings.HasPrefix(body, "--") {
		body = body[2:]
	} else {
		body = strings.TrimSuffix(strings.TrimPrefix(body, "/*"), "*/")
	}
	body = strings.Join(strings.Fields(body), " ")
	body = strings.ReplaceAll(body, "*/", "* /")
	if body == "" {
		return "/* */"
	}
	return "/* " + body + " */"
}
