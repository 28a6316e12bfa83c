package tokenize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

func TestLexPositions(t *testing.T) {
	tokens, err := Lex("SELECT a,\n  b FROM t")
	if err != nil {
		t.Fatalf("Lex() error: %v", err)
	}

	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	if diff := cmp.Diff([]string{"SELECT", "a", ",", "b", "FROM", "t"}, texts); diff != "" {
		t.Fatalf("token texts mismatch (-want +got):\n%s", diff)
	}

	b := tokens[3]
	want := types.Point{Line: 2, Column: 3, Offset: 12}
	if b.Pos != want {
		t.Errorf("b.Pos = %+v, want %+v", b.Pos, want)
	}
	if b.EndPos.Column != 4 || b.EndPos.Offset != 13 {
		t.Errorf("b.EndPos = %+v", b.EndPos)
	}
	if tokens[0].Type != TokenKeyword || tokens[1].Type != TokenIdentifier {
		t.Errorf("types = %s, %s", tokens[0].Type, tokens[1].Type)
	}
}

func TestLexNeverFails(t *testing.T) {
	inputs := []string{
		"SELECT 'unterminated",
		"SELECT \"broken",
		"/* open comment",
		"SELECT a FROM t WHERE x = #",
		"abc[0].def",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens, err := Lex(input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", input, err)
			}
			if len(tokens) == 0 {
				t.Fatalf("Lex(%q) returned no tokens", input)
			}
			last := tokens[len(tokens)-1]
			if last.End != len(input) {
				t.Errorf("last token ends at %d, want %d", last.End, len(input))
			}
		})
	}
}

func TestLexClassification(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"'text'", TokenString},
		{`"Quoted"`, TokenQuotedIdentifier},
		{"`quoted`", TokenQuotedIdentifier},
		{"42", TokenNumber},
		{"3.14", TokenNumber},
		{"$1", TokenPlaceholder},
		{"?", TokenPlaceholder},
		{":name", TokenPlaceholder},
		{"<>", TokenOperator},
		{"||", TokenOperator},
		{";", TokenPunctuation},
		{"-- note", TokenComment},
		{"/* note */", TokenComment},
		{"select", TokenKeyword},
		{"employees", TokenIdentifier},
		{"#", TokenUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex() error: %v", err)
			}
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Type != tt.want {
				t.Errorf("Type = %s, want %s", tokens[0].Type, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	ctx := &Context{Tables: []string{"users"}, Columns: []string{"name"}}
	tokens := Tokenize("SELECT count(name), id FROM users WHERE x::text", ctx)

	got := map[string]TokenType{}
	for _, tok := range tokens {
		got[tok.Text] = tok.Type
	}

	want := map[string]TokenType{
		"SELECT": TokenKeyword,
		"count":  TokenFunction,
		"name":   TokenColumn,
		"id":     TokenIdentifier,
		"users":  TokenTable,
		"text":   TokenDataType,
		"::":     TokenOperator,
	}
	for text, wantType := range want {
		if got[text] != wantType {
			t.Errorf("%q: type = %s, want %s", text, got[text], wantType)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if tokens := Tokenize("", nil); tokens != nil {
		t.Errorf("Tokenize(\"\") = %v, want nil", tokens)
	}
}

func TestSplitStatements(t *testing.T) {
	input := "SELECT 1;\n-- only a comment;\nINSERT INTO t VALUES ('a;b'); SELECT (1;2)"
	segments := SplitStatements(input)

	var texts []string
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	want := []string{
		"SELECT 1",
		"INSERT INTO t VALUES ('a;b')",
		"SELECT (1;2)",
	}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if segments[1].Start.Line != 3 {
		t.Errorf("second segment line = %d, want 3", segments[1].Start.Line)
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`"a""b"`: `a"b`,
		"'it''s'": "it's",
		"`x`":     "x",
		"plain":   "plain",
		`"`:       `"`,
	}
	for in, want := range tests {
		if got := Unquote(in); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", in, got, want)
		}
	}
}
