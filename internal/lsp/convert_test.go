package lsp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/tentacle-scylla/sqlcomplete/pkg/complete"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

func TestToProtocolKind(t *testing.T) {
	tests := []struct {
		kind complete.CompletionKind
		want protocol.CompletionItemKind
	}{
		{complete.KindKeyword, protocol.CompletionItemKindText},
		{complete.KindColumn, protocol.CompletionItemKindInterface},
		{complete.KindTable, protocol.CompletionItemKindField},
		{complete.KindFunction, protocol.CompletionItemKindProperty},
		{complete.KindAlias, protocol.CompletionItemKindVariable},
		{complete.KindUtility, protocol.CompletionItemKindEvent},
	}
	for _, tt := range tests {
		if got := toProtocolKind(tt.kind); got != tt.want {
			t.Errorf("toProtocolKind(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestCompletionItems(t *testing.T) {
	items := completionItems([]complete.CompletionItem{
		{Label: "users", Kind: complete.KindTable, Detail: "table", InsertText: "users AS use"},
		{Label: "SELECT", Kind: complete.KindKeyword, Detail: "Query rows", Documentation: "Retrieves rows."},
	})

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if *items[0].InsertText != "users AS use" || *items[0].FilterText != "users" {
		t.Errorf("table item insert/filter = %q/%q", *items[0].InsertText, *items[0].FilterText)
	}
	if items[0].Documentation != nil {
		t.Errorf("Documentation = %v, want nil", items[0].Documentation)
	}
	if items[1].Documentation != "Retrieves rows." {
		t.Errorf("Documentation = %v", items[1].Documentation)
	}

	if got := completionItems(nil); got == nil || len(got) != 0 {
		t.Errorf("completionItems(nil) = %v, want empty slice", got)
	}
}

func TestDiagnosticsMultiline(t *testing.T) {
	diags := diagnostics("SELECT 1;\nSELECT * FROM users WHERE", nil)

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Range.Start.Line != 1 {
		t.Errorf("Start.Line = %d, want 1", d.Range.Start.Line)
	}
	if *d.Severity != protocol.DiagnosticSeverityError || *d.Source != "sqlcomplete" {
		t.Errorf("Severity/Source = %v/%v", *d.Severity, *d.Source)
	}
}

func TestSchemaDiagnostics(t *testing.T) {
	s := schema.NewSchema()
	s.AddTable("users").AddColumns("id", "name")

	diags := diagnostics("SELECT nmae FROM users;\nUPDATE users SET name = 'x'", s)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}

	column := diags[0]
	wantRange := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 7},
		End:   protocol.Position{Line: 0, Character: 11},
	}
	if diff := cmp.Diff(wantRange, column.Range); diff != "" {
		t.Errorf("column Range mismatch (-want +got):\n%s", diff)
	}
	if want := "Column 'nmae' not found in table 'users'. Did you mean 'name'?"; column.Message != want {
		t.Errorf("column Message = %q, want %q", column.Message, want)
	}
	if *column.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("column Severity = %v, want Error", *column.Severity)
	}

	update := diags[1]
	if update.Range.Start.Line != 1 || update.Range.Start.Character != 0 || update.Range.End.Character != 27 {
		t.Errorf("update Range = %+v, want 1:0-1:27", update.Range)
	}
	if *update.Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("update Severity = %v, want Warning", *update.Severity)
	}
}

func TestSchemaDiagnosticsNeedTables(t *testing.T) {
	if diags := diagnostics("SELECT id FROM nowhere", schema.NewSchema()); len(diags) != 0 {
		t.Errorf("empty schema produced diagnostics: %+v", diags)
	}
}

func TestWordEnd(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want int
	}{
		{"SELECT * FORM users", 9, 13},
		{"SELECT * FORM users", 7, 8},
		{"SELECT", 6, 6},
		{"", 0, 0},
	}
	for _, tt := range tests {
		if got := wordEnd(tt.line, tt.col); got != tt.want {
			t.Errorf("wordEnd(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestPositionConversions(t *testing.T) {
	// The emoji takes two UTF-16 code units but one rune.
	line := "SELECT '😀' FROM t"

	if got := runeColumn(line, 11); got != 10 {
		t.Errorf("runeColumn(11) = %d, want 10", got)
	}
	if got := utf16Column(line, 10); got != 11 {
		t.Errorf("utf16Column(10) = %d, want 11", got)
	}
	if got := runeColumn(line, 100); got != len([]rune(line)) {
		t.Errorf("runeColumn past end = %d", got)
	}
}

func TestApplyChange(t *testing.T) {
	text := "SELECT a\nFROM t"

	tests := []struct {
		name   string
		change any
		want   string
	}{
		{
			name:   "whole",
			change: protocol.TextDocumentContentChangeEventWhole{Text: "SELECT 1"},
			want:   "SELECT 1",
		},
		{
			name: "range",
			change: protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 1, Character: 5},
					End:   protocol.Position{Line: 1, Character: 6},
				},
				Text: "users u",
			},
			want: "SELECT a\nFROM users u",
		},
		{
			name: "insert",
			change: protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 8},
					End:   protocol.Position{Line: 0, Character: 8},
				},
				Text: ", b",
			},
			want: "SELECT a, b\nFROM t",
		},
		{
			name: "range without text replaces all",
			change: protocol.TextDocumentContentChangeEvent{
				Text: "DELETE FROM t",
			},
			want: "DELETE FROM t",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, applyChange(text, tt.change)); diff != "" {
				t.Errorf("applyChange() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPositionAt(t *testing.T) {
	text := "SELECT 1\nFROM '😀' t"

	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{8, protocol.Position{Line: 0, Character: 8}},
		{9, protocol.Position{Line: 1, Character: 0}},
		{len("SELECT 1\nFROM '😀'"), protocol.Position{Line: 1, Character: 9}},
		{1000, protocol.Position{Line: 1, Character: 11}},
	}
	for _, tt := range tests {
		if got := positionAt(text, tt.offset); got != tt.want {
			t.Errorf("positionAt(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
		if tt.offset <= len(text) {
			if back := offsetAt(text, tt.want); back != tt.offset {
				t.Errorf("offsetAt(%+v) = %d, want %d", tt.want, back, tt.offset)
			}
		}
	}
}
