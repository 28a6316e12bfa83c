package lsp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap/zaptest"

	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

const testURI = "file:///tmp/query.sql"

type notification struct {
	method string
	params any
}

func newTestServer(t *testing.T) (*Server, *glsp.Context, *[]notification) {
	t.Helper()
	s := schema.NewSchema()
	s.AddTable("users").AddColumns("id", "name")
	s.AddFunction("count", "")

	srv := NewServer(Options{Schema: s, Logger: zaptest.NewLogger(t), Version: "test"})

	var sent []notification
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			sent = append(sent, notification{method, params})
		},
	}
	return srv, ctx, &sent
}

func open(t *testing.T, srv *Server, ctx *glsp.Context, text string) {
	t.Helper()
	err := srv.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "sql", Text: text},
	})
	if err != nil {
		t.Fatalf("didOpen error: %v", err)
	}
}

func completeAt(t *testing.T, srv *Server, ctx *glsp.Context, line, character uint32) []protocol.CompletionItem {
	t.Helper()
	res, err := srv.textDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: line, Character: character},
		},
	})
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	items, ok := res.([]protocol.CompletionItem)
	if !ok {
		t.Fatalf("completion result = %T, want []protocol.CompletionItem", res)
	}
	return items
}

func itemLabels(items []protocol.CompletionItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestInitialize(t *testing.T) {
	srv, ctx, _ := newTestServer(t)

	res, err := srv.initialize(ctx, &protocol.InitializeParams{})
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}
	result, ok := res.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("result = %T, want protocol.InitializeResult", res)
	}

	if result.ServerInfo.Name != "sqlcomplete" || *result.ServerInfo.Version != "test" {
		t.Errorf("ServerInfo = %+v", result.ServerInfo)
	}
	trigger := result.Capabilities.CompletionProvider.TriggerCharacters
	if diff := cmp.Diff([]string{".", " "}, trigger); diff != "" {
		t.Errorf("TriggerCharacters mismatch (-want +got):\n%s", diff)
	}
	sync, ok := result.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	if !ok || *sync.Change != protocol.TextDocumentSyncKindFull {
		t.Errorf("TextDocumentSync = %+v, want full sync", result.Capabilities.TextDocumentSync)
	}
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	srv, ctx, sent := newTestServer(t)

	open(t, srv, ctx, "SELECT * FORM users")

	if len(*sent) != 1 {
		t.Fatalf("got %d notifications, want 1", len(*sent))
	}
	n := (*sent)[0]
	if n.method != protocol.ServerTextDocumentPublishDiagnostics {
		t.Errorf("method = %q", n.method)
	}
	params := n.params.(protocol.PublishDiagnosticsParams)
	if len(params.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(params.Diagnostics))
	}

	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 9},
		End:   protocol.Position{Line: 0, Character: 13},
	}
	if diff := cmp.Diff(want, params.Diagnostics[0].Range); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	srv, ctx, sent := newTestServer(t)
	open(t, srv, ctx, "SELECT * FORM users")

	err := srv.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "SELECT * FROM users"}},
	})
	if err != nil {
		t.Fatalf("didChange error: %v", err)
	}

	last := (*sent)[len(*sent)-1].params.(protocol.PublishDiagnosticsParams)
	if len(last.Diagnostics) != 0 {
		t.Errorf("got %d diagnostics after fix, want 0", len(last.Diagnostics))
	}
	if text, _ := srv.docs.get(testURI); text != "SELECT * FROM users" {
		t.Errorf("document = %q", text)
	}
}

func TestDidClose(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "SELECT 1")

	err := srv.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	if err != nil {
		t.Fatalf("didClose error: %v", err)
	}
	if _, ok := srv.docs.get(testURI); ok {
		t.Error("document still stored after close")
	}

	res, err := srv.textDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		},
	})
	if err != nil || res != nil {
		t.Errorf("completion on closed document = %v, %v; want nil, nil", res, err)
	}
}

func TestCompletionEmptyDocument(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "")

	items := completeAt(t, srv, ctx, 0, 0)

	want := []string{"SELECT", "WHERE", "ORDER BY", "GROUP BY", "LIMIT", "--", "/*", "("}
	if diff := cmp.Diff(want, itemLabels(items)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if *items[0].Kind != protocol.CompletionItemKindText {
		t.Errorf("keyword kind = %v, want Text", *items[0].Kind)
	}
}

func TestCompletionScopedColumns(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "SELECT u. FROM users u")

	items := completeAt(t, srv, ctx, 0, 9)

	if diff := cmp.Diff([]string{"id", "name"}, itemLabels(items)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	for _, item := range items {
		if *item.Kind != protocol.CompletionItemKindInterface {
			t.Errorf("%s: kind = %v, want Interface", item.Label, *item.Kind)
		}
	}
}

func TestHover(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "SELECT u.name\nFROM users u")

	h, err := srv.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 1, Character: 6},
		},
	})
	if err != nil {
		t.Fatalf("hover error: %v", err)
	}
	if h == nil {
		t.Fatal("hover = nil")
	}

	content := h.Contents.(protocol.MarkupContent)
	if content.Kind != protocol.MarkupKindMarkdown || content.Value != "**users**\n\n2 column(s): id, name" {
		t.Errorf("Contents = %+v", content)
	}
	want := &protocol.Range{
		Start: protocol.Position{Line: 1, Character: 5},
		End:   protocol.Position{Line: 1, Character: 10},
	}
	if diff := cmp.Diff(want, h.Range); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}
}

func TestHoverNothing(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "SELECT  1")

	h, err := srv.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: 7},
		},
	})
	if err != nil || h != nil {
		t.Errorf("hover = %v, %v; want nil, nil", h, err)
	}
}

func TestFormatting(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "select id from users")

	edits, err := srv.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Options:      protocol.FormattingOptions{"tabSize": float64(2), "insertSpaces": true},
	})
	if err != nil {
		t.Fatalf("formatting error: %v", err)
	}
	want := []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 20},
		},
		NewText: "SELECT id\nFROM users;\n",
	}}
	if diff := cmp.Diff(want, edits); diff != "" {
		t.Errorf("edits mismatch (-want +got):\n%s", diff)
	}
}

func TestFormattingInvalidDocument(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	open(t, srv, ctx, "SELECT * FORM users")

	edits, err := srv.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	if err != nil {
		t.Fatalf("formatting error: %v", err)
	}
	if len(edits) != 0 {
		t.Errorf("edits = %+v, want none", edits)
	}
}

func TestFormatOptions(t *testing.T) {
	tests := []struct {
		opts protocol.FormattingOptions
		want string
	}{
		{nil, "    "},
		{protocol.FormattingOptions{"tabSize": float64(2), "insertSpaces": true}, "  "},
		{protocol.FormattingOptions{"tabSize": float64(8), "insertSpaces": false}, "\t"},
		{protocol.FormattingOptions{"tabSize": float64(-2), "insertSpaces": true}, ""},
		{protocol.FormattingOptions{"tabSize": -1}, ""},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts).IndentString; got != tt.want {
			t.Errorf("formatOptions(%v).IndentString = %q, want %q", tt.opts, got, tt.want)
		}
	}
}
