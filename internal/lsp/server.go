// Package lsp serves SQL completion and diagnostics over the language
// server protocol.
package lsp

import (
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.uber.org/zap"

	_ "github.com/tliron/commonlog/simple"

	"github.com/tentacle-scylla/sqlcomplete/pkg/complete"
	"github.com/tentacle-scylla/sqlcomplete/pkg/format"
	"github.com/tentacle-scylla/sqlcomplete/pkg/hover"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

const lsName = "sqlcomplete"

// Options configures a Server.
type Options struct {
	Schema         *schema.Schema
	JupyterLabMode bool
	Logger         *zap.Logger
	Version        string
	// Verbosity of the protocol trace written by the transport.
	Verbosity int
}

// Server is a language server completing SQL against one schema snapshot.
type Server struct {
	opts    Options
	logger  *zap.Logger
	docs    *documents
	handler protocol.Handler
	server  *server.Server
}

// NewServer creates a server completing against opts.Schema.
func NewServer(opts Options) *Server {
	if opts.Schema == nil {
		opts.Schema = schema.NewSchema()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger.With(zap.String("component", "lsp")),
		docs:   newDocuments(),
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentFormatting: s.textDocumentFormatting,
	}

	commonlog.Configure(opts.Verbosity, nil)
	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

// RunStdio serves requests on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	s.logger.Info("serving on stdio", zap.Int("tables", s.opts.Schema.TableCount()))
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", " "},
	}

	if params.ClientInfo != nil {
		s.logger.Debug("initialize", zap.String("client", params.ClientInfo.Name))
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.opts.Version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.docs.set(uri, params.TextDocument.Text)
	s.publishDiagnostics(ctx, uri, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := s.docs.update(uri, params.ContentChanges)
	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.docs.delete(uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	line := int(params.Position.Line)
	pos := types.Position{
		Line:   line,
		Column: runeColumn(lineAt(text, line), params.Position.Character),
	}

	result, err := complete.CompleteWithOptions(text, pos, s.opts.Schema, &complete.CompletionOptions{
		JupyterLabMode: s.opts.JupyterLabMode,
		Logger:         s.opts.Logger,
	})
	if err != nil {
		s.logger.Error("completion failed",
			zap.String("uri", params.TextDocument.URI),
			zap.Int("line", pos.Line),
			zap.Int("column", pos.Column),
			zap.Error(err),
		)
		return []protocol.CompletionItem{}, nil
	}

	return completionItems(result.Candidates), nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	info := hover.GetHoverInfo(&hover.HoverContext{
		Query:    text,
		Position: offsetAt(text, params.Position),
		Schema:   s.opts.Schema,
	})
	if info == nil {
		return nil, nil
	}

	h := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: info.Content,
		},
	}
	if info.Range != nil {
		h.Range = &protocol.Range{
			Start: positionAt(text, info.Range.Start),
			End:   positionAt(text, info.Range.End),
		}
	}
	return h, nil
}

// textDocumentFormatting replaces the whole document with its pretty
// printed form. Documents that do not parse are left alone.
func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	text, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	formatted, err := format.String(text, formatOptions(params.Options))
	if err != nil {
		s.logger.Debug("formatting skipped", zap.String("uri", params.TextDocument.URI), zap.Error(err))
		return []protocol.TextEdit{}, nil
	}
	if formatted != "" {
		formatted += "\n"
	}
	if formatted == text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{},
			End:   positionAt(text, len(text)),
		},
		NewText: formatted,
	}}, nil
}

// formatOptions maps the client's indentation settings onto the pretty style.
func formatOptions(opts protocol.FormattingOptions) format.Options {
	out := format.DefaultOptions()
	if insertSpaces, ok := opts[protocol.FormattingOptionInsertSpaces].(bool); ok && !insertSpaces {
		out.IndentString = "\t"
		return out
	}
	switch size := opts[protocol.FormattingOptionTabSize].(type) {
	case float64:
		out.IndentString = strings.Repeat(" ", max(int(size), 0))
	case int:
		out.IndentString = strings.Repeat(" ", max(size, 0))
	}
	return out
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diags := diagnostics(text, s.opts.Schema)
	s.logger.Debug("diagnostics", zap.String("uri", uri), zap.Int("count", len(diags)))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
