package lsp

import (
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/tentacle-scylla/sqlcomplete/pkg/analyze"
	"github.com/tentacle-scylla/sqlcomplete/pkg/complete"
	"github.com/tentacle-scylla/sqlcomplete/pkg/lint"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

const diagnosticSource = "sqlcomplete"

func toProtocolKind(kind complete.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case complete.KindColumn:
		return protocol.CompletionItemKindInterface
	case complete.KindTable:
		return protocol.CompletionItemKindField
	case complete.KindFunction:
		return protocol.CompletionItemKindProperty
	case complete.KindAlias:
		return protocol.CompletionItemKindVariable
	case complete.KindUtility:
		return protocol.CompletionItemKindEvent
	default:
		return protocol.CompletionItemKindText
	}
}

func completionItems(candidates []complete.CompletionItem) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, c := range candidates {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.GetInsertText()
		filterText := c.GetFilterText()

		item := protocol.CompletionItem{
			Label:      c.Label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
			FilterText: &filterText,
		}
		if c.Documentation != "" {
			item.Documentation = c.Documentation
		}
		items = append(items, item)
	}
	return items
}

// diagnostics lints text and converts every error into a protocol
// diagnostic covering the word it points at. With a non-empty schema the
// valid statements are also checked against it.
func diagnostics(text string, s *schema.Schema) []protocol.Diagnostic {
	errs := lint.Check(text)
	diags := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		line := lineAt(text, e.Line-1)
		start := e.Column
		end := wordEnd(line, start)

		message := e.DisplayMessage()
		if e.Suggestion != "" {
			message += ". " + e.Suggestion
		}
		severity := protocol.DiagnosticSeverityError
		source := diagnosticSource

		diags = append(diags, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(max(e.Line-1, 0)), Character: utf16Column(line, start)},
				End:   protocol.Position{Line: uint32(max(e.Line-1, 0)), Character: utf16Column(line, end)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  message,
		})
	}

	if s.TableCount() == 0 {
		return diags
	}
	for _, result := range analyze.AnalyzeMultiple(text, &analyze.AnalyzeOptions{Schema: s}) {
		for _, e := range result.SchemaErrors {
			diags = append(diags, findingDiagnostic(text, e.Location, e.Message, e.Suggestion, protocol.DiagnosticSeverityError))
		}
		for _, w := range result.Warnings {
			diags = append(diags, findingDiagnostic(text, w.Location, w.Message, w.Suggestion, toProtocolSeverity(w.Severity)))
		}
	}
	return diags
}

// findingDiagnostic converts an analysis finding spanning loc. A finding
// without a location is reported at the start of the document.
func findingDiagnostic(text string, loc *types.Location, message, suggestion string, severity protocol.DiagnosticSeverity) protocol.Diagnostic {
	var rng protocol.Range
	if loc != nil {
		line := lineAt(text, loc.Start.Line-1)
		endCol := len([]rune(line))
		if loc.End.Line == loc.Start.Line {
			endCol = loc.End.Column - 1
		}
		rng = protocol.Range{
			Start: protocol.Position{Line: uint32(max(loc.Start.Line-1, 0)), Character: utf16Column(line, loc.Start.Column-1)},
			End:   protocol.Position{Line: uint32(max(loc.Start.Line-1, 0)), Character: utf16Column(line, endCol)},
		}
	}
	if suggestion != "" {
		message += ". " + suggestion
	}
	source := diagnosticSource
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

func toProtocolSeverity(severity analyze.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case analyze.SeverityError:
		return protocol.DiagnosticSeverityError
	case analyze.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// wordEnd returns the rune column just past the word starting at col, or
// col+1 when no word starts there. The result never exceeds the line.
func wordEnd(line string, col int) int {
	runes := []rune(line)
	if col >= len(runes) {
		return len(runes)
	}
	end := col
	for end < len(runes) && (unicode.IsLetter(runes[end]) || unicode.IsDigit(runes[end]) || runes[end] == '_') {
		end++
	}
	if end == col {
		end++
	}
	return end
}
