package lsp

import (
	"strings"
	"sync"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// documents holds the text of the open documents by URI.
type documents struct {
	mu   sync.RWMutex
	text map[protocol.DocumentUri]string
}

func newDocuments() *documents {
	return &documents{text: make(map[protocol.DocumentUri]string)}
}

func (d *documents) set(uri protocol.DocumentUri, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text[uri] = text
}

func (d *documents) get(uri protocol.DocumentUri) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	text, ok := d.text[uri]
	return text, ok
}

func (d *documents) delete(uri protocol.DocumentUri) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.text, uri)
}

// update applies content changes in order and stores the result.
func (d *documents) update(uri protocol.DocumentUri, changes []any) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	text := d.text[uri]
	for _, change := range changes {
		text = applyChange(text, change)
	}
	d.text[uri] = text
	return text
}

func applyChange(text string, change any) string {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return c.Text
		}
		start := offsetAt(text, c.Range.Start)
		end := offsetAt(text, c.Range.End)
		if end < start {
			start, end = end, start
		}
		return text[:start] + c.Text + text[end:]
	default:
		return text
	}
}

// offsetAt converts a protocol position (UTF-16 code units) into a byte
// offset into text. Positions past the end of a line or of the text are
// clamped.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
	}

	units := uint32(0)
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		units += utf16Len(r)
		offset += size
	}
	return offset
}

// positionAt converts a byte offset into text into a protocol position.
func positionAt(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return protocol.Position{
		Line:      uint32(line),
		Character: utf16Column(before[lineStart:], utf8.RuneCountInString(before[lineStart:])),
	}
}

// runeColumn converts a UTF-16 character offset within line into a rune
// count.
func runeColumn(line string, character uint32) int {
	units := uint32(0)
	col := 0
	for _, r := range line {
		if units >= character {
			break
		}
		units += utf16Len(r)
		col++
	}
	return col
}

// utf16Column converts a rune count within line into UTF-16 code units.
func utf16Column(line string, col int) uint32 {
	units := uint32(0)
	i := 0
	for _, r := range line {
		if i >= col {
			break
		}
		units += utf16Len(r)
		i++
	}
	return units
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// lineAt returns the text of the given 0-based line, without its newline.
func lineAt(text string, line int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return lines[line]
}
