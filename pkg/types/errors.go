package types

import (
	"fmt"
	"strings"
)

// Error is a diagnostic reported to users (lint, editor diagnostics).
// Line and Column are relative to the whole input when the statement was
// checked as part of a multi-statement document.
type Error struct {
	Line            int    `json:"line"`                      // 1-based
	Column          int    `json:"column"`                    // 0-based, in bytes
	Offset          int    `json:"offset"`                    // 0-based byte offset into the input
	Message         string `json:"message"`                   // parser message listing the expected tokens
	FriendlyMessage string `json:"friendlyMessage,omitempty"` // shortened message for display
	Query           string `json:"-"`
	Suggestion      string `json:"suggestion,omitempty"`
}

func (e *Error) Error() string {
	msg := e.DisplayMessage()
	if e.Suggestion != "" {
		return fmt.Sprintf("line %s: %s (suggestion: %s)", e.Position(), msg, e.Suggestion)
	}
	return fmt.Sprintf("line %s: %s", e.Position(), msg)
}

// DisplayMessage returns FriendlyMessage when set, the raw Message otherwise.
func (e *Error) DisplayMessage() string {
	if e.FriendlyMessage != "" {
		return e.FriendlyMessage
	}
	return e.Message
}

// Position formats the error position as "line:column".
func (e *Error) Position() string {
	return fmt.Sprintf("%d:%d", e.Line, e.Column)
}

// Errors is a collection of diagnostics in input order.
type Errors []*Error

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e))
	for _, err := range e {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// HasErrors returns true if there are any errors
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// First returns the first error or nil if empty
func (e Errors) First() *Error {
	if len(e) == 0 {
		return nil
	}
	return e[0]
}

// ByLine returns the errors reported on a 1-based line.
func (e Errors) ByLine(line int) Errors {
	var result Errors
	for _, err := range e {
		if err.Line == line {
			result = append(result, err)
		}
	}
	return result
}
