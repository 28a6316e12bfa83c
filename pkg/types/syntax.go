package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ExpectedKind tags an entry of a syntax error's expected set.
type ExpectedKind string

const (
	// ExpectedLiteral is a concrete keyword or punctuation the parser would
	// have accepted. Only these entries drive keyword completion.
	ExpectedLiteral ExpectedKind = "literal"
	// ExpectedOther is a token class such as "identifier" or "number".
	ExpectedOther ExpectedKind = "other"
	// ExpectedEnd means the input could have ended here.
	ExpectedEnd ExpectedKind = "end"
)

// Expected is one alternative the parser would have accepted at the
// failure point.
type Expected struct {
	Type        ExpectedKind `json:"type"`
	Text        string       `json:"text,omitempty"`
	Description string       `json:"description"`
}

// LiteralExpected returns the expectation for a literal token.
func LiteralExpected(text string) Expected {
	return Expected{Type: ExpectedLiteral, Text: text, Description: fmt.Sprintf("%q", text)}
}

// OtherExpected returns the expectation for a token class.
func OtherExpected(description string) Expected {
	return Expected{Type: ExpectedOther, Description: description}
}

// EndExpected returns the end-of-input expectation.
func EndExpected() Expected {
	return Expected{Type: ExpectedEnd, Description: "end of input"}
}

// SyntaxError is the structured failure of the strict SQL parser.
type SyntaxError struct {
	Message  string     `json:"message"`
	Expected []Expected `json:"expected"`
	Found    string     `json:"found,omitempty"` // empty at end of input
	Location Location   `json:"location"`
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return e.Message
}

// Name is the error's class name, always "SyntaxError".
func (e *SyntaxError) Name() string {
	return "SyntaxError"
}

// ExpectedLiterals returns the literal texts of the expected set in order.
func (e *SyntaxError) ExpectedLiterals() []string {
	var out []string
	for _, exp := range e.Expected {
		if exp.Type == ExpectedLiteral {
			out = append(out, exp.Text)
		}
	}
	return out
}

// NewSyntaxError builds a SyntaxError whose expected set is sorted by
// description and de-duplicated, and whose message lists it.
// found is the offending token text, or "" at end of input.
func NewSyntaxError(expected []Expected, found string, loc Location) *SyntaxError {
	sorted := append([]Expected(nil), expected...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Description < sorted[j].Description
	})
	var uniq []Expected
	for i, exp := range sorted {
		if i > 0 && sorted[i-1].Description == exp.Description {
			continue
		}
		uniq = append(uniq, exp)
	}
	return &SyntaxError{
		Message:  syntaxErrorMessage(uniq, found),
		Expected: uniq,
		Found:    found,
		Location: loc,
	}
}

func syntaxErrorMessage(expected []Expected, found string) string {
	descs := make([]string, len(expected))
	for i, exp := range expected {
		descs[i] = exp.Description
	}

	var expectedDesc string
	switch len(descs) {
	case 0:
		expectedDesc = "nothing"
	case 1:
		expectedDesc = descs[0]
	default:
		expectedDesc = strings.Join(descs[:len(descs)-1], ", ") + " or " + descs[len(descs)-1]
	}

	foundDesc := "end of input"
	if found != "" {
		foundDesc = fmt.Sprintf("%q", found)
	}
	return fmt.Sprintf("Expected %s but %s found.", expectedDesc, foundDesc)
}

// AsSyntaxError reports whether err is, or wraps, a *SyntaxError.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
