package tokenize

import "github.com/tentacle-scylla/sqlcomplete/pkg/types"

// Segment is one statement of a multi-statement input.
type Segment struct {
	Text  string      // statement text without the terminating semicolon
	Start types.Point // position of Text within the whole input
}

// SplitStatements splits input on top-level semicolons. Semicolons inside
// strings, quoted identifiers, comments and parentheses do not split.
// Leading comments are not part of a segment.
func SplitStatements(input string) []Segment {
	tokens, err := Lex(input)
	if err != nil {
		return nil
	}

	var segments []Segment
	first, last := -1, -1
	flush := func() {
		if first >= 0 {
			segments = append(segments, Segment{
				Text:  input[tokens[first].Start:tokens[last].End],
				Start: tokens[first].Pos,
			})
		}
		first, last = -1, -1
	}

	depth := 0
	for i, tok := range tokens {
		switch tok.Text {
		case "(":
			depth++
		case ")":
			if depth > 0 {
				depth--
			}
		}
		if tok.Type == TokenPunctuation && tok.Text == ";" && depth == 0 {
			flush()
			continue
		}
		if first < 0 {
			if tok.Type == TokenComment {
				continue
			}
			first = i
		}
		last = i
	}
	flush()
	return segments
}
