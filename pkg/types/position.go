package types

// Position is an editor cursor. Line and Column are both 0-based; Column
// counts characters within the line.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Point is a position inside parsed source text. Line and Column are
// 1-based, Offset is the 0-based byte offset from the start of the text.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Location is the source span of a syntax node. End is exclusive.
type Location struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}
