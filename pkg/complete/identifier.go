package complete

import "strings"

// Identifier is a fully qualified candidate name matched against the
// token being typed.
type Identifier struct {
	LastToken  string
	Identifier string
	Detail     string
	Kind       CompletionKind
}

// NewIdentifier returns an Identifier for candidate against lastToken.
func NewIdentifier(lastToken, candidate, detail string, kind CompletionKind) *Identifier {
	return &Identifier{
		LastToken:  lastToken,
		Identifier: candidate,
		Detail:     detail,
		Kind:       kind,
	}
}

// MatchesLastToken reports whether the candidate extends the typed token.
// A candidate equal to the token completes nothing and does not match.
func (i *Identifier) MatchesLastToken() bool {
	return strings.HasPrefix(i.Identifier, i.LastToken) && len(i.Identifier) > len(i.LastToken)
}

// ToCompletionItem renders the candidate. The label keeps only what
// follows the last dot of the typed token: typing "ali.col" against
// "ali.column1.sub" gives "column1.sub". Tables insert an alias too.
func (i *Identifier) ToCompletionItem() CompletionItem {
	label := i.Identifier
	if cut := strings.LastIndex(i.LastToken, ".") + 1; cut <= len(label) {
		label = label[cut:]
	}

	item := CompletionItem{
		Label: label,
		Kind:  i.Kind,
	}
	if i.Kind == KindTable {
		name := label
		if dot := strings.LastIndex(name, "."); dot > 0 {
			name = name[dot+1:]
		}
		item.InsertText = label + " AS " + MakeTableAlias(name)
		item.Detail = strings.TrimSpace("table " + i.Detail)
	} else {
		item.Detail = strings.TrimSpace(string(i.Kind) + " " + i.Detail)
	}
	return item
}
