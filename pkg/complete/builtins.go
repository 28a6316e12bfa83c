package complete

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed annotations.yaml
var annotationsYAML []byte

// Annotations loaded from YAML
var annotations struct {
	Keywords map[string]annotationEntry `yaml:"keywords"`
}

type annotationEntry struct {
	Detail        string `yaml:"detail"`
	Documentation string `yaml:"documentation"`
}

// BasicKeywords are offered at the start of input and alongside SELECT
// completions, in this order.
var BasicKeywords = []string{"SELECT", "WHERE", "ORDER BY", "GROUP BY", "LIMIT", "--", "/*", "("}

func init() {
	if err := yaml.Unmarshal(annotationsYAML, &annotations); err != nil {
		panic("failed to parse annotations.yaml: " + err.Error())
	}
}

// makeKeywordItem creates a keyword completion item with its annotation.
func makeKeywordItem(keyword string) CompletionItem {
	item := CompletionItem{
		Label:  keyword,
		Kind:   KindKeyword,
		Detail: "keyword",
	}
	if ann, ok := annotations.Keywords[keyword]; ok {
		if ann.Detail != "" {
			item.Detail = ann.Detail
		}
		item.Documentation = ann.Documentation
	}
	return item
}
