package hover

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed docs.yaml
var docsYAML []byte

// KeywordInfo contains hover documentation for a SQL keyword.
type KeywordInfo struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`
	Syntax      string `yaml:"syntax"`
}

// FunctionInfo contains hover documentation for a built-in function.
type FunctionInfo struct {
	Name        string `yaml:"-"`
	Signature   string `yaml:"signature"`
	ReturnType  string `yaml:"returns"`
	Description string `yaml:"description"`
}

// TypeInfo contains hover documentation for a column type.
type TypeInfo struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`
	Size        string `yaml:"size"`
}

var docs struct {
	Keywords  map[string]*KeywordInfo  `yaml:"keywords"`
	Functions map[string]*FunctionInfo `yaml:"functions"`
	Types     map[string]*TypeInfo     `yaml:"types"`
}

func init() {
	if err := yaml.Unmarshal(docsYAML, &docs); err != nil {
		panic("failed to parse docs.yaml: " + err.Error())
	}
	for name, info := range docs.Keywords {
		info.Name = name
	}
	for name, info := range docs.Functions {
		info.Name = strings.ToUpper(name)
	}
	for name, info := range docs.Types {
		info.Name = strings.ToUpper(name)
	}
}

// GetKeywordInfo returns keyword documentation (case-insensitive).
func GetKeywordInfo(name string) *KeywordInfo {
	return docs.Keywords[strings.ToUpper(name)]
}

// GetFunctionInfo returns function documentation (case-insensitive).
func GetFunctionInfo(name string) *FunctionInfo {
	return docs.Functions[strings.ToLower(name)]
}

// GetTypeInfo returns type documentation (case-insensitive).
func GetTypeInfo(name string) *TypeInfo {
	return docs.Types[strings.ToLower(name)]
}
