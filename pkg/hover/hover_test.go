package hover

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
)

// FixtureColumn represents a column in the fixture schema
type FixtureColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// FixtureTable represents a table in the fixture schema
type FixtureTable struct {
	Name     string          `yaml:"name"`
	Database string          `yaml:"database"`
	Columns  []FixtureColumn `yaml:"columns"`
}

// FixtureFunction represents a function in the fixture schema
type FixtureFunction struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// FixtureSchema represents the schema in a fixture
type FixtureSchema struct {
	Tables    []FixtureTable    `yaml:"tables"`
	Functions []FixtureFunction `yaml:"functions"`
}

// HoverFixture represents a single test case
type HoverFixture struct {
	Name     string `yaml:"name"`
	Query    string `yaml:"query"`
	Position int    `yaml:"position"`

	SchemaRef string `yaml:"schemaRef,omitempty"`

	// Token expectations
	ExpectToken      string `yaml:"expectToken,omitempty"`
	ExpectTokenStart int    `yaml:"expectTokenStart,omitempty"`
	ExpectTokenEnd   int    `yaml:"expectTokenEnd,omitempty"`

	// Hover expectations
	ExpectKind            string `yaml:"expectKind,omitempty"`
	ExpectName            string `yaml:"expectName,omitempty"`
	ExpectContentContains string `yaml:"expectContentContains,omitempty"`
	ExpectNoHover         bool   `yaml:"expectNoHover,omitempty"`
}

// FixtureFile represents the entire fixture file structure
type FixtureFile struct {
	Schemas map[string]FixtureSchema `yaml:"schemas"`
	Tests   []HoverFixture           `yaml:"tests"`
}

func loadFixtures(t *testing.T) (*FixtureFile, error) {
	data, err := os.ReadFile("testdata/hover_fixtures.yaml")
	if err != nil {
		return nil, err
	}

	var ff FixtureFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, err
	}

	return &ff, nil
}

func buildSchema(fs *FixtureSchema) *schema.Schema {
	s := schema.NewSchema()
	for _, ftbl := range fs.Tables {
		tbl := s.AddTable(ftbl.Name).InDatabase(ftbl.Database)
		for _, fcol := range ftbl.Columns {
			tbl.AddColumn(fcol.Name, fcol.Type)
		}
	}
	for _, fn := range fs.Functions {
		s.AddFunction(fn.Name, fn.Description)
	}
	return s
}

func TestHoverFixtures(t *testing.T) {
	ff, err := loadFixtures(t)
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}

	for _, f := range ff.Tests {
		t.Run(f.Name, func(t *testing.T) {
			var s *schema.Schema
			if f.SchemaRef != "" {
				fs, ok := ff.Schemas[f.SchemaRef]
				if !ok {
					t.Fatalf("Schema reference %q not found", f.SchemaRef)
				}
				s = buildSchema(&fs)
			}

			if f.ExpectToken != "" {
				token := FindTokenAtPosition(f.Query, f.Position)
				if token == nil {
					t.Fatalf("Expected token %q, got nil", f.ExpectToken)
				}
				if token.Text != f.ExpectToken {
					t.Errorf("Token = %q, want %q", token.Text, f.ExpectToken)
				}
				if token.Start != f.ExpectTokenStart || token.End != f.ExpectTokenEnd {
					t.Errorf("Token span = [%d:%d], want [%d:%d]", token.Start, token.End, f.ExpectTokenStart, f.ExpectTokenEnd)
				}
			}

			info := GetHoverInfo(&HoverContext{
				Query:    f.Query,
				Position: f.Position,
				Schema:   s,
			})

			if f.ExpectNoHover {
				if info != nil {
					t.Errorf("Expected no hover, got kind=%s name=%s", info.Kind, info.Name)
				}
				return
			}
			if info == nil {
				t.Fatalf("Expected hover with kind=%q, got nil", f.ExpectKind)
			}
			t.Logf("Content: %s", info.Content)

			if string(info.Kind) != f.ExpectKind {
				t.Errorf("Kind = %q, want %q", info.Kind, f.ExpectKind)
			}
			if f.ExpectName != "" && info.Name != f.ExpectName {
				t.Errorf("Name = %q, want %q", info.Name, f.ExpectName)
			}
			if f.ExpectContentContains != "" && !strings.Contains(info.Content, f.ExpectContentContains) {
				t.Errorf("Content %q does not contain %q", info.Content, f.ExpectContentContains)
			}
			if info.Range == nil || info.Range.Start > f.Position || info.Range.End < f.Position {
				t.Errorf("Range = %+v does not cover position %d", info.Range, f.Position)
			}
		})
	}
}

// TestTokenFinding tests token finding in isolation
func TestTokenFinding(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		position int
		wantText string
		wantType tokenize.TokenType
	}{
		{"keyword", "SELECT", 3, "SELECT", tokenize.TokenKeyword},
		{"identifier", "users", 2, "users", tokenize.TokenIdentifier},
		{"function name", "now()", 1, "now", tokenize.TokenIdentifier},
		{"at start", "SELECT", 0, "SELECT", tokenize.TokenKeyword},
		{"at end", "SELECT", 6, "SELECT", tokenize.TokenKeyword},
		{"in whitespace", "a  b", 2, "", ""},
		{"empty", "", 0, "", ""},
		{"underscore", "user_id", 4, "user_id", tokenize.TokenIdentifier},
		{"quoted", `"my col"`, 3, `"my col"`, tokenize.TokenQuotedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := FindTokenAtPosition(tt.query, tt.position)
			if tt.wantText == "" {
				if token != nil {
					t.Errorf("Token = %q, want none", token.Text)
				}
				return
			}
			if token == nil {
				t.Fatalf("Token = nil, want %q", tt.wantText)
			}
			if token.Text != tt.wantText {
				t.Errorf("Token.Text = %q, want %q", token.Text, tt.wantText)
			}
			if token.Type != tt.wantType {
				t.Errorf("Token.Type = %v, want %v", token.Type, tt.wantType)
			}
		})
	}
}

// TestKeywordHover tests hover for keywords
func TestKeywordHover(t *testing.T) {
	keywords := []string{"SELECT", "insert", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "ON", "NULL"}

	for _, kw := range keywords {
		t.Run(kw, func(t *testing.T) {
			info := GetKeywordInfo(kw)
			if info == nil {
				t.Fatalf("No info for keyword %s", kw)
			}
			if info.Description == "" {
				t.Errorf("Empty description for keyword %s", kw)
			}
			if info.Name != strings.ToUpper(kw) {
				t.Errorf("Name = %q, want %q", info.Name, strings.ToUpper(kw))
			}
		})
	}
}

// TestFunctionHover tests hover for functions
func TestFunctionHover(t *testing.T) {
	functions := []string{"now", "count", "SUM", "avg", "min", "max", "coalesce", "lower"}

	for _, fn := range functions {
		t.Run(fn, func(t *testing.T) {
			info := GetFunctionInfo(fn)
			if info == nil {
				t.Fatalf("No info for function %s", fn)
			}
			if info.Signature == "" {
				t.Errorf("Empty signature for function %s", fn)
			}
			if info.ReturnType == "" {
				t.Errorf("Empty return type for function %s", fn)
			}
		})
	}
}

// TestTypeHover tests hover for types
func TestTypeHover(t *testing.T) {
	types := []string{"int", "bigint", "text", "uuid", "timestamp", "boolean", "blob", "VARCHAR"}

	for _, ty := range types {
		t.Run(ty, func(t *testing.T) {
			info := GetTypeInfo(ty)
			if info == nil {
				t.Fatalf("No info for type %s", ty)
			}
			if info.Description == "" {
				t.Errorf("Empty description for type %s", ty)
			}
		})
	}
}

func TestGetHoverInfoNil(t *testing.T) {
	if GetHoverInfo(nil) != nil {
		t.Error("GetHoverInfo(nil) should be nil")
	}
	if GetHoverInfo(&HoverContext{}) != nil {
		t.Error("GetHoverInfo(empty query) should be nil")
	}
}
