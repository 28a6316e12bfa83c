package analyze

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
)

// FixtureTable represents a table in the fixture schema
type FixtureTable struct {
	Name     string   `yaml:"name"`
	Database string   `yaml:"database"`
	Columns  []string `yaml:"columns"`
}

// FixtureSchema represents the schema in a fixture
type FixtureSchema struct {
	Tables    []FixtureTable `yaml:"tables"`
	Functions []string       `yaml:"functions"`
}

// FixtureOptions represents analyze options in a fixture
type FixtureOptions struct {
	WarnOnSelectStar    bool `yaml:"warnOnSelectStar"`
	WarnOnNoLimit       bool `yaml:"warnOnNoLimit"`
	LargeLimitThreshold int  `yaml:"largeLimitThreshold"`
}

// AnalyzeFixture represents a single test case
type AnalyzeFixture struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`

	// Schema reference (by name from schemas section)
	SchemaRef string          `yaml:"schemaRef,omitempty"`
	Options   *FixtureOptions `yaml:"options,omitempty"`

	// Reference extraction expectations
	ExpectTables         []string `yaml:"expectTables,omitempty"`
	ExpectColumns        []string `yaml:"expectColumns,omitempty"`
	ExpectSelectColumns  []string `yaml:"expectSelectColumns,omitempty"`
	ExpectWhereColumns   []string `yaml:"expectWhereColumns,omitempty"`
	ExpectGroupByColumns []string `yaml:"expectGroupByColumns,omitempty"`
	ExpectOrderByColumns []string `yaml:"expectOrderByColumns,omitempty"`
	ExpectUpdateColumns  []string `yaml:"expectUpdateColumns,omitempty"`
	ExpectInsertColumns  []string `yaml:"expectInsertColumns,omitempty"`
	ExpectFunctions      []string `yaml:"expectFunctions,omitempty"`
	ExpectLimit          *int     `yaml:"expectLimit,omitempty"`

	// Validation expectations
	ExpectValid            *bool  `yaml:"expectValid,omitempty"`
	ExpectSyntaxError      bool   `yaml:"expectSyntaxError,omitempty"`
	ExpectSchemaErrorCount *int   `yaml:"expectSchemaErrorCount,omitempty"`
	ExpectSchemaErrorType  string `yaml:"expectSchemaErrorType,omitempty"`
	ExpectSchemaErrorCont  string `yaml:"expectSchemaErrorContains,omitempty"`
	ExpectSuggestionCont   string `yaml:"expectSuggestionContains,omitempty"`

	// Warning expectations
	ExpectWarningCount    *int   `yaml:"expectWarningCount,omitempty"`
	ExpectWarningType     string `yaml:"expectWarningType,omitempty"`
	ExpectWarningContains string `yaml:"expectWarningContains,omitempty"`
}

// FixtureFile represents the entire fixture file structure
type FixtureFile struct {
	Schemas map[string]FixtureSchema `yaml:"schemas"`
	Tests   []AnalyzeFixture         `yaml:"tests"`
}

func loadFixtures(t *testing.T) (*FixtureFile, error) {
	data, err := os.ReadFile("testdata/analyze_fixtures.yaml")
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
	if fs == nil {
		return nil
	}

	s := schema.NewSchema()
	for _, ft := range fs.Tables {
		s.AddTable(ft.Name).InDatabase(ft.Database).AddColumns(ft.Columns...)
	}
	for _, fn := range fs.Functions {
		s.AddFunction(fn, "")
	}
	return s
}

func buildOptions(fo *FixtureOptions, s *schema.Schema) *AnalyzeOptions {
	opts := DefaultOptions()
	opts.Schema = s

	if fo != nil {
		opts.WarnOnSelectStar = fo.WarnOnSelectStar
		opts.WarnOnNoLimit = fo.WarnOnNoLimit
		opts.LargeLimitThreshold = fo.LargeLimitThreshold
	}

	return opts
}

func TestAnalyzeFixtures(t *testing.T) {
	ff, err := loadFixtures(t)
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}

	for _, f := range ff.Tests {
		t.Run(f.Name, func(t *testing.T) {
			// Look up schema by reference
			var s *schema.Schema
			if f.SchemaRef != "" {
				fs, ok := ff.Schemas[f.SchemaRef]
				if !ok {
					t.Fatalf("Schema reference %q not found", f.SchemaRef)
				}
				s = buildSchema(&fs)
			}

			opts := buildOptions(f.Options, s)
			result := Analyze(f.Query, opts)

			t.Logf("Query: %s", f.Query)
			for _, e := range result.SchemaErrors {
				t.Logf("  - %s: %s (suggestion: %s)", e.Type, e.Message, e.Suggestion)
			}
			for _, w := range result.Warnings {
				t.Logf("  - %s: %s", w.Type, w.Message)
			}

			if f.ExpectSyntaxError && len(result.SyntaxErrors) == 0 {
				t.Error("Expected syntax error but got none")
			}
			if f.ExpectValid != nil && result.IsValid != *f.ExpectValid {
				t.Errorf("IsValid = %v, want %v", result.IsValid, *f.ExpectValid)
			}

			// Check reference extraction
			refs := result.References
			var tables []string
			for _, ref := range refs.Tables {
				tables = append(tables, qualifiedName(ref))
			}
			checkStringSlice(t, "Tables", tables, f.ExpectTables)
			checkStringSlice(t, "Columns", refs.Columns, f.ExpectColumns)
			checkStringSlice(t, "SelectColumns", refs.SelectColumns, f.ExpectSelectColumns)
			checkStringSlice(t, "WhereColumns", refs.WhereColumns, f.ExpectWhereColumns)
			checkStringSlice(t, "GroupByColumns", refs.GroupByColumns, f.ExpectGroupByColumns)
			checkStringSlice(t, "OrderByColumns", refs.OrderByColumns, f.ExpectOrderByColumns)
			checkStringSlice(t, "UpdateColumns", refs.UpdateColumns, f.ExpectUpdateColumns)
			checkStringSlice(t, "InsertColumns", refs.InsertColumns, f.ExpectInsertColumns)
			checkStringSlice(t, "Functions", refs.Functions, f.ExpectFunctions)

			if f.ExpectLimit != nil && refs.Limit != *f.ExpectLimit {
				t.Errorf("Limit = %d, want %d", refs.Limit, *f.ExpectLimit)
			}

			// Check schema errors
			if f.ExpectSchemaErrorCount != nil && len(result.SchemaErrors) != *f.ExpectSchemaErrorCount {
				t.Errorf("SchemaError count = %d, want %d", len(result.SchemaErrors), *f.ExpectSchemaErrorCount)
			}

			if f.ExpectSchemaErrorType != "" {
				errs := result.ErrorsOfType(SchemaErrorType(f.ExpectSchemaErrorType))
				if len(errs) == 0 {
					t.Fatalf("Expected schema error of type %q but not found", f.ExpectSchemaErrorType)
				}
				if f.ExpectSchemaErrorCont != "" && !strings.Contains(errs[0].Message, f.ExpectSchemaErrorCont) {
					t.Errorf("Schema error message %q does not contain %q", errs[0].Message, f.ExpectSchemaErrorCont)
				}
				if f.ExpectSuggestionCont != "" && !strings.Contains(errs[0].Suggestion, f.ExpectSuggestionCont) {
					t.Errorf("Suggestion %q does not contain %q", errs[0].Suggestion, f.ExpectSuggestionCont)
				}
			}

			// Check warnings
			if f.ExpectWarningCount != nil && len(result.Warnings) != *f.ExpectWarningCount {
				t.Errorf("Warning count = %d, want %d", len(result.Warnings), *f.ExpectWarningCount)
			}

			if f.ExpectWarningType != "" {
				warnings := result.WarningsOfType(WarningType(f.ExpectWarningType))
				if len(warnings) == 0 {
					t.Fatalf("Expected warning of type %q but not found", f.ExpectWarningType)
				}
				if f.ExpectWarningContains != "" && !strings.Contains(warnings[0].Message, f.ExpectWarningContains) {
					t.Errorf("Warning message %q does not contain %q", warnings[0].Message, f.ExpectWarningContains)
				}
			}
		})
	}
}

// checkStringSlice compares an extracted list with the expected one, in
// order. A nil want skips the check.
func checkStringSlice(t *testing.T, name string, got, want []string) {
	t.Helper()
	if want == nil {
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

func TestAnalyzeMultipleShiftsLocations(t *testing.T) {
	s := schema.NewSchema()
	s.AddTable("customers").AddColumns("id", "name")

	results := AnalyzeMultiple("SELECT id FROM customers;\nSELECT nmae FROM customers", &AnalyzeOptions{Schema: s})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].HasSchemaErrors() {
		t.Errorf("first statement: unexpected errors %v", results[0].AllErrors())
	}

	errs := results[1].ErrorsOfType(ErrUnknownColumn)
	if len(errs) != 1 {
		t.Fatalf("second statement: got %d unknown column errors, want 1", len(errs))
	}
	loc := errs[0].Location
	if loc == nil {
		t.Fatal("unknown column error has no location")
	}
	if loc.Start.Line != 2 || loc.Start.Column != 8 || loc.Start.Offset != 33 {
		t.Errorf("Location.Start = %+v, want line 2 column 8 offset 33", loc.Start)
	}

	table := results[1].References.Tables[0]
	if table.Location.Start.Line != 2 || table.Location.Start.Column != 18 {
		t.Errorf("table Location.Start = %+v, want line 2 column 18", table.Location.Start)
	}
}

func TestExtractReferences(t *testing.T) {
	refs, stmtType, errs := ExtractReferences("UPDATE customers SET name = lower(name) WHERE id = 1")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if stmtType.String() != "UPDATE" {
		t.Errorf("type = %s, want UPDATE", stmtType)
	}
	if diff := cmp.Diff([]string{"name", "id"}, refs.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if len(refs.FunctionCalls) != 1 || refs.FunctionCalls[0].ArgCount != 1 {
		t.Errorf("FunctionCalls = %+v, want one lower() call with 1 argument", refs.FunctionCalls)
	}

	_, _, errs = ExtractReferences("UPDATE SET")
	if !errs.HasErrors() {
		t.Error("expected syntax errors for broken statement")
	}
}

func TestGetFunctionSignature(t *testing.T) {
	sig := GetFunctionSignature("COUNT")
	if sig == nil {
		t.Fatal("GetFunctionSignature(COUNT) = nil")
	}
	if sig.Name != "count" || !sig.AllowStar || sig.MinArgs != 1 || sig.MaxArgs != 1 {
		t.Errorf("count signature = %+v", sig)
	}
	if GetFunctionSignature("my_udf") != nil {
		t.Error("GetFunctionSignature(my_udf) should be nil")
	}
}
