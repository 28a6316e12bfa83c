package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// SnapshotError reports an entry of a decoded snapshot that cannot be used.
type SnapshotError struct {
	Path    string // e.g. "tables[2].columns[0]"
	Message string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("schema snapshot %s: %s", e.Path, e.Message)
}

// validate checks that every table, column and function has a name.
func (s *Schema) validate() error {
	for i, t := range s.Tables {
		if t == nil || t.TableName == "" {
			return &SnapshotError{Path: fmt.Sprintf("tables[%d]", i), Message: "missing tableName"}
		}
		for j, c := range t.Columns {
			if c.ColumnName == "" {
				return &SnapshotError{
					Path:    fmt.Sprintf("tables[%d].columns[%d]", i, j),
					Message: fmt.Sprintf("missing columnName in table %q", t.QualifiedName()),
				}
			}
		}
	}
	for i, f := range s.Functions {
		if f == nil || f.Name == "" {
			return &SnapshotError{Path: fmt.Sprintf("functions[%d]", i), Message: "missing name"}
		}
	}
	return nil
}

// ToJSON serializes the schema to JSON bytes.
func (s *Schema) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// ToJSONIndent serializes the schema to indented JSON bytes.
func (s *Schema) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseJSON decodes a snapshot using the camelCase keys of the JSON form
// ("tableName", "columnName").
func ParseJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema json: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFromJSON loads a schema from a JSON file.
func LoadFromJSON(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return ParseJSON(data)
}

// SaveToJSON writes the indented JSON form to path.
func (s *Schema) SaveToJSON(path string) error {
	data, err := s.ToJSONIndent()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
