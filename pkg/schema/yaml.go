package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a schema from YAML bytes. Keys match the JSON form.
func ParseYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ToYAML serializes the schema to YAML bytes.
func (s *Schema) ToYAML() ([]byte, error) {
	return yaml.Marshal(s)
}
