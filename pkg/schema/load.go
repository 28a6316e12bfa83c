package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a schema snapshot from path. The format follows the file
// extension: .json, .yaml/.yml or .sql (CREATE TABLE statements).
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".sql", ".ddl":
		return ParseDDL(string(data))
	default:
		return nil, fmt.Errorf("load schema: unsupported file extension %q", ext)
	}
}
