package description

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"semantic-mapper/internal/common"
)

// LoadFile loads and parses a YAML description file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse description YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	// A single resource is the default resource of every attribute.
	if only, ok := common.First(f.Resources); ok && common.IsSingle(f.Resources) {
		for i := range f.Attributes {
			if f.Attributes[i].ResourceID == "" {
				f.Attributes[i].ResourceID = only.ID
			}
		}
	}

	for i := range f.Resources {
		f.Resources[i].Type = strings.ToLower(f.Resources[i].Type)
	}

	for i := range f.Alignments {
		f.Alignments[i].Type = AlignmentType(strings.ToLower(string(f.Alignments[i].Type)))
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
