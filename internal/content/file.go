package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads content tables from a YAML document.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	var s Store
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("content: invalid %s: %w", path, err)
	}
	return &s, nil
}
