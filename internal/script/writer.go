package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Save writes a script to a YAML file so an in-progress production can be
// resumed in a later session.
func Save(s *Script, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a script back from a YAML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal script: %w", err)
	}
	return &s, nil
}
