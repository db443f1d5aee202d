package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// readInput merges an optional YAML (or JSON) input file with key=value pairs.
// Pairs win over file values; their values stay strings and are converted when
// the calculator decodes them.
func readInput(path string, pairs []string) (map[string]any, error) {
	input := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
		}
		if input == nil {
			input = map[string]any{}
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		input[key] = strings.TrimSpace(value)
	}
	return input, nil
}
