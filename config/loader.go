package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hjson/hjson-go/v4"

	"valuecraft/server/internal/valuation"
)

// LoadHeuristicsFile reads a heuristics override file on top of base. The
// file may be strict JSON or Hjson; fields it leaves out keep base's value.
func LoadHeuristicsFile(path string, base valuation.Heuristics) (valuation.Heuristics, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return base, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return base, fmt.Errorf("failed to read heuristics file: %w", err)
	}

	var raw interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("failed to parse heuristics file: %w", err)
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return base, fmt.Errorf("failed to normalize heuristics file: %w", err)
	}

	h := base
	if err := json.Unmarshal(normalized, &h); err != nil {
		return base, fmt.Errorf("failed to decode heuristics file: %w", err)
	}
	return h, nil
}

// SaveHeuristicsFile writes h as indented JSON.
func SaveHeuristicsFile(path string, h valuation.Heuristics) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal heuristics: %w", err)
	}

	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write heuristics file: %w", err)
	}
	return nil
}
