package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TeamsFile is the YAML table mapping market-feed abbreviations to the full
// team names used by the results feed.
type TeamsFile struct {
	Teams map[string]string `yaml:"teams"`
}

// LoadTeams reads and parses an abbreviation table. Structural validation
// (empty, duplicate after normalization) is left to the market resolver.
func LoadTeams(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read teams table: %w", err)
	}

	var file TeamsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse teams table: %w", err)
	}
	return file.Teams, nil
}
