// Package loader parses narrative domain files (YAML) into validated domain
// values. Intentions and dependencies may be written as plain mappings; the
// loader feeds them through the models normalizers so only strongly-typed
// values leave this boundary.
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/models"
)

// rawDomain mirrors the domain file schema with loosely-typed intention and
// dependency records.
type rawDomain struct {
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description"`
	Characters   []string         `yaml:"characters"`
	Locations    []string         `yaml:"locations"`
	Intentions   []map[string]any `yaml:"intentions"`
	Dependencies []map[string]any `yaml:"dependencies"`
	Metadata     map[string]any   `yaml:"metadata"`
}

// Parse decodes a domain file and normalizes every record. Structural errors
// (bad YAML, missing required fields, unknown dependency types) fail fast;
// referential integrity is not checked here.
func Parse(data []byte) (*models.Domain, error) {
	var raw rawDomain
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("loader: parse domain: %w", err)
	}

	d := &models.Domain{
		Name:        raw.Name,
		Description: raw.Description,
		Characters:  raw.Characters,
		Locations:   raw.Locations,
		Metadata:    raw.Metadata,
	}

	for i, m := range raw.Intentions {
		in, err := models.IntentionFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("loader: intention %d: %w", i, err)
		}
		d.Intentions = append(d.Intentions, in)
	}

	for i, m := range raw.Dependencies {
		dep, err := models.DependencyFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("loader: dependency %d: %w", i, err)
		}
		d.Dependencies = append(d.Dependencies, dep)
	}

	return d, nil
}
