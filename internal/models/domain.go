// Package models defines the narrative domain types for raido.
package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/apperr"
)

// Dependency types.
const (
	DependencyIntentional  = "intentional"
	DependencyMotivational = "motivational"
)

// Intention represents a character's goal or desire: the character intends
// something toward a target at a location. It is the node concept of the
// intention dependency graph.
type Intention struct {
	ID          string         `yaml:"id" json:"id"`
	Character   string         `yaml:"character" json:"character"`
	Target      string         `yaml:"target" json:"target"`
	Location    string         `yaml:"location" json:"location"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Validate checks the construction-level contract: all required fields
// present. Cross-references (character/location membership) are the graph
// builder's concern, not checked here.
func (i Intention) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Character, validation.Required),
		validation.Field(&i.Target, validation.Required),
		validation.Field(&i.Location, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("models: intention %q: %w: %v", i.ID, apperr.ErrInvalid, err)
	}
	return nil
}

// Dependency represents a directed relationship between two intentions:
// FromIntention depends on ToIntention having occurred or motivated it.
type Dependency struct {
	FromIntention string         `yaml:"from_intention" json:"from_intention"`
	ToIntention   string         `yaml:"to_intention" json:"to_intention"`
	Type          string         `yaml:"type" json:"type"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Metadata      map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Validate checks the construction-level contract: both endpoints named and
// the type one of "intentional" or "motivational". Endpoint existence is the
// graph builder's concern.
func (d Dependency) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.FromIntention, validation.Required),
		validation.Field(&d.ToIntention, validation.Required),
		validation.Field(&d.Type, validation.Required, validation.In(DependencyIntentional, DependencyMotivational)),
	)
	if err != nil {
		return fmt.Errorf("models: dependency %s -> %s: %w: %v",
			d.FromIntention, d.ToIntention, apperr.ErrInvalid, err)
	}
	return nil
}

// Domain is the aggregate root for one narrative world: its characters,
// locations, intentions, and the dependencies between intentions. It is a
// value holder; once validated it should be treated as immutable.
type Domain struct {
	Name         string         `yaml:"name,omitempty" json:"name,omitempty"`
	Description  string         `yaml:"description,omitempty" json:"description,omitempty"`
	Characters   []string       `yaml:"characters" json:"characters"`
	Locations    []string       `yaml:"locations" json:"locations"`
	Intentions   []Intention    `yaml:"intentions" json:"intentions"`
	Dependencies []Dependency   `yaml:"dependencies" json:"dependencies"`
	Metadata     map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Validate checks every intention and dependency against the construction
// contract. It does not check referential integrity; that advisory report
// comes from the graph builder.
func (d *Domain) Validate() error {
	for _, in := range d.Intentions {
		if err := in.Validate(); err != nil {
			return err
		}
	}
	for _, dep := range d.Dependencies {
		if err := dep.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IntentionFromMap normalizes a loosely-typed record (as produced by YAML or
// JSON decoding) into a validated Intention. Mistyped or missing required
// fields fail with apperr.ErrInvalid.
func IntentionFromMap(m map[string]any) (Intention, error) {
	var in Intention
	var err error
	if in.ID, err = stringField(m, "id"); err != nil {
		return Intention{}, err
	}
	if in.Character, err = stringField(m, "character"); err != nil {
		return Intention{}, err
	}
	if in.Target, err = stringField(m, "target"); err != nil {
		return Intention{}, err
	}
	if in.Location, err = stringField(m, "location"); err != nil {
		return Intention{}, err
	}
	if in.Description, err = stringField(m, "description"); err != nil {
		return Intention{}, err
	}
	in.Metadata = mapField(m, "metadata")
	return in, in.Validate()
}

// DependencyFromMap normalizes a loosely-typed record into a validated
// Dependency. Mistyped or missing required fields fail with apperr.ErrInvalid.
func DependencyFromMap(m map[string]any) (Dependency, error) {
	var dep Dependency
	var err error
	if dep.FromIntention, err = stringField(m, "from_intention"); err != nil {
		return Dependency{}, err
	}
	if dep.ToIntention, err = stringField(m, "to_intention"); err != nil {
		return Dependency{}, err
	}
	if dep.Type, err = stringField(m, "type"); err != nil {
		return Dependency{}, err
	}
	if dep.Description, err = stringField(m, "description"); err != nil {
		return Dependency{}, err
	}
	dep.Metadata = mapField(m, "metadata")
	return dep, dep.Validate()
}

// stringField reads an optional string from a loose record. Absent keys
// return ""; a present non-string value is a type error.
func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("models: field %q: want string, got %T: %w", key, v, apperr.ErrInvalid)
	}
	return s, nil
}

// mapField reads an optional mapping from a loose record. YAML decodes
// nested mappings as map[string]any already; anything else is ignored.
func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}
