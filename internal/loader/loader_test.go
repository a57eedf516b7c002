package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

const fairyTaleYAML = `name: fairy_tale
description: A tiny tale
characters:
  - princess
  - dragon
locations:
  - castle
intentions:
  - id: kidnap
    character: dragon
    target: princess
    location: castle
    description: The dragon wants the princess
dependencies: []
metadata:
  genre: fantasy
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(fairyTaleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Name != "fairy_tale" {
		t.Errorf("name = %q", d.Name)
	}
	if len(d.Characters) != 2 || len(d.Locations) != 1 {
		t.Errorf("characters/locations = %d/%d", len(d.Characters), len(d.Locations))
	}
	if len(d.Intentions) != 1 || d.Intentions[0].ID != "kidnap" {
		t.Errorf("intentions = %+v", d.Intentions)
	}
	if d.Metadata["genre"] != "fantasy" {
		t.Errorf("metadata = %v", d.Metadata)
	}
}

func TestParseBadYAML(t *testing.T) {
	_, err := Parse([]byte("characters: [unclosed"))
	if err == nil {
		t.Fatal("malformed YAML should fail")
	}
	if !strings.Contains(err.Error(), "parse domain") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseMistypedIntentionField(t *testing.T) {
	data := "intentions:\n  - id: 42\n    character: a\n    target: b\n    location: c\n"
	_, err := Parse([]byte(data))
	if err == nil {
		t.Fatal("non-string id should fail")
	}
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), "intention 0") {
		t.Errorf("error should name the record index: %v", err)
	}
}

func TestParseBadDependencyType(t *testing.T) {
	data := `intentions:
  - {id: i1, character: a, target: b, location: c}
  - {id: i2, character: a, target: b, location: c}
dependencies:
  - {from_intention: i1, to_intention: i2, type: causal}
`
	_, err := Parse([]byte(data))
	if err == nil {
		t.Fatal("unknown dependency type should fail")
	}
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), "dependency 0") {
		t.Errorf("error should name the record index: %v", err)
	}
}

func TestParseDanglingReferencesAllowed(t *testing.T) {
	// Referential integrity is not the loader's concern.
	data := `characters: [hero]
locations: [home]
intentions:
  - {id: i1, character: ghost, target: hero, location: void}
dependencies:
  - {from_intention: i1, to_intention: nowhere, type: motivational}
`
	d, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("dangling references should parse: %v", err)
	}
	if len(d.Intentions) != 1 || len(d.Dependencies) != 1 {
		t.Errorf("unexpected domain: %+v", d)
	}
}
