package idg

import (
	"fmt"

	"github.com/starford/raido/internal/models"
)

// Builder constructs intention dependency graphs from a domain.
type Builder struct {
	domain *models.Domain
}

// NewBuilder creates a Builder for the given domain.
func NewBuilder(domain *models.Domain) *Builder {
	return &Builder{domain: domain}
}

// Build creates one node per intention and one directed edge per dependency,
// in the domain's list order. No validation happens here: dangling references
// simply produce empty nodes, consistent with whatever was given. Callers who
// want a consistency report run Validate first.
func (b *Builder) Build() *IDG {
	g := newIDG()

	for _, in := range b.domain.Intentions {
		g.addNode(in.ID, NodeData{
			Character:   in.Character,
			Target:      in.Target,
			Location:    in.Location,
			Description: in.Description,
			Metadata:    in.Metadata,
		})
	}

	for _, dep := range b.domain.Dependencies {
		g.addEdge(dep.FromIntention, dep.ToIntention, EdgeData{
			Type:        dep.Type,
			Description: dep.Description,
			Metadata:    dep.Metadata,
		})
	}

	return g
}

// Validate re-scans the domain (not a built graph) and reports every dangling
// reference as a human-readable message. The report order is fixed: character
// and target checks for all intentions, then location checks for all
// intentions, then endpoint checks for all dependencies. An empty result
// means the domain is fully self-consistent.
//
// The report is advisory; Build never consults it.
func (b *Builder) Validate() []string {
	var errs []string

	characters := make(map[string]struct{}, len(b.domain.Characters))
	for _, c := range b.domain.Characters {
		characters[c] = struct{}{}
	}
	locations := make(map[string]struct{}, len(b.domain.Locations))
	for _, l := range b.domain.Locations {
		locations[l] = struct{}{}
	}

	for _, in := range b.domain.Intentions {
		if _, ok := characters[in.Character]; !ok {
			errs = append(errs, fmt.Sprintf("Character '%s' missing (id: %s).", in.Character, in.ID))
		}
		if _, ok := characters[in.Target]; !ok {
			errs = append(errs, fmt.Sprintf("Target '%s' missing (id: %s).", in.Target, in.ID))
		}
	}

	for _, in := range b.domain.Intentions {
		if _, ok := locations[in.Location]; !ok {
			errs = append(errs, fmt.Sprintf("Location '%s' missing (id: %s).", in.Location, in.ID))
		}
	}

	intentionIDs := make(map[string]struct{}, len(b.domain.Intentions))
	for _, in := range b.domain.Intentions {
		intentionIDs[in.ID] = struct{}{}
	}
	for _, dep := range b.domain.Dependencies {
		if _, ok := intentionIDs[dep.FromIntention]; !ok {
			errs = append(errs, fmt.Sprintf("From-intention '%s' missing.", dep.FromIntention))
		}
		if _, ok := intentionIDs[dep.ToIntention]; !ok {
			errs = append(errs, fmt.Sprintf("To-intention '%s' missing.", dep.ToIntention))
		}
	}

	return errs
}
