// Package renderer turns trajectories into prose through a pluggable
// text-generation backend. The core treats backend failures as opaque and
// never retries.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/raido/internal/trajectory"
)

// Adapter is the single capability a text-generation backend must provide.
type Adapter interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Renderer converts trajectories into natural-language stories.
type Renderer struct {
	adapter Adapter
}

// New creates a Renderer. A nil adapter falls back to the Mock adapter.
func New(adapter Adapter) *Renderer {
	if adapter == nil {
		adapter = Mock{}
	}
	return &Renderer{adapter: adapter}
}

// Render builds a prompt from the trajectory and hands it to the backend.
func (r *Renderer) Render(ctx context.Context, t trajectory.Trajectory) (string, error) {
	out, err := r.adapter.Generate(ctx, BuildPrompt(t))
	if err != nil {
		return "", fmt.Errorf("renderer: generate: %w", err)
	}
	return out, nil
}

// BuildPrompt lays out the trajectory's intentions as a numbered sequence
// with storytelling instructions.
func BuildPrompt(t trajectory.Trajectory) string {
	var b strings.Builder
	b.WriteString("Create a coherent and engaging story based on the following sequence of intentions:\n\n")

	for i, s := range t.Intentions {
		fmt.Fprintf(&b, "%d. %s intends to %s %s at %s", i+1, s.Character, s.ID, s.Target, s.Location)
		if s.Description != "" {
			b.WriteString(" ")
			b.WriteString(s.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nThe story should follow this sequence of intentions, but feel free to add details, " +
		"dialogue, and descriptions to make it engaging. The story should be coherent and flow " +
		"naturally from one intention to the next.")
	return b.String()
}
