// Package metrics provides trajectory scoring. Each metric is a stateless,
// pure function of a trajectory's intention snapshots; none consult the
// graph. Scores target the [0,1] range, though keyword-overlap edge cases in
// Drama are not provably bounded; the formulas are kept as specified rather
// than clamped further.
package metrics

import (
	"strings"

	"github.com/starford/raido/internal/trajectory"
)

// Metric scores a trajectory. Implementations must be safe for repeated
// calls with different trajectories.
type Metric interface {
	Score(t trajectory.Trajectory) float64
}

// Keyword sets for the drama metric. Matching is case-sensitive substring
// containment against intention ids and descriptions; that is a documented
// limitation, not fuzzy matching.
var (
	conflictKeywords  = []string{"eat", "kill", "attack", "fight", "steal", "trick", "deceive"}
	emotionalKeywords = []string{"love", "hate", "fear", "anger", "joy", "sadness", "surprise"}
)

// Novelty scores the diversity of characters, locations, and intention ids
// across a trajectory. An empty trajectory scores 0.
type Novelty struct{}

// Score returns the mean of character, location, and intention diversity.
func (Novelty) Score(t trajectory.Trajectory) float64 {
	n := len(t.Intentions)
	if n == 0 {
		return 0.0
	}

	characters := make(map[string]struct{})
	locations := make(map[string]struct{})
	ids := make(map[string]struct{})
	for _, s := range t.Intentions {
		characters[s.Character] = struct{}{}
		characters[s.Target] = struct{}{}
		locations[s.Location] = struct{}{}
		ids[s.ID] = struct{}{}
	}

	characterDiversity := float64(len(characters)) / float64(2*n)
	locationDiversity := float64(len(locations)) / float64(n)
	intentionDiversity := float64(len(ids)) / float64(n)

	return (characterDiversity + locationDiversity + intentionDiversity) / 3
}

// Coherence scores the continuity of characters and locations between
// adjacent intentions. A trajectory of length <= 1 scores 1.0 (vacuously
// coherent).
type Coherence struct{}

// Score averages, over each adjacent pair, the mean of two binary checks:
// character continuity (any character/target combination matches) and exact
// location continuity.
func (Coherence) Score(t trajectory.Trajectory) float64 {
	n := len(t.Intentions)
	if n <= 1 {
		return 1.0
	}

	var continuity float64
	for i := 0; i < n-1; i++ {
		cur, next := t.Intentions[i], t.Intentions[i+1]

		characterContinuity := cur.Character == next.Character ||
			cur.Character == next.Target ||
			cur.Target == next.Character ||
			cur.Target == next.Target

		locationContinuity := cur.Location == next.Location

		pair := 0.0
		if characterContinuity {
			pair++
		}
		if locationContinuity {
			pair++
		}
		continuity += pair / 2
	}

	return continuity / float64(n-1)
}

// Drama scores dramatic potential from conflict density, character-arc
// breadth, and emotional intensity. An empty trajectory scores 0.
type Drama struct{}

// Score returns the mean of three capped components: the fraction of
// intentions whose id contains a conflict keyword, unique characters over 2n,
// and emotional intensity (1.0 for a keyword in the id, else 0.5 for a
// keyword in the description) normalized by n.
func (Drama) Score(t trajectory.Trajectory) float64 {
	n := len(t.Intentions)
	if n == 0 {
		return 0.0
	}

	conflictCount := 0
	characterArcs := make(map[string]struct{})
	var emotionalIntensity float64

	for _, s := range t.Intentions {
		if containsAny(s.ID, conflictKeywords) {
			conflictCount++
		}

		characterArcs[s.Character] = struct{}{}
		characterArcs[s.Target] = struct{}{}

		// The id check takes priority over the description check.
		switch {
		case containsAny(s.ID, emotionalKeywords):
			emotionalIntensity += 1.0
		case s.Description != "" && containsAny(s.Description, emotionalKeywords):
			emotionalIntensity += 0.5
		}
	}

	conflictScore := min(1.0, float64(conflictCount)/float64(n))
	characterArcScore := min(1.0, float64(len(characterArcs))/float64(2*n))
	emotionalScore := min(1.0, emotionalIntensity/float64(n))

	return (conflictScore + characterArcScore + emotionalScore) / 3
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
