// Package trajectory defines the trajectory value type: one ordered path of
// intention snapshots representing a candidate narrative sequence.
package trajectory

// Step is a snapshot of one intention at visit time: the node payload plus
// its id. A step holds no reference back to the graph, so a trajectory stays
// valid even if the graph is mutated later.
type Step struct {
	ID          string         `json:"id"`
	Character   string         `json:"character"`
	Target      string         `json:"target"`
	Location    string         `json:"location"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Trajectory is an ordered sequence of intention snapshots produced by the
// explorer. It is an ephemeral, derived value with equality by value.
type Trajectory struct {
	Intentions []Step         `json:"intentions"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Len returns the number of intentions in the trajectory.
func (t Trajectory) Len() int { return len(t.Intentions) }

// IDs returns the intention ids in path order.
func (t Trajectory) IDs() []string {
	ids := make([]string, len(t.Intentions))
	for i, s := range t.Intentions {
		ids[i] = s.ID
	}
	return ids
}
