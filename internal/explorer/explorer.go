// Package explorer enumerates, ranks, and samples trajectories through an
// intention dependency graph.
package explorer

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/idg"
	"github.com/starford/raido/internal/metrics"
	"github.com/starford/raido/internal/trajectory"
)

// Explorer walks one dependency graph and holds a registry of named metrics,
// pre-seeded with novelty, coherence, and drama. The registry is mutable
// through AddMetric; the design assumes single-threaded, sequential use.
type Explorer struct {
	graph   *idg.IDG
	metrics map[string]metrics.Metric
}

// New creates an Explorer over the given graph with the built-in metrics
// registered.
func New(graph *idg.IDG) *Explorer {
	return &Explorer{
		graph: graph,
		metrics: map[string]metrics.Metric{
			"novelty":   metrics.Novelty{},
			"coherence": metrics.Coherence{},
			"drama":     metrics.Drama{},
		},
	}
}

// Trajectories enumerates every simple forward path from each start
// intention, capped at maxLength nodes. Every prefix of every path,
// including single-node paths, is emitted as a distinct trajectory. When
// startIntentions is nil, all current root intentions are used, in sorted
// order for determinism.
//
// Traversal does not deduplicate revisited nodes within a path: maxLength is
// the only cycle-safety mechanism, and trajectory count grows combinatorially
// with branching factor and bound. Choosing maxLength conservatively on
// cyclic graphs is the caller's responsibility.
func (e *Explorer) Trajectories(maxLength int, startIntentions []string) ([]trajectory.Trajectory, error) {
	starts, err := e.resolveStarts(startIntentions)
	if err != nil {
		return nil, err
	}

	var all []trajectory.Trajectory
	for _, start := range starts {
		step, err := e.snapshot(start)
		if err != nil {
			return nil, err
		}
		all = append(all, e.explore([]trajectory.Step{step}, maxLength)...)
	}
	return all, nil
}

// explore records the current path as a trajectory, then recurses into each
// successor of the path's last intention. It returns a locally-owned slice;
// no accumulator is shared across recursive calls. Recursion halts once the
// path length reaches maxLength, regardless of remaining successors.
func (e *Explorer) explore(path []trajectory.Step, maxLength int) []trajectory.Trajectory {
	steps := make([]trajectory.Step, len(path))
	copy(steps, path)
	out := []trajectory.Trajectory{{Intentions: steps}}

	if len(path) >= maxLength {
		return out
	}

	last := path[len(path)-1].ID
	for _, succ := range e.graph.Successors(last) {
		step, err := e.snapshot(succ)
		if err != nil {
			// Successors only returns ids present in the graph.
			continue
		}
		next := append(path[:len(path):len(path)], step)
		out = append(out, e.explore(next, maxLength)...)
	}
	return out
}

// Rank scores every trajectory with the named metric and returns them sorted
// by score descending. Equal scores keep their input order. An unregistered
// name fails with apperr.ErrUnknownMetric.
func (e *Explorer) Rank(ts []trajectory.Trajectory, metricName string) ([]trajectory.Trajectory, error) {
	m, ok := e.metrics[metricName]
	if !ok {
		return nil, fmt.Errorf("explorer: %w: %q", apperr.ErrUnknownMetric, metricName)
	}
	return e.RankWith(ts, m), nil
}

// RankWith scores every trajectory with the given metric and returns them
// sorted by score descending, preserving input order for ties.
func (e *Explorer) RankWith(ts []trajectory.Trajectory, m metrics.Metric) []trajectory.Trajectory {
	ranked := make([]trajectory.Trajectory, len(ts))
	copy(ranked, ts)
	scores := make([]float64, len(ranked))
	for i, t := range ranked {
		scores[i] = m.Score(t)
	}
	idxs := make([]int, len(ranked))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return scores[idxs[a]] > scores[idxs[b]]
	})
	out := make([]trajectory.Trajectory, len(ranked))
	for i, idx := range idxs {
		out[i] = ranked[idx]
	}
	return out
}

// AddMetric registers or replaces a named metric. The metric's contract is
// not checked.
func (e *Explorer) AddMetric(name string, m metrics.Metric) {
	e.metrics[name] = m
}

// Metric returns the registered metric for name, if any.
func (e *Explorer) Metric(name string) (metrics.Metric, bool) {
	m, ok := e.metrics[name]
	return m, ok
}

// MetricNames returns the registered metric names, sorted.
func (e *Explorer) MetricNames() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RandomTrajectory picks one start intention uniformly at random from the
// candidate set (all current roots when startIntentions is nil), then
// repeatedly picks a uniformly random successor until maxLength is reached
// or no successor exists. Calls are independent and unseeded.
func (e *Explorer) RandomTrajectory(maxLength int, startIntentions []string) (trajectory.Trajectory, error) {
	starts, err := e.resolveStarts(startIntentions)
	if err != nil {
		return trajectory.Trajectory{}, err
	}
	if len(starts) == 0 {
		return trajectory.Trajectory{}, fmt.Errorf("explorer: no start intentions: %w", apperr.ErrNotFound)
	}

	current := starts[rand.IntN(len(starts))]
	step, err := e.snapshot(current)
	if err != nil {
		return trajectory.Trajectory{}, err
	}
	t := trajectory.Trajectory{Intentions: []trajectory.Step{step}}

	for len(t.Intentions) < maxLength {
		succs := e.graph.Successors(current)
		if len(succs) == 0 {
			break
		}
		current = succs[rand.IntN(len(succs))]
		step, err := e.snapshot(current)
		if err != nil {
			return trajectory.Trajectory{}, err
		}
		t.Intentions = append(t.Intentions, step)
	}

	return t, nil
}

// resolveStarts validates explicit start ids against the graph, or falls
// back to the sorted root set.
func (e *Explorer) resolveStarts(startIntentions []string) ([]string, error) {
	if startIntentions == nil {
		roots := e.graph.RootIntentions()
		starts := make([]string, 0, len(roots))
		for id := range roots {
			starts = append(starts, id)
		}
		sort.Strings(starts)
		return starts, nil
	}
	for _, id := range startIntentions {
		if _, err := e.graph.IntentionData(id); err != nil {
			return nil, err
		}
	}
	return startIntentions, nil
}

// snapshot copies an intention's node payload into a trajectory step.
func (e *Explorer) snapshot(id string) (trajectory.Step, error) {
	data, err := e.graph.IntentionData(id)
	if err != nil {
		return trajectory.Step{}, err
	}
	return trajectory.Step{
		ID:          id,
		Character:   data.Character,
		Target:      data.Target,
		Location:    data.Location,
		Description: data.Description,
		Metadata:    data.Metadata,
	}, nil
}
