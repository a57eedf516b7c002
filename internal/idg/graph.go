// Package idg implements the intention dependency graph: a directed graph
// whose nodes are intentions and whose edges are the dependencies between
// them, plus the topology queries the trajectory explorer needs.
package idg

import (
	"fmt"

	"github.com/starford/raido/internal/apperr"
)

// NodeData holds the non-id fields of an intention as node payload.
type NodeData struct {
	Character   string         `json:"character"`
	Target      string         `json:"target"`
	Location    string         `json:"location"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// EdgeData holds the non-endpoint fields of a dependency as edge payload.
type EdgeData struct {
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Edge identifies one directed dependency edge.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// IDG is the intention dependency graph. It is built once by a Builder and
// read-only afterwards. Mutation stays unexported so callers only see the
// query surface.
//
// Successor order is the insertion order of edges, which makes traversal
// deterministic for a fixed build input.
type IDG struct {
	nodes map[string]NodeData
	order []string // node insertion order

	succ  map[string][]string // ordered outgoing edge targets
	edges map[string]map[string]EdgeData
	indeg map[string]int
}

func newIDG() *IDG {
	return &IDG{
		nodes: make(map[string]NodeData),
		succ:  make(map[string][]string),
		edges: make(map[string]map[string]EdgeData),
		indeg: make(map[string]int),
	}
}

// addNode inserts or replaces a node. Replacing keeps the original insertion
// position.
func (g *IDG) addNode(id string, data NodeData) {
	if _, ok := g.nodes[id]; !ok {
		g.order = append(g.order, id)
	}
	g.nodes[id] = data
}

// ensureNode creates an empty node for a dangling edge endpoint, matching
// the build contract: malformed references produce dangling-looking nodes
// rather than errors.
func (g *IDG) ensureNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		g.addNode(id, NodeData{})
	}
}

// addEdge inserts a directed edge from -> to. A duplicate edge overwrites
// the stored attributes (last write wins) without duplicating the successor
// entry or the in-degree count.
func (g *IDG) addEdge(from, to string, data EdgeData) {
	g.ensureNode(from)
	g.ensureNode(to)

	if g.edges[from] == nil {
		g.edges[from] = make(map[string]EdgeData)
	}
	if _, exists := g.edges[from][to]; !exists {
		g.succ[from] = append(g.succ[from], to)
		g.indeg[to]++
	}
	g.edges[from][to] = data
}

// RootIntentions returns the ids of intentions with in-degree zero: those no
// dependency points to. A cycle disjoint from any in-degree-zero node has no
// root and is never traversed from here; that is an accepted limitation.
func (g *IDG) RootIntentions() map[string]struct{} {
	roots := make(map[string]struct{})
	for id := range g.nodes {
		if g.indeg[id] == 0 {
			roots[id] = struct{}{}
		}
	}
	return roots
}

// LeafIntentions returns the ids of intentions with out-degree zero.
func (g *IDG) LeafIntentions() map[string]struct{} {
	leaves := make(map[string]struct{})
	for id := range g.nodes {
		if len(g.succ[id]) == 0 {
			leaves[id] = struct{}{}
		}
	}
	return leaves
}

// IntentionData returns the node payload for an intention id.
func (g *IDG) IntentionData(id string) (NodeData, error) {
	data, ok := g.nodes[id]
	if !ok {
		return NodeData{}, fmt.Errorf("idg: intention %q: %w", id, apperr.ErrNotFound)
	}
	return data, nil
}

// DependencyData returns the edge payload for the dependency from -> to.
func (g *IDG) DependencyData(from, to string) (EdgeData, error) {
	data, ok := g.edges[from][to]
	if !ok {
		return EdgeData{}, fmt.Errorf("idg: dependency %s -> %s: %w", from, to, apperr.ErrNotFound)
	}
	return data, nil
}

// Successors returns the intentions reachable via one outgoing edge from id,
// in edge insertion order. Unknown ids have no successors.
func (g *IDG) Successors(id string) []string {
	out := g.succ[id]
	if len(out) == 0 {
		return nil
	}
	cp := make([]string, len(out))
	copy(cp, out)
	return cp
}

// Intentions returns all node ids in insertion order.
func (g *IDG) Intentions() []string {
	cp := make([]string, len(g.order))
	copy(cp, g.order)
	return cp
}

// Edges returns all edges, ordered by source insertion order then edge
// insertion order.
func (g *IDG) Edges() []Edge {
	var out []Edge
	for _, from := range g.order {
		for _, to := range g.succ[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// NodeCount returns the number of intentions in the graph.
func (g *IDG) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct dependency edges.
func (g *IDG) EdgeCount() int {
	n := 0
	for _, targets := range g.succ {
		n += len(targets)
	}
	return n
}
