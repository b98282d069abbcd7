// Package graph implements the shared directed-labeled-graph structure
// underlying C4 (dependency edges), C6/C7 (knowledge edges) and C8
// (scoring): an adjacency map keyed by node id with a parallel reverse
// adjacency for predecessor queries (spec.md §9 — "do not attempt to model
// this as an owning tree"). Encapsulation style is grounded on the
// teacher's domain/core/aggregates pattern (private fields, constructor
// validation, typed errors); the vertex/edge semantics are entirely new.
package graph

import (
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// NodeType is the closed set of vertex kinds (spec.md §3.4).
type NodeType string

const (
	TypeChapter      NodeType = "chapter"
	TypeVerse        NodeType = "verse"
	TypeWordInstance NodeType = "word_instance"
	TypeWord         NodeType = "word"
	TypeLemma        NodeType = "lemma"
	TypeRoot         NodeType = "root"
	TypeStem         NodeType = "stem"
	TypeKnowledge    NodeType = "knowledge"
)

// EdgeType distinguishes structural containment/ordering edges from
// weighted knowledge-propagation edges.
type EdgeType string

const (
	Dependency EdgeType = "dependency"
	Knowledge  EdgeType = "knowledge"
)

// Node is a vertex with a type and an open attribute bag. Structural fields
// (verse_key, position, axis, parent_node, ...) and scores
// (foundational_score, influence_score) live in Attrs; C10's export
// whitelists which keys survive serialization.
type Node struct {
	ID    string
	Type  NodeType
	Attrs map[string]any
}

// Edge is a directed edge with a type and an open attribute bag carrying
// the weight-distribution descriptor for knowledge edges.
type Edge struct {
	From, To string
	Type     EdgeType
	Attrs    map[string]any
}

type edgeKey struct {
	from, to string
	typ      EdgeType
}

// Graph is a directed labeled multigraph (at most one edge per (from, to,
// type) triple) with insertion-ordered node and edge registries for
// deterministic iteration.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string

	edges     map[edgeKey]*Edge
	edgeOrder []edgeKey

	out map[string][]*Edge // outgoing, insertion order
	in  map[string][]*Edge // incoming, insertion order

	frozen bool
}

// New constructs an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
}

// AddNode registers a node. Re-registering an existing id is a no-op (the
// original attrs are kept) — registrations are idempotent per spec.md §4.4.
func (g *Graph) AddNode(id string, typ NodeType, attrs map[string]any) (*Node, error) {
	if g.frozen {
		return nil, pkgerrors.State("cannot add node %q: graph is compiled", id)
	}
	if existing, ok := g.nodes[id]; ok {
		return existing, nil
	}
	if attrs == nil {
		attrs = make(map[string]any)
	}
	n := &Node{ID: id, Type: typ, Attrs: attrs}
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	return n, nil
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id has been registered.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge registers a directed edge. Re-registering an existing (from, to,
// type) triple is a silent no-op, per spec.md §4.4 (dependency) and §4.6
// (knowledge) idempotence requirements. Both endpoints must already exist.
func (g *Graph) AddEdge(from, to string, typ EdgeType, attrs map[string]any) (*Edge, error) {
	if g.frozen {
		return nil, pkgerrors.State("cannot add edge %s->%s: graph is compiled", from, to)
	}
	if !g.HasNode(from) {
		return nil, pkgerrors.Invariant("edge source node %q does not exist", from)
	}
	if !g.HasNode(to) {
		return nil, pkgerrors.Invariant("edge target node %q does not exist", to)
	}
	key := edgeKey{from, to, typ}
	if existing, ok := g.edges[key]; ok {
		return existing, nil
	}
	if attrs == nil {
		attrs = make(map[string]any)
	}
	e := &Edge{From: from, To: to, Type: typ, Attrs: attrs}
	g.edges[key] = e
	g.edgeOrder = append(g.edgeOrder, key)
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return e, nil
}

// Edge looks up a specific (from, to, type) edge.
func (g *Graph) Edge(from, to string, typ EdgeType) (*Edge, bool) {
	e, ok := g.edges[edgeKey{from, to, typ}]
	return e, ok
}

// Out returns outgoing edges of id, optionally filtered by type, in
// insertion order.
func (g *Graph) Out(id string, typ ...EdgeType) []*Edge {
	return filterByType(g.out[id], typ)
}

// In returns incoming edges of id, optionally filtered by type, in
// insertion order.
func (g *Graph) In(id string, typ ...EdgeType) []*Edge {
	return filterByType(g.in[id], typ)
}

func filterByType(edges []*Edge, typ []EdgeType) []*Edge {
	if len(typ) == 0 {
		return edges
	}
	allowed := make(map[EdgeType]struct{}, len(typ))
	for _, t := range typ {
		allowed[t] = struct{}{}
	}
	out := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := allowed[e.Type]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Nodes returns all nodes in first-registration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns all edges in first-registration order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edgeOrder))
	for i, k := range g.edgeOrder {
		out[i] = g.edges[k]
	}
	return out
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of registered edges.
func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// Freeze marks the graph compiled; further AddNode/AddEdge calls fail with
// a StateViolation.
func (g *Graph) Freeze() { g.frozen = true }

// IsFrozen reports whether Freeze has been called.
func (g *Graph) IsFrozen() bool { return g.frozen }
