package knowledge

import (
	"math"
	"sort"
	"strings"

	"github.com/iqrah/graphkg/internal/graph"
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// axisNames indexes every known axis by its string form, for parsing
// "<parent-id>:<axis>" knowledge-node ids.
var axisNames = map[string]Axis{
	string(Memorization):           Memorization,
	string(Translation):             Translation,
	string(Tafsir):                  Tafsir,
	string(Tajweed):                 Tajweed,
	string(ContextualMemorization): ContextualMemorization,
	string(Meaning):                 Meaning,
}

type pendingEdge struct {
	source, target string
	weight         *float64 // nil = unweighted auto
}

// Manager owns knowledge-axis sub-nodes and knowledge edges layered on top
// of a structural graph, and defers "auto" edge weights until Compile,
// grounded on original_source's graph/knowledge.py KnowledgeEdgeManager.
type Manager struct {
	g *graph.Graph

	pending  map[string][]pendingEdge // keyed by target node id
	order    []string                 // target insertion order, for deterministic Compile
	compiled bool
}

// New wraps g; knowledge nodes and edges are added onto the same graph the
// dependency builder populated.
func New(g *graph.Graph) *Manager {
	return &Manager{g: g, pending: make(map[string][]pendingEdge)}
}

// splitAxisID splits a knowledge sub-node id "<parent>:<axis>" into its
// parent id and axis, validating the axis suffix is recognized.
func splitAxisID(axisNodeID string) (parent string, axis Axis, err error) {
	idx := strings.LastIndex(axisNodeID, ":")
	if idx < 0 {
		return "", "", pkgerrors.Malformed("knowledge node id %q has no axis suffix", axisNodeID)
	}
	parent, suffix := axisNodeID[:idx], axisNodeID[idx+1:]
	a, ok := axisNames[suffix]
	if !ok {
		return "", "", pkgerrors.Malformed("knowledge node id %q names unknown axis %q", axisNodeID, suffix)
	}
	return parent, a, nil
}

// EnsureKnowledgeNode registers the axis sub-node for parentID (and a
// dependency edge from it back to parentID) if not already present,
// validating the axis is legal for the parent's node type.
func (m *Manager) EnsureKnowledgeNode(axisNodeID string) error {
	if m.compiled {
		return pkgerrors.State("cannot register knowledge node %q: already compiled", axisNodeID)
	}
	parentID, axis, err := splitAxisID(axisNodeID)
	if err != nil {
		return err
	}
	parent, ok := m.g.Node(parentID)
	if !ok {
		return pkgerrors.Invariant("knowledge node %q names nonexistent parent %q", axisNodeID, parentID)
	}
	if !Legal(parent.Type, axis) {
		return pkgerrors.Invariant("axis %q is not legal on node type %q (%s)", axis, parent.Type, parentID)
	}
	if _, err := m.g.AddNode(axisNodeID, graph.TypeKnowledge, map[string]any{
		"knowledge_axis": string(axis),
		"parent_node":    parentID,
	}); err != nil {
		return err
	}
	if _, err := m.g.AddEdge(axisNodeID, parentID, graph.Dependency, nil); err != nil {
		return err
	}
	return nil
}

// AddKnowledgeEdge adds a weighted propagation edge between two axis
// sub-node ids, ensuring both are registered first. A duplicate edge is a
// silent no-op. Auto distributions are queued for weight resolution at
// Compile time.
func (m *Manager) AddKnowledgeEdge(sourceAxisID, targetAxisID string, dist Distribution) error {
	if m.compiled {
		return pkgerrors.State("cannot add knowledge edge %s->%s: already compiled", sourceAxisID, targetAxisID)
	}
	if err := m.EnsureKnowledgeNode(sourceAxisID); err != nil {
		return err
	}
	if err := m.EnsureKnowledgeNode(targetAxisID); err != nil {
		return err
	}
	if _, ok := m.g.Edge(sourceAxisID, targetAxisID, graph.Knowledge); ok {
		return nil
	}
	if _, err := m.g.AddEdge(sourceAxisID, targetAxisID, graph.Knowledge, dist.ToAttrs()); err != nil {
		return err
	}
	if dist.Kind == DistAuto {
		if _, ok := m.pending[targetAxisID]; !ok {
			m.order = append(m.order, targetAxisID)
		}
		m.pending[targetAxisID] = append(m.pending[targetAxisID], pendingEdge{
			source: sourceAxisID, target: targetAxisID, weight: dist.RelativeWeight,
		})
	}
	return nil
}

// AddBidirectionalKnowledgeEdge adds the same distribution in both
// directions between two axis nodes.
func (m *Manager) AddBidirectionalKnowledgeEdge(a, b string, dist Distribution) error {
	if err := m.AddKnowledgeEdge(a, b, dist); err != nil {
		return err
	}
	return m.AddKnowledgeEdge(b, a, dist)
}

// gaussianCoefficients returns window weights w_1..w_windowSize for a
// triangular-decaying Gaussian centered at distance 0 with std =
// windowSize/3, normalized so w_1 == 1.0 (spec.md §4.6).
func gaussianCoefficients(windowSize int) []float64 {
	if windowSize <= 0 {
		return nil
	}
	std := float64(windowSize) / 3.0
	pdf := func(x float64) float64 {
		return math.Exp(-(x * x) / (2 * std * std))
	}
	base := pdf(1)
	out := make([]float64, windowSize)
	for j := 1; j <= windowSize; j++ {
		out[j-1] = pdf(float64(j)) / base
	}
	return out
}

// AddGaussianWindowEdges adds bidirectional Normal-distributed edges
// between each axis node in nodes and its windowSize nearest neighbors on
// either side, with Gaussian-decaying mean weight and baseStd-scaled
// standard deviation. Returns the number of edges attempted (matching the
// original_source's edges-created stat, regardless of idempotent no-ops).
func (m *Manager) AddGaussianWindowEdges(nodes []string, windowSize int, baseWeight, baseStd float64) (int, error) {
	coeffs := gaussianCoefficients(windowSize)
	created := 0
	for i, node := range nodes {
		for j := 1; j <= windowSize; j++ {
			w := coeffs[j-1]
			dist := Normal(w*baseWeight, w*baseStd)
			if i-j >= 0 {
				if err := m.AddKnowledgeEdge(node, nodes[i-j], dist); err != nil {
					return created, err
				}
				created++
			}
			if i+j < len(nodes) {
				if err := m.AddKnowledgeEdge(node, nodes[i+j], dist); err != nil {
					return created, err
				}
				created++
			}
		}
	}
	return created, nil
}

// Compile resolves every pending Auto weight into a concrete Normal(m, 0.1)
// distribution, normalized per target so all incoming weights to a given
// target sum to 1.0, then freezes the underlying graph. strict controls
// how a target with a mix of weighted and unweighted incoming auto edges
// is handled: true raises an InvariantViolation, false fills the
// unweighted edges with the mean of the specified weights before
// normalizing. Calling Compile a second time is a StateViolation.
func (m *Manager) Compile(strict bool) error {
	if m.compiled {
		return pkgerrors.State("knowledge manager already compiled")
	}
	targets := append([]string(nil), m.order...)
	sort.Strings(targets)

	for _, target := range targets {
		edges := m.pending[target]
		weights, err := resolveWeights(target, edges, strict)
		if err != nil {
			return err
		}
		for i, e := range edges {
			edge, err := m.g.AddEdge(e.source, e.target, graph.Knowledge, nil)
			if err != nil {
				return err
			}
			edge.Attrs = Normal(weights[i], 0.1).ToAttrs()
		}
	}

	m.compiled = true
	m.g.Freeze()
	return nil
}

// resolveWeights implements the normalization rule from spec.md §4.6: all
// unweighted -> uniform 1/N; all weighted -> normalize to sum 1; mixed and
// strict -> error; mixed and non-strict -> unweighted edges take the mean
// of the specified weights, then normalize.
func resolveWeights(target string, edges []pendingEdge, strict bool) ([]float64, error) {
	n := len(edges)
	if n == 0 {
		return nil, nil
	}
	specified := 0
	sum := 0.0
	for _, e := range edges {
		if e.weight != nil {
			specified++
			sum += *e.weight
		}
	}

	raw := make([]float64, n)
	switch {
	case specified == 0:
		for i := range raw {
			raw[i] = 1.0
		}
	case specified == n:
		for i, e := range edges {
			raw[i] = *e.weight
		}
	case strict:
		return nil, pkgerrors.Invariant(
			"knowledge edges into %q mix weighted and unweighted auto distributions under strict mode", target)
	default:
		mean := sum / float64(specified)
		for i, e := range edges {
			if e.weight != nil {
				raw[i] = *e.weight
			} else {
				raw[i] = mean
			}
		}
	}

	total := 0.0
	for _, w := range raw {
		total += w
	}
	out := make([]float64, n)
	if total == 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out, nil
	}
	for i, w := range raw {
		out[i] = w / total
	}
	return out, nil
}

// IsCompiled reports whether Compile has run.
func (m *Manager) IsCompiled() bool { return m.compiled }

// Stats summarizes pending and compiled state, for diagnostics (C9).
type Stats struct {
	Compiled          bool
	PendingTargets    int
	PendingTotalEdges int
}

// Stats reports the current pending/compiled state of the manager.
func (m *Manager) Stats() Stats {
	total := 0
	for _, edges := range m.pending {
		total += len(edges)
	}
	return Stats{Compiled: m.compiled, PendingTargets: len(m.pending), PendingTotalEdges: total}
}
