// Package scoring computes foundational and influence importance scores
// over a compiled knowledge graph via personalized PageRank, grounded on
// original_source's graph/scoring.py (KnowledgeGraphScoring) for the
// algorithm and az-ai-labs-az-lang-nlp/keywords/textrank.go for the
// idiomatic Go shape of the power iteration (index-based adjacency,
// maxDelta convergence, sorted/insertion-order iteration for determinism).
package scoring

import (
	"math"
	"sort"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/knowledge"
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// defaultNodeTypeWeights mirrors DEFAULT_NODE_TYPE_WEIGHTS: higher
// personalization mass for more fundamental node types.
var defaultNodeTypeWeights = map[graph.NodeType]float64{
	graph.TypeRoot:         3.0,
	graph.TypeLemma:        2.5,
	graph.TypeChapter:      2.0,
	graph.TypeVerse:        1.5,
	graph.TypeWord:         1.0,
	graph.TypeWordInstance: 0.5,
}

// Options configures a scoring run (spec.md §4.8).
type Options struct {
	Alpha                   float64
	MaxIterations           int
	PersonalizeFoundational bool
	PersonalizeInfluence    bool
	NodeTypeWeights         map[graph.NodeType]float64
}

// DefaultOptions returns alpha=0.85, max_iter=50000, foundational
// personalized and influence un-personalized (spec.md §9 resolved open
// question: the two scores are intentionally asymmetric).
func DefaultOptions() Options {
	return Options{
		Alpha:                   0.85,
		MaxIterations:           50000,
		PersonalizeFoundational: true,
		PersonalizeInfluence:    false,
		NodeTypeWeights:         defaultNodeTypeWeights,
	}
}

type weightedEdge struct {
	node   int
	weight float64
}

// Calculate computes foundational_score and influence_score for every node
// in g and writes them into each node's Attrs in place. The scoring graph
// is the full node/edge set of g, not knowledge edges alone: a dependency
// edge carries no "dist" attribute and is treated as an implicit weight of
// 1.0, exactly as original_source's _expected_edge_weight default case does.
func Calculate(g *graph.Graph, opts Options) error {
	if g.EdgeCount() == 0 {
		return pkgerrors.Invariant("cannot score graph with no edges")
	}

	nodes := g.Nodes()
	n := len(nodes)
	indexOf := make(map[string]int, n)
	for i, nd := range nodes {
		indexOf[nd.ID] = i
	}

	outAdj := make([][]weightedEdge, n) // outAdj[u] = successors of u
	inAdj := make([][]weightedEdge, n)  // inAdj[v] = predecessors of v
	outWeight := make([]float64, n)
	inWeight := make([]float64, n)

	for _, e := range g.Edges() {
		w := expectedWeight(e.Attrs)
		if w <= 0 {
			continue
		}
		u, ok := indexOf[e.From]
		if !ok {
			continue
		}
		v, ok := indexOf[e.To]
		if !ok {
			continue
		}
		outAdj[u] = append(outAdj[u], weightedEdge{node: v, weight: w})
		inAdj[v] = append(inAdj[v], weightedEdge{node: u, weight: w})
		outWeight[u] += w
		inWeight[v] += w
	}

	weights := opts.NodeTypeWeights
	if weights == nil {
		weights = defaultNodeTypeWeights
	}
	personalized := personalizationVector(nodes, weights)
	uniform := uniformVector(n)

	persForward := uniform
	if opts.PersonalizeFoundational {
		persForward = personalized
	}
	persReverse := uniform
	if opts.PersonalizeInfluence {
		persReverse = personalized
	}

	foundational := pagerank(n, inAdj, outWeight, persForward, opts.Alpha, opts.MaxIterations)
	influence := pagerank(n, outAdj, inWeight, persReverse, opts.Alpha, opts.MaxIterations)

	fNorm := log01Normalize(foundational)
	iNorm := log01Normalize(influence)

	for i, nd := range nodes {
		nd.Attrs["foundational_score"] = fNorm[i]
		nd.Attrs["influence_score"] = iNorm[i]
	}
	return nil
}

// expectedWeight projects a weight-distribution descriptor down to a
// single expected edge weight, matching original_source's
// _expected_edge_weight branch-for-branch. Edges with no "dist" attribute
// (dependency edges) default to 1.0.
func expectedWeight(attrs map[string]any) float64 {
	d, ok := knowledge.FromAttrs(attrs)
	if !ok {
		return 1.0
	}
	switch d.Kind {
	case knowledge.DistNormal:
		return clip01(d.M)
	case knowledge.DistBeta:
		denom := d.A + d.B
		if denom > 0 {
			return d.A / denom
		}
		return 0.0
	case knowledge.DistConstant:
		if d.ProbabilityLike {
			return clip01(d.Weight)
		}
		return math.Max(0, d.Weight)
	case knowledge.DistAuto:
		w := 1.0
		if d.RelativeWeight != nil {
			w = *d.RelativeWeight
		}
		return clip01(w)
	default:
		return 1.0
	}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// personalizationVector weights each node by its type, normalized to sum
// to 1; falls back to a uniform vector if every weight is zero.
func personalizationVector(nodes []*graph.Node, weights map[graph.NodeType]float64) []float64 {
	out := make([]float64, len(nodes))
	total := 0.0
	for i, nd := range nodes {
		w, ok := weights[nd.Type]
		if !ok {
			w = 1.0
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			w = 0
		}
		out[i] = w
		total += w
	}
	if total == 0 {
		return uniformVector(len(nodes))
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func uniformVector(n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	u := 1.0 / float64(n)
	for i := range out {
		out[i] = u
	}
	return out
}

// pagerank runs personalized PageRank power iteration. predecessors[v]
// lists the (source, weight) pairs of edges feeding into v in the graph
// being scored; divisor[u] is the total outgoing weight of u in that same
// graph, used to normalize u's contribution to each successor. Calling
// this once with (inAdj, outWeight) scores the forward/foundational
// graph; calling it again with (outAdj, inWeight) scores the
// reverse/influence graph, without needing to materialize a second
// adjacency structure.
func pagerank(n int, predecessors [][]weightedEdge, divisor []float64, pers []float64, alpha float64, maxIter int) []float64 {
	if n == 0 {
		return nil
	}
	scores := uniformVector(n)
	tol := 1.0e-10 * float64(n)

	for iter := 0; iter < maxIter; iter++ {
		danglingMass := 0.0
		for u := 0; u < n; u++ {
			if divisor[u] == 0 {
				danglingMass += scores[u]
			}
		}

		next := make([]float64, n)
		for v := 0; v < n; v++ {
			sum := 0.0
			for _, e := range predecessors[v] {
				if divisor[e.node] > 0 {
					sum += scores[e.node] * e.weight / divisor[e.node]
				}
			}
			next[v] = (1-alpha)*pers[v] + alpha*(sum+danglingMass*pers[v])
		}

		err := 0.0
		for v := 0; v < n; v++ {
			err += math.Abs(next[v] - scores[v])
		}
		scores = next
		if err < tol {
			break
		}
	}
	return scores
}

// log01Normalize applies original_source's log01 scheme: clip to >= 0,
// auto-scale by 1/median of the positive values (or 1e9 if none are
// positive), log1p, then min-max normalize to [0, 1].
func log01Normalize(arr []float64) []float64 {
	out := make([]float64, len(arr))
	if len(arr) == 0 {
		return out
	}

	clipped := make([]float64, len(arr))
	var positives []float64
	for i, v := range arr {
		c := math.Max(0, v)
		clipped[i] = c
		if c > 0 {
			positives = append(positives, c)
		}
	}

	med := median(positives)
	scale := 1.0e9
	if med > 0 {
		scale = 1.0 / med
	}

	x := make([]float64, len(clipped))
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for i, c := range clipped {
		x[i] = math.Log1p(c * scale)
		if x[i] < xmin {
			xmin = x[i]
		}
		if x[i] > xmax {
			xmax = x[i]
		}
	}

	denom := xmax - xmin
	if !isFinite(xmin) || !isFinite(denom) || denom == 0 {
		return out // all zeros
	}
	for i, v := range x {
		out[i] = (v - xmin) / denom
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
