package scoring

import (
	"sort"

	"github.com/iqrah/graphkg/internal/graph"
)

// Scored pairs a node id with a score, for top-N reporting.
type Scored struct {
	NodeID string
	Score  float64
}

// TopFoundational returns the n highest foundational_score nodes, sorted
// descending; ties break by node id for determinism.
func TopFoundational(g *graph.Graph, n int) []Scored {
	return topByAttr(g, "foundational_score", n)
}

// TopInfluential returns the n highest influence_score nodes, sorted
// descending; ties break by node id for determinism.
func TopInfluential(g *graph.Graph, n int) []Scored {
	return topByAttr(g, "influence_score", n)
}

func topByAttr(g *graph.Graph, attr string, n int) []Scored {
	all := make([]Scored, 0, g.NodeCount())
	for _, nd := range g.Nodes() {
		score, _ := nd.Attrs[attr].(float64)
		all = append(all, Scored{NodeID: nd.ID, Score: score})
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

// less reports whether a should sort before b: higher score first, ties
// broken by node id ascending.
func less(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.NodeID < b.NodeID
}
