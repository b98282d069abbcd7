// Package stats computes the machine-readable graph statistics/validation
// record described by spec.md §4.9, grounded on original_source's
// graph/scoring.py (top-N, degree/score summary shape) and the validation
// checklist spelled out directly in the spec.
package stats

import (
	"math"
	"sort"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/knowledge"
	"github.com/iqrah/graphkg/internal/scoring"
)

// ScoreSummary is a five-number summary of a score distribution.
type ScoreSummary struct {
	Min, Mean, Median, Max, StdDev float64
}

// DegreeSummary is a four-number summary of in- or out-degree.
type DegreeSummary struct {
	Min, Mean, Median, Max int
}

// Severity distinguishes a validation error (fails the run) from a
// warning (reported, does not fail).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result.
type Finding struct {
	Severity Severity
	Message  string
}

// Report is the full statistics/validation record.
type Report struct {
	NodeCountByType map[graph.NodeType]int
	EdgeCountByType map[graph.EdgeType]int
	EdgeCountByAxis map[string]int
	EdgeCountByDist map[knowledge.DistKind]int

	Foundational ScoreSummary
	Influence    ScoreSummary

	TopFoundational []scoring.Scored
	TopInfluential  []scoring.Scored

	InDegree  DegreeSummary
	OutDegree DegreeSummary

	WeaklyConnected           bool
	WeaklyConnectedComponents int

	WordsPerVerse float64

	Findings []Finding
}

// HasErrors reports whether the report contains any error-severity
// finding (a report with only warnings is still a pass).
func (r Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Compute builds a full Report over g, which must already carry
// foundational_score/influence_score (C8 must run first).
func Compute(g *graph.Graph, topN int) Report {
	r := Report{
		NodeCountByType: make(map[graph.NodeType]int),
		EdgeCountByType: make(map[graph.EdgeType]int),
		EdgeCountByAxis: make(map[string]int),
		EdgeCountByDist: make(map[knowledge.DistKind]int),
	}

	var foundationalScores, influenceScores []float64
	inDegree := make(map[string]int)
	outDegree := make(map[string]int)

	for _, nd := range g.Nodes() {
		r.NodeCountByType[nd.Type]++
		if nd.Type == "" {
			r.Findings = append(r.Findings, Finding{SeverityError, "node " + nd.ID + " has no type"})
		}
		if f, ok := nd.Attrs["foundational_score"].(float64); ok {
			foundationalScores = append(foundationalScores, f)
			if f < 0 || f > 1 {
				r.Findings = append(r.Findings, Finding{SeverityError, "foundational_score out of [0,1] on " + nd.ID})
			}
		}
		if i, ok := nd.Attrs["influence_score"].(float64); ok {
			influenceScores = append(influenceScores, i)
			if i < 0 || i > 1 {
				r.Findings = append(r.Findings, Finding{SeverityError, "influence_score out of [0,1] on " + nd.ID})
			}
		}
	}

	for _, e := range g.Edges() {
		r.EdgeCountByType[e.Type]++
		outDegree[e.From]++
		inDegree[e.To]++

		if e.Type == graph.Dependency {
			continue
		}
		d, ok := knowledge.FromAttrs(e.Attrs)
		if !ok {
			r.Findings = append(r.Findings, Finding{
				SeverityError, "edge " + e.From + "->" + e.To + " missing weight distribution",
			})
			continue
		}
		r.EdgeCountByDist[d.Kind]++
		if axis, ok := e.Attrs["knowledge_axis"].(string); ok {
			r.EdgeCountByAxis[axis]++
		} else if n, ok := g.Node(e.To); ok {
			if a, ok := n.Attrs["knowledge_axis"].(string); ok {
				r.EdgeCountByAxis[a]++
			}
		}
	}

	r.Foundational = summarize(foundationalScores)
	r.Influence = summarize(influenceScores)
	r.InDegree = summarizeDegree(degreeValues(inDegree, g))
	r.OutDegree = summarizeDegree(degreeValues(outDegree, g))

	r.TopFoundational = scoring.TopFoundational(g, topN)
	r.TopInfluential = scoring.TopInfluential(g, topN)

	r.WeaklyConnectedComponents = g.WeaklyConnectedComponents()
	r.WeaklyConnected = r.WeaklyConnectedComponents <= 1

	r.WordsPerVerse = wordsPerVerse(g)
	if r.WordsPerVerse > 0 && (r.WordsPerVerse < 15 || r.WordsPerVerse > 35) {
		r.Findings = append(r.Findings, Finding{
			SeverityWarning, "words-per-verse ratio out of expected [15,35] band",
		})
	}

	return r
}

func degreeValues(m map[string]int, g *graph.Graph) []int {
	out := make([]int, 0, g.NodeCount())
	for _, nd := range g.Nodes() {
		out = append(out, m[nd.ID])
	}
	return out
}

func wordsPerVerse(g *graph.Graph) float64 {
	verses := 0
	words := 0
	for _, nd := range g.Nodes() {
		switch nd.Type {
		case graph.TypeVerse:
			verses++
		case graph.TypeWordInstance:
			words++
		}
	}
	if verses == 0 {
		return 0
	}
	return float64(words) / float64(verses)
}

func summarize(vals []float64) ScoreSummary {
	if len(vals) == 0 {
		return ScoreSummary{}
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(sorted))

	return ScoreSummary{
		Min:    sorted[0],
		Mean:   mean,
		Median: medianFloat(sorted),
		Max:    sorted[len(sorted)-1],
		StdDev: math.Sqrt(variance),
	}
}

func medianFloat(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func summarizeDegree(vals []int) DegreeSummary {
	if len(vals) == 0 {
		return DegreeSummary{}
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}

	return DegreeSummary{
		Min:    sorted[0],
		Mean:   int(math.Round(float64(sum) / float64(len(sorted)))),
		Median: medianInt(sorted),
		Max:    sorted[len(sorted)-1],
	}
}

func medianInt(sorted []int) int {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
