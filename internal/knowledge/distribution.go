// Package knowledge implements the knowledge-edge layer (C6): axis legality,
// weight-distribution descriptors, deferred "auto" weight resolution, and
// Gaussian contextual windows, grounded on original_source's
// graph/knowledge.py (Distribution, KnowledgeAxis, NodeType axis-legality,
// KnowledgeEdgeManager).
package knowledge

import "github.com/iqrah/graphkg/internal/graph"

// Axis is one of the six named knowledge-propagation dimensions.
type Axis string

const (
	Memorization           Axis = "memorization"
	Translation            Axis = "translation"
	Tafsir                 Axis = "tafsir"
	Tajweed                Axis = "tajweed"
	ContextualMemorization Axis = "contextual_memorization"
	Meaning                Axis = "meaning"
)

// legalAxes is the axis-legality table from spec.md §3.4.
var legalAxes = map[graph.NodeType]map[Axis]struct{}{
	graph.TypeChapter: {Memorization: {}, Translation: {}, Tafsir: {}},
	graph.TypeVerse: {
		Memorization: {}, Translation: {}, Tafsir: {}, Tajweed: {}, ContextualMemorization: {},
	},
	graph.TypeWordInstance: {
		Memorization: {}, Translation: {}, Tajweed: {}, ContextualMemorization: {},
	},
	graph.TypeWord:  {Translation: {}},
	graph.TypeLemma: {Translation: {}},
	graph.TypeRoot:  {Meaning: {}},
}

// Legal reports whether axis may be attached to a node of the given
// underlying (non-knowledge) type.
func Legal(t graph.NodeType, axis Axis) bool {
	axes, ok := legalAxes[t]
	if !ok {
		return false
	}
	_, ok = axes[axis]
	return ok
}

// DistKind is the closed sum-type tag for weight-distribution descriptors.
type DistKind string

const (
	DistNormal   DistKind = "normal"
	DistBeta     DistKind = "beta"
	DistConstant DistKind = "constant"
	DistAuto     DistKind = "auto"
)

// Distribution is a tagged union over the four weight-descriptor variants
// (spec.md §3.4). Only the fields relevant to Kind are meaningful.
type Distribution struct {
	Kind DistKind

	M, S float64 // normal
	A, B float64 // beta

	Weight          float64 // constant / auto (resolved relative weight)
	ProbabilityLike bool    // constant; interpretation of Weight

	RelativeWeight *float64 // auto; nil means "unweighted" until compile
}

// Normal constructs a Normal(m, s) distribution.
func Normal(m, s float64) Distribution { return Distribution{Kind: DistNormal, M: m, S: s} }

// Beta constructs a Beta(a, b) distribution.
func Beta(a, b float64) Distribution { return Distribution{Kind: DistBeta, A: a, B: b} }

// Constant constructs a Constant(weight) distribution. FromAttrs reads an
// attribute map with no probability_like key as probability-like (true).
func Constant(weight float64, probabilityLike bool) Distribution {
	return Distribution{Kind: DistConstant, Weight: weight, ProbabilityLike: probabilityLike}
}

// Auto constructs a deferred Auto distribution with an optional relative
// weight; nil means unweighted.
func Auto(relativeWeight *float64) Distribution {
	return Distribution{Kind: DistAuto, RelativeWeight: relativeWeight}
}

// AutoWeight is a convenience constructor for a weighted Auto distribution.
func AutoWeight(w float64) Distribution {
	return Auto(&w)
}

// ToAttrs serializes the descriptor into the edge attribute map shape used
// by the graph layer (dist, m, s, a, b, weight, probability_like). C10's
// export whitelist carries all of these keys except probability_like.
func (d Distribution) ToAttrs() map[string]any {
	attrs := map[string]any{"dist": string(d.Kind)}
	switch d.Kind {
	case DistNormal:
		attrs["m"] = d.M
		attrs["s"] = d.S
	case DistBeta:
		attrs["a"] = d.A
		attrs["b"] = d.B
	case DistConstant:
		attrs["weight"] = d.Weight
		attrs["probability_like"] = d.ProbabilityLike
	case DistAuto:
		if d.RelativeWeight != nil {
			attrs["weight"] = *d.RelativeWeight
		}
	}
	return attrs
}

// FromAttrs reconstructs a Distribution from an edge attribute map, the
// inverse of ToAttrs, used when re-reading a graph built elsewhere (e.g.
// after CBOR import).
func FromAttrs(attrs map[string]any) (Distribution, bool) {
	kind, ok := attrs["dist"].(string)
	if !ok {
		return Distribution{}, false
	}
	switch DistKind(kind) {
	case DistNormal:
		return Normal(asFloat(attrs["m"]), asFloat(attrs["s"])), true
	case DistBeta:
		return Beta(asFloat(attrs["a"]), asFloat(attrs["b"])), true
	case DistConstant:
		probLike, ok := attrs["probability_like"].(bool)
		if !ok {
			probLike = true
		}
		return Constant(asFloat(attrs["weight"]), probLike), true
	case DistAuto:
		if w, ok := attrs["weight"]; ok {
			f := asFloat(w)
			return Auto(&f), true
		}
		return Auto(nil), true
	default:
		return Distribution{}, false
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}
