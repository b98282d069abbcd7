// Package nodemanager builds type/axis/metadata indices over a graph and
// exposes the query operations C7 composes on top of, grounded on
// original_source's graph/node_manager.py.
package nodemanager

import (
	"sort"
	"strings"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/ids"
)

// Manager scans a graph once at construction time and builds three
// indices: by_type, by_axis, by_metadata (spec.md §4.5).
type Manager struct {
	g *graph.Graph

	byType     map[graph.NodeType]map[string]struct{}
	byAxis     map[string]map[string]struct{}
	byMetadata map[string]map[string]map[string]struct{} // key -> value -> ids
}

// New scans g and builds the indices.
func New(g *graph.Graph) *Manager {
	m := &Manager{
		g:          g,
		byType:     make(map[graph.NodeType]map[string]struct{}),
		byAxis:     make(map[string]map[string]struct{}),
		byMetadata: make(map[string]map[string]map[string]struct{}),
	}
	m.buildIndices()
	return m
}

func (m *Manager) buildIndices() {
	for _, n := range m.g.Nodes() {
		m.indexByType(n.Type, n.ID)

		if axis, ok := n.Attrs["knowledge_axis"].(string); ok && axis != "" {
			m.indexSet(m.byAxis, axis, n.ID)
		}

		for key, val := range n.Attrs {
			switch val.(type) {
			case string, int, int64, float64, bool:
				scalar := scalarKey(val)
				if _, ok := m.byMetadata[key]; !ok {
					m.byMetadata[key] = make(map[string]map[string]struct{})
				}
				m.indexSet(m.byMetadata[key], scalar, n.ID)
			}
		}
	}
}

func (m *Manager) indexByType(t graph.NodeType, id string) {
	if _, ok := m.byType[t]; !ok {
		m.byType[t] = make(map[string]struct{})
	}
	m.byType[t][id] = struct{}{}
}

func (m *Manager) indexSet(idx map[string]map[string]struct{}, key, id string) {
	if _, ok := idx[key]; !ok {
		idx[key] = make(map[string]struct{})
	}
	idx[key][id] = struct{}{}
}

func scalarKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return sortableFloat(v)
	}
}

func sortableFloat(v any) string {
	switch t := v.(type) {
	case int:
		return itoa(int64(t))
	case int64:
		return itoa(t)
	case float64:
		return ftoa(t)
	default:
		return ""
	}
}

// NodesByType returns every node id of the given type, sorted for
// deterministic output.
func (m *Manager) NodesByType(t graph.NodeType) []string {
	return sortedKeys(m.byType[t])
}

// NodesByAxis returns every node id carrying the given knowledge axis,
// sorted.
func (m *Manager) NodesByAxis(axis string) []string {
	return sortedKeys(m.byAxis[axis])
}

// NodesByMetadata returns nodes whose attribute key equals value. If value
// is nil, returns the union across all values of key.
func (m *Manager) NodesByMetadata(key string, value any) []string {
	byValue, ok := m.byMetadata[key]
	if !ok {
		return nil
	}
	if value == nil {
		union := make(map[string]struct{})
		for _, ids := range byValue {
			for id := range ids {
				union[id] = struct{}{}
			}
		}
		return sortedKeys(union)
	}
	return sortedKeys(byValue[scalarKey(value)])
}

// VerseWords returns the successors of verseID restricted to word_instance
// nodes, sorted by position.
func (m *Manager) VerseWords(verseID string) []string {
	var out []string
	for _, e := range m.g.Out(verseID, graph.Dependency) {
		if n, ok := m.g.Node(e.To); ok && n.Type == graph.TypeWordInstance {
			out = append(out, e.To)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return positionOf(out[i]) < positionOf(out[j])
	})
	return out
}

// ChapterVerses returns the successors of chapterID restricted to verse
// nodes, sorted by verse number.
func (m *Manager) ChapterVerses(chapterID string) []string {
	var out []string
	for _, e := range m.g.Out(chapterID, graph.Dependency) {
		if n, ok := m.g.Node(e.To); ok && n.Type == graph.TypeVerse {
			out = append(out, e.To)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return verseNumberOf(out[i]) < verseNumberOf(out[j])
	})
	return out
}

// Related returns the filtered successor set of nodeID: optionally
// restricted to successorType and/or edgeType.
func (m *Manager) Related(nodeID string, successorType graph.NodeType, edgeType graph.EdgeType) []string {
	var typFilter []graph.EdgeType
	if edgeType != "" {
		typFilter = []graph.EdgeType{edgeType}
	}
	var out []string
	for _, e := range m.g.Out(nodeID, typFilter...) {
		if successorType != "" {
			if n, ok := m.g.Node(e.To); !ok || n.Type != successorType {
				continue
			}
		}
		out = append(out, e.To)
	}
	return out
}

func positionOf(wordInstanceID string) int {
	key, err := ids.WordInstanceKey(wordInstanceID)
	if err != nil {
		return 0
	}
	parts := strings.Split(key, ":")
	return atoi(parts[2])
}

func verseNumberOf(verseID string) int {
	key, err := ids.VerseKey(verseID)
	if err != nil {
		return 0
	}
	parts := strings.Split(key, ":")
	return atoi(parts[1])
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
