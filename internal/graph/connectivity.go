package graph

// WeaklyConnectedComponents partitions the node set into weakly connected
// components (treating every edge as undirected), returning the number of
// components found. Used by C9 to report connectivity as a warning, never
// an error (spec.md §3.4 / §4.9).
func (g *Graph) WeaklyConnectedComponents() int {
	visited := make(map[string]bool, len(g.nodeOrder))
	components := 0

	for _, id := range g.nodeOrder {
		if visited[id] {
			continue
		}
		components++
		g.bfsUndirected(id, visited)
	}
	return components
}

func (g *Graph) bfsUndirected(start string, visited map[string]bool) {
	queue := []string{start}
	visited[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.out[cur] {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
		for _, e := range g.in[cur] {
			if !visited[e.From] {
				visited[e.From] = true
				queue = append(queue, e.From)
			}
		}
	}
}
