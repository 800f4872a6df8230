package scene

// Islands groups the vertices used by faces into connected components
// (loose parts). Each component lists its vertex indices; components are
// ordered by their lowest vertex index. Vertices no face uses are skipped.
func (m *Mesh) Islands() [][]int {
	if len(m.Verts) == 0 || len(m.Faces) == 0 {
		return nil
	}

	// Build adjacency along face edges
	adj := make(map[int][]int)
	for _, f := range m.Faces {
		n := len(f.V)
		for a := 0; a < n; a++ {
			va, vb := f.V[a], f.V[(a+1)%n]
			if va < 0 || va >= len(m.Verts) || vb < 0 || vb >= len(m.Verts) {
				continue
			}
			adj[va] = append(adj[va], vb)
			adj[vb] = append(adj[vb], va)
		}
	}

	// DFS connected components
	visited := make([]bool, len(m.Verts))
	var components [][]int
	for v := range m.Verts {
		if visited[v] || len(adj[v]) == 0 {
			continue
		}
		comp := []int{}
		stack := []int{v}
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[curr] {
				continue
			}
			visited[curr] = true
			comp = append(comp, curr)
			for _, nb := range adj[curr] {
				if !visited[nb] {
					stack = append(stack, nb)
				}
			}
		}
		components = append(components, comp)
	}
	return components
}
