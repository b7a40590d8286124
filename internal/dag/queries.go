package dag

// DependenciesOf returns the direct dependencies of the named node in
// lexical order. Unknown nodes yield nil.
func (g *Graph) DependenciesOf(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}
	return sortedKeys(n.deps)
}

// DependentsOf returns the direct dependents of the named node in lexical
// order. Unknown nodes yield nil.
func (g *Graph) DependentsOf(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}
	return sortedKeys(n.dependents)
}

// TransitiveDependenciesOf returns every ancestor of the named node,
// breadth-first over dependency edges, in lexical order.
func (g *Graph) TransitiveDependenciesOf(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	queue := sortedKeys(n.deps)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, dup := seen[cur]; dup {
			continue
		}
		seen[cur] = struct{}{}
		queue = append(queue, sortedKeys(g.nodes[cur].deps)...)
	}
	return sortedKeys(seen)
}
