// Package cohesion computes LCOM as the number of connected components
// in the method graph: two methods are connected when they use at least
// one common field.
package cohesion

import "github.com/ferrith/augur/pkg/facts"

// LCOM returns the lack-of-cohesion value for a class.
//
// A fully cohesive class yields 1. Classes with at most one method or no
// fields yield 0: with no method pair or no shared state there is no
// basis for disconnection.
func LCOM(class *facts.ClassFact) int {
	if len(class.Methods) <= 1 || len(class.Fields) == 0 {
		return 0
	}

	declared := make(map[string]bool, len(class.Fields))
	for _, f := range class.Fields {
		declared[f.Name] = true
	}

	// Restrict usage sets to fields declared on the class; inherited or
	// foreign member accesses don't bind methods together.
	n := len(class.Methods)
	used := make([]map[string]bool, n)
	for i, m := range class.Methods {
		used[i] = make(map[string]bool, len(m.UsedFields))
		for _, f := range m.UsedFields {
			if declared[f] {
				used[i][f] = true
			}
		}
	}

	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sharesField(used[i], used[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	return countComponents(n, adj)
}

// sharesField reports whether two usage sets intersect.
func sharesField(a, b map[string]bool) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for f := range a {
		if b[f] {
			return true
		}
	}
	return false
}

// countComponents counts connected components with an iterative DFS.
func countComponents(n int, adj [][]int) int {
	visited := make([]bool, n)
	components := 0
	stack := make([]int, 0, n)

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		components++
		stack = append(stack[:0], i)
		visited[i] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, u := range adj[v] {
				if !visited[u] {
					visited[u] = true
					stack = append(stack, u)
				}
			}
		}
	}

	return components
}
