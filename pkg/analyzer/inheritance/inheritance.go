// Package inheritance resolves the class hierarchy and computes the
// depth-of-inheritance-tree and number-of-children metrics.
package inheritance

import (
	"github.com/ferrith/augur/pkg/facts"
)

// Hierarchy is the resolved supertype graph over a set of classes.
// Supertypes that never appear as a declared class stay unresolved;
// they still contribute one level of depth but are not traversed.
type Hierarchy struct {
	parents  map[string][]string
	children map[string][]string
	known    map[string]bool
	cycles   []CycleDetected
}

// CycleDetected records an inheritance cycle found while computing
// depth. Cycles are reported as results, not errors, so that one broken
// hierarchy never aborts the analysis of the rest of the corpus.
type CycleDetected struct {
	// Path holds the class names in inheritance order, rotated to begin
	// at the lexicographically smallest member and closed by repeating
	// it at the end.
	Path []string `json:"path"`
}

// NewHierarchy builds the hierarchy from extracted class facts.
func NewHierarchy(classes []facts.ClassFact) *Hierarchy {
	h := &Hierarchy{
		parents:  make(map[string][]string, len(classes)),
		children: make(map[string][]string),
		known:    make(map[string]bool, len(classes)),
	}
	for _, c := range classes {
		h.known[c.Name] = true
	}
	for _, c := range classes {
		for _, sup := range c.Supertypes {
			h.parents[c.Name] = append(h.parents[c.Name], sup)
			if h.known[sup] {
				h.children[sup] = append(h.children[sup], c.Name)
			}
		}
	}
	return h
}

// DIT returns the depth of the inheritance tree for the named class:
// the length of the longest ancestor chain. A root class has depth 0.
// An unresolved supertype counts as one level without further
// traversal. A cycle terminates its branch at the current path length
// and is recorded on the hierarchy.
func (h *Hierarchy) DIT(name string) int {
	return h.depth(name, nil)
}

func (h *Hierarchy) depth(name string, path []string) int {
	path = append(path, name)

	max := 0
	for _, sup := range h.parents[name] {
		if i := indexOf(path, sup); i >= 0 {
			h.recordCycle(path[i:])
			continue
		}
		var d int
		if h.known[sup] {
			d = 1 + h.depth(sup, path)
		} else {
			// External supertype, e.g. a framework base class.
			d = 1
		}
		if d > max {
			max = d
		}
	}
	return max
}

// recordCycle stores the cycle members, collected in traversal order.
// The path is rotated so the smallest name leads, which makes the same
// cycle identical no matter which class the traversal entered from.
func (h *Hierarchy) recordCycle(members []string) {
	min := 0
	for i, n := range members {
		if n < members[min] {
			min = i
		}
	}
	path := make([]string, 0, len(members)+1)
	path = append(path, members[min:]...)
	path = append(path, members[:min]...)
	path = append(path, path[0])

	for _, c := range h.cycles {
		if equalPaths(c.Path, path) {
			return
		}
	}
	h.cycles = append(h.cycles, CycleDetected{Path: path})
}

func indexOf(s []string, v string) int {
	for i, n := range s {
		if n == v {
			return i
		}
	}
	return -1
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NOC returns the number of direct subclasses of the named class.
func (h *Hierarchy) NOC(name string) int {
	return len(h.children[name])
}

// Children returns the direct subclasses of the named class.
func (h *Hierarchy) Children(name string) []string {
	return h.children[name]
}

// Parents returns the declared supertypes of the named class, resolved
// or not.
func (h *Hierarchy) Parents(name string) []string {
	return h.parents[name]
}

// Cycles returns the inheritance cycles discovered so far. Call after
// computing DIT for every class of interest.
func (h *Hierarchy) Cycles() []CycleDetected {
	return h.cycles
}
