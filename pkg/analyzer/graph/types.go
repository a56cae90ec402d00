package graph

import (
	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/parser"
)

// Node is one class in the dependency graph.
type Node struct {
	ID             string          `json:"id"`
	QualifiedName  string          `json:"qualified_name"`
	File           string          `json:"file"`
	Package        string          `json:"package"`
	Language       parser.Language `json:"language"`
	Role           Pattern         `json:"role"`
	RoleConfidence float64         `json:"role_confidence"`
}

// Edge is a directed coupling relation between two classes. Strength
// is the reference occurrence count, capped so that one chatty pair
// cannot dominate visualizations or impact scoring.
type Edge struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Kind     facts.RefKind `json:"kind"`
	Strength int           `json:"strength"`
}

// CycleSeverity ranks how damaging a dependency cycle is.
type CycleSeverity string

const (
	CycleSeverityHigh   CycleSeverity = "HIGH"
	CycleSeverityMedium CycleSeverity = "MEDIUM"
)

// DependencyCycle is a strongly connected component of size > 1 over
// the structural (inheritance/composition) edge set.
type DependencyCycle struct {
	Nodes    []string      `json:"nodes"`
	Severity CycleSeverity `json:"severity"`
}

// PackageStats aggregates graph properties per package.
type PackageStats struct {
	Name          string  `json:"name"`
	Classes       int     `json:"classes"`
	AvgLCOM       float64 `json:"avg_lcom"`
	InternalEdges int     `json:"internal_edges"`
	IncomingEdges int     `json:"incoming_edges"`
	OutgoingEdges int     `json:"outgoing_edges"`
	// Instability is Ce/(Ca+Ce) in Martin's sense, 0 for isolated
	// packages.
	Instability float64 `json:"instability"`
}

// DependencyGraph is the project-wide class dependency structure.
type DependencyGraph struct {
	Nodes    []Node            `json:"nodes"`
	Edges    []Edge            `json:"edges"`
	Cycles   []DependencyCycle `json:"cycles"`
	Packages []PackageStats    `json:"packages"`
}

// Node returns the node with the given id, or nil.
func (g *DependencyGraph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Incoming returns the edges pointing at the given node.
func (g *DependencyGraph) Incoming(id string) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}
