// Package graph assembles the project-wide class dependency graph,
// detects structural cycles and infers architectural roles.
package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ferrith/augur/pkg/facts"
)

// maxEdgeStrength caps the per-edge occurrence count.
const maxEdgeStrength = 10

// Build constructs the dependency graph from extracted classes and the
// references found by the coupling calculator. metrics may be nil;
// package LCOM averages are then reported as zero.
func Build(classes []facts.ClassFact, refs []facts.Reference, metrics map[string]facts.CkMetrics) *DependencyGraph {
	g := &DependencyGraph{}

	known := make(map[string]facts.ClassFact, len(classes))
	for _, c := range classes {
		known[c.Name] = c
	}

	for _, c := range classes {
		role, confidence := Infer(c, known)
		g.Nodes = append(g.Nodes, Node{
			ID:             c.Name,
			QualifiedName:  c.QualifiedName,
			File:           c.File,
			Package:        c.Package,
			Language:       c.Language,
			Role:           role,
			RoleConfidence: confidence,
		})
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })

	for _, r := range refs {
		if _, ok := known[r.From]; !ok {
			continue
		}
		if _, ok := known[r.To]; !ok {
			continue
		}
		strength := r.Count
		if strength > maxEdgeStrength {
			strength = maxEdgeStrength
		}
		g.Edges = append(g.Edges, Edge{
			From:     r.From,
			To:       r.To,
			Kind:     r.Kind,
			Strength: strength,
		})
	}

	g.Cycles = detectCycles(g)
	g.Packages = packageStats(classes, g.Edges, metrics)
	return g
}

// detectCycles finds strongly connected components over the edges that
// represent structure (inheritance and composition). Usage and
// association edges are too noisy under textual matching to call a
// cycle on.
func detectCycles(g *DependencyGraph) []DependencyCycle {
	ids := make(map[string]int64, len(g.Nodes))
	names := make(map[int64]string, len(g.Nodes))
	directed := simple.NewDirectedGraph()
	for i, n := range g.Nodes {
		id := int64(i)
		ids[n.ID] = id
		names[id] = n.ID
		directed.AddNode(simple.Node(id))
	}

	structural := make(map[[2]string]facts.RefKind)
	for _, e := range g.Edges {
		if e.Kind != facts.RefInheritance && e.Kind != facts.RefComposition {
			continue
		}
		if e.From == e.To {
			continue
		}
		directed.SetEdge(simple.Edge{F: simple.Node(ids[e.From]), T: simple.Node(ids[e.To])})
		structural[[2]string{e.From, e.To}] = e.Kind
	}

	var cycles []DependencyCycle
	for _, scc := range topo.TarjanSCC(directed) {
		if len(scc) <= 1 {
			continue
		}
		members := make([]string, 0, len(scc))
		inSCC := make(map[string]bool, len(scc))
		for _, n := range scc {
			name := names[n.ID()]
			members = append(members, name)
			inSCC[name] = true
		}
		sort.Strings(members)

		severity := CycleSeverityMedium
		for pair, kind := range structural {
			if kind == facts.RefInheritance && inSCC[pair[0]] && inSCC[pair[1]] {
				severity = CycleSeverityHigh
				break
			}
		}
		cycles = append(cycles, DependencyCycle{Nodes: members, Severity: severity})
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Nodes[0] < cycles[j].Nodes[0] })
	return cycles
}

func packageStats(classes []facts.ClassFact, edges []Edge, metrics map[string]facts.CkMetrics) []PackageStats {
	pkgOf := make(map[string]string, len(classes))
	byPkg := make(map[string]*PackageStats)
	for _, c := range classes {
		pkgOf[c.Name] = c.Package
		p := byPkg[c.Package]
		if p == nil {
			p = &PackageStats{Name: c.Package}
			byPkg[c.Package] = p
		}
		p.Classes++
		if metrics != nil {
			p.AvgLCOM += float64(metrics[c.Name].LCOM)
		}
	}

	for _, e := range edges {
		from, to := pkgOf[e.From], pkgOf[e.To]
		if from == to {
			byPkg[from].InternalEdges++
			continue
		}
		byPkg[from].OutgoingEdges++
		byPkg[to].IncomingEdges++
	}

	out := make([]PackageStats, 0, len(byPkg))
	for _, p := range byPkg {
		if p.Classes > 0 {
			p.AvgLCOM /= float64(p.Classes)
		}
		if p.IncomingEdges+p.OutgoingEdges > 0 {
			p.Instability = float64(p.OutgoingEdges) / float64(p.IncomingEdges+p.OutgoingEdges)
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
