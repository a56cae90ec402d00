package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ferrith/augur/pkg/analyzer/graph"
	"github.com/ferrith/augur/pkg/analyzer/impact"
	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/report"
)

// ProjectRenderable builds the full analyze report.
func ProjectRenderable(r *report.ProjectReport) *Report {
	summary := &Section{
		Title: "Summary",
		Content: fmt.Sprintf(
			"Classes: %d\nMethods: %d\nAvg WMC: %.1f\nAvg LCOM: %.1f\nDependency cycles: %d\nHigh risk classes: %d\nProject quality: %.1f/10",
			r.Summary.Classes, r.Summary.Methods, r.Summary.AvgWMC, r.Summary.AvgLCOM,
			r.Summary.Cycles, r.Summary.HighRiskCount, r.Project.Overall),
	}

	out := &Report{
		Title:    "Code Quality Analysis",
		Sections: []Renderable{summary, ClassTable(r, "risk")},
		Data:     r,
	}

	if len(r.Graph.Cycles) > 0 {
		out.Sections = append(out.Sections, cycleTable(r.Graph))
	}
	if len(r.Diagnostics) > 0 {
		out.Sections = append(out.Sections, diagnosticsSection(r.Diagnostics))
	}
	return out
}

// ClassTable renders the per-class CK metric table. sortBy selects the
// ordering column: risk (default), wmc, lcom, cbo, dit or name.
func ClassTable(r *report.ProjectReport, sortBy string) *Table {
	classes := append([]report.ClassAnalysis(nil), r.Classes...)
	sortClasses(classes, sortBy)

	rows := make([][]string, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%d", c.Metrics.WMC),
			fmt.Sprintf("%d", c.Metrics.DIT),
			fmt.Sprintf("%d", c.Metrics.NOC),
			fmt.Sprintf("%d", c.Metrics.CBO),
			fmt.Sprintf("%d", c.Metrics.RFC),
			fmt.Sprintf("%d", c.Metrics.LCOM),
			fmt.Sprintf("%.1f", c.Quality.Overall),
			string(c.Risk.Priority),
		})
	}

	return NewTable("Classes",
		[]string{"Class", "WMC", "DIT", "NOC", "CBO", "RFC", "LCOM", "Score", "Risk"},
		rows, nil, r.Classes)
}

func sortClasses(classes []report.ClassAnalysis, sortBy string) {
	less := func(i, j int) bool { return classes[i].Name < classes[j].Name }
	switch strings.ToLower(sortBy) {
	case "wmc":
		less = func(i, j int) bool { return classes[i].Metrics.WMC > classes[j].Metrics.WMC }
	case "lcom":
		less = func(i, j int) bool { return classes[i].Metrics.LCOM > classes[j].Metrics.LCOM }
	case "cbo":
		less = func(i, j int) bool { return classes[i].Metrics.CBO > classes[j].Metrics.CBO }
	case "dit":
		less = func(i, j int) bool { return classes[i].Metrics.DIT > classes[j].Metrics.DIT }
	case "risk":
		rank := map[string]int{"CRITICAL": 0, "HIGH": 1, "MEDIUM": 2, "LOW": 3}
		less = func(i, j int) bool {
			ri, rj := rank[string(classes[i].Risk.Priority)], rank[string(classes[j].Risk.Priority)]
			if ri != rj {
				return ri < rj
			}
			return classes[i].Quality.Overall < classes[j].Quality.Overall
		}
	}
	sort.SliceStable(classes, less)
}

func cycleTable(g *graph.DependencyGraph) *Table {
	rows := make([][]string, 0, len(g.Cycles))
	for _, c := range g.Cycles {
		rows = append(rows, []string{
			strings.Join(c.Nodes, " -> "),
			string(c.Severity),
		})
	}
	return NewTable("Dependency Cycles", []string{"Cycle", "Severity"}, rows, nil, g.Cycles)
}

func diagnosticsSection(diags []report.Diagnostic) *Section {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s: %s (%s)\n", d.Kind, d.Path, d.Message)
	}
	return &Section{Title: "Diagnostics", Content: strings.TrimRight(b.String(), "\n"), Data: diags}
}

// GraphRenderable builds the graph report: nodes, cycles, package
// stats.
func GraphRenderable(g *graph.DependencyGraph) *Report {
	nodeRows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeRows = append(nodeRows, []string{
			n.ID,
			n.Package,
			string(n.Role),
			fmt.Sprintf("%.2f", n.RoleConfidence),
		})
	}

	pkgRows := make([][]string, 0, len(g.Packages))
	for _, p := range g.Packages {
		pkgRows = append(pkgRows, []string{
			p.Name,
			fmt.Sprintf("%d", p.Classes),
			fmt.Sprintf("%.1f", p.AvgLCOM),
			fmt.Sprintf("%.2f", p.Instability),
		})
	}

	out := &Report{
		Title: "Dependency Graph",
		Sections: []Renderable{
			NewTable("Classes", []string{"Class", "Package", "Role", "Confidence"}, nodeRows, nil, g.Nodes),
			NewTable("Packages", []string{"Package", "Classes", "Avg LCOM", "Instability"}, pkgRows, nil, g.Packages),
		},
		Data: g,
	}
	if len(g.Cycles) > 0 {
		out.Sections = append(out.Sections, cycleTable(g))
	}
	return out
}

// Mermaid renders the graph as a mermaid flowchart.
func Mermaid(g *graph.DependencyGraph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, n := range g.Nodes {
		label := n.ID
		if n.Role != graph.PatternUnknown {
			label = fmt.Sprintf("%s[\"%s (%s)\"]", n.ID, n.ID, n.Role)
		}
		fmt.Fprintf(&b, "    %s\n", label)
	}
	for _, e := range g.Edges {
		arrow := "-->"
		if e.Kind == facts.RefInheritance {
			arrow = "==>"
		}
		fmt.Fprintf(&b, "    %s %s|%s| %s\n", e.From, arrow, e.Kind, e.To)
	}
	return b.String()
}

// ImpactRenderable builds the diff impact report.
func ImpactRenderable(a *impact.Analysis) *Report {
	summary := &Section{
		Title: "Impact Summary",
		Content: fmt.Sprintf(
			"Level: %s\nAffected classes: %d (%.1f%% of corpus)\nDirect classes: %d\nIndirect classes: %d\nDirect files: %d\nIndirect files: %d\nImprovements: %d\nRegressions: %d\nNet: %d",
			a.Level, a.Metrics.TotalAffected, a.Metrics.ImpactPercentage,
			len(a.Direct), len(a.Indirect), len(a.DirectFiles), len(a.IndirectFiles),
			a.Improvements, a.Regressions, a.Net),
	}

	out := &Report{
		Title:    "Diff Impact Analysis",
		Sections: []Renderable{summary},
		Data:     a,
	}

	if len(a.Indirect) > 0 {
		rows := make([][]string, 0, len(a.Indirect))
		for _, di := range a.Indirect {
			rows = append(rows, []string{
				di.Class,
				di.Via,
				string(di.Kind),
				string(di.Severity),
				fmt.Sprintf("%d", di.Distance),
			})
		}
		out.Sections = append(out.Sections,
			NewTable("Ripple", []string{"Class", "Via", "Kind", "Severity", "Distance"}, rows, nil, a.Indirect))
	}

	if len(a.Methods) > 0 {
		rows := make([][]string, 0, len(a.Methods))
		for _, mi := range a.Methods {
			rows = append(rows, []string{mi.Class, mi.Method, string(mi.Kind)})
		}
		out.Sections = append(out.Sections,
			NewTable("Method Changes", []string{"Class", "Method", "Change"}, rows, nil, a.Methods))
	}

	if len(a.Deltas) > 0 {
		rows := make([][]string, 0, len(a.Deltas))
		for _, d := range a.Deltas {
			rows = append(rows, []string{
				d.Class,
				fmt.Sprintf("%+.1f", d.QualityDelta),
				fmt.Sprintf("%d", d.Improvements),
				fmt.Sprintf("%d", d.Regressions),
			})
		}
		out.Sections = append(out.Sections,
			NewTable("Metric Changes", []string{"Class", "Quality Delta", "Improvements", "Regressions"}, rows, nil, a.Deltas))
	}

	if len(a.NotMeasured) > 0 {
		out.Sections = append(out.Sections, &Section{
			Title:   "Not Measured",
			Content: strings.Join(a.NotMeasured, "\n"),
			Data:    a.NotMeasured,
		})
	}
	return out
}
