// Package report assembles the per-class analyses and the project
// dependency graph into the read-only report handed to renderers.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/ferrith/augur/pkg/analyzer/cohesion"
	"github.com/ferrith/augur/pkg/analyzer/complexity"
	"github.com/ferrith/augur/pkg/analyzer/coupling"
	"github.com/ferrith/augur/pkg/analyzer/graph"
	"github.com/ferrith/augur/pkg/analyzer/inheritance"
	"github.com/ferrith/augur/pkg/analyzer/quality"
	"github.com/ferrith/augur/pkg/facts"
)

// DiagnosticKind classifies a non-fatal problem met during analysis.
type DiagnosticKind string

const (
	DiagParseFailure     DiagnosticKind = "parse_failure"
	DiagUnresolvedPath   DiagnosticKind = "unresolved_path"
	DiagInheritanceCycle DiagnosticKind = "inheritance_cycle"
)

// Diagnostic records a recoverable problem surfaced in the report
// instead of aborting the run.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Path    string         `json:"path,omitempty"`
	Message string         `json:"message"`
}

// ClassAnalysis bundles one class's identity with its metrics, quality
// score and risk assessment.
type ClassAnalysis struct {
	Name          string                 `json:"name"`
	QualifiedName string                 `json:"qualified_name"`
	File          string                 `json:"file"`
	Package       string                 `json:"package"`
	Metrics       facts.CkMetrics        `json:"metrics"`
	Quality       quality.QualityScore   `json:"quality"`
	Risk          quality.RiskAssessment `json:"risk"`
}

// Summary aggregates corpus-wide counts.
type Summary struct {
	Classes       int     `json:"classes"`
	Methods       int     `json:"methods"`
	AvgWMC        float64 `json:"avg_wmc"`
	AvgLCOM       float64 `json:"avg_lcom"`
	Cycles        int     `json:"cycles"`
	HighRiskCount int     `json:"high_risk_count"`
	ParseFailures int     `json:"parse_failures"`
}

// ProjectReport is the top-level analysis result. Built once per run
// and read-only afterwards.
type ProjectReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Classes     []ClassAnalysis        `json:"classes"`
	Graph       *graph.DependencyGraph `json:"graph"`
	Project     quality.QualityScore   `json:"project"`
	Summary     Summary                `json:"summary"`
	Diagnostics []Diagnostic           `json:"diagnostics,omitempty"`
}

// Class returns the analysis for the named class, or nil.
func (r *ProjectReport) Class(name string) *ClassAnalysis {
	for i := range r.Classes {
		if r.Classes[i].Name == name {
			return &r.Classes[i]
		}
	}
	return nil
}

// Build runs every calculator over the extracted class facts and
// assembles the project report. Diagnostics collected during
// extraction are carried through unchanged.
func Build(classes []facts.ClassFact, diags []Diagnostic) *ProjectReport {
	coupled := coupling.Analyze(classes)
	hierarchy := inheritance.NewHierarchy(classes)
	metrics := assembleMetrics(classes, coupled, hierarchy)
	g := graph.Build(classes, coupled.References, metrics)

	r := &ProjectReport{
		GeneratedAt: time.Now().UTC(),
		Graph:       g,
		Diagnostics: diags,
	}

	// assembleMetrics computed DIT for every class, so the hierarchy
	// has seen every cycle by now. Cycles are results, not errors.
	for _, cyc := range hierarchy.Cycles() {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Kind:    DiagInheritanceCycle,
			Message: strings.Join(cyc.Path, " -> "),
		})
	}

	methods := 0
	for _, c := range classes {
		methods += len(c.Methods)
		m := metrics[c.Name]
		arch := quality.NeutralArchitectureScore
		if n := g.Node(c.Name); n != nil {
			arch = graph.ArchitectureScore(n.Role, n.RoleConfidence)
		}
		score := quality.ScoreWithArchitecture(m, arch)
		r.Classes = append(r.Classes, ClassAnalysis{
			Name:          c.Name,
			QualifiedName: c.QualifiedName,
			File:          c.File,
			Package:       c.Package,
			Metrics:       m,
			Quality:       score,
			Risk:          quality.Assess(score, m),
		})
	}
	sort.Slice(r.Classes, func(i, j int) bool { return r.Classes[i].Name < r.Classes[j].Name })

	r.Project = projectScore(r.Classes)
	r.Summary = summarize(r, methods)
	return r
}

// assembleMetrics derives the CK metric vector for every class. The
// coupling metrics need the full corpus, so this is an all-pairs pass.
func assembleMetrics(classes []facts.ClassFact, coupled *coupling.Analysis, hierarchy *inheritance.Hierarchy) map[string]facts.CkMetrics {
	out := make(map[string]facts.CkMetrics, len(classes))
	for i := range classes {
		c := &classes[i]
		cx := complexity.Class(c.Methods, c.Language)
		cp := coupled.Metrics[c.Name]
		out[c.Name] = facts.CkMetrics{
			WMC:        cx.Total,
			DIT:        hierarchy.DIT(c.Name),
			NOC:        hierarchy.NOC(c.Name),
			CBO:        cp.CBO,
			RFC:        cp.RFC,
			CA:         cp.CA,
			CE:         cp.CE,
			LCOM:       cohesion.LCOM(c),
			Cyclomatic: cx.Max,
		}
	}
	return out
}

// projectScore averages the per-class category scores. An empty corpus
// yields the zero score.
func projectScore(classes []ClassAnalysis) quality.QualityScore {
	var s quality.QualityScore
	if len(classes) == 0 {
		return s
	}
	for _, c := range classes {
		s.Cohesion += c.Quality.Cohesion
		s.Complexity += c.Quality.Complexity
		s.Coupling += c.Quality.Coupling
		s.Inheritance += c.Quality.Inheritance
		s.Architecture += c.Quality.Architecture
		s.Overall += c.Quality.Overall
	}
	n := float64(len(classes))
	s.Cohesion /= n
	s.Complexity /= n
	s.Coupling /= n
	s.Inheritance /= n
	s.Architecture /= n
	s.Overall /= n
	return s
}

func summarize(r *ProjectReport, methods int) Summary {
	s := Summary{
		Classes: len(r.Classes),
		Methods: methods,
		Cycles:  len(r.Graph.Cycles),
	}
	var wmc, lcom float64
	for _, c := range r.Classes {
		wmc += float64(c.Metrics.WMC)
		lcom += float64(c.Metrics.LCOM)
		if c.Risk.Priority == quality.PriorityHigh || c.Risk.Priority == quality.PriorityCritical {
			s.HighRiskCount++
		}
	}
	if len(r.Classes) > 0 {
		n := float64(len(r.Classes))
		s.AvgWMC = wmc / n
		s.AvgLCOM = lcom / n
	}
	for _, d := range r.Diagnostics {
		if d.Kind == DiagParseFailure {
			s.ParseFailures++
		}
	}
	return s
}
