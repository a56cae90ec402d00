package impact

import (
	"math"
	"sort"

	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/report"
)

// Snapshot is one analyzed version of the corpus.
type Snapshot struct {
	Classes []facts.ClassFact
	Report  *report.ProjectReport
}

func (s Snapshot) class(name string) *facts.ClassFact {
	for i := range s.Classes {
		if s.Classes[i].Name == name {
			return &s.Classes[i]
		}
	}
	return nil
}

// Compare computes the impact of a change set given the analyzed
// before and after snapshots. changed names the directly changed
// classes; notMeasured names changed classes whose before version was
// unavailable, which are excluded from the metric comparison.
func Compare(before, after Snapshot, changed, notMeasured []string, minImprovementPct float64) *Analysis {
	a := &Analysis{
		Direct:      append([]string(nil), changed...),
		NotMeasured: append([]string(nil), notMeasured...),
	}
	sort.Strings(a.Direct)
	sort.Strings(a.NotMeasured)

	skip := make(map[string]bool, len(notMeasured))
	for _, n := range notMeasured {
		skip[n] = true
	}

	a.Indirect = ripple(after, changed)
	a.DirectFiles, a.IndirectFiles = affectedFiles(before, after, a.Direct, a.Indirect)

	for _, name := range a.Direct {
		a.Methods = append(a.Methods, methodImpacts(before.class(name), after.class(name))...)

		if skip[name] {
			continue
		}
		bc := before.Report.Class(name)
		ac := after.Report.Class(name)
		if bc == nil || ac == nil {
			continue
		}
		d := classDelta(*bc, *ac, minImprovementPct)
		a.Deltas = append(a.Deltas, d)
		a.Improvements += d.Improvements
		a.Regressions += d.Regressions
	}

	a.Net = a.Improvements - a.Regressions
	a.Level = LevelFor(a.Net)
	a.Metrics = aggregate(after, a)
	return a
}

// aggregate summarizes the blast radius relative to the after corpus.
func aggregate(after Snapshot, a *Analysis) ImpactMetrics {
	m := ImpactMetrics{
		TotalAffected: len(a.Direct) + len(a.Indirect),
		RiskLevel:     a.Level,
	}
	if n := len(after.Report.Classes); n > 0 {
		m.ImpactPercentage = float64(m.TotalAffected) / float64(n) * 100
	}
	return m
}

// affectedFiles projects the affected class sets onto their source
// files. Deleted classes resolve through the before snapshot.
func affectedFiles(before, after Snapshot, direct []string, indirect []DependencyImpact) (directFiles, indirectFiles []string) {
	fileOf := func(name string) string {
		if c := after.class(name); c != nil {
			return c.File
		}
		if c := before.class(name); c != nil {
			return c.File
		}
		return ""
	}

	directSet := make(map[string]bool, len(direct))
	for _, name := range direct {
		if f := fileOf(name); f != "" {
			directSet[f] = true
		}
	}
	indirectSet := make(map[string]bool, len(indirect))
	for _, d := range indirect {
		if f := fileOf(d.Class); f != "" && !directSet[f] {
			indirectSet[f] = true
		}
	}
	return sortedKeys(directSet), sortedKeys(indirectSet)
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ripple walks the after-side graph's incoming edges breadth first,
// one hop at a time, from the changed class set.
func ripple(after Snapshot, changed []string) []DependencyImpact {
	g := after.Report.Graph
	visited := make(map[string]bool, len(changed))
	frontier := make([]string, 0, len(changed))
	for _, c := range changed {
		visited[c] = true
		frontier = append(frontier, c)
	}
	sort.Strings(frontier)

	var out []DependencyImpact
	for distance := 1; len(frontier) > 0; distance++ {
		var next []string
		for _, target := range frontier {
			for _, e := range g.Incoming(target) {
				if visited[e.From] {
					continue
				}
				visited[e.From] = true
				out = append(out, DependencyImpact{
					Class:    e.From,
					Via:      target,
					Kind:     e.Kind,
					Severity: SeverityFor(e.Kind),
					Distance: distance,
				})
				next = append(next, e.From)
			}
		}
		sort.Strings(next)
		frontier = next
	}
	return out
}

// methodImpacts diffs the method sets of one class across versions.
// Methods match by name; a kept name with a different arity is a
// signature change, a kept signature with a different body shape is a
// modification.
func methodImpacts(before, after *facts.ClassFact) []MethodImpact {
	var out []MethodImpact
	if before == nil && after == nil {
		return nil
	}

	beforeByName := map[string]facts.MethodFact{}
	if before != nil {
		for _, m := range before.Methods {
			beforeByName[m.Name] = m
		}
	}
	class := ""
	if after != nil {
		class = after.Name
	} else {
		class = before.Name
	}

	seen := map[string]bool{}
	if after != nil {
		for _, m := range after.Methods {
			seen[m.Name] = true
			prev, ok := beforeByName[m.Name]
			switch {
			case !ok:
				out = append(out, MethodImpact{Class: class, Method: m.Name, Kind: MethodAdded})
			case prev.Arity != m.Arity:
				out = append(out, MethodImpact{Class: class, Method: m.Name, Kind: MethodSignatureChange})
			case prev.LineCount != m.LineCount || !equalStrings(prev.Calls, m.Calls):
				out = append(out, MethodImpact{Class: class, Method: m.Name, Kind: MethodModified})
			}
		}
	}
	for name := range beforeByName {
		if !seen[name] {
			out = append(out, MethodImpact{Class: class, Method: name, Kind: MethodRemoved})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

func equalStrings(a, b []string) bool {
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

// ckDeltas enumerates the compared metrics. For every CK metric lower
// is better; for the quality score higher is better.
var ckDeltas = []struct {
	name string
	get  func(facts.CkMetrics) float64
}{
	{"wmc", func(m facts.CkMetrics) float64 { return float64(m.WMC) }},
	{"dit", func(m facts.CkMetrics) float64 { return float64(m.DIT) }},
	{"noc", func(m facts.CkMetrics) float64 { return float64(m.NOC) }},
	{"cbo", func(m facts.CkMetrics) float64 { return float64(m.CBO) }},
	{"rfc", func(m facts.CkMetrics) float64 { return float64(m.RFC) }},
	{"ca", func(m facts.CkMetrics) float64 { return float64(m.CA) }},
	{"ce", func(m facts.CkMetrics) float64 { return float64(m.CE) }},
	{"lcom", func(m facts.CkMetrics) float64 { return float64(m.LCOM) }},
	{"cyclomatic", func(m facts.CkMetrics) float64 { return float64(m.Cyclomatic) }},
}

func classDelta(before, after report.ClassAnalysis, minImprovementPct float64) ClassDelta {
	d := ClassDelta{Class: after.Name}

	for _, spec := range ckDeltas {
		b, a := spec.get(before.Metrics), spec.get(after.Metrics)
		md := MetricDelta{
			Metric: spec.name,
			Before: b,
			After:  a,
			Delta:  a - b,
		}
		if b != 0 {
			md.Measured = true
			md.Percent = md.Delta / b * 100
		}
		d.Deltas = append(d.Deltas, md)

		if md.Delta == 0 {
			continue
		}
		if md.Measured && math.Abs(md.Percent) < minImprovementPct {
			continue
		}
		// Lower is better for every raw CK metric.
		if md.Delta < 0 {
			d.Improvements++
		} else {
			d.Regressions++
		}
	}

	d.QualityDelta = after.Quality.Overall - before.Quality.Overall
	if d.QualityDelta > 0 {
		d.Improvements++
	} else if d.QualityDelta < 0 {
		d.Regressions++
	}
	return d
}
