package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrith/augur/pkg/analyzer/graph"
	"github.com/ferrith/augur/pkg/analyzer/impact"
	"github.com/ferrith/augur/pkg/analyzer/quality"
	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/report"
)

func sampleReport() *report.ProjectReport {
	classes := []facts.ClassFact{
		{Name: "Order", Package: "shop", Source: "class Order { Customer c; }",
			Fields:  []facts.FieldFact{{Name: "c", TypeName: "Customer"}},
			Methods: []facts.MethodFact{{Name: "total"}}},
		{Name: "Customer", Package: "shop", Source: "class Customer { }"},
	}
	return report.Build(classes, []report.Diagnostic{
		{Kind: report.DiagParseFailure, Path: "bad.java", Message: "oops"},
	})
}

func TestProjectRenderableText(t *testing.T) {
	r := ProjectRenderable(sampleReport())

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf, false))
	text := buf.String()

	assert.Contains(t, text, "Code Quality Analysis")
	assert.Contains(t, text, "Order")
	assert.Contains(t, text, "Customer")
	assert.Contains(t, text, "Diagnostics")
	assert.Contains(t, text, "bad.java")
}

func TestProjectRenderableMarkdown(t *testing.T) {
	r := ProjectRenderable(sampleReport())

	var buf bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&buf))
	md := buf.String()

	assert.Contains(t, md, "# Code Quality Analysis")
	assert.Contains(t, md, "| Class |")
}

func TestProjectRenderableJSON(t *testing.T) {
	pr := sampleReport()
	data, err := json.Marshal(ProjectRenderable(pr).RenderData())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"classes"`)
	assert.Contains(t, string(data), `"graph"`)
}

func TestSortClasses(t *testing.T) {
	classes := []report.ClassAnalysis{
		{Name: "A", Metrics: facts.CkMetrics{WMC: 1}, Risk: quality.RiskAssessment{Priority: quality.PriorityLow}},
		{Name: "B", Metrics: facts.CkMetrics{WMC: 9}, Risk: quality.RiskAssessment{Priority: quality.PriorityHigh}},
		{Name: "C", Metrics: facts.CkMetrics{WMC: 5}, Risk: quality.RiskAssessment{Priority: quality.PriorityCritical}},
	}

	sortClasses(classes, "wmc")
	assert.Equal(t, "B", classes[0].Name)

	sortClasses(classes, "risk")
	assert.Equal(t, "C", classes[0].Name)
	assert.Equal(t, "B", classes[1].Name)

	sortClasses(classes, "name")
	assert.Equal(t, "A", classes[0].Name)
}

func TestMermaid(t *testing.T) {
	g := &graph.DependencyGraph{
		Nodes: []graph.Node{
			{ID: "Child", Role: graph.PatternEntity},
			{ID: "Base", Role: graph.PatternUnknown},
		},
		Edges: []graph.Edge{
			{From: "Child", To: "Base", Kind: facts.RefInheritance, Strength: 1},
		},
	}

	out := Mermaid(g)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "Child ==>|inheritance| Base")
	assert.Contains(t, out, `Child["Child (entity)"]`)
}

func TestImpactRenderable(t *testing.T) {
	a := &impact.Analysis{
		Level:  impact.LevelMedium,
		Direct: []string{"Order"},
		Indirect: []impact.DependencyImpact{
			{Class: "Invoice", Via: "Order", Kind: facts.RefComposition, Severity: impact.SeverityMedium, Distance: 1},
		},
		Methods: []impact.MethodImpact{
			{Class: "Order", Method: "total", Kind: impact.MethodModified},
		},
		NotMeasured:  []string{"NewThing"},
		Improvements: 4,
		Regressions:  1,
		Net:          3,
	}

	var buf bytes.Buffer
	require.NoError(t, ImpactRenderable(a).RenderText(&buf, false))
	text := buf.String()

	assert.Contains(t, text, "Level: MEDIUM")
	assert.Contains(t, text, "Invoice")
	assert.Contains(t, text, "MODIFIED")
	assert.Contains(t, text, "NewThing")
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatMarkdown, ParseFormat("md"))
	assert.Equal(t, FormatMarkdown, ParseFormat("markdown"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("weird"))
}
