package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrith/augur/pkg/analyzer/quality"
	"github.com/ferrith/augur/pkg/facts"
)

func TestBuildSimpleCorpus(t *testing.T) {
	classes := []facts.ClassFact{
		{
			Name:    "Greeter",
			File:    "greeter.java",
			Package: "app",
			Source:  "class Greeter { void hello() {} void bye() {} }",
			Methods: []facts.MethodFact{
				{Name: "hello"},
				{Name: "bye"},
			},
		},
	}

	r := Build(classes, nil)

	require.Len(t, r.Classes, 1)
	c := r.Classes[0]
	// Two straight-line methods and no fields.
	assert.Equal(t, 2, c.Metrics.WMC)
	assert.Equal(t, 0, c.Metrics.LCOM)
	assert.Equal(t, 0, c.Metrics.DIT)
	assert.Equal(t, 0, c.Metrics.NOC)
	assert.Equal(t, 0, c.Metrics.CBO)
	assert.Equal(t, quality.PriorityLow, c.Risk.Priority)
	assert.Equal(t, 1, r.Summary.Classes)
	assert.Equal(t, 2, r.Summary.Methods)
}

func TestBuildEmptyCorpus(t *testing.T) {
	r := Build(nil, nil)
	assert.Empty(t, r.Classes)
	assert.Zero(t, r.Project.Overall)
	assert.Equal(t, 0, r.Summary.Classes)
}

func TestBuildCouplingFlows(t *testing.T) {
	classes := []facts.ClassFact{
		{
			Name:   "A",
			Source: "class A { B b; }",
			Fields: []facts.FieldFact{{Name: "b", TypeName: "B"}},
		},
		{
			Name:   "B",
			Source: "class B { }",
		},
	}

	r := Build(classes, nil)

	a := r.Class("A")
	b := r.Class("B")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.GreaterOrEqual(t, a.Metrics.CBO, 1)
	assert.GreaterOrEqual(t, a.Metrics.CE, 1)
	assert.GreaterOrEqual(t, b.Metrics.CA, 1)
	require.NotEmpty(t, r.Graph.Edges)
	assert.Equal(t, facts.RefComposition, r.Graph.Edges[0].Kind)
}

func TestBuildCarriesDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{Kind: DiagParseFailure, Path: "broken.java", Message: "syntax error"},
		{Kind: DiagUnresolvedPath, Path: "gone.py", Message: "not on disk"},
	}
	r := Build(nil, diags)
	assert.Len(t, r.Diagnostics, 2)
	assert.Equal(t, 1, r.Summary.ParseFailures)
}

func TestBuildReportsInheritanceCycles(t *testing.T) {
	classes := []facts.ClassFact{
		{Name: "A", Source: "class A extends B { }", Supertypes: []string{"B"}},
		{Name: "B", Source: "class B extends A { }", Supertypes: []string{"A"}},
	}

	r := Build(classes, nil)

	var cycles []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == DiagInheritanceCycle {
			cycles = append(cycles, d)
		}
	}
	require.Len(t, cycles, 1)
	assert.Equal(t, "A -> B -> A", cycles[0].Message)
}

func TestBuildIsDeterministic(t *testing.T) {
	corpus := func() []facts.ClassFact {
		return []facts.ClassFact{
			{
				Name:   "Order",
				Source: "class Order { Customer customer; void total() { Pricing.compute(); } }",
				Fields: []facts.FieldFact{{Name: "customer", TypeName: "Customer"}},
				Methods: []facts.MethodFact{
					{Name: "total", Calls: []string{"compute"}},
				},
			},
			{Name: "Customer", Source: "class Customer { }"},
			{
				Name:    "Pricing",
				Source:  "class Pricing { static void compute() { } }",
				Methods: []facts.MethodFact{{Name: "compute"}},
			},
		}
	}

	first := Build(corpus(), nil)
	second := Build(corpus(), nil)

	require.Equal(t, len(first.Classes), len(second.Classes))
	for i := range first.Classes {
		assert.Equal(t, first.Classes[i].Name, second.Classes[i].Name)
		assert.Equal(t, first.Classes[i].Metrics, second.Classes[i].Metrics)
		assert.Equal(t, first.Classes[i].Quality, second.Classes[i].Quality)
		assert.Equal(t, first.Classes[i].Risk, second.Classes[i].Risk)
	}
	assert.Equal(t, first.Project, second.Project)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestProjectScoreIsAverage(t *testing.T) {
	classes := []ClassAnalysis{
		{Quality: quality.QualityScore{Overall: 8}},
		{Quality: quality.QualityScore{Overall: 4}},
	}
	s := projectScore(classes)
	assert.InDelta(t, 6.0, s.Overall, 0.001)
}
