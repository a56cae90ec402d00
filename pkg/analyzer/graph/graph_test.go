package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrith/augur/pkg/facts"
)

func TestBuild(t *testing.T) {
	classes := []facts.ClassFact{
		{Name: "Order", QualifiedName: "shop.Order", Package: "shop"},
		{Name: "Customer", QualifiedName: "shop.Customer", Package: "shop"},
		{Name: "Mailer", QualifiedName: "infra.Mailer", Package: "infra"},
	}
	refs := []facts.Reference{
		{From: "Order", To: "Customer", Kind: facts.RefComposition, Count: 3},
		{From: "Order", To: "Mailer", Kind: facts.RefUsage, Count: 25},
		{From: "Order", To: "External", Kind: facts.RefUsage, Count: 1},
	}
	metrics := map[string]facts.CkMetrics{
		"Order":    {LCOM: 2},
		"Customer": {LCOM: 1},
	}

	g := Build(classes, refs, metrics)

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "Customer", g.Nodes[0].ID, "nodes sorted by id")

	require.Len(t, g.Edges, 2, "reference to unknown class dropped")
	assert.Equal(t, 3, g.Edges[0].Strength)
	assert.Equal(t, maxEdgeStrength, g.Edges[1].Strength, "strength capped")

	assert.Empty(t, g.Cycles)

	require.Len(t, g.Packages, 2)
	infra, shop := g.Packages[0], g.Packages[1]
	assert.Equal(t, "infra", infra.Name)
	assert.Equal(t, 2, shop.Classes)
	assert.Equal(t, 1, shop.InternalEdges)
	assert.Equal(t, 1, shop.OutgoingEdges)
	assert.Equal(t, 1, infra.IncomingEdges)
	assert.InDelta(t, 1.5, shop.AvgLCOM, 0.001)
	assert.InDelta(t, 1.0, shop.Instability, 0.001)
	assert.InDelta(t, 0.0, infra.Instability, 0.001)
}

func TestDetectCycles(t *testing.T) {
	classes := []facts.ClassFact{
		{Name: "A", Package: "p"},
		{Name: "B", Package: "p"},
		{Name: "C", Package: "p"},
		{Name: "D", Package: "p"},
	}

	t.Run("composition cycle is medium", func(t *testing.T) {
		refs := []facts.Reference{
			{From: "A", To: "B", Kind: facts.RefComposition, Count: 1},
			{From: "B", To: "A", Kind: facts.RefComposition, Count: 1},
		}
		g := Build(classes, refs, nil)
		require.Len(t, g.Cycles, 1)
		assert.Equal(t, CycleSeverityMedium, g.Cycles[0].Severity)
		assert.Equal(t, []string{"A", "B"}, g.Cycles[0].Nodes)
	})

	t.Run("inheritance edge escalates to high", func(t *testing.T) {
		refs := []facts.Reference{
			{From: "A", To: "B", Kind: facts.RefInheritance, Count: 1},
			{From: "B", To: "A", Kind: facts.RefComposition, Count: 1},
		}
		g := Build(classes, refs, nil)
		require.Len(t, g.Cycles, 1)
		assert.Equal(t, CycleSeverityHigh, g.Cycles[0].Severity)
	})

	t.Run("usage edges never form cycles", func(t *testing.T) {
		refs := []facts.Reference{
			{From: "C", To: "D", Kind: facts.RefUsage, Count: 1},
			{From: "D", To: "C", Kind: facts.RefUsage, Count: 1},
		}
		g := Build(classes, refs, nil)
		assert.Empty(t, g.Cycles)
	})
}

func TestInfer(t *testing.T) {
	repo := facts.ClassFact{
		Name:        "UserRepository",
		IsInterface: true,
		Methods: []facts.MethodFact{
			{Name: "findById", Arity: 1},
			{Name: "save", Arity: 1},
			{Name: "deleteById", Arity: 1},
		},
	}
	role, conf := Infer(repo, nil)
	assert.Equal(t, PatternRepository, role)
	assert.Greater(t, conf, 0.7)

	svc := facts.ClassFact{
		Name: "BillingService",
		Methods: []facts.MethodFact{
			{Name: "charge", Arity: 2},
			{Name: "refund", Arity: 1},
		},
	}
	role, conf = Infer(svc, nil)
	assert.Equal(t, PatternService, role)
	assert.Greater(t, conf, 0.5)

	entity := facts.ClassFact{
		Name:   "User",
		Fields: []facts.FieldFact{{Name: "id"}, {Name: "name"}},
		Methods: []facts.MethodFact{
			{Name: "setName", Arity: 1},
			{Name: "getName"},
		},
	}
	role, conf = Infer(entity, nil)
	assert.Equal(t, PatternEntity, role)
	assert.Greater(t, conf, 0.5)

	vo := facts.ClassFact{
		Name:   "Money",
		Fields: []facts.FieldFact{{Name: "amount"}, {Name: "currency"}},
		Methods: []facts.MethodFact{
			{Name: "equals", Arity: 1},
			{Name: "add", Arity: 1},
		},
	}
	role, _ = Infer(vo, nil)
	assert.Equal(t, PatternValueObject, role)

	blank := facts.ClassFact{Name: "Thing"}
	role, conf = Infer(blank, nil)
	assert.Equal(t, PatternUnknown, role)
	assert.Zero(t, conf)
}

func TestInferAggregate(t *testing.T) {
	known := map[string]facts.ClassFact{
		"LineItem": {
			Name:    "LineItem",
			Fields:  []facts.FieldFact{{Name: "id"}},
			Methods: []facts.MethodFact{{Name: "setQty", Arity: 1}},
		},
	}
	order := facts.ClassFact{
		Name: "Order",
		Fields: []facts.FieldFact{
			{Name: "id"},
			{Name: "items", TypeName: "LineItem"},
		},
		Methods: []facts.MethodFact{{Name: "setStatus", Arity: 1}},
	}
	known["Order"] = order

	role, conf := Infer(order, known)
	assert.Equal(t, PatternAggregate, role)
	assert.GreaterOrEqual(t, conf, 0.7)
}

func TestArchitectureScore(t *testing.T) {
	assert.Equal(t, 5.0, ArchitectureScore(PatternUnknown, 0))
	assert.InDelta(t, 7.5, ArchitectureScore(PatternService, 0.5), 0.001)
	assert.Equal(t, 10.0, ArchitectureScore(PatternEntity, 1.2))
}
