package coupling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrith/augur/pkg/facts"
)

func TestCountIdentifier(t *testing.T) {
	assert.Equal(t, 2, countIdentifier("Order order = new Order();", "Order"))
	assert.Equal(t, 0, countIdentifier("OrderService svc;", "Order"), "prefix of a longer identifier")
	assert.Equal(t, 0, countIdentifier("MyOrder o;", "Order"), "suffix of a longer identifier")
	assert.Equal(t, 1, countIdentifier("Order", "Order"))
	assert.Equal(t, 0, countIdentifier("", "Order"))
	assert.Equal(t, 1, countIdentifier("a.Order.b", "Order"))
}

func TestAnalyze(t *testing.T) {
	classes := []facts.ClassFact{
		{
			Name:   "Order",
			Source: "class Order { Customer customer; void total() { Pricing.compute(); } }",
			Fields: []facts.FieldFact{{Name: "customer", TypeName: "Customer"}},
			Methods: []facts.MethodFact{
				{Name: "total", Calls: []string{"compute"}},
			},
		},
		{
			Name:   "Customer",
			Source: "class Customer { }",
		},
		{
			Name:   "Pricing",
			Source: "class Pricing { static void compute() { } }",
			Methods: []facts.MethodFact{
				{Name: "compute"},
			},
		},
	}

	an := Analyze(classes)

	assert.Equal(t, 2, an.Metrics["Order"].CBO)
	assert.Equal(t, 2, an.Metrics["Order"].CE)
	assert.Equal(t, 0, an.Metrics["Order"].CA)
	assert.Equal(t, 1, an.Metrics["Customer"].CA)
	assert.Equal(t, 1, an.Metrics["Pricing"].CA)
	assert.Equal(t, 0, an.Metrics["Customer"].CBO)

	// RFC: one own method plus one external call.
	assert.Equal(t, 2, an.Metrics["Order"].RFC)
	assert.Equal(t, 1, an.Metrics["Pricing"].RFC)

	require.Len(t, an.References, 2)
	assert.Equal(t, "Customer", an.References[0].To)
	assert.Equal(t, facts.RefComposition, an.References[0].Kind)
	assert.Equal(t, "Pricing", an.References[1].To)
}

func extractClasses(t *testing.T, path, src string) []facts.ClassFact {
	t.Helper()
	e := facts.New()
	t.Cleanup(e.Close)
	classes, err := e.Extract([]byte(src), path)
	require.NoError(t, err)
	return classes
}

func TestClassifyPriority(t *testing.T) {
	src := `
class Child extends Base {
    Helper helper;

    void run() {
        Util.go();
        int n = Stray.VALUE;
    }

    Elsewhere convert(Elsewhere input) {
        return input;
    }
}
`
	classes := extractClasses(t, "Child.java", src)
	require.Len(t, classes, 1)
	c := classes[0]

	assert.Equal(t, facts.RefInheritance, Classify(c, "Base"))
	assert.Equal(t, facts.RefComposition, Classify(c, "Helper"))
	assert.Equal(t, facts.RefUsage, Classify(c, "Util"))
	assert.Equal(t, facts.RefUsage, Classify(c, "Stray"), "body mention counts as usage")
	assert.Equal(t, facts.RefAssociation, Classify(c, "Elsewhere"),
		"mention in a signature but never in a body stays an association")
}

func TestAnalyzeReturnTypeOnlyReference(t *testing.T) {
	src := `
class Maker {
    Widget make() {
        return null;
    }
}

class Widget {
}
`
	an := Analyze(extractClasses(t, "Maker.java", src))

	require.Len(t, an.References, 1)
	ref := an.References[0]
	assert.Equal(t, "Maker", ref.From)
	assert.Equal(t, "Widget", ref.To)
	assert.Equal(t, facts.RefAssociation, ref.Kind)
	assert.Equal(t, 1, an.Metrics["Maker"].CBO)
	assert.Equal(t, 1, an.Metrics["Widget"].CA)
}

func TestRFCDeduplicatesOwnCalls(t *testing.T) {
	c := facts.ClassFact{
		Name: "Loop",
		Methods: []facts.MethodFact{
			{Name: "a", Calls: []string{"b", "ext"}},
			{Name: "b", Calls: []string{"ext", "other"}},
		},
	}
	// 2 own methods + {ext, other}; the self call to b adds nothing.
	assert.Equal(t, 4, rfc(c))
}
