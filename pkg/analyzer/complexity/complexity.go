// Package complexity computes per-method cyclomatic complexity and the
// WMC aggregation over a class.
//
// The count is a structural approximation of McCabe's metric: rather than
// building a full control-flow graph, it counts control-flow-relevant AST
// nodes. It matches McCabe up to nested-expression granularity.
package complexity

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/parser"
)

// ComplexThreshold is the cyclomatic complexity above which a method is
// flagged as complex.
const ComplexThreshold = 10

// Method computes the cyclomatic complexity of a single method.
// A bodiless method has the base complexity of 1.
func Method(m facts.MethodFact, lang parser.Language) MethodComplexity {
	mc := MethodComplexity{
		Name:      m.Name,
		Lines:     m.LineCount,
		Signature: m.Signature(),
	}

	if m.Body == nil {
		mc.Cyclomatic = 1
		return mc
	}

	mc.Cyclomatic = 1 + countDecisionPoints(m.Body, m.BodySource, lang)
	return mc
}

// Class aggregates method complexities into a class-level analysis.
// WMC is the sum of per-method complexities, not the method count.
func Class(methods []facts.MethodFact, lang parser.Language) Analysis {
	analysis := Analysis{
		Methods: make([]MethodComplexity, 0, len(methods)),
	}

	for _, m := range methods {
		mc := Method(m, lang)
		analysis.Methods = append(analysis.Methods, mc)
		analysis.Total += mc.Cyclomatic
		if mc.Cyclomatic > analysis.Max {
			analysis.Max = mc.Cyclomatic
		}
		if mc.Cyclomatic > ComplexThreshold {
			analysis.ComplexMethods = append(analysis.ComplexMethods, mc.Name)
		}
	}

	if len(methods) > 0 {
		analysis.Average = float64(analysis.Total) / float64(len(methods))
	}

	return analysis
}

// countDecisionPoints counts control-flow branches in a method body:
// one per conditional, one per arm of a multi-way branch, one per loop,
// one for a try block plus one per catch clause, and one per
// short-circuit logical operator.
func countDecisionPoints(node *sitter.Node, source []byte, lang parser.Language) int {
	count := 0
	decisionTypes := decisionNodeTypes(lang)

	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if decisionTypes[nodeType] {
			count++
		}
		if nodeType == "binary_expression" || nodeType == "logical_expression" ||
			nodeType == "boolean_operator" || nodeType == "binary_operator" {
			op := operatorOf(n, src)
			if op == "&&" || op == "||" || op == "and" || op == "or" {
				count++
			}
		}
		return true
	})

	return count
}

// operatorOf extracts the operator token of a binary expression node.
func operatorOf(node *sitter.Node, source []byte) string {
	if opNode := node.ChildByFieldName("operator"); opNode != nil {
		return parser.GetNodeText(opNode, source)
	}
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		switch child.Type() {
		case "&&", "||", "and", "or":
			return child.Type()
		}
	}
	return ""
}

// decisionNodeTypes returns the AST node types that add one decision
// point each. Multi-way branches contribute per arm (case/when/elif
// clauses), not per construct; try blocks contribute one plus one per
// catch clause.
func decisionNodeTypes(lang parser.Language) map[string]bool {
	common := []string{
		"if_statement",
		"if_expression",
		"while_statement",
		"while_expression",
		"for_statement",
		"for_expression",
		"do_statement",
		"ternary_expression",
		"conditional_expression",
		"try_statement",
		"catch_clause",
	}

	var extra []string
	switch lang {
	case parser.LangJava:
		extra = []string{"switch_block_statement_group", "switch_rule", "enhanced_for_statement"}
	case parser.LangPython:
		extra = []string{"elif_clause", "except_clause", "try_statement", "case_clause", "list_comprehension", "conditional_expression"}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		extra = []string{"switch_case", "for_in_statement"}
	case parser.LangCSharp:
		extra = []string{"switch_section", "switch_expression_arm", "foreach_statement"}
	case parser.LangCPP:
		extra = []string{"case_statement"}
	case parser.LangRuby:
		// Ruby node names differ from the C-family grammars
		return makeSet([]string{"if", "elsif", "unless", "while", "until", "for", "when", "rescue", "conditional", "begin"})
	case parser.LangPHP:
		extra = []string{"switch_block", "case_statement", "elseif_clause", "foreach_statement"}
	}

	return makeSet(append(common, extra...))
}

// makeSet converts a slice to a map for O(1) lookups.
func makeSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
