// Package coupling extracts cross-class references and computes the
// CBO, RFC, CA and CE coupling metrics.
//
// References are found textually: a class couples to every other known
// class whose simple name appears in its source at an identifier
// boundary. This over-approximates real coupling (no symbol
// resolution), which keeps the policy uniform across languages at the
// cost of occasional false positives on name collisions.
package coupling

import (
	"sort"
	"strings"

	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/parser"
)

// Metrics holds the coupling values for one class.
type Metrics struct {
	// CBO counts distinct other classes this class references.
	CBO int `json:"cbo"`
	// RFC is the response set size: own methods plus distinct external
	// names called from method bodies.
	RFC int `json:"rfc"`
	// CA counts distinct other classes referencing this class.
	CA int `json:"ca"`
	// CE counts distinct other classes this class references.
	CE int `json:"ce"`
}

// Analysis is the coupling result for a corpus of classes.
type Analysis struct {
	References []facts.Reference
	Metrics    map[string]Metrics
}

// Analyze scans every class against every other class name and
// classifies each reference found. References classified as
// Inheritance take priority over Composition, then Usage, then
// Association; the first matching kind wins.
func Analyze(classes []facts.ClassFact) *Analysis {
	an := &Analysis{
		Metrics: make(map[string]Metrics, len(classes)),
	}

	outgoing := make(map[string]map[string]bool, len(classes))
	incoming := make(map[string]map[string]bool, len(classes))
	for _, c := range classes {
		an.Metrics[c.Name] = Metrics{}
	}

	for _, from := range classes {
		for _, to := range classes {
			if from.Name == to.Name {
				continue
			}
			count := countIdentifier(from.Source, to.Name)
			if count == 0 {
				continue
			}
			kind := Classify(from, to.Name)
			an.References = append(an.References, facts.Reference{
				From:  from.Name,
				To:    to.Name,
				Kind:  kind,
				Count: count,
			})
			if outgoing[from.Name] == nil {
				outgoing[from.Name] = make(map[string]bool)
			}
			outgoing[from.Name][to.Name] = true
			if incoming[to.Name] == nil {
				incoming[to.Name] = make(map[string]bool)
			}
			incoming[to.Name][from.Name] = true
		}
	}

	for _, c := range classes {
		m := an.Metrics[c.Name]
		m.CE = len(outgoing[c.Name])
		m.CBO = m.CE
		m.CA = len(incoming[c.Name])
		m.RFC = rfc(c)
		an.Metrics[c.Name] = m
	}

	sort.Slice(an.References, func(i, j int) bool {
		a, b := an.References[i], an.References[j]
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return an
}

// Classify determines the strongest relationship between a class and a
// referenced name.
func Classify(from facts.ClassFact, to string) facts.RefKind {
	for _, sup := range from.Supertypes {
		if sup == to {
			return facts.RefInheritance
		}
	}
	if from.FieldTypeNames()[to] {
		return facts.RefComposition
	}
	for _, m := range from.Methods {
		for _, call := range m.Calls {
			if call == to {
				return facts.RefUsage
			}
		}
		// BodySource holds the whole file; scope the scan to the body
		// node so signature-only mentions stay associations.
		if m.Body != nil && countIdentifier(parser.GetNodeText(m.Body, m.BodySource), to) > 0 {
			return facts.RefUsage
		}
	}
	return facts.RefAssociation
}

// rfc computes the response set: own methods plus distinct called
// names that are not methods of the class itself.
func rfc(c facts.ClassFact) int {
	own := c.MethodNames()
	external := make(map[string]bool)
	for _, m := range c.Methods {
		for _, call := range m.Calls {
			if !own[call] {
				external[call] = true
			}
		}
	}
	return len(c.Methods) + len(external)
}

// countIdentifier counts occurrences of name in src delimited by
// non-identifier characters on both sides.
func countIdentifier(src, name string) int {
	if name == "" {
		return 0
	}
	count := 0
	for i := 0; i+len(name) <= len(src); {
		rel := strings.Index(src[i:], name)
		if rel < 0 {
			break
		}
		j := i + rel
		before := j == 0 || !isIdentChar(src[j-1])
		afterIdx := j + len(name)
		after := afterIdx == len(src) || !isIdentChar(src[afterIdx])
		if before && after {
			count++
		}
		i = j + len(name)
	}
	return count
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
