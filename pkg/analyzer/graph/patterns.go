package graph

import (
	"strings"

	"github.com/ferrith/augur/pkg/facts"
)

// Pattern is an inferred architectural role.
type Pattern string

const (
	PatternEntity      Pattern = "entity"
	PatternValueObject Pattern = "value_object"
	PatternService     Pattern = "service"
	PatternRepository  Pattern = "repository"
	PatternAggregate   Pattern = "aggregate"
	PatternUnknown     Pattern = "unknown"
)

// Infer guesses the architectural role of a class and how confident
// the heuristic is, in [0,1]. known maps every class name in the
// corpus to its facts; it is used to recognize aggregates that own
// other entities. The heuristics are intentionally shallow, signals a
// human reviewer would also read off the class shape.
func Infer(c facts.ClassFact, known map[string]facts.ClassFact) (Pattern, float64) {
	type candidate struct {
		pattern    Pattern
		confidence float64
	}
	candidates := []candidate{
		{PatternRepository, repositoryConfidence(c)},
		{PatternAggregate, aggregateConfidence(c, known)},
		{PatternService, serviceConfidence(c)},
		{PatternEntity, entityConfidence(c)},
		{PatternValueObject, valueObjectConfidence(c)},
	}

	best := candidate{PatternUnknown, 0}
	for _, cand := range candidates {
		if cand.confidence > best.confidence {
			best = cand
		}
	}
	if best.confidence < 0.3 {
		return PatternUnknown, 0
	}
	return best.pattern, best.confidence
}

var crudPrefixes = []string{"find", "get", "save", "store", "delete", "remove", "update", "create", "load", "fetch", "list", "query"}

func repositoryConfidence(c facts.ClassFact) float64 {
	conf := 0.0
	name := strings.ToLower(c.Name)
	if strings.HasSuffix(name, "repository") || strings.HasSuffix(name, "repo") || strings.HasSuffix(name, "dao") || strings.HasSuffix(name, "store") {
		conf += 0.5
	}
	if c.IsInterface {
		conf += 0.2
	}
	if len(c.Methods) > 0 {
		crud := 0
		for _, m := range c.Methods {
			lower := strings.ToLower(m.Name)
			for _, p := range crudPrefixes {
				if strings.HasPrefix(lower, p) {
					crud++
					break
				}
			}
		}
		conf += 0.3 * float64(crud) / float64(len(c.Methods))
	}
	return clampUnit(conf)
}

func serviceConfidence(c facts.ClassFact) float64 {
	conf := 0.0
	name := strings.ToLower(c.Name)
	if strings.HasSuffix(name, "service") || strings.HasSuffix(name, "manager") || strings.HasSuffix(name, "handler") || strings.HasSuffix(name, "controller") {
		conf += 0.5
	}
	// Statelessness is the core service signal.
	if len(c.Fields) == 0 && len(c.Methods) > 0 {
		conf += 0.4
	} else if len(c.Fields) <= 2 && len(c.Methods) >= 3 {
		conf += 0.2
	}
	return clampUnit(conf)
}

func entityConfidence(c facts.ClassFact) float64 {
	conf := 0.0
	if hasIdentityField(c) {
		conf += 0.5
	}
	if countSetters(c) > 0 {
		conf += 0.3
	}
	if len(c.Fields) > 0 && len(c.Methods) > 0 {
		conf += 0.1
	}
	return clampUnit(conf)
}

func valueObjectConfidence(c facts.ClassFact) float64 {
	if len(c.Fields) == 0 {
		return 0
	}
	conf := 0.2
	if countSetters(c) == 0 {
		conf += 0.3
	}
	if hasValueEquality(c) {
		conf += 0.3
	}
	if hasIdentityField(c) {
		conf -= 0.3
	}
	return clampUnit(conf)
}

// aggregateConfidence builds on the entity signal: an aggregate is an
// entity that owns other entities, so ownership strictly raises the
// confidence above the plain entity reading.
func aggregateConfidence(c facts.ClassFact, known map[string]facts.ClassFact) float64 {
	base := entityConfidence(c)
	if base < 0.5 || known == nil {
		return 0
	}
	owned := 0
	for _, f := range c.Fields {
		other, ok := known[f.TypeName]
		if ok && other.Name != c.Name && hasIdentityField(other) {
			owned++
		}
	}
	if owned == 0 {
		return 0
	}
	return clampUnit(base + 0.2*float64(owned))
}

// ArchitectureScore maps an inferred role to the [0,10] architecture
// category used by the quality score. A confidently recognized role
// scores above neutral; an unrecognized shape stays neutral rather
// than being punished for falling outside the heuristics.
func ArchitectureScore(role Pattern, confidence float64) float64 {
	if role == PatternUnknown {
		return 5.0
	}
	return 5.0 + 5.0*clampUnit(confidence)
}

func hasIdentityField(c facts.ClassFact) bool {
	for _, f := range c.Fields {
		lower := strings.ToLower(f.Name)
		if lower == "id" || lower == "_id" || lower == "uuid" || lower == "key" || strings.HasSuffix(lower, "id") {
			return true
		}
	}
	return false
}

func countSetters(c facts.ClassFact) int {
	n := 0
	for _, m := range c.Methods {
		if strings.HasPrefix(strings.ToLower(m.Name), "set") && m.Arity >= 1 {
			n++
		}
	}
	return n
}

func hasValueEquality(c facts.ClassFact) bool {
	for _, m := range c.Methods {
		switch strings.ToLower(m.Name) {
		case "equals", "__eq__", "hashcode", "__hash__", "gethashcode":
			return true
		}
	}
	return false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
