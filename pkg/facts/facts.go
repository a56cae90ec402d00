// Package facts defines the language-neutral class fact model shared by
// every metric calculator. Facts are built once per analysis run by the
// Extractor and are read-only afterwards.
package facts

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ferrith/augur/pkg/parser"
)

// ClassFact describes one class as extracted from source. It is immutable
// after extraction; calculators never write to it.
type ClassFact struct {
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualified_name"`
	File          string          `json:"file"`
	Package       string          `json:"package"`
	Language      parser.Language `json:"language"`
	StartLine     int             `json:"start_line"`
	EndLine       int             `json:"end_line"`

	// Supertypes holds the declared parent class and interface names as
	// raw, unresolved text. Resolution against the corpus happens in the
	// inheritance calculator.
	Supertypes []string `json:"supertypes,omitempty"`

	Methods []MethodFact `json:"methods,omitempty"`
	Fields  []FieldFact  `json:"fields,omitempty"`

	// IsInterface marks interface/trait declarations; used by the
	// architectural pattern inference heuristics.
	IsInterface bool `json:"is_interface,omitempty"`

	// Source is the raw class text span. It exists only for syntactic
	// reference search in the coupling calculator.
	Source string `json:"-"`
}

// MethodFact describes one method of a class.
type MethodFact struct {
	Name      string `json:"name"`
	Class     string `json:"class"`
	Arity     int    `json:"arity"`
	LineCount int    `json:"line_count"`

	// Calls holds the distinct method names invoked inside the body.
	Calls []string `json:"calls,omitempty"`

	// UsedFields holds the names of own fields the body reads or writes.
	UsedFields []string `json:"used_fields,omitempty"`

	// Body is the tree-sitter body node kept for complexity walking,
	// paired with the file source it indexes into. Nil for abstract or
	// bodiless declarations.
	Body       *sitter.Node `json:"-"`
	BodySource []byte       `json:"-"`
}

// Signature returns the cross-version method identity: name plus arity.
// Two methods with the same signature in before/after fact sheets are
// treated as the same method.
func (m MethodFact) Signature() string {
	return fmt.Sprintf("%s/%d", m.Name, m.Arity)
}

// FieldFact describes one field of a class.
type FieldFact struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name,omitempty"`
}

// RefKind classifies a coupling reference between two classes.
type RefKind string

const (
	RefInheritance RefKind = "inheritance"
	RefComposition RefKind = "composition"
	RefUsage       RefKind = "usage"
	RefAssociation RefKind = "association"
)

// Reference is a directed coupling relation between two classes. It is
// derived by the coupling calculator on each run, never stored on a
// ClassFact.
type Reference struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Kind RefKind `json:"kind"`

	// Count is the number of textual occurrences backing this reference.
	Count int `json:"count"`
}

// MethodNames returns the set of method names declared on the class.
func (c *ClassFact) MethodNames() map[string]bool {
	names := make(map[string]bool, len(c.Methods))
	for _, m := range c.Methods {
		names[m.Name] = true
	}
	return names
}

// FieldTypeNames returns the set of raw field type names, generics stripped.
func (c *ClassFact) FieldTypeNames() map[string]bool {
	types := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.TypeName != "" {
			types[f.TypeName] = true
		}
	}
	return types
}
