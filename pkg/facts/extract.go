package facts

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ferrith/augur/pkg/parser"
)

// ParseError reports a file that could not be parsed. It is recoverable:
// the caller records a diagnostic and continues without the file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extractor produces ClassFacts from source files. One Extractor wraps one
// tree-sitter parser and is not safe for concurrent use; create one per
// worker (see internal/fileproc).
type Extractor struct {
	parser       *parser.Parser
	includeTests bool
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithIncludeTestFiles includes test files in extraction.
// By default, test files are skipped.
func WithIncludeTestFiles() Option {
	return func(e *Extractor) {
		e.includeTests = true
	}
}

// New creates a new fact extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		parser: parser.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close releases parser resources.
func (e *Extractor) Close() {
	e.parser.Close()
}

// IsTestFile reports whether a path looks like a test file.
func IsTestFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, "test.java") ||
		strings.HasSuffix(base, "_test.py") ||
		strings.HasPrefix(base, "test_") ||
		strings.HasSuffix(base, ".test.ts") ||
		strings.HasSuffix(base, ".test.js") ||
		strings.HasSuffix(base, ".spec.ts") ||
		strings.HasSuffix(base, ".spec.js") ||
		strings.HasSuffix(base, "tests.cs") ||
		strings.HasSuffix(base, "_spec.rb") ||
		strings.Contains(path, "/test/") ||
		strings.Contains(path, "/tests/") ||
		strings.Contains(path, "/__tests__/")
}

// ExtractFile parses a file from disk and returns its class facts.
// Unsupported languages yield nil facts without error; parse failures
// return a *ParseError.
func (e *Extractor) ExtractFile(path string) ([]ClassFact, error) {
	if !e.includeTests && IsTestFile(path) {
		return nil, nil
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, nil
	}

	result, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return e.extract(result), nil
}

// Extract parses in-memory content and returns its class facts. Used for
// git-blob content when reconstructing before-version fact sheets.
func (e *Extractor) Extract(content []byte, path string) ([]ClassFact, error) {
	if !e.includeTests && IsTestFile(path) {
		return nil, nil
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, nil
	}

	result, err := e.parser.Parse(content, lang, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return e.extract(result), nil
}

// extract walks the parse tree and builds one ClassFact per class node.
func (e *Extractor) extract(result *parser.ParseResult) []ClassFact {
	var classes []ClassFact
	pkg := extractPackage(result)
	root := result.Tree.RootNode()

	parser.WalkTyped(root, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if !isClassNode(nodeType, result.Language) {
			return true
		}

		name := className(node, source, result.Language)
		if name == "" {
			return true
		}

		fact := ClassFact{
			Name:        name,
			File:        result.Path,
			Package:     pkg,
			Language:    result.Language,
			StartLine:   int(node.StartPoint().Row) + 1,
			EndLine:     int(node.EndPoint().Row) + 1,
			Supertypes:  extractSupertypes(node, source, result.Language),
			IsInterface: isInterfaceNode(nodeType),
			Source:      parser.GetNodeText(node, source),
		}
		if pkg != "" {
			fact.QualifiedName = pkg + "." + name
		} else {
			fact.QualifiedName = name
		}

		fact.Methods = extractMethods(node, result, name)
		fact.Fields = extractFields(node, result)

		classes = append(classes, fact)
		return false // nested classes are folded into the outer class span
	})

	return classes
}

// extractPackage returns the declared package/namespace, falling back to
// the containing directory for languages without one.
func extractPackage(result *parser.ParseResult) string {
	root := result.Tree.RootNode()

	switch result.Language {
	case parser.LangJava:
		if nodes := parser.FindNodesByType(root, result.Source, "package_declaration"); len(nodes) > 0 {
			for i := range int(nodes[0].ChildCount()) {
				child := nodes[0].Child(i)
				if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
					return parser.GetNodeText(child, result.Source)
				}
			}
		}
	case parser.LangCSharp:
		if nodes := parser.FindNodesByType(root, result.Source, "namespace_declaration"); len(nodes) > 0 {
			if nameNode := nodes[0].ChildByFieldName("name"); nameNode != nil {
				return parser.GetNodeText(nameNode, result.Source)
			}
		}
	case parser.LangPHP:
		if nodes := parser.FindNodesByType(root, result.Source, "namespace_definition"); len(nodes) > 0 {
			if nameNode := nodes[0].ChildByFieldName("name"); nameNode != nil {
				return parser.GetNodeText(nameNode, result.Source)
			}
		}
	}

	dir := filepath.Dir(result.Path)
	if dir == "." {
		return ""
	}
	return dir
}

// extractMethods collects method facts for a class node.
func extractMethods(classNode *sitter.Node, result *parser.ParseResult, owner string) []MethodFact {
	var methods []MethodFact
	methodTypes := methodNodeTypes(result.Language)

	parser.WalkTyped(classNode, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if !methodTypes[nodeType] {
			return true
		}

		name := nodeName(node, source)
		if name == "" {
			return true
		}

		m := MethodFact{
			Name:       name,
			Class:      owner,
			Arity:      countParameters(node, source, result.Language),
			LineCount:  int(node.EndPoint().Row-node.StartPoint().Row) + 1,
			Calls:      extractCalls(node, result),
			UsedFields: extractUsedFields(node, result),
			BodySource: result.Source,
		}
		m.Body = methodBody(node)

		methods = append(methods, m)
		return false // don't descend into nested functions
	})

	return methods
}

// methodBody finds the body node; field names vary by grammar.
func methodBody(node *sitter.Node) *sitter.Node {
	if body := node.ChildByFieldName("body"); body != nil {
		return body
	}
	if body := node.ChildByFieldName("block"); body != nil {
		return body
	}
	return node.ChildByFieldName("body_statement")
}

// countParameters counts declared parameters for arity. The receiver
// (self/this) is not a parameter.
func countParameters(node *sitter.Node, source []byte, lang parser.Language) int {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		if decl := node.ChildByFieldName("declarator"); decl != nil {
			params = decl.ChildByFieldName("parameters")
		}
	}
	if params == nil {
		return 0
	}

	count := 0
	for i := range int(params.ChildCount()) {
		child := params.Child(i)
		if !child.IsNamed() {
			continue
		}
		t := child.Type()
		if t == "comment" {
			continue
		}
		if lang == parser.LangPython {
			text := parser.GetNodeText(child, source)
			if text == "self" || text == "cls" {
				continue
			}
		}
		count++
	}
	return count
}

// extractCalls returns the distinct method names invoked inside a method.
func extractCalls(methodNode *sitter.Node, result *parser.ParseResult) []string {
	called := make(map[string]bool)

	parser.WalkTyped(methodNode, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "call_expression", "method_invocation", "method_call", "invocation_expression", "call":
			if fnNode := node.ChildByFieldName("function"); fnNode != nil {
				called[calleeName(fnNode, source)] = true
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				called[parser.GetNodeText(nameNode, source)] = true
			}
			if methodNode := node.ChildByFieldName("method"); methodNode != nil {
				called[parser.GetNodeText(methodNode, source)] = true
			}
		}
		return true
	})

	delete(called, "")
	names := make([]string, 0, len(called))
	for name := range called {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// calleeName reduces a call target to its final member name:
// foo.bar.baz() -> baz.
func calleeName(fnNode *sitter.Node, source []byte) string {
	if prop := fnNode.ChildByFieldName("property"); prop != nil {
		return parser.GetNodeText(prop, source)
	}
	if attr := fnNode.ChildByFieldName("attribute"); attr != nil {
		return parser.GetNodeText(attr, source)
	}
	text := parser.GetNodeText(fnNode, source)
	if idx := strings.LastIndexAny(text, ".:"); idx >= 0 && idx+1 < len(text) {
		return text[idx+1:]
	}
	return text
}

// extractUsedFields finds own fields accessed within a method via the
// language's receiver syntax (this.x, self.x, @x, $this->x).
func extractUsedFields(methodNode *sitter.Node, result *parser.ParseResult) []string {
	fields := make(map[string]bool)

	parser.WalkTyped(methodNode, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch result.Language {
		case parser.LangPython:
			if nodeType == "attribute" {
				obj := node.ChildByFieldName("object")
				attr := node.ChildByFieldName("attribute")
				if obj != nil && attr != nil && parser.GetNodeText(obj, source) == "self" {
					fields[parser.GetNodeText(attr, source)] = true
				}
			}
		case parser.LangRuby:
			if nodeType == "instance_variable" {
				fields[strings.TrimPrefix(parser.GetNodeText(node, source), "@")] = true
			}
		case parser.LangJava, parser.LangCPP:
			if nodeType == "field_access" {
				obj := node.ChildByFieldName("object")
				fld := node.ChildByFieldName("field")
				if obj != nil && fld != nil && parser.GetNodeText(obj, source) == "this" {
					fields[parser.GetNodeText(fld, source)] = true
				}
			}
		case parser.LangCSharp, parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
			if nodeType == "member_expression" || nodeType == "member_access_expression" {
				obj := node.ChildByFieldName("object")
				prop := node.ChildByFieldName("property")
				if prop == nil {
					prop = node.ChildByFieldName("name")
				}
				if obj == nil {
					obj = node.ChildByFieldName("expression")
				}
				if obj != nil && prop != nil && parser.GetNodeText(obj, source) == "this" {
					fields[parser.GetNodeText(prop, source)] = true
				}
			}
		case parser.LangPHP:
			if nodeType == "member_access_expression" {
				obj := node.ChildByFieldName("object")
				name := node.ChildByFieldName("name")
				if obj != nil && name != nil && parser.GetNodeText(obj, source) == "$this" {
					fields[parser.GetNodeText(name, source)] = true
				}
			}
		}
		return true
	})

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extractFields collects field facts for a class node.
func extractFields(classNode *sitter.Node, result *parser.ParseResult) []FieldFact {
	var fields []FieldFact
	seen := make(map[string]bool)
	fieldTypes := fieldNodeTypes(result.Language)

	parser.WalkTyped(classNode, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if !fieldTypes[nodeType] {
			return true
		}

		name, typeName := fieldNameAndType(node, source, result.Language)
		if name != "" && !seen[name] {
			seen[name] = true
			fields = append(fields, FieldFact{Name: name, TypeName: typeName})
		}
		return true
	})

	return fields
}

// fieldNameAndType extracts the declared name and raw type of a field node.
func fieldNameAndType(node *sitter.Node, source []byte, lang parser.Language) (string, string) {
	switch lang {
	case parser.LangPython:
		// self.field = value in a method body
		if node.Type() == "assignment" {
			left := node.ChildByFieldName("left")
			if left != nil && left.Type() == "attribute" {
				obj := left.ChildByFieldName("object")
				attr := left.ChildByFieldName("attribute")
				if obj != nil && attr != nil && parser.GetNodeText(obj, source) == "self" {
					return parser.GetNodeText(attr, source), ""
				}
			}
		}
		return "", ""

	case parser.LangRuby:
		return strings.TrimPrefix(parser.GetNodeText(node, source), "@"), ""

	default:
		typeName := ""
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			typeName = cleanTypeName(parser.GetNodeText(typeNode, source))
		}
		if declNode := node.ChildByFieldName("declarator"); declNode != nil {
			if innerName := declNode.ChildByFieldName("name"); innerName != nil {
				return parser.GetNodeText(innerName, source), typeName
			}
			return parser.GetNodeText(declNode, source), typeName
		}
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return parser.GetNodeText(nameNode, source), typeName
		}
		return "", typeName
	}
}

// nodeName returns the name field text of a declaration node.
func nodeName(node *sitter.Node, source []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.GetNodeText(nameNode, source)
	}
	// C/C++ style declarators nest the name
	if declNode := node.ChildByFieldName("declarator"); declNode != nil {
		if inner := declNode.ChildByFieldName("declarator"); inner != nil {
			return parser.GetNodeText(inner, source)
		}
		return parser.GetNodeText(declNode, source)
	}
	return ""
}

// className returns the declared class name, handling Ruby's constant
// children instead of a name field.
func className(node *sitter.Node, source []byte, lang parser.Language) string {
	if name := nodeName(node, source); name != "" {
		return name
	}
	if lang == parser.LangRuby {
		for i := range int(node.ChildCount()) {
			child := node.Child(i)
			if child.Type() == "constant" {
				return parser.GetNodeText(child, source)
			}
		}
	}
	return ""
}
