package facts

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ferrith/augur/pkg/parser"
)

// isClassNode checks if a node type represents a class declaration.
func isClassNode(nodeType string, lang parser.Language) bool {
	switch lang {
	case parser.LangJava:
		return nodeType == "class_declaration" || nodeType == "interface_declaration" || nodeType == "enum_declaration"
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return nodeType == "class_declaration" || nodeType == "class"
	case parser.LangPython:
		return nodeType == "class_definition"
	case parser.LangCSharp:
		return nodeType == "class_declaration" || nodeType == "interface_declaration" || nodeType == "struct_declaration"
	case parser.LangCPP:
		return nodeType == "class_specifier" || nodeType == "struct_specifier"
	case parser.LangRuby:
		return nodeType == "class" || nodeType == "module"
	case parser.LangPHP:
		return nodeType == "class_declaration" || nodeType == "interface_declaration" || nodeType == "trait_declaration"
	default:
		return false
	}
}

// isInterfaceNode checks if a node type declares an interface or trait.
func isInterfaceNode(nodeType string) bool {
	return nodeType == "interface_declaration" || nodeType == "trait_declaration"
}

// methodNodeTypes returns AST node types for methods as a lookup set.
func methodNodeTypes(lang parser.Language) map[string]bool {
	var types []string
	switch lang {
	case parser.LangJava:
		types = []string{"method_declaration", "constructor_declaration"}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		types = []string{"method_definition"}
	case parser.LangPython:
		types = []string{"function_definition"}
	case parser.LangCSharp:
		types = []string{"method_declaration", "constructor_declaration"}
	case parser.LangCPP:
		types = []string{"function_definition"}
	case parser.LangRuby:
		types = []string{"method", "singleton_method"}
	case parser.LangPHP:
		types = []string{"method_declaration"}
	}

	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// fieldNodeTypes returns AST node types for fields as a lookup set.
func fieldNodeTypes(lang parser.Language) map[string]bool {
	var types []string
	switch lang {
	case parser.LangJava:
		types = []string{"field_declaration"}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		types = []string{"public_field_definition", "field_definition"}
	case parser.LangPython:
		types = []string{"assignment"} // self.field = value
	case parser.LangCSharp:
		types = []string{"field_declaration", "property_declaration"}
	case parser.LangCPP:
		types = []string{"field_declaration"}
	case parser.LangRuby:
		types = []string{"instance_variable"}
	case parser.LangPHP:
		types = []string{"property_declaration"}
	}

	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// extractSupertypes extracts declared parent class and interface names
// from a class declaration node.
func extractSupertypes(classNode *sitter.Node, source []byte, lang parser.Language) []string {
	var parents []string

	switch lang {
	case parser.LangJava:
		// class Foo extends Bar implements Baz, Qux
		// The superclass node spans the extends keyword, so pull the
		// type identifiers out instead of taking its text.
		if superclass := classNode.ChildByFieldName("superclass"); superclass != nil {
			parents = append(parents, extractTypeList(superclass, source)...)
		}
		if interfaces := classNode.ChildByFieldName("interfaces"); interfaces != nil {
			parents = append(parents, extractTypeList(interfaces, source)...)
		}

	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		// class Foo extends Bar implements Baz
		for i := range int(classNode.ChildCount()) {
			child := classNode.Child(i)
			if child.Type() == "class_heritage" || child.Type() == "extends_clause" {
				parents = append(parents, extractHeritageTypes(child, source)...)
			}
		}

	case parser.LangPython:
		// class Foo(Bar, Baz):
		if argList := classNode.ChildByFieldName("superclasses"); argList != nil {
			parents = append(parents, extractArgumentList(argList, source)...)
		}

	case parser.LangCSharp:
		// class Foo : Bar, IBaz
		if baseList := classNode.ChildByFieldName("bases"); baseList != nil {
			parents = append(parents, extractTypeList(baseList, source)...)
		}

	case parser.LangCPP:
		// class Foo : public Bar, private Baz
		for i := range int(classNode.ChildCount()) {
			child := classNode.Child(i)
			if child.Type() == "base_class_clause" {
				parents = append(parents, extractBaseClasses(child, source)...)
			}
		}

	case parser.LangRuby:
		// class Foo < Bar
		if superclass := classNode.ChildByFieldName("superclass"); superclass != nil {
			text := strings.TrimSpace(strings.TrimPrefix(parser.GetNodeText(superclass, source), "<"))
			parents = append(parents, text)
		}

	case parser.LangPHP:
		// class Foo extends Bar implements Baz
		for i := range int(classNode.ChildCount()) {
			child := classNode.Child(i)
			if child.Type() == "base_clause" || child.Type() == "class_interface_clause" {
				parents = append(parents, extractTypeList(child, source)...)
			}
		}
	}

	var cleaned []string
	seen := make(map[string]bool)
	for _, p := range parents {
		p = cleanTypeName(p)
		if p != "" && !isPrimitiveType(p) && !seen[p] {
			seen[p] = true
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

// extractTypeList extracts type names from a type list node.
func extractTypeList(node *sitter.Node, source []byte) []string {
	var types []string
	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, s []byte) bool {
		switch nodeType {
		case "type_identifier", "identifier", "simple_type", "named_type", "generic_type", "qualified_name", "name":
			name := cleanTypeName(parser.GetNodeText(n, s))
			if name != "" {
				types = append(types, name)
			}
			return false
		}
		return true
	})
	return types
}

// extractHeritageTypes extracts types from TS/JS heritage clauses.
func extractHeritageTypes(node *sitter.Node, source []byte) []string {
	var types []string
	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, s []byte) bool {
		if nodeType == "identifier" || nodeType == "type_identifier" {
			name := parser.GetNodeText(n, s)
			if name != "" && name != "extends" && name != "implements" {
				types = append(types, name)
			}
		}
		return true
	})
	return types
}

// extractArgumentList extracts identifiers from a Python superclass list.
func extractArgumentList(node *sitter.Node, source []byte) []string {
	var args []string
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child.Type() == "identifier" || child.Type() == "attribute" {
			name := parser.GetNodeText(child, source)
			if name != "" {
				args = append(args, name)
			}
		}
	}
	return args
}

// extractBaseClasses extracts base classes from a C++ base_class_clause.
func extractBaseClasses(node *sitter.Node, source []byte) []string {
	var bases []string
	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, s []byte) bool {
		if nodeType == "type_identifier" || nodeType == "identifier" {
			name := parser.GetNodeText(n, s)
			if name != "" && name != "public" && name != "private" && name != "protected" {
				bases = append(bases, name)
			}
		}
		return true
	})
	return bases
}

// cleanTypeName strips generic parameters and whitespace:
// List<String> -> List.
func cleanTypeName(name string) string {
	if idx := strings.IndexAny(name, "<["); idx >= 0 {
		name = name[:idx]
	}
	// Keep only the simple name for qualified references
	if idx := strings.LastIndexAny(name, ".:"); idx >= 0 && idx+1 < len(name) {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}

// primitiveTypes is a pre-allocated set of primitive and builtin names
// excluded from coupling and inheritance.
var primitiveTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "float": true, "float32": true, "float64": true, "double": true,
	"bool": true, "boolean": true, "Boolean": true,
	"string": true, "String": true, "str": true,
	"void": true, "None": true, "null": true, "nil": true,
	"byte": true, "char": true, "short": true, "long": true,
	"any": true, "object": true, "Object": true, "unknown": true,
	"number": true, "Number": true,
	"true": true, "false": true,
	"self": true, "this": true, "super": true,
}

// isPrimitiveType checks if a type name is a primitive or builtin.
func isPrimitiveType(name string) bool {
	return primitiveTypes[name]
}
