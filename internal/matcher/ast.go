package matcher

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// matchExport searches the syntax tree for a top-level declaration that
// carries an export modifier and whose declared name equals the pattern
// exactly. The visit short-circuits on the first match.
func (m *Matcher) matchExport(path, name string) (Outcome, error) {
	tree, src, err := m.store.Tree(path)
	if err != nil {
		return Outcome{}, err
	}

	if findExportedName(tree.RootNode(), src, name) {
		return Outcome{Matched: true, Details: fmt.Sprintf("export %q found", name)}, nil
	}
	return Outcome{Matched: false, Details: fmt.Sprintf("export %q not found", name)}, nil
}

// matchFunctionCall searches for call expressions whose textual callee
// equals the pattern exactly or ends with ".<pattern>", which covers
// method calls like obj.pattern(...)
func (m *Matcher) matchFunctionCall(path, pattern string) (Outcome, error) {
	tree, src, err := m.store.Tree(path)
	if err != nil {
		return Outcome{}, err
	}

	found := walk(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Type() != "call_expression" {
			return false
		}
		callee := n.ChildByFieldName("function")
		if callee == nil {
			return false
		}
		text := callee.Content(src)
		return text == pattern || strings.HasSuffix(text, "."+pattern)
	})

	if found {
		return Outcome{Matched: true, Details: fmt.Sprintf("call to %q found", pattern)}, nil
	}
	return Outcome{Matched: false, Details: fmt.Sprintf("no call to %q", pattern)}, nil
}

// matchRouteHandler upper-cases the pattern (an HTTP verb such as GET or
// POST) and checks whether that identifier is exported from the file —
// the convention framework route modules use for per-verb handlers.
func (m *Matcher) matchRouteHandler(path, pattern string) (Outcome, error) {
	verb := strings.ToUpper(strings.TrimSpace(pattern))
	if verb == "" {
		return Outcome{Matched: false, Details: "empty route verb"}, nil
	}

	tree, src, err := m.store.Tree(path)
	if err != nil {
		return Outcome{}, err
	}

	if findExportedName(tree.RootNode(), src, verb) {
		return Outcome{Matched: true, Details: fmt.Sprintf("route handler %s exported", verb)}, nil
	}
	return Outcome{Matched: false, Details: fmt.Sprintf("route handler %s not exported", verb)}, nil
}

// walk visits named nodes depth-first, returning true as soon as fn
// reports a match. Find-first-match keeps "any match suffices" cheap on
// large files.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) bool {
	if fn(n) {
		return true
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if walk(n.NamedChild(i), fn) {
			return true
		}
	}
	return false
}

// findExportedName reports whether the tree exports a declaration (or
// re-exports a binding) named exactly name
func findExportedName(root *sitter.Node, src []byte, name string) bool {
	return walk(root, func(n *sitter.Node) bool {
		if n.Type() != "export_statement" {
			return false
		}

		if decl := n.ChildByFieldName("declaration"); decl != nil {
			if declaresName(decl, src, name) {
				return true
			}
		}

		// export { handler } and export { x as handler } forms
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() != "export_clause" {
				continue
			}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				exported := spec.ChildByFieldName("alias")
				if exported == nil {
					exported = spec.ChildByFieldName("name")
				}
				if exported != nil && exported.Content(src) == name {
					return true
				}
			}
		}
		return false
	})
}

// declaresName reports whether a declaration node declares name. Covers
// functions, classes, interfaces, type aliases, enums and variable
// bindings.
func declaresName(decl *sitter.Node, src []byte, name string) bool {
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "type_alias_declaration",
		"enum_declaration":
		if id := decl.ChildByFieldName("name"); id != nil {
			return id.Content(src) == name
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			if id := declarator.ChildByFieldName("name"); id != nil && id.Content(src) == name {
				return true
			}
		}
	}
	return false
}
