package parser

import (
	"slices"
	"strings"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// withinModule reports whether the declaration lives under the module
// directory. Declarations pulled in from other modules or system headers
// are never reflected by this pass.
func (p *Parser) withinModule(c frontend.Cursor) bool {
	return model.PathWithin(c.Location().File, p.opts.ModuleDir)
}

// namespaceOf joins the namespaces enclosing c, outermost first.
func namespaceOf(c frontend.Cursor) string {
	var parts []string
	for parent := c.SemanticParent(); parent != nil; parent = parent.SemanticParent() {
		if parent.Kind() == frontend.CursorNamespace {
			parts = append(parts, parent.Spelling())
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, model.NamespaceSeparator)
}

// cursorIdentity names a declaration. Nested records keep their enclosing
// record names: Outer::Inner in namespace ns is {Outer::Inner, ns}.
func cursorIdentity(c frontend.Cursor) model.Identity {
	parts := []string{c.Spelling()}
	for parent := c.SemanticParent(); parent != nil && parent.Kind().IsRecord(); parent = parent.SemanticParent() {
		parts = append(parts, parent.Spelling())
	}
	slices.Reverse(parts)
	return model.Identity{
		Name:      strings.Join(parts, model.NamespaceSeparator),
		Namespace: namespaceOf(c),
	}
}
