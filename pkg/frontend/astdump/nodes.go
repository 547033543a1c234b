package astdump

import (
	"strings"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
)

// rawDocument is the YAML layout of a cursor dump.
type rawDocument struct {
	File         string          `yaml:"file"`
	Diagnostics  []rawDiagnostic `yaml:"diagnostics,omitempty"`
	Types        []*rawType      `yaml:"types,omitempty"`
	Root         *rawCursor      `yaml:"root"`
	Declarations []*rawCursor    `yaml:"declarations,omitempty"`
}

type rawDiagnostic struct {
	Severity string `yaml:"severity"`
	File     string `yaml:"file"`
	Line     int    `yaml:"line"`
	Message  string `yaml:"message"`
}

type rawType struct {
	ID            string   `yaml:"id"`
	Kind          string   `yaml:"kind"`
	Spelling      string   `yaml:"spelling"`
	Canonical     string   `yaml:"canonical,omitempty"`
	Element       string   `yaml:"element,omitempty"`
	Unqualified   string   `yaml:"unqualified,omitempty"`
	Const         bool     `yaml:"const,omitempty"`
	TemplateParam bool     `yaml:"template_param,omitempty"`
	Declaration   string   `yaml:"declaration,omitempty"`
	TemplateArgs  []string `yaml:"template_args,omitempty"`
}

type rawCursor struct {
	ID           string       `yaml:"id,omitempty"`
	Kind         string       `yaml:"kind"`
	Spelling     string       `yaml:"spelling,omitempty"`
	File         string       `yaml:"file,omitempty"`
	Line         int          `yaml:"line,omitempty"`
	Definition   *bool        `yaml:"definition,omitempty"`
	Abstract     bool         `yaml:"abstract,omitempty"`
	TemplateKind string       `yaml:"template_kind,omitempty"`
	Type         string       `yaml:"type,omitempty"`
	Result       string       `yaml:"result,omitempty"`
	Value        int64        `yaml:"value,omitempty"`
	Comment      string       `yaml:"comment,omitempty"`
	Parent       string       `yaml:"parent,omitempty"`
	Children     []*rawCursor `yaml:"children,omitempty"`
}

type cursor struct {
	kind         frontend.CursorKind
	spelling     string
	loc          frontend.Location
	definition   bool
	abstract     bool
	templateKind frontend.CursorKind
	value        int64
	comment      string
	typ          *typ
	result       *typ
	parent       *cursor
	children     []*cursor
}

func (c *cursor) Kind() frontend.CursorKind         { return c.kind }
func (c *cursor) Spelling() string                  { return c.spelling }
func (c *cursor) IsDefinition() bool                { return c.definition }
func (c *cursor) Location() frontend.Location       { return c.loc }
func (c *cursor) TemplateKind() frontend.CursorKind { return c.templateKind }
func (c *cursor) IsAbstract() bool                  { return c.abstract }
func (c *cursor) EnumValue() int64                  { return c.value }
func (c *cursor) RawComment() string                { return c.comment }

// Type and the other accessors return untyped nil rather than a nil *typ
// wrapped in the interface.
func (c *cursor) Type() frontend.Type {
	if c.typ == nil {
		return nil
	}
	return c.typ
}

func (c *cursor) ResultType() frontend.Type {
	if c.result == nil {
		return nil
	}
	return c.result
}

func (c *cursor) SemanticParent() frontend.Cursor {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

func (c *cursor) Children() []frontend.Cursor {
	out := make([]frontend.Cursor, len(c.children))
	for i, ch := range c.children {
		out[i] = ch
	}
	return out
}

func (c *cursor) childrenOf(kind frontend.CursorKind) []frontend.Cursor {
	var out []frontend.Cursor
	for _, ch := range c.children {
		if ch.kind == kind {
			out = append(out, ch)
		}
	}
	return out
}

func (c *cursor) TemplateParameters() []frontend.Cursor {
	return c.childrenOf(frontend.CursorTemplateTypeParameter)
}

func (c *cursor) Arguments() []frontend.Cursor {
	return c.childrenOf(frontend.CursorParmDecl)
}

type typ struct {
	kind          frontend.TypeKind
	spelling      string
	isConst       bool
	templateParam bool
	canonical     *typ
	element       *typ
	unqualified   *typ
	declaration   *cursor
	args          []*typ
}

func (t *typ) Kind() frontend.TypeKind   { return t.kind }
func (t *typ) Spelling() string          { return t.spelling }
func (t *typ) IsTemplateParameter() bool { return t.templateParam }
func (t *typ) IsConst() bool             { return t.isConst }

func (t *typ) Canonical() frontend.Type {
	if t.canonical == nil {
		return t
	}
	return t.canonical
}

func (t *typ) ArrayElement() frontend.Type {
	if t.element == nil {
		return nil
	}
	return t.element
}

// Unqualified drops const. A dump may name the unqualified type explicitly;
// otherwise one is derived by stripping the "const " prefix.
func (t *typ) Unqualified() frontend.Type {
	if !t.isConst {
		return t
	}
	if t.unqualified == nil {
		u := *t
		u.isConst = false
		u.spelling = strings.TrimSpace(strings.TrimPrefix(t.spelling, "const "))
		t.unqualified = &u
	}
	return t.unqualified
}

func (t *typ) Declaration() frontend.Cursor {
	if t.declaration == nil {
		return nil
	}
	return t.declaration
}

func (t *typ) TemplateArguments() []frontend.Type {
	out := make([]frontend.Type, len(t.args))
	for i, a := range t.args {
		out[i] = a
	}
	return out
}

type unit struct {
	root        *cursor
	diagnostics []frontend.Diagnostic
}

func (u *unit) Root() frontend.Cursor {
	if u.root == nil {
		return nil
	}
	return u.root
}

func (u *unit) Diagnostics() []frontend.Diagnostic { return u.diagnostics }
