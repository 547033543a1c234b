// Package astdump implements frontend.Frontend on top of YAML cursor dumps.
//
// A dump describes one translation unit: a table of types, the cursor tree
// rooted at the translation unit, and optionally detached declarations (such
// as implicit template specializations) that types refer to but the tree
// does not contain.
package astdump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
)

const DefaultSuffix = ".ast.yaml"

type Option func(*Frontend)

// WithSuffix sets the suffix appended to the input file to locate its dump.
func WithSuffix(suffix string) Option {
	return func(f *Frontend) {
		f.suffix = suffix
	}
}

// WithFile makes every Parse read the given dump regardless of input file.
func WithFile(path string) Option {
	return func(f *Frontend) {
		f.file = path
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Frontend) {
		f.logger = logger
	}
}

type Frontend struct {
	suffix string
	file   string
	logger *slog.Logger
}

var _ frontend.Frontend = (*Frontend)(nil)

func New(opts ...Option) *Frontend {
	f := &Frontend{
		suffix: DefaultSuffix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DumpPath returns the dump consulted for the given input file.
func (f *Frontend) DumpPath(input string) string {
	if f.file != "" {
		return f.file
	}
	return input + f.suffix
}

func (f *Frontend) Parse(ctx context.Context, req frontend.Request) (frontend.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.DumpPath(req.InputFile)
	f.logger.Debug("loading cursor dump",
		"input", req.InputFile,
		"dump", path,
		"includes", len(req.IncludePaths),
		"definitions", len(req.Definitions),
	)
	return LoadFile(path)
}

func LoadFile(path string) (frontend.TranslationUnit, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cursor dump: %w", err)
	}
	defer func() {
		_ = fh.Close()
	}()
	tu, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tu, nil
}

// Load decodes a dump and links its cursor and type references.
func Load(r io.Reader) (frontend.TranslationUnit, error) {
	var doc rawDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty cursor dump")
		}
		return nil, fmt.Errorf("decode cursor dump: %w", err)
	}
	l := &linker{
		types:   map[string]*typ{},
		cursors: map[string]*cursor{},
	}
	u, err := l.link(&doc)
	if err != nil {
		return nil, err
	}
	return u, nil
}

type pendingCursor struct {
	raw *rawCursor
	c   *cursor
}

type linker struct {
	types   map[string]*typ
	cursors map[string]*cursor
	pending []pendingCursor
}

func (l *linker) link(doc *rawDocument) (*unit, error) {
	u := &unit{}
	for _, d := range doc.Diagnostics {
		sev, err := parseSeverity(d.Severity)
		if err != nil {
			return nil, err
		}
		file := d.File
		if file == "" {
			file = doc.File
		}
		u.diagnostics = append(u.diagnostics, frontend.Diagnostic{
			Severity: sev,
			Location: frontend.Location{File: file, Line: d.Line},
			Message:  d.Message,
		})
	}

	for _, rt := range doc.Types {
		id := rt.ID
		if id == "" {
			id = rt.Spelling
		}
		if id == "" {
			return nil, errors.New("type without id or spelling")
		}
		if _, dup := l.types[id]; dup {
			return nil, fmt.Errorf("duplicate type id %q", id)
		}
		kind := frontend.TypeUnexposed
		if rt.TemplateParam {
			kind = frontend.TypeTemplateTypeParm
		}
		if rt.Kind != "" {
			k, ok := frontend.ParseTypeKind(rt.Kind)
			if !ok {
				return nil, fmt.Errorf("type %q: unknown kind %q", id, rt.Kind)
			}
			kind = k
		}
		l.types[id] = &typ{
			kind:          kind,
			spelling:      rt.Spelling,
			isConst:       rt.Const,
			templateParam: rt.TemplateParam,
		}
	}

	if doc.Root != nil {
		root, err := l.cursor(doc.Root, nil, doc.File)
		if err != nil {
			return nil, err
		}
		u.root = root
	}
	detached := make([]*cursor, 0, len(doc.Declarations))
	for _, rc := range doc.Declarations {
		c, err := l.cursor(rc, nil, doc.File)
		if err != nil {
			return nil, err
		}
		detached = append(detached, c)
	}
	for i, rc := range doc.Declarations {
		if rc.Parent == "" {
			detached[i].parent = u.root
			continue
		}
		p, ok := l.cursors[rc.Parent]
		if !ok {
			return nil, fmt.Errorf("declaration %q: unknown parent cursor %q", rc.Spelling, rc.Parent)
		}
		detached[i].parent = p
	}

	for _, rt := range doc.Types {
		id := rt.ID
		if id == "" {
			id = rt.Spelling
		}
		if err := l.linkType(id, rt); err != nil {
			return nil, err
		}
	}
	for _, p := range l.pending {
		var err error
		if p.c.typ, err = l.typeRef(p.raw.Type); err != nil {
			return nil, fmt.Errorf("cursor %q: %w", p.raw.Spelling, err)
		}
		if p.c.result, err = l.typeRef(p.raw.Result); err != nil {
			return nil, fmt.Errorf("cursor %q: %w", p.raw.Spelling, err)
		}
	}
	return u, nil
}

func (l *linker) cursor(rc *rawCursor, parent *cursor, file string) (*cursor, error) {
	kind, ok := frontend.ParseCursorKind(rc.Kind)
	if !ok {
		return nil, fmt.Errorf("cursor %q: unknown kind %q", rc.Spelling, rc.Kind)
	}
	if rc.File != "" {
		file = rc.File
	}
	c := &cursor{
		kind:       kind,
		spelling:   rc.Spelling,
		loc:        frontend.Location{File: file, Line: rc.Line},
		definition: rc.Definition == nil || *rc.Definition,
		abstract:   rc.Abstract,
		value:      rc.Value,
		comment:    rc.Comment,
		parent:     parent,
	}
	if rc.TemplateKind != "" {
		tk, ok := frontend.ParseCursorKind(rc.TemplateKind)
		if !ok {
			return nil, fmt.Errorf("cursor %q: unknown template kind %q", rc.Spelling, rc.TemplateKind)
		}
		c.templateKind = tk
	} else if kind == frontend.CursorClassTemplate {
		c.templateKind = frontend.CursorClassDecl
	}
	if rc.ID != "" {
		if _, dup := l.cursors[rc.ID]; dup {
			return nil, fmt.Errorf("duplicate cursor id %q", rc.ID)
		}
		l.cursors[rc.ID] = c
	}
	l.pending = append(l.pending, pendingCursor{raw: rc, c: c})
	for _, rch := range rc.Children {
		ch, err := l.cursor(rch, c, file)
		if err != nil {
			return nil, err
		}
		c.children = append(c.children, ch)
	}
	return c, nil
}

func (l *linker) linkType(id string, rt *rawType) error {
	t := l.types[id]
	var err error
	if rt.Canonical != "" {
		if t.canonical, err = l.typeRef(rt.Canonical); err != nil {
			return fmt.Errorf("type %q canonical: %w", id, err)
		}
	}
	if rt.Element != "" {
		if t.element, err = l.typeRef(rt.Element); err != nil {
			return fmt.Errorf("type %q element: %w", id, err)
		}
	}
	if rt.Unqualified != "" {
		if t.unqualified, err = l.typeRef(rt.Unqualified); err != nil {
			return fmt.Errorf("type %q unqualified: %w", id, err)
		}
	}
	for _, a := range rt.TemplateArgs {
		arg, err := l.typeRef(a)
		if err != nil {
			return fmt.Errorf("type %q template argument: %w", id, err)
		}
		t.args = append(t.args, arg)
	}
	if rt.Declaration != "" {
		decl, ok := l.cursors[rt.Declaration]
		if !ok {
			return fmt.Errorf("type %q: unknown declaration cursor %q", id, rt.Declaration)
		}
		t.declaration = decl
	}
	return nil
}

func (l *linker) typeRef(id string) (*typ, error) {
	if id == "" {
		return nil, nil
	}
	t, ok := l.types[id]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", id)
	}
	return t, nil
}

func parseSeverity(s string) (frontend.Severity, error) {
	for sev := frontend.SeverityIgnored; sev <= frontend.SeverityFatal; sev++ {
		if sev.String() == s {
			return sev, nil
		}
	}
	return frontend.SeverityIgnored, fmt.Errorf("unknown diagnostic severity %q", s)
}
