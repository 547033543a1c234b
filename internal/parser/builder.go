package parser

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// reflectDeclaredClass reflects a class, struct or class template from its
// declaring cursor. Metadata is read even when the declaration is not
// annotated, so unreflected bases still carry their location.
func (p *Parser) reflectDeclaredClass(c frontend.Cursor) (*model.ClassInfo, error) {
	ti, err := p.resolveCursor(c)
	if err != nil {
		return nil, err
	}
	if existing := p.reg.GetClass(ti.QualifiedName()); existing != nil {
		return existing, nil
	}
	meta, err := cursorMetadata(c)
	if err != nil {
		return nil, err
	}
	ci := &model.ClassInfo{
		Type:       ti,
		Metadata:   meta,
		ClassType:  classTypeOf(c),
		IsAbstract: c.IsAbstract(),
	}
	if err := p.reflectMembers(ci, c); err != nil {
		return nil, err
	}
	if err := p.promoteTemplateFields(ci); err != nil {
		return nil, err
	}
	if err := p.reg.AddClass(ci); err != nil {
		return nil, err
	}
	return ci, nil
}

// reflectClassType reflects the class behind a type. Specializations have
// no members of their own in the tree; their generic template's cursor is
// walked instead and its fields arrive through promotion.
func (p *Parser) reflectClassType(t frontend.Type) (*model.ClassInfo, error) {
	ti, err := p.resolveType(t)
	if err != nil {
		return nil, err
	}
	if existing := p.reg.GetClass(ti.QualifiedName()); existing != nil {
		return existing, nil
	}
	decl := t.Canonical().Declaration()
	if decl == nil {
		return nil, fmt.Errorf("%w: %s has no declaration", ErrUnresolvableType, ti.QualifiedName())
	}
	if !ti.Template.IsSpecialized() {
		return p.reflectDeclaredClass(decl)
	}

	generic := p.reg.GetType(ti.TemplateType())
	walk, ok := p.typeCursors[generic]
	if generic == nil || !ok {
		return nil, missingTemplate(ti)
	}
	if _, err := p.reflectDeclaredClass(walk); err != nil {
		return nil, err
	}

	meta, err := cursorMetadata(decl)
	if err != nil {
		return nil, err
	}
	ci := &model.ClassInfo{
		Type:       ti,
		Metadata:   meta,
		ClassType:  classTypeOf(walk),
		IsAbstract: decl.IsAbstract(),
	}
	if err := p.reflectMembers(ci, walk); err != nil {
		return nil, err
	}
	// The marker line belongs to the generic template's body.
	ci.GeneratedBodyLine = nil
	if err := p.promoteTemplateFields(ci); err != nil {
		return nil, err
	}
	if err := p.reg.AddClass(ci); err != nil {
		return nil, err
	}
	return ci, nil
}

func missingTemplate(ti *model.TypeInfo) error {
	return fmt.Errorf("%w: template type for '%s' was not found. Is it reflected?", ErrMissingTemplate, ti.QualifiedName())
}

func (p *Parser) reflectMembers(ci *model.ClassInfo, c frontend.Cursor) error {
	specialized := ci.Type.Template.IsSpecialized()
	for _, child := range c.Children() {
		switch {
		case child.Kind() == frontend.CursorMethod && child.Spelling() == BodyMarker && len(child.Arguments()) == 0:
			line, err := safecast.Conv[uint32](child.Location().Line)
			if err != nil {
				return fmt.Errorf("body marker of %s: %w", ci.Type.QualifiedName(), err)
			}
			ci.GeneratedBodyLine = &line
			continue
		case child.Kind() == frontend.CursorBaseSpecifier:
			if err := p.reflectBase(ci, child); err != nil {
				return err
			}
			continue
		}

		meta, err := cursorMetadata(child)
		if err != nil {
			return err
		}
		if !meta.IsReflected {
			continue
		}
		switch child.Kind() {
		case frontend.CursorFieldDecl:
			if specialized {
				continue
			}
			ti, err := p.typeInstance(child.Type())
			if err != nil {
				return fmt.Errorf("field %s of %s: %w", child.Spelling(), ci.Type.QualifiedName(), err)
			}
			ci.Fields = append(ci.Fields, &model.FieldInfo{Name: child.Spelling(), Type: ti, Metadata: meta})
		case frontend.CursorMethod:
			ret, args, err := p.callable(child)
			if err != nil {
				return err
			}
			ci.Methods = append(ci.Methods, &model.MethodInfo{Name: child.Spelling(), ReturnType: ret, ArgumentTypes: args, Metadata: meta})
		default:
			return fmt.Errorf("%w: %s %q in %s at %s", ErrUnhandledCursor, child.Kind(), child.Spelling(), ci.Type.QualifiedName(), meta.SourceLocation.IDEDiagnostic())
		}
	}
	return nil
}

// reflectBase records one base specifier. A generic template base is
// reflected generically and the arguments written in the base list are
// kept so promotion can bind them; a concrete base is reflected as is.
func (p *Parser) reflectBase(ci *model.ClassInfo, spec frontend.Cursor) error {
	t := spec.Type()
	if t == nil {
		return fmt.Errorf("%w: base of %s has no type", ErrUnresolvableType, ci.Type.QualifiedName())
	}
	decl := t.Canonical().Declaration()
	if decl == nil {
		return fmt.Errorf("%w: base %s of %s has no declaration", ErrUnresolvableType, t.Spelling(), ci.Type.QualifiedName())
	}

	var base *model.ClassInfo
	var err error
	switch decl.Kind() {
	case frontend.CursorClassTemplate:
		if base, err = p.reflectDeclaredClass(decl); err != nil {
			return err
		}
		var written []*model.TypeInfo
		for _, arg := range t.TemplateArguments() {
			resolved, err := p.resolveType(arg)
			if err != nil {
				return fmt.Errorf("base %s of %s: %w", t.Spelling(), ci.Type.QualifiedName(), err)
			}
			written = append(written, resolved)
		}
		if len(written) > 0 {
			if ci.BaseArguments == nil {
				ci.BaseArguments = map[string][]*model.TypeInfo{}
			}
			ci.BaseArguments[base.Type.QualifiedName()] = written
		}
	case frontend.CursorClassDecl, frontend.CursorStructDecl:
		if base, err = p.reflectClassType(t); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: base %s of %s declared by %s", ErrUnhandledCursor, t.Spelling(), ci.Type.QualifiedName(), decl.Kind())
	}
	ci.BaseClasses = append(ci.BaseClasses, base.Type.QualifiedName())
	return nil
}

// templateLevel is one generic class on the way up a template hierarchy,
// with the concrete types its parameters are bound to.
type templateLevel struct {
	class    *model.ClassInfo
	params   []*model.TypeInfo
	concrete []*model.TypeInfo
}

// promoteTemplateFields appends the fields a non-generic class inherits
// from generic template bases, with every bare template parameter replaced
// by the concrete argument at the same position.
func (p *Parser) promoteTemplateFields(ci *model.ClassInfo) error {
	if ci.Type.Template.IsGeneric() {
		return nil
	}
	from := ci.Type
	if !from.Template.IsSpecialized() {
		base := ci.FirstBase(p.reg)
		if base == nil || !base.Type.Template.IsSpecialized() {
			return nil
		}
		from = base.Type
	}
	generic := p.reg.GetClass(from.TemplateType())
	if generic == nil {
		return missingTemplate(from)
	}

	levels, err := p.templateLevels(generic, from.Template.Arguments)
	if err != nil {
		return err
	}
	for _, lvl := range levels {
		for _, f := range lvl.class.Fields {
			bound, err := bindField(f, lvl)
			if err != nil {
				return fmt.Errorf("%s: %w", ci.Type.QualifiedName(), err)
			}
			ci.Fields = append(ci.Fields, bound)
		}
	}
	return nil
}

// templateLevels walks first bases upward from a generic class, threading
// the concrete arguments through each level. Only the first base is
// followed, matching how the runtime lays out template bases.
func (p *Parser) templateLevels(c *model.ClassInfo, concrete []*model.TypeInfo) ([]templateLevel, error) {
	var levels []templateLevel
	seen := map[string]bool{}
	for c != nil && c.Type.Template.IsGeneric() && !seen[c.Type.QualifiedName()] {
		seen[c.Type.QualifiedName()] = true
		params := c.Type.Template.Arguments
		levels = append(levels, templateLevel{class: c, params: params, concrete: concrete})

		base := c.FirstBase(p.reg)
		switch {
		case base == nil:
			c = nil
		case base.Type.Template.IsGeneric():
			if written, ok := c.BaseArguments[base.Type.QualifiedName()]; ok {
				concrete = bindArguments(written, params, concrete)
			}
			c = base
		case base.Type.Template.IsSpecialized():
			g := p.reg.GetClass(base.Type.TemplateType())
			if g == nil {
				return nil, missingTemplate(base.Type)
			}
			c, concrete = g, base.Type.Template.Arguments
		default:
			c = nil
		}
	}
	return levels, nil
}

func indexOf(params []*model.TypeInfo, t *model.TypeInfo) int {
	return (&model.TemplateInfo{Arguments: params}).IndexOf(t)
}

// bindArguments rewrites arguments written in terms of params into
// concrete types. Arguments that are not parameters pass through.
func bindArguments(written, params, concrete []*model.TypeInfo) []*model.TypeInfo {
	out := make([]*model.TypeInfo, len(written))
	for i, w := range written {
		out[i] = w
		if w.Kind != model.KindTemplate {
			continue
		}
		if j := indexOf(params, w); j >= 0 && j < len(concrete) {
			out[i] = concrete[j]
		}
	}
	return out
}

func bindField(f *model.FieldInfo, lvl templateLevel) (*model.FieldInfo, error) {
	bound := *f
	if f.Type.Type.Kind != model.KindTemplate {
		return &bound, nil
	}
	i := indexOf(lvl.params, f.Type.Type)
	if i < 0 || i >= len(lvl.concrete) {
		return nil, fmt.Errorf("%w: cannot bind %s of field %s::%s", ErrUnresolvableType, f.Type.Type.QualifiedName(), lvl.class.Type.QualifiedName(), f.Name)
	}
	bound.Type = model.TypeInstanceInfo{Type: lvl.concrete[i], Const: f.Type.Const}
	return &bound, nil
}
