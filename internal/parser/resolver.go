package parser

import (
	"fmt"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// resolveType returns the registry's TypeInfo for t, creating it on first
// sight. Typedefs and template parameters keep their own spelling; every
// other type is identified by its canonical form, with one array level
// stripped.
func (p *Parser) resolveType(t frontend.Type) (*model.TypeInfo, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: missing type", ErrUnresolvableType)
	}
	if !t.IsTemplateParameter() && t.Kind() != frontend.TypeTypedef {
		t = t.Canonical()
	}
	if elem := t.ArrayElement(); elem != nil {
		t = elem
	}

	namespace := ""
	decl := t.Declaration()
	if decl != nil {
		namespace = namespaceOf(decl)
	}
	name, namespace := model.SplitQualifiedName(t.Unqualified().Spelling(), namespace)
	id := model.Identity{Name: name, Namespace: namespace}
	if existing := p.reg.GetType(id.QualifiedName()); existing != nil {
		return existing, nil
	}

	ti := &model.TypeInfo{Identity: id, Kind: kindOf(t)}
	var args []*model.TypeInfo
	for _, arg := range t.Canonical().TemplateArguments() {
		resolved, err := p.resolveType(arg)
		if err != nil {
			return nil, fmt.Errorf("template argument of %s: %w", id.QualifiedName(), err)
		}
		args = append(args, resolved)
	}
	ti.Template = model.NewTemplate(model.TemplateSpecialized, args)

	if err := p.reg.AddType(ti); err != nil {
		return nil, err
	}
	if decl != nil {
		p.typeCursors[ti] = decl
	}
	return ti, nil
}

// resolveCursor resolves the type a declaration introduces. Class templates
// have no type of their own and resolve to a generic TypeInfo whose
// arguments are the template parameters.
func (p *Parser) resolveCursor(c frontend.Cursor) (*model.TypeInfo, error) {
	if t := c.Type(); t != nil {
		return p.resolveType(t)
	}
	if c.Kind() != frontend.CursorClassTemplate {
		return nil, fmt.Errorf("%w: %s %q at %s(%d)", ErrUnresolvableType, c.Kind(), c.Spelling(), c.Location().File, c.Location().Line)
	}

	id := cursorIdentity(c)
	if existing := p.reg.GetType(id.QualifiedName()); existing != nil {
		return existing, nil
	}
	var params []*model.TypeInfo
	for _, param := range c.TemplateParameters() {
		resolved, err := p.resolveCursor(param)
		if err != nil {
			return nil, err
		}
		params = append(params, resolved)
	}
	ti := &model.TypeInfo{
		Identity: id,
		Kind:     model.KindClass,
		Template: model.NewTemplate(model.TemplateGeneric, params),
	}
	if err := p.reg.AddType(ti); err != nil {
		return nil, err
	}
	p.typeCursors[ti] = c
	return ti, nil
}

func (p *Parser) typeInstance(t frontend.Type) (model.TypeInstanceInfo, error) {
	ti, err := p.resolveType(t)
	if err != nil {
		return model.TypeInstanceInfo{}, err
	}
	return model.TypeInstanceInfo{Type: ti, Const: t.IsConst()}, nil
}

// callable resolves a function or method's return and argument types.
func (p *Parser) callable(c frontend.Cursor) (model.TypeInstanceInfo, []model.TypeInstanceInfo, error) {
	ret, err := p.typeInstance(c.ResultType())
	if err != nil {
		return ret, nil, fmt.Errorf("return type of %s: %w", c.Spelling(), err)
	}
	var args []model.TypeInstanceInfo
	for _, arg := range c.Arguments() {
		ai, err := p.typeInstance(arg.Type())
		if err != nil {
			return ret, nil, fmt.Errorf("argument %s of %s: %w", arg.Spelling(), c.Spelling(), err)
		}
		args = append(args, ai)
	}
	return ret, args, nil
}
