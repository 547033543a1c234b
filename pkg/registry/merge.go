package registry

import (
	"go.uber.org/multierr"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// Merge folds other into r. Entries are keyed by qualified name and the
// incoming entry wins. Hash indexes are refreshed and every type reference
// is re-pointed at r's own TypeInfo for that name.
func (r *Registry) Merge(other *Registry) {
	for name, t := range other.types {
		r.types[name] = t
		r.typeHashes[r.hash(name)] = name
	}
	for name, c := range other.classes {
		r.classes[name] = c
	}
	for name, e := range other.enums {
		r.enums[name] = e
	}
	for name, a := range other.aliases {
		r.aliases[name] = a
	}
	for name, f := range other.functions {
		r.functions[name] = f
		r.functionHashes[r.hash(name)] = name
	}
	r.relink()
}

// MergeStrict is Merge that refuses to overwrite a declaration recorded at
// a different source location and refuses type or function names whose
// hashes collide across the two registries. On error r is left unchanged.
func (r *Registry) MergeStrict(other *Registry) error {
	var errs error
	for _, t := range other.Types() {
		name := t.QualifiedName()
		h := r.hash(name)
		if prev, ok := r.typeHashes[h]; ok && prev != name {
			errs = multierr.Append(errs, &HashCollisionError{Kind: "type", First: prev, Second: name, Hash: h})
		}
	}
	for _, f := range other.Functions() {
		name := f.QualifiedName()
		h := r.hash(name)
		if prev, ok := r.functionHashes[h]; ok && prev != name {
			errs = multierr.Append(errs, &HashCollisionError{Kind: "function", First: prev, Second: name, Hash: h})
		}
		if prev := r.functions[name]; prev != nil {
			errs = multierr.Append(errs, conflict("function", name, prev.Metadata, f.Metadata))
		}
	}
	for _, c := range other.Classes() {
		if prev := r.classes[c.Type.QualifiedName()]; prev != nil {
			errs = multierr.Append(errs, conflict("class", c.Type.QualifiedName(), prev.Metadata, c.Metadata))
		}
	}
	for _, e := range other.Enums() {
		if prev := r.enums[e.Type.QualifiedName()]; prev != nil {
			errs = multierr.Append(errs, conflict("enum", e.Type.QualifiedName(), prev.Metadata, e.Metadata))
		}
	}
	for _, a := range other.Aliases() {
		if prev := r.aliases[a.Type.QualifiedName()]; prev != nil {
			errs = multierr.Append(errs, conflict("alias", a.Type.QualifiedName(), prev.Metadata, a.Metadata))
		}
	}
	if errs != nil {
		return errs
	}
	r.Merge(other)
	return nil
}

// conflict returns nil when both declarations come from the same place,
// which is the normal case for a header included by several files.
func conflict(kind, name string, first, second model.MetadataInfo) error {
	if first.SourceLocation == second.SourceLocation {
		return nil
	}
	return &MergeConflictError{Kind: kind, Name: name, First: first.SourceLocation, Second: second.SourceLocation}
}

// relink makes every TypeInfo reachable from r the one r.types holds under
// its name, registering any that are missing.
func (r *Registry) relink() {
	for _, t := range r.types {
		r.relinkTemplate(t)
	}
	for _, c := range r.classes {
		c.Type = r.canonical(c.Type)
		for _, f := range c.Fields {
			f.Type = r.instance(f.Type)
		}
		for _, m := range c.Methods {
			r.relinkCallable(&m.ReturnType, m.ArgumentTypes)
		}
		for base, args := range c.BaseArguments {
			for i, a := range args {
				args[i] = r.canonical(a)
			}
			c.BaseArguments[base] = args
		}
	}
	for _, e := range r.enums {
		e.Type = r.canonical(e.Type)
	}
	for _, a := range r.aliases {
		a.Type = r.canonical(a.Type)
		a.AliasType = r.canonical(a.AliasType)
	}
	for _, f := range r.functions {
		r.relinkCallable(&f.ReturnType, f.ArgumentTypes)
	}
}

func (r *Registry) relinkTemplate(t *model.TypeInfo) {
	if t.Template == nil {
		return
	}
	for i, a := range t.Template.Arguments {
		t.Template.Arguments[i] = r.canonical(a)
	}
}

func (r *Registry) relinkCallable(ret *model.TypeInstanceInfo, args []model.TypeInstanceInfo) {
	*ret = r.instance(*ret)
	for i := range args {
		args[i] = r.instance(args[i])
	}
}

func (r *Registry) instance(ti model.TypeInstanceInfo) model.TypeInstanceInfo {
	ti.Type = r.canonical(ti.Type)
	return ti
}

func (r *Registry) canonical(t *model.TypeInfo) *model.TypeInfo {
	if t == nil {
		return nil
	}
	name := t.QualifiedName()
	if own, ok := r.types[name]; ok {
		return own
	}
	r.types[name] = t
	r.typeHashes[r.hash(name)] = name
	r.relinkTemplate(t)
	return t
}
