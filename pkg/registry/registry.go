// Package registry holds reflected entities keyed by qualified name, guards
// the hashed identifiers the runtime relies on, and persists and merges
// per-file snapshots into a module-wide view.
package registry

import (
	"cmp"
	"maps"
	"slices"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

type Option func(*Registry)

// WithHashFunction replaces the CRC-32 name hash.
func WithHashFunction(fn HashFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.hash = fn
		}
	}
}

// Registry is not safe for concurrent use.
type Registry struct {
	hash HashFunc

	types     map[string]*model.TypeInfo
	classes   map[string]*model.ClassInfo
	enums     map[string]*model.EnumInfo
	aliases   map[string]*model.AliasInfo
	functions map[string]*model.FunctionInfo

	typeHashes     map[uint32]string
	functionHashes map[uint32]string
}

var _ model.Lookup = (*Registry)(nil)

func New(opts ...Option) *Registry {
	r := &Registry{
		hash:           CRC32,
		types:          map[string]*model.TypeInfo{},
		classes:        map[string]*model.ClassInfo{},
		enums:          map[string]*model.EnumInfo{},
		aliases:        map[string]*model.AliasInfo{},
		functions:      map[string]*model.FunctionInfo{},
		typeHashes:     map[uint32]string{},
		functionHashes: map[uint32]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hash exposes the registry's name hash.
func (r *Registry) Hash(name string) uint32 { return r.hash(name) }

// AddType records t. Adding a name twice replaces the earlier entry; a
// different name with the same hash fails with a *HashCollisionError.
func (r *Registry) AddType(t *model.TypeInfo) error {
	name := t.QualifiedName()
	h := r.hash(name)
	if other, ok := r.typeHashes[h]; ok && other != name {
		return &HashCollisionError{Kind: "type", First: other, Second: name, Hash: h}
	}
	r.types[name] = t
	r.typeHashes[h] = name
	return nil
}

// AddClass records c after checking its field and method names for hash
// collisions. The class's type is recorded too.
func (r *Registry) AddClass(c *model.ClassInfo) error {
	owner := c.Type.QualifiedName()
	fields := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = f.Name
	}
	if err := r.checkMembers("field", owner, fields); err != nil {
		return err
	}
	methods := make([]string, len(c.Methods))
	for i, m := range c.Methods {
		methods[i] = m.Name
	}
	if err := r.checkMembers("method", owner, methods); err != nil {
		return err
	}
	if _, ok := r.types[owner]; !ok {
		if err := r.AddType(c.Type); err != nil {
			return err
		}
	}
	r.classes[owner] = c
	return nil
}

func (r *Registry) checkMembers(kind, owner string, names []string) error {
	seen := make(map[uint32]string, len(names))
	for _, name := range names {
		h := r.hash(name)
		if other, ok := seen[h]; ok && other != name {
			return &HashCollisionError{Kind: kind, Owner: owner, First: other, Second: name, Hash: h}
		}
		seen[h] = name
	}
	return nil
}

func (r *Registry) AddEnum(e *model.EnumInfo) {
	r.enums[e.Type.QualifiedName()] = e
}

func (r *Registry) AddAlias(a *model.AliasInfo) {
	r.aliases[a.Type.QualifiedName()] = a
}

// AddFunction records f, failing on a function name hash collision.
func (r *Registry) AddFunction(f *model.FunctionInfo) error {
	name := f.QualifiedName()
	h := r.hash(name)
	if other, ok := r.functionHashes[h]; ok && other != name {
		return &HashCollisionError{Kind: "function", First: other, Second: name, Hash: h}
	}
	r.functions[name] = f
	r.functionHashes[h] = name
	return nil
}

func (r *Registry) GetType(name string) *model.TypeInfo         { return r.types[name] }
func (r *Registry) GetClass(name string) *model.ClassInfo       { return r.classes[name] }
func (r *Registry) GetEnum(name string) *model.EnumInfo         { return r.enums[name] }
func (r *Registry) GetAlias(name string) *model.AliasInfo       { return r.aliases[name] }
func (r *Registry) GetFunction(name string) *model.FunctionInfo { return r.functions[name] }

func (r *Registry) Types() []*model.TypeInfo {
	return sorted(r.types, (*model.TypeInfo).QualifiedName)
}

func (r *Registry) Classes() []*model.ClassInfo {
	return sorted(r.classes, func(c *model.ClassInfo) string { return c.Type.QualifiedName() })
}

func (r *Registry) Enums() []*model.EnumInfo {
	return sorted(r.enums, func(e *model.EnumInfo) string { return e.Type.QualifiedName() })
}

func (r *Registry) Aliases() []*model.AliasInfo {
	return sorted(r.aliases, func(a *model.AliasInfo) string { return a.Type.QualifiedName() })
}

func (r *Registry) Functions() []*model.FunctionInfo {
	return sorted(r.functions, (*model.FunctionInfo).QualifiedName)
}

// Len is the number of reflected declarations, types excluded.
func (r *Registry) Len() int {
	return len(r.classes) + len(r.enums) + len(r.aliases) + len(r.functions)
}

func (r *Registry) ClassesWithinModule(dir string) []*model.ClassInfo {
	return within(r.Classes(), dir, func(c *model.ClassInfo) model.MetadataInfo { return c.Metadata })
}

func (r *Registry) EnumsWithinModule(dir string) []*model.EnumInfo {
	return within(r.Enums(), dir, func(e *model.EnumInfo) model.MetadataInfo { return e.Metadata })
}

func (r *Registry) AliasesWithinModule(dir string) []*model.AliasInfo {
	return within(r.Aliases(), dir, func(a *model.AliasInfo) model.MetadataInfo { return a.Metadata })
}

func (r *Registry) FunctionsWithinModule(dir string) []*model.FunctionInfo {
	return within(r.Functions(), dir, func(f *model.FunctionInfo) model.MetadataInfo { return f.Metadata })
}

// FileObjects are the declarations found in one source file.
type FileObjects struct {
	Classes   []*model.ClassInfo
	Enums     []*model.EnumInfo
	Aliases   []*model.AliasInfo
	Functions []*model.FunctionInfo
}

func (o FileObjects) Empty() bool {
	return len(o.Classes)+len(o.Enums)+len(o.Aliases)+len(o.Functions) == 0
}

// ObjectsInFile returns the declarations located in file, optionally only
// those marked reflected.
func (r *Registry) ObjectsInFile(file string, reflectedOnly bool) FileObjects {
	keep := func(m model.MetadataInfo) bool {
		return sameFile(m.SourceLocation.File, file) && (!reflectedOnly || m.IsReflected)
	}
	var out FileObjects
	for _, c := range r.Classes() {
		if keep(c.Metadata) {
			out.Classes = append(out.Classes, c)
		}
	}
	for _, e := range r.Enums() {
		if keep(e.Metadata) {
			out.Enums = append(out.Enums, e)
		}
	}
	for _, a := range r.Aliases() {
		if keep(a.Metadata) {
			out.Aliases = append(out.Aliases, a)
		}
	}
	for _, f := range r.Functions() {
		if keep(f.Metadata) {
			out.Functions = append(out.Functions, f)
		}
	}
	return out
}

func sorted[T any](m map[string]T, key func(T) string) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
	return out
}

func within[T any](items []T, dir string, meta func(T) model.MetadataInfo) []T {
	var out []T
	for _, it := range items {
		if meta(it).SourceLocation.WithinDirectory(dir) {
			out = append(out, it)
		}
	}
	return out
}
