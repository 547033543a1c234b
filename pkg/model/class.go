package model

import (
	"fmt"
	"strings"
)

// Lookup resolves cross-entity references by qualified name. Registries
// implement it; entities never hold pointers to other classes, enums or
// aliases so merged registries can re-link them.
type Lookup interface {
	GetClass(name string) *ClassInfo
	GetEnum(name string) *EnumInfo
	GetAlias(name string) *AliasInfo
}

type ClassType int

const (
	ClassTypeStruct ClassType = iota
	ClassTypeClass
)

func (c ClassType) String() string {
	if c == ClassTypeStruct {
		return "struct"
	}
	return "class"
}

func (c ClassType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClassType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "struct":
		*c = ClassTypeStruct
	case "class":
		*c = ClassTypeClass
	default:
		return fmt.Errorf("unknown class type %q", string(text))
	}
	return nil
}

type FieldInfo struct {
	Name     string
	Type     TypeInstanceInfo
	Metadata MetadataInfo
}

func (f *FieldInfo) String() string { return f.Name }

type MethodInfo struct {
	Name          string
	ReturnType    TypeInstanceInfo
	ArgumentTypes []TypeInstanceInfo
	Metadata      MetadataInfo
}

func (m *MethodInfo) String() string { return m.Name }

// Signature renders "ret name(arg,arg)".
func (m *MethodInfo) Signature() string {
	return signature(m.ReturnType, m.Name, m.ArgumentTypes)
}

// ClassInfo is a reflected class or struct.
type ClassInfo struct {
	Type     *TypeInfo
	Metadata MetadataInfo
	Fields   []*FieldInfo
	Methods  []*MethodInfo

	// BaseClasses holds the qualified names of the direct bases in
	// declaration order.
	BaseClasses []string

	// BaseArguments records, for generic template bases, the template
	// arguments as written in this class's base list, keyed by base name.
	// They are expressed in terms of this class's own template parameters.
	BaseArguments map[string][]*TypeInfo

	ClassType  ClassType
	IsAbstract bool

	// GeneratedBodyLine is the line of the body-injection marker, if any.
	GeneratedBodyLine *uint32
}

func (c *ClassInfo) String() string { return c.Type.QualifiedName() }

// Bases resolves the direct base classes against r. Bases missing from r are skipped.
func (c *ClassInfo) Bases(r Lookup) []*ClassInfo {
	out := make([]*ClassInfo, 0, len(c.BaseClasses))
	for _, name := range c.BaseClasses {
		if b := r.GetClass(name); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// FirstBase returns the first resolvable direct base, or nil.
func (c *ClassInfo) FirstBase(r Lookup) *ClassInfo {
	for _, name := range c.BaseClasses {
		if b := r.GetClass(name); b != nil {
			return b
		}
	}
	return nil
}

// RecursiveBaseClasses lists the direct bases followed by their bases,
// breadth first. A class reachable along several paths is listed once.
func (c *ClassInfo) RecursiveBaseClasses(r Lookup) []*ClassInfo {
	seen := map[string]bool{c.Type.QualifiedName(): true}
	var out []*ClassInfo
	queue := c.Bases(r)
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		name := b.Type.QualifiedName()
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, b)
		queue = append(queue, b.Bases(r)...)
	}
	return out
}

// RecursiveClasses is this class followed by RecursiveBaseClasses.
func (c *ClassInfo) RecursiveClasses(r Lookup) []*ClassInfo {
	return append([]*ClassInfo{c}, c.RecursiveBaseClasses(r)...)
}

// ForwardDeclaration renders a forward declaration including its namespace.
func (c *ClassInfo) ForwardDeclaration() string {
	var decl string
	switch {
	case c.Type.Template.IsGeneric():
		decl = fmt.Sprintf("%s %s %s;", c.Type.Template.DeclarationSignature(), c.ClassType, c.Type.Name)
	case c.Type.Template.IsSpecialized():
		decl = fmt.Sprintf("template <> %s %s;", c.ClassType, c.Type.Name)
	default:
		decl = fmt.Sprintf("%s %s;", c.ClassType, c.Type.Name)
	}
	if c.Type.IsInGlobalNamespace() {
		return decl
	}
	return fmt.Sprintf("namespace %s { %s }", c.Type.Namespace, decl)
}

// Field returns the field with the given name, or nil.
func (c *ClassInfo) Field(name string) *FieldInfo {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Method returns the first method with the given name, or nil.
func (c *ClassInfo) Method(name string) *MethodInfo {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func signature(ret TypeInstanceInfo, name string, args []TypeInstanceInfo) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Type.QualifiedName()
	}
	return fmt.Sprintf("%s %s(%s)", ret.Type.QualifiedName(), name, strings.Join(parts, ","))
}
