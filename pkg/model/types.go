package model

import (
	"fmt"
	"strings"
)

type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindBool
	KindUint8
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindFloat
	KindDouble
	KindLongDouble
	KindEnum
	KindClass // struct, class, record
	KindVoid
	KindTemplate // unbound template parameter
)

var typeKindNames = [...]string{
	KindInvalid:    "Invalid",
	KindBool:       "Bool",
	KindUint8:      "Uint8",
	KindInt8:       "Int8",
	KindUint16:     "Uint16",
	KindInt16:      "Int16",
	KindUint32:     "Uint32",
	KindInt32:      "Int32",
	KindUint64:     "Uint64",
	KindInt64:      "Int64",
	KindFloat:      "Float",
	KindDouble:     "Double",
	KindLongDouble: "LongDouble",
	KindEnum:       "Enum",
	KindClass:      "Class",
	KindVoid:       "Void",
	KindTemplate:   "Template",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typeKindNames) {
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
	return typeKindNames[k]
}

func (k TypeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TypeKind) UnmarshalText(text []byte) error {
	for i, name := range typeKindNames {
		if strings.EqualFold(name, string(text)) {
			*k = TypeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown type kind %q", string(text))
}

// TemplateForm discriminates a generic template declaration from one of its
// specializations.
type TemplateForm int

const (
	TemplateGeneric TemplateForm = iota + 1
	TemplateSpecialized
)

func (f TemplateForm) String() string {
	switch f {
	case TemplateGeneric:
		return "generic"
	case TemplateSpecialized:
		return "specialized"
	default:
		return fmt.Sprintf("TemplateForm(%d)", int(f))
	}
}

func (f TemplateForm) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *TemplateForm) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "generic":
		*f = TemplateGeneric
	case "specialized":
		*f = TemplateSpecialized
	default:
		return fmt.Errorf("unknown template form %q", string(text))
	}
	return nil
}

// TemplateInfo describes the template arguments of a templated type.
//
// A TemplateInfo always carries at least one argument; use NewTemplate, which
// returns nil for an empty argument list, so that a non-templated type never
// ends up with an empty template.
type TemplateInfo struct {
	Form      TemplateForm
	Arguments []*TypeInfo
}

// NewTemplate returns a TemplateInfo, or nil when there are no arguments.
func NewTemplate(form TemplateForm, args []*TypeInfo) *TemplateInfo {
	if len(args) == 0 {
		return nil
	}
	return &TemplateInfo{Form: form, Arguments: args}
}

func (t *TemplateInfo) IsSpecialized() bool { return t != nil && t.Form == TemplateSpecialized }
func (t *TemplateInfo) IsGeneric() bool     { return t != nil && t.Form == TemplateGeneric }

// IndexOf returns the position of the argument with the given qualified name, or -1.
func (t *TemplateInfo) IndexOf(arg *TypeInfo) int {
	if t == nil || arg == nil {
		return -1
	}
	for i, a := range t.Arguments {
		if a == arg || a.QualifiedName() == arg.QualifiedName() {
			return i
		}
	}
	return -1
}

// DeclarationSignature renders e.g. "template <typename T,typename U>".
func (t *TemplateInfo) DeclarationSignature() string {
	parts := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		parts[i] = "typename " + a.QualifiedName()
	}
	return "template <" + strings.Join(parts, ",") + ">"
}

// InstantiationSignature renders e.g. "<T,U>".
func (t *TemplateInfo) InstantiationSignature() string {
	parts := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		parts[i] = a.QualifiedName()
	}
	return "<" + strings.Join(parts, ",") + ">"
}

// TypeInfo is the identity of a type. Two TypeInfo values with the same
// qualified name held by one Registry are the same pointer.
type TypeInfo struct {
	Identity
	Kind     TypeKind
	Template *TemplateInfo
}

func (t *TypeInfo) IsPrimitive() bool { return t.Kind >= KindBool && t.Kind <= KindLongDouble }
func (t *TypeInfo) IsInteger() bool   { return t.Kind >= KindUint8 && t.Kind <= KindInt64 }
func (t *TypeInfo) IsReal() bool      { return t.Kind >= KindFloat && t.Kind <= KindLongDouble }
func (t *TypeInfo) IsEnum() bool      { return t.Kind == KindEnum }
func (t *TypeInfo) IsClass() bool     { return t.Kind == KindClass }
func (t *TypeInfo) IsTemplated() bool { return t.Template != nil }

func (t *TypeInfo) IsUnsigned() bool {
	switch t.Kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}

func (t *TypeInfo) IsSigned() bool {
	switch t.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsInstantiable reports whether the type is not templated or is a specialization.
func (t *TypeInfo) IsInstantiable() bool {
	return !t.IsTemplated() || t.Template.IsSpecialized()
}

// TemplateType returns the qualified name of the generic template a
// templated type belongs to ("ns::Box" for "ns::Box<int>"), or "" when the
// type is not templated.
func (t *TypeInfo) TemplateType() string {
	if !t.IsTemplated() {
		return ""
	}
	qn := t.QualifiedName()
	if i := strings.IndexByte(qn, '<'); i >= 0 {
		return qn[:i]
	}
	return qn
}

// TypeInstanceInfo is a use of a type together with its qualifiers.
type TypeInstanceInfo struct {
	Type  *TypeInfo
	Const bool
}
