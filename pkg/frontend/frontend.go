// Package frontend is the boundary to the compiler frontend. The reflector
// only needs a cursor tree with kinds, spellings, types and annotation
// children; anything able to produce that tree can drive reflection.
package frontend

import (
	"context"
	"fmt"
)

type CursorKind int

const (
	CursorInvalid CursorKind = iota
	CursorTranslationUnit
	CursorNamespace
	CursorClassDecl
	CursorStructDecl
	CursorClassTemplate
	CursorEnumDecl
	CursorEnumConstantDecl
	CursorTypeAliasDecl
	CursorFunctionDecl
	CursorFieldDecl
	CursorMethod
	CursorBaseSpecifier
	CursorAnnotateAttr
	CursorTemplateTypeParameter
	CursorParmDecl
	CursorAccessSpecifier
	CursorConstructor
	CursorDestructor
	CursorVarDecl
	CursorUnexposed
)

var cursorKindNames = map[CursorKind]string{
	CursorInvalid:               "Invalid",
	CursorTranslationUnit:       "TranslationUnit",
	CursorNamespace:             "Namespace",
	CursorClassDecl:             "ClassDecl",
	CursorStructDecl:            "StructDecl",
	CursorClassTemplate:         "ClassTemplate",
	CursorEnumDecl:              "EnumDecl",
	CursorEnumConstantDecl:      "EnumConstantDecl",
	CursorTypeAliasDecl:         "TypeAliasDecl",
	CursorFunctionDecl:          "FunctionDecl",
	CursorFieldDecl:             "FieldDecl",
	CursorMethod:                "CXXMethod",
	CursorBaseSpecifier:         "CXXBaseSpecifier",
	CursorAnnotateAttr:          "AnnotateAttr",
	CursorTemplateTypeParameter: "TemplateTypeParameter",
	CursorParmDecl:              "ParmDecl",
	CursorAccessSpecifier:       "CXXAccessSpecifier",
	CursorConstructor:           "Constructor",
	CursorDestructor:            "Destructor",
	CursorVarDecl:               "VarDecl",
	CursorUnexposed:             "Unexposed",
}

func (k CursorKind) String() string {
	if s, ok := cursorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("CursorKind(%d)", int(k))
}

// ParseCursorKind maps a kind name back to its CursorKind.
func ParseCursorKind(s string) (CursorKind, bool) {
	for k, name := range cursorKindNames {
		if name == s {
			return k, true
		}
	}
	return CursorInvalid, false
}

// IsRecord reports whether the kind declares a class, struct or class template.
func (k CursorKind) IsRecord() bool {
	return k == CursorClassDecl || k == CursorStructDecl || k == CursorClassTemplate
}

type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeUnexposed
	TypeVoid
	TypeBool
	TypeCharU
	TypeUChar
	TypeChar16
	TypeChar32
	TypeUShort
	TypeUInt
	TypeULong
	TypeULongLong
	TypeCharS
	TypeSChar
	TypeWChar
	TypeShort
	TypeInt
	TypeLong
	TypeLongLong
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypePointer
	TypeLValueReference
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeElaborated
	TypeConstantArray
	TypeFunctionProto
	TypeTemplateTypeParm
)

var typeKindNames = map[TypeKind]string{
	TypeInvalid:          "Invalid",
	TypeUnexposed:        "Unexposed",
	TypeVoid:             "Void",
	TypeBool:             "Bool",
	TypeCharU:            "Char_U",
	TypeUChar:            "UChar",
	TypeChar16:           "Char16",
	TypeChar32:           "Char32",
	TypeUShort:           "UShort",
	TypeUInt:             "UInt",
	TypeULong:            "ULong",
	TypeULongLong:        "ULongLong",
	TypeCharS:            "Char_S",
	TypeSChar:            "SChar",
	TypeWChar:            "WChar",
	TypeShort:            "Short",
	TypeInt:              "Int",
	TypeLong:             "Long",
	TypeLongLong:         "LongLong",
	TypeFloat:            "Float",
	TypeDouble:           "Double",
	TypeLongDouble:       "LongDouble",
	TypePointer:          "Pointer",
	TypeLValueReference:  "LValueReference",
	TypeRecord:           "Record",
	TypeEnum:             "Enum",
	TypeTypedef:          "Typedef",
	TypeElaborated:       "Elaborated",
	TypeConstantArray:    "ConstantArray",
	TypeFunctionProto:    "FunctionProto",
	TypeTemplateTypeParm: "TemplateTypeParm",
}

func (k TypeKind) String() string {
	if s, ok := typeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// ParseTypeKind maps a kind name back to its TypeKind.
func ParseTypeKind(s string) (TypeKind, bool) {
	for k, name := range typeKindNames {
		if name == s {
			return k, true
		}
	}
	return TypeInvalid, false
}

type Location struct {
	File string
	Line int
}

// Cursor is a node of the translation unit's declaration tree.
type Cursor interface {
	Kind() CursorKind
	// Spelling is the bare declared name, or the annotation text for
	// annotation attributes.
	Spelling() string
	// Type returns nil when the cursor has no valid type (e.g. class templates).
	Type() Type
	Children() []Cursor
	IsDefinition() bool
	Location() Location
	// SemanticParent returns nil for the translation unit.
	SemanticParent() Cursor
	TemplateParameters() []Cursor
	// TemplateKind is the record kind a class template declares.
	TemplateKind() CursorKind
	IsAbstract() bool
	Arguments() []Cursor
	ResultType() Type
	EnumValue() int64
	// RawComment is the attached documentation comment, if any.
	RawComment() string
}

// Type is a frontend type.
type Type interface {
	Kind() TypeKind
	// Spelling is the fully qualified spelling, e.g. "ns::Box<int>".
	Spelling() string
	IsTemplateParameter() bool
	Canonical() Type
	// ArrayElement returns nil when the type is not an array.
	ArrayElement() Type
	Unqualified() Type
	IsConst() bool
	// Declaration returns nil for builtin types.
	Declaration() Cursor
	TemplateArguments() []Type
}

type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityIgnored:
		return "ignored"
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

type Diagnostic struct {
	Severity Severity
	Location Location
	Message  string
}

// Error formats the diagnostic as file(line): message.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s(%d): %s: %s", d.Location.File, d.Location.Line, d.Severity, d.Message)
}

type TranslationUnit interface {
	Root() Cursor
	Diagnostics() []Diagnostic
}

// Request describes one translation unit to parse.
type Request struct {
	InputFile    string
	IncludePaths []string
	Definitions  []string
	Args         []string
}

type Frontend interface {
	Parse(ctx context.Context, req Request) (TranslationUnit, error)
}
