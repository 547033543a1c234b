package parser

import (
	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// kinds maps canonical frontend type kinds onto reflected kinds. Anything
// missing is KindInvalid.
var kinds = map[frontend.TypeKind]model.TypeKind{
	frontend.TypeBool: model.KindBool,

	frontend.TypeCharU:     model.KindUint8,
	frontend.TypeUChar:     model.KindUint8,
	frontend.TypeChar16:    model.KindInt16,
	frontend.TypeChar32:    model.KindInt32,
	frontend.TypeUShort:    model.KindUint16,
	frontend.TypeUInt:      model.KindUint32,
	frontend.TypeULong:     model.KindUint32,
	frontend.TypeULongLong: model.KindUint64,

	frontend.TypeCharS:    model.KindInt8,
	frontend.TypeSChar:    model.KindInt8,
	frontend.TypeWChar:    model.KindInt16,
	frontend.TypeShort:    model.KindInt16,
	frontend.TypeInt:      model.KindInt32,
	frontend.TypeLong:     model.KindInt32,
	frontend.TypeLongLong: model.KindInt64,

	frontend.TypeFloat:      model.KindFloat,
	frontend.TypeDouble:     model.KindDouble,
	frontend.TypeLongDouble: model.KindLongDouble,

	frontend.TypeVoid: model.KindVoid,

	frontend.TypeRecord:           model.KindClass,
	frontend.TypeEnum:             model.KindEnum,
	frontend.TypeTemplateTypeParm: model.KindTemplate,
}

// kindOf classifies t by its canonical kind.
func kindOf(t frontend.Type) model.TypeKind {
	if t.IsTemplateParameter() {
		return model.KindTemplate
	}
	return kinds[t.Canonical().Kind()]
}

func classTypeOf(c frontend.Cursor) model.ClassType {
	kind := c.Kind()
	if kind == frontend.CursorClassTemplate {
		kind = c.TemplateKind()
	}
	if kind == frontend.CursorStructDecl {
		return model.ClassTypeStruct
	}
	return model.ClassTypeClass
}
