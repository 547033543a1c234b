package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

const (
	publicNamespace  = "cpprefl"
	privateNamespace = "CppReflPrivate"

	// buildReflection is true while the reflection pass itself compiles headers.
	buildReflection = "CPPREFL_BUILD_REFLECTION()"
	bodyMacroPrefix = "__CPPREFLPRIVATE_REFLECTION_CODE"
)

// arrayName names a generated static array, e.g. ("Class", "Tag") -> "ClassTags".
func arrayName(owner, noun string) string {
	return owner + inflection.Plural(noun)
}

// count renders "1 class", "2 classes".
func count(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// tagDefinitions writes the runtime tag array for owner and returns the
// expression registry calls should pass.
func tagDefinitions(w *Writer, owner string, meta model.MetadataInfo) string {
	tags := meta.RuntimeTags()
	if len(tags) == 0 {
		return publicNamespace + "::MetadataTagView()"
	}
	name := arrayName(owner, "Tag")
	var sb strings.Builder
	fmt.Fprintf(&sb, "static const std::array<cpprefl::MetadataTag, %d> %s = {", len(tags), name)
	for _, t := range tags {
		sb.WriteString(quote(strings.Trim(t.Value, `"`)))
		sb.WriteByte(',')
	}
	sb.WriteString("};")
	w.Line(sb.String())
	return name
}

// attributeDefinitions is tagDefinitions for attributes. Values that are
// neither quoted nor numeric are quoted.
func attributeDefinitions(w *Writer, owner string, meta model.MetadataInfo) string {
	keys := meta.RuntimeAttributes()
	if len(keys) == 0 {
		return publicNamespace + "::MetadataAttributeView()"
	}
	name := arrayName(owner, "Attribute")
	var sb strings.Builder
	fmt.Fprintf(&sb, "static const std::array<cpprefl::MetadataAttribute, %d> %s = {", len(keys), name)
	for _, k := range keys {
		fmt.Fprintf(&sb, "std::make_pair(%s,MetadataAttributeValue(%s)),", quote(k), attributeValue(meta.Attributes[k].Value))
	}
	sb.WriteString("};")
	w.Line(sb.String())
	return name
}

func attributeValue(v string) string {
	if strings.HasPrefix(v, `"`) {
		return v
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return v
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return quote(v)
}

// reflectedType renders the expression yielding the runtime TypeInfo for t.
// Non-primitive types may not be reflected, so they go through the private
// lazily-registering helper.
func reflectedType(t *model.TypeInfo) string {
	if t.IsPrimitive() || t.Kind == model.KindVoid {
		return fmt.Sprintf("%s::GetReflectedType<%s>()", publicNamespace, t.QualifiedName())
	}
	return fmt.Sprintf("%s::MaybeCreateReflectedType<%s>(%s)", privateNamespace, t.QualifiedName(), quote(t.QualifiedName()))
}

// typeText renders a type use in a declaration.
func typeText(ti model.TypeInstanceInfo) string {
	var name string
	switch {
	case ti.Type == nil:
		name = "void"
	case ti.Type.IsPrimitive(), ti.Type.Kind == model.KindVoid, ti.Type.Kind == model.KindTemplate:
		name = ti.Type.QualifiedName()
	default:
		name = ti.Type.GloballyQualifiedName()
	}
	if ti.Const {
		return "const " + name
	}
	return name
}
