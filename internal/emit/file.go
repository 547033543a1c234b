package emit

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jbpagliuco/CppRefl/pkg/model"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

// SourceFile renders the reflection code for the reflected declarations
// located in input.
func (g *Generator) SourceFile(input string) Output {
	objs := g.objects(input)
	headerPath, sourcePath := FileOutputs(input, g.opts.ModuleDir, g.opts.OutDir)

	header, source := &Writer{}, &Writer{}
	header.Line("#pragma once")
	header.Blank()
	header.Linef("// Reflection code for %s: %s, %s, %s.", filepath.Base(input),
		count(len(objs.Classes), "class"), count(len(objs.Enums), "enum"), count(len(objs.Functions), "function"))

	if objs.Empty() {
		return g.output(headerPath, header, sourcePath, source, true)
	}

	header.Blank()
	header.Include("CppReflStatics.h")
	header.Blank()

	source.Include(filepath.Base(headerPath))
	if rel, err := filepath.Rel(g.opts.ModuleDir, input); err == nil && !strings.HasPrefix(rel, "..") {
		source.Include(rel)
	}
	for _, inc := range sourceIncludes(objs) {
		source.Include(inc)
	}
	source.Blank()

	for _, c := range objs.Classes {
		g.classHeader(header, c)
		g.classSource(source, c)
	}
	for _, e := range objs.Enums {
		g.enumHeader(header, e)
		g.enumSource(source, e)
	}
	for _, f := range objs.Functions {
		g.functionHeader(header, f)
		g.functionSource(source, f)
	}
	for _, c := range objs.Classes {
		if c.GeneratedBodyLine != nil {
			g.bodyMacro(header, c)
		}
	}
	return g.output(headerPath, header, sourcePath, source, false)
}

func (g *Generator) output(headerPath string, header *Writer, sourcePath string, source *Writer, empty bool) Output {
	return Output{
		Header: File{Path: headerPath, Content: []byte(header.String())},
		Source: File{Path: sourcePath, Content: []byte(source.String())},
		Empty:  empty,
	}
}

// objects are the reflected, non-omitted declarations of input. Aliases
// need no code of their own.
func (g *Generator) objects(input string) registry.FileObjects {
	all := g.reg.ObjectsInFile(input, true)
	keep := func(m model.MetadataInfo) bool { return !g.opts.Omit(m) }
	return registry.FileObjects{
		Classes:   filter(all.Classes, func(c *model.ClassInfo) bool { return keep(c.Metadata) }),
		Enums:     filter(all.Enums, func(e *model.EnumInfo) bool { return keep(e.Metadata) }),
		Functions: filter(all.Functions, func(f *model.FunctionInfo) bool { return keep(f.Metadata) }),
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func sourceIncludes(objs registry.FileObjects) []string {
	var inc []string
	if len(objs.Classes) > 0 {
		inc = append(inc, "Reflection/ClassInfo.h", "Reflection/FieldInfo.h", "Reflection/Registry.h", "Reflection/TypeInfo.h")
	}
	if len(objs.Enums) > 0 {
		inc = append(inc, "Reflection/EnumInfo.h", "Reflection/Registry.h", "Reflection/TypeInfo.h")
	}
	if len(objs.Functions) > 0 {
		inc = append(inc, "Reflection/FunctionInfo.h", "Reflection/Registry.h")
	}
	slices.Sort(inc)
	return slices.Compact(inc)
}

func (g *Generator) classHeader(w *Writer, c *model.ClassInfo) {
	if c.Type.Template.IsSpecialized() {
		return
	}
	w.Line(c.ForwardDeclaration())
	if c.Type.Template.IsGeneric() {
		w.Blank()
		return
	}
	q := c.Type.GloballyQualifiedName()
	w.Namespace(publicNamespace, func() {
		w.Line("template <>")
		w.Linef("const TypeInfo& GetReflectedType<%s>();", q)
		w.Blank()
		w.Line("template <>")
		w.Linef("const ClassInfo& GetReflectedClass<%s>();", q)
	})
	w.Blank()
}

func (g *Generator) classSource(w *Writer, c *model.ClassInfo) {
	if c.Type.IsTemplated() {
		return
	}
	q := c.Type.GloballyQualifiedName()
	fields := filter(c.Fields, func(f *model.FieldInfo) bool { return !g.opts.Omit(f.Metadata) })

	w.Namespace(publicNamespace, func() {
		w.Line("template <>")
		w.Func(fmt.Sprintf("const TypeInfo& GetReflectedType<%s>()", q), func() {
			w.Linef("static auto& type = cpprefl::Registry::GetSystemRegistry().EmplaceType(%s, cpprefl::TypeKind::Class, sizeof(%s));",
				quote(c.Type.QualifiedName()), q)
			w.Line("return type;")
		})
		w.Blank()

		w.Line("template <>")
		w.Func(fmt.Sprintf("const ClassInfo& GetReflectedClass<%s>()", q), func() {
			classTags := tagDefinitions(w, "Class", c.Metadata)
			classAttributes := attributeDefinitions(w, "Class", c.Metadata)

			fieldArray := "cpprefl::FieldView()"
			if len(fields) > 0 {
				tags := make([]string, len(fields))
				attributes := make([]string, len(fields))
				for i, f := range fields {
					tags[i] = tagDefinitions(w, "Field_"+f.Name, f.Metadata)
					attributes[i] = attributeDefinitions(w, "Field_"+f.Name, f.Metadata)
				}
				fieldArray = arrayName("", "Field")
				w.Block(fmt.Sprintf("static const std::array<cpprefl::FieldInfo, %d> %s =", len(fields), fieldArray), "{", "};", func() {
					for i, f := range fields {
						w.Block("cpprefl::FieldInfo", "(", "),", func() {
							w.Postfix(",", func() {
								w.Linef("cpprefl::MakeTypeInstance<decltype(%s::%s)>(%s)", q, f.Name, reflectedType(f.Type.Type))
								w.Linef("offsetof(%s, %s)", q, f.Name)
								w.Line(quote(f.Name))
								w.Line(tags[i])
							})
							w.Line(attributes[i])
						})
					}
				})
			}

			base := "nullptr"
			if b := g.reflectedBase(c); b != nil {
				base = fmt.Sprintf("&GetReflectedClass<%s>()", b.Type.GloballyQualifiedName())
			}
			ctor, dtor := "nullptr", "nullptr"
			if !c.IsAbstract {
				ctor = fmt.Sprintf("[](void* obj) { new(obj) %s(); }", q)
				dtor = fmt.Sprintf("[](void* obj) { ((%s*)obj)->~%s(); }", q, unqualified(c.Type.Name))
			}
			w.Block("static const auto& classInfo = cpprefl::Registry::GetSystemRegistry().EmplaceClass", "(", ");", func() {
				w.Postfix(",", func() {
					w.Linef("&GetReflectedType<%s>()", q)
					w.Line(base)
					w.Line(ctor)
					w.Line(dtor)
					w.Line(fieldArray)
					w.Line(classTags)
				})
				w.Line(classAttributes)
			})
			w.Line("return classInfo;")
		})
	})
	w.Blank()
}

// reflectedBase follows first bases past reflected templates and returns
// the first base the runtime can name, or nil.
func (g *Generator) reflectedBase(c *model.ClassInfo) *model.ClassInfo {
	seen := map[string]bool{}
	base := firstBase(g.reg, c)
	for base != nil && base.Metadata.IsReflected && base.Type.IsTemplated() && !seen[base.String()] {
		seen[base.String()] = true
		base = firstBase(g.reg, base)
	}
	if base == nil || !base.Metadata.IsReflected || base.Type.IsTemplated() {
		return nil
	}
	return base
}

func firstBase(r model.Lookup, c *model.ClassInfo) *model.ClassInfo {
	if len(c.BaseClasses) == 0 {
		return nil
	}
	return r.GetClass(c.BaseClasses[0])
}

// unqualified drops any enclosing class from a nested class name.
func unqualified(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

func (g *Generator) enumHeader(w *Writer, e *model.EnumInfo) {
	w.Namespace(e.Type.Namespace, func() {
		w.Linef("enum class %s;", e.Type.Name)
	})
	q := e.Type.GloballyQualifiedName()
	w.Namespace(publicNamespace, func() {
		w.Line("template <>")
		w.Linef("const TypeInfo& GetReflectedType<%s>();", q)
		w.Blank()
		w.Line("template <>")
		w.Linef("const EnumInfo& GetReflectedEnum<%s>();", q)
	})
	w.Blank()
}

func (g *Generator) enumSource(w *Writer, e *model.EnumInfo) {
	q := e.Type.GloballyQualifiedName()
	values := filter(e.Values, func(v *model.EnumValueInfo) bool { return !g.opts.Omit(v.Metadata) })

	w.Namespace(publicNamespace, func() {
		w.Line("template <>")
		w.Func(fmt.Sprintf("const TypeInfo& GetReflectedType<%s>()", q), func() {
			w.Linef("static auto& type = cpprefl::Registry::GetSystemRegistry().AddType(cpprefl::TypeInfo(%s, cpprefl::TypeKind::Enum, sizeof(%s)));",
				quote(e.Type.QualifiedName()), q)
			w.Line("return type;")
		})
		w.Blank()

		w.Line("template <>")
		w.Func(fmt.Sprintf("const EnumInfo& GetReflectedEnum<%s>()", q), func() {
			enumTags := tagDefinitions(w, "Enum", e.Metadata)
			enumAttributes := attributeDefinitions(w, "Enum", e.Metadata)

			tags := make([]string, len(values))
			attributes := make([]string, len(values))
			for i, v := range values {
				tags[i] = tagDefinitions(w, "Value_"+v.Name, v.Metadata)
				attributes[i] = attributeDefinitions(w, "Value_"+v.Name, v.Metadata)
			}
			valueArray := arrayName("", "Value")
			w.Block(fmt.Sprintf("static const std::array<cpprefl::EnumValueInfo, %d> %s =", len(values), valueArray), "{", "};", func() {
				for i, v := range values {
					w.Linef("cpprefl::EnumValueInfo(%s, (int)%s::%s, %s, %s),", quote(v.Name), q, v.Name, tags[i], attributes[i])
				}
			})

			w.Block("static const EnumInfo& enumInfo = cpprefl::Registry::GetSystemRegistry().AddEnum(EnumInfo", "(", "));", func() {
				w.Postfix(",", func() {
					w.Linef("GetReflectedType<%s>()", q)
					w.Line(valueArray)
					w.Line(enumTags)
				})
				w.Line(enumAttributes)
			})
			w.Line("return enumInfo;")
		})
	})
	w.Blank()
}

// declaration renders a function prototype without its namespace.
func declaration(f *model.FunctionInfo) string {
	args := make([]string, len(f.ArgumentTypes))
	for i, a := range f.ArgumentTypes {
		args[i] = typeText(a)
	}
	return fmt.Sprintf("%s %s(%s);", typeText(f.ReturnType), f.Name, strings.Join(args, ", "))
}

func (g *Generator) functionHeader(w *Writer, f *model.FunctionInfo) {
	w.Namespace(f.Namespace, func() {
		w.Line(declaration(f))
	})
	w.Namespace(publicNamespace, func() {
		w.Line("template <>")
		w.Linef("const FunctionInfo& GetReflectedFunction<&%s>();", f.GloballyQualifiedName())
	})
	w.Blank()
}

func (g *Generator) functionSource(w *Writer, f *model.FunctionInfo) {
	q := f.GloballyQualifiedName()
	w.Namespace(publicNamespace, func() {
		w.Line("template <>")
		w.Func(fmt.Sprintf("const FunctionInfo& GetReflectedFunction<&%s>()", q), func() {
			functionTags := tagDefinitions(w, "Function", f.Metadata)
			functionAttributes := attributeDefinitions(w, "Function", f.Metadata)

			args := "FunctionArgTypesView()"
			if len(f.ArgumentTypes) > 0 {
				args = "FunctionArgTypesView(functionArgs)"
				w.Block(fmt.Sprintf("static const std::array<const TypeInfo*, %d> functionArgs =", len(f.ArgumentTypes)), "{", "};", func() {
					w.Postfix(",", func() {
						for _, a := range f.ArgumentTypes {
							w.Line("&" + reflectedType(a.Type))
						}
					})
				})
			}

			w.Block("static const auto& functionInfo = cpprefl::Registry::GetSystemRegistry().AddFunction", "(", ");", func() {
				w.Block("FunctionInfo", "(", ")", func() {
					w.Postfix(",", func() {
						w.Line(quote(f.QualifiedName()))
						w.Linef("(void*)%s", q)
						w.Line(reflectedType(f.ReturnType.Type))
						w.Line(args)
						w.Line(functionTags)
					})
					w.Line(functionAttributes)
				})
			})
			w.Line("return functionInfo;")
		})
	})
	w.Blank()
}

func bodyMacroName(c *model.ClassInfo) string {
	return fmt.Sprintf("%s_%s%d", bodyMacroPrefix, c.Metadata.SourceLocation.FilenameNoExt(), *c.GeneratedBodyLine)
}

// bodyMacro defines the macro expanded at the class's body marker. It is
// empty while reflection itself compiles the header.
func (g *Generator) bodyMacro(w *Writer, c *model.ClassInfo) {
	name := bodyMacroName(c)
	w.Linef("// %s class declaration", c.Type.QualifiedName())
	w.Linef("#if !%s", buildReflection)
	w.Linef(`#define %s() \`, name)
	w.Postfix(` \`, func() {
		w.Indent(1, func() {
			w.Linef("friend const cpprefl::TypeInfo& cpprefl::GetReflectedType<%s>();", c.Type.GloballyQualifiedName())
			w.Linef("friend const cpprefl::ClassInfo& cpprefl::GetReflectedClass<%s>();", c.Type.GloballyQualifiedName())
		})
	})
	w.Blank()
	w.Line("#else")
	w.Linef("#define %s()", name)
	w.Line("#endif")
	w.Blank()
}
