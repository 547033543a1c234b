package emit

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// InitializerName is the module registration function, e.g.
// "RegisterGameCoreReflection" for module "game-core".
func InitializerName(moduleName string) string {
	var sb strings.Builder
	upper := true
	for _, r := range moduleName {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return "Register" + sb.String() + "Reflection"
}

// Module renders the module files. The initializer touches every reflected
// declaration under the module directory so the runtime registry is filled
// eagerly.
func (g *Generator) Module() Output {
	headerPath, sourcePath := ModuleOutputs(g.opts.ModuleName, g.opts.OutDir)
	initializer := InitializerName(g.opts.ModuleName)

	reflected := func(m model.MetadataInfo) bool { return m.IsReflected && !g.opts.Omit(m) }
	classes := filter(g.reg.ClassesWithinModule(g.opts.ModuleDir), func(c *model.ClassInfo) bool {
		return reflected(c.Metadata) && c.Type.IsInstantiable() && c.GeneratedBodyLine != nil
	})
	enums := filter(g.reg.EnumsWithinModule(g.opts.ModuleDir), func(e *model.EnumInfo) bool { return reflected(e.Metadata) })
	functions := filter(g.reg.FunctionsWithinModule(g.opts.ModuleDir), func(f *model.FunctionInfo) bool { return reflected(f.Metadata) })

	var includes []string
	addInclude := func(m model.MetadataInfo) {
		if rel, err := filepath.Rel(g.opts.ModuleDir, m.SourceLocation.File); err == nil {
			includes = append(includes, filepath.ToSlash(rel))
		}
	}
	for _, c := range classes {
		addInclude(c.Metadata)
	}
	for _, e := range enums {
		addInclude(e.Metadata)
	}
	for _, f := range functions {
		addInclude(f.Metadata)
	}
	slices.Sort(includes)
	includes = slices.Compact(includes)

	header := &Writer{}
	header.Line("#pragma once")
	header.Blank()
	header.Linef("// Registers the reflection data of module %s: %s, %s, %s.", g.opts.ModuleName,
		count(len(classes), "class"), count(len(enums), "enum"), count(len(functions), "function"))
	header.Linef("void %s();", initializer)

	source := &Writer{}
	source.Include(filepath.Base(headerPath))
	source.Blank()
	source.Include("CppReflStatics.h")
	for _, inc := range includes {
		source.Include(inc)
	}
	source.Blank()
	source.Func("void "+initializer+"()", func() {
		for _, c := range classes {
			source.Linef("cpprefl::GetReflectedClass<%s>();", c.Type.GloballyQualifiedName())
		}
		for _, e := range enums {
			source.Linef("cpprefl::GetReflectedEnum<%s>();", e.Type.GloballyQualifiedName())
		}
		for _, f := range functions {
			source.Linef("cpprefl::GetReflectedFunction<&%s>();", f.GloballyQualifiedName())
		}
	})
	return g.output(headerPath, header, sourcePath, source, len(classes)+len(enums)+len(functions) == 0)
}
