package parser

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/frontend/astdump"
	"github.com/jbpagliuco/CppRefl/pkg/model"
	"github.com/jbpagliuco/CppRefl/pkg/parser"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

// staticFrontend hands out one preloaded translation unit.
type staticFrontend struct {
	tu frontend.TranslationUnit
}

func (f staticFrontend) Parse(ctx context.Context, _ frontend.Request) (frontend.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.tu, nil
}

func loadArchive(t *testing.T, name string) map[string][]byte {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}
	return files
}

func newParser(t *testing.T, dump []byte, reg *registry.Registry, opts ...parser.Option) *Parser {
	t.Helper()
	tu, err := astdump.Load(bytes.NewReader(dump))
	require.NoError(t, err)
	if reg == nil {
		reg = registry.New()
	}
	o := parser.Apply(append([]parser.Option{parser.WithModuleDir("/mod")}, opts...)...)
	return New(staticFrontend{tu: tu}, reg, o, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func reflectFixture(t *testing.T, archive, dump string) *registry.Registry {
	t.Helper()
	files := loadArchive(t, archive)
	data, ok := files[dump]
	require.Truef(t, ok, "%s has no %s", archive, dump)
	p := newParser(t, data, nil, parser.WithInputFile("/mod/"+dump))
	require.NoError(t, p.Parse(context.Background()))
	return p.Registry()
}

type fieldShape struct {
	Name  string
	Type  string
	Kind  model.TypeKind
	Const bool
}

func fieldShapes(c *model.ClassInfo) []fieldShape {
	out := make([]fieldShape, len(c.Fields))
	for i, f := range c.Fields {
		out[i] = fieldShape{Name: f.Name, Type: f.Type.Type.QualifiedName(), Kind: f.Type.Type.Kind, Const: f.Type.Const}
	}
	return out
}

func names[T interface{ String() string }](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}

func TestReflectClasses(ttt *testing.T) {
	reg := reflectFixture(ttt, "basics.txtar", "ClassCode.ast.yaml")

	ttt.Run("only reflected module declarations", func(t *testing.T) {
		require.Equal(t, []string{"Game::Circle", "Game::Math::Vector", "Game::Shape"}, names(reg.Classes()))
		require.Nil(t, reg.GetClass("External"))
		require.Nil(t, reg.GetClass("Hidden"))
		require.Nil(t, reg.GetType("Hidden"))
		require.Nil(t, reg.GetFunction("Game::Unreflected"))
	})

	ttt.Run("fields and methods", func(t *testing.T) {
		vec := reg.GetClass("Game::Math::Vector")
		require.NotNil(t, vec)
		require.Equal(t, model.ClassTypeStruct, vec.ClassType)
		require.Equal(t, "Vector", vec.Type.Name)
		require.Equal(t, "Game::Math", vec.Type.Namespace)
		require.Equal(t, []string{"Game", "Math"}, vec.Type.Namespaces())

		want := []fieldShape{
			{Name: "x", Type: "float", Kind: model.KindFloat},
			{Name: "components", Type: "float", Kind: model.KindFloat},
			{Name: "owner", Type: "Game::Outer::Inner", Kind: model.KindClass},
		}
		require.Empty(t, cmp.Diff(want, fieldShapes(vec)))
		require.True(t, vec.Field("components").Metadata.HasTag("Hidden"))

		require.Equal(t, []string{"Dot"}, names(vec.Methods))
		dot := vec.Method("Dot")
		require.Equal(t, "float Dot(Game::Math::Vector)", dot.Signature())
		require.Len(t, dot.ArgumentTypes, 1)
		require.True(t, dot.ArgumentTypes[0].Const)
		require.Same(t, vec.Type, dot.ArgumentTypes[0].Type)
	})

	ttt.Run("metadata", func(t *testing.T) {
		meta := reg.GetClass("Game::Math::Vector").Metadata
		require.True(t, meta.IsReflected)
		require.Equal(t, model.SourceLocation{File: "/mod/src/ClassCode.h", Line: 8}, meta.SourceLocation)
		require.Equal(t, "/// A 3D vector.", meta.Comment)

		wantTags := []model.MetadataValue{
			{Value: "Serializable", Lifetime: model.LifetimeRuntime},
			{Value: "EditorOnly", Lifetime: model.LifetimeCompile},
		}
		require.Empty(t, cmp.Diff(wantTags, meta.Tags))
		wantAttrs := map[string]model.MetadataValue{
			"Category": {Value: "Math, Geometry", Lifetime: model.LifetimeRuntime},
			"Range":    {Value: "0,100", Lifetime: model.LifetimeRuntime},
		}
		require.Empty(t, cmp.Diff(wantAttrs, meta.Attributes))
		require.Equal(t, []string{"Category", "Range"}, meta.RuntimeAttributes())
		require.Len(t, meta.CompileTags(), 2)
		require.Len(t, meta.RuntimeTags(), 1)
	})

	ttt.Run("generated body line", func(t *testing.T) {
		// The overload taking an argument at line 16 is not the marker.
		line := reg.GetClass("Game::Math::Vector").GeneratedBodyLine
		require.NotNil(t, line)
		require.EqualValues(t, 10, *line)
		require.Nil(t, reg.GetClass("Game::Circle").GeneratedBodyLine)
	})

	ttt.Run("nested class name keeps its record scope", func(t *testing.T) {
		inner := reg.GetType("Game::Outer::Inner")
		require.NotNil(t, inner)
		require.Equal(t, "Outer::Inner", inner.Name)
		require.Equal(t, "Game", inner.Namespace)
		require.Equal(t, "Game_Outer_Inner", inner.FlattenedName())
		require.Nil(t, reg.GetClass("Game::Outer::Inner"))
	})

	ttt.Run("unreflected base", func(t *testing.T) {
		circle := reg.GetClass("Game::Circle")
		require.Equal(t, []string{"Game::Shape"}, circle.BaseClasses)
		require.Equal(t, model.ClassTypeClass, circle.ClassType)

		shape := reg.GetClass("Game::Shape")
		require.NotNil(t, shape)
		require.False(t, shape.Metadata.IsReflected)
		require.True(t, shape.IsAbstract)
		require.Empty(t, shape.Methods)
		require.Equal(t, []string{"Game::Shape"}, names(circle.RecursiveBaseClasses(reg)))
	})
}

func TestReflectEnumsAndFunctions(ttt *testing.T) {
	reg := reflectFixture(ttt, "basics.txtar", "ClassCode.ast.yaml")

	ttt.Run("enum values keep declared values", func(t *testing.T) {
		color := reg.GetEnum("Game::Color")
		require.NotNil(t, color)
		type value struct {
			Name  string
			Value int64
		}
		got := make([]value, len(color.Values))
		for i, v := range color.Values {
			got[i] = value{Name: v.Name, Value: v.Value}
		}
		want := []value{{"Red", 1}, {"Green", 4}, {"Blue", -2}}
		require.Empty(t, cmp.Diff(want, got))
		require.True(t, color.Value("Green").Metadata.HasTag("Default"))
		require.NotNil(t, color.GeneratedBodyLine)
		require.EqualValues(t, 40, *color.GeneratedBodyLine)
		require.Equal(t, model.KindEnum, color.Type.Kind)
	})

	ttt.Run("function declarations are reflected", func(t *testing.T) {
		fn := reg.GetFunction("Game::Clamp")
		require.NotNil(t, fn)
		require.Equal(t, "Game_Clamp", fn.FlattenedName())
		require.Equal(t, "int Clamp(int,unsigned int)", fn.Signature())
		require.True(t, fn.ReturnType.Const)
		require.Equal(t, model.KindInt32, fn.ReturnType.Type.Kind)
		require.Len(t, fn.ArgumentTypes, 2)
		require.False(t, fn.ArgumentTypes[0].Const)
		require.Equal(t, model.KindUint32, fn.ArgumentTypes[1].Type.Kind)
		require.Same(t, fn.ReturnType.Type, fn.ArgumentTypes[0].Type)
	})
}

func TestReflectTemplates(ttt *testing.T) {
	tests := []struct {
		name  string
		dump  string
		class string
		want  []fieldShape
	}{
		{
			name:  "generic template keeps its parameter",
			dump:  "TemplateCode.ast.yaml",
			class: "TestNamespace::TemplatedClass",
			want:  []fieldShape{{Name: "mValue", Type: "T", Kind: model.KindTemplate}},
		},
		{
			name:  "specialization inherits bound fields",
			dump:  "TemplateCode.ast.yaml",
			class: "TestNamespace::TemplatedClass2<float>",
			want:  []fieldShape{{Name: "mValue", Type: "float", Kind: model.KindFloat}},
		},
		{
			name:  "class deriving from a specialization",
			dump:  "TemplateCode.ast.yaml",
			class: "TestNamespace::TemplatedClassSpecialization",
			want: []fieldShape{
				{Name: "mNonTemplatedField", Type: "bool", Kind: model.KindBool},
				{Name: "mValue", Type: "float", Kind: model.KindFloat},
			},
		},
		{
			name:  "arguments threaded through reordered parameters",
			dump:  "Reordered.ast.yaml",
			class: "Pair<int, float>",
			want: []fieldShape{
				{Name: "mFirst", Type: "int", Kind: model.KindInt32},
				{Name: "mHeld", Type: "float", Kind: model.KindFloat},
			},
		},
		{
			name:  "int specialization of a shared generic",
			dump:  "Chain.ast.yaml",
			class: "Holder<int>",
			want:  []fieldShape{{Name: "mHeld", Type: "int", Kind: model.KindInt32}},
		},
		{
			name:  "float specialization of a shared generic",
			dump:  "Chain.ast.yaml",
			class: "Holder<float>",
			want:  []fieldShape{{Name: "mHeld", Type: "float", Kind: model.KindFloat}},
		},
		{
			name:  "class deriving from the float specialization",
			dump:  "Chain.ast.yaml",
			class: "FloatBox",
			want:  []fieldShape{{Name: "mHeld", Type: "float", Kind: model.KindFloat}},
		},
		{
			name:  "arguments threaded through two reordered levels",
			dump:  "Chain.ast.yaml",
			class: "Triple<int, float, bool>",
			want: []fieldShape{
				{Name: "mMid", Type: "float", Kind: model.KindFloat},
				{Name: "mFirst", Type: "bool", Kind: model.KindBool},
				{Name: "mHeld", Type: "int", Kind: model.KindInt32},
			},
		},
		{
			name:  "class deriving from a three level specialization",
			dump:  "Chain.ast.yaml",
			class: "Tri",
			want: []fieldShape{
				{Name: "mMid", Type: "float", Kind: model.KindFloat},
				{Name: "mFirst", Type: "bool", Kind: model.KindBool},
				{Name: "mHeld", Type: "int", Kind: model.KindInt32},
			},
		},
		{
			name:  "class deriving from a reordered specialization",
			dump:  "Reordered.ast.yaml",
			class: "IntFloatPair",
			want: []fieldShape{
				{Name: "mFirst", Type: "int", Kind: model.KindInt32},
				{Name: "mHeld", Type: "float", Kind: model.KindFloat},
			},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			reg := reflectFixture(t, "templates.txtar", tt.dump)
			c := reg.GetClass(tt.class)
			require.NotNilf(t, c, "class %s not reflected", tt.class)
			require.Empty(t, cmp.Diff(tt.want, fieldShapes(c)))
		})
	}

	ttt.Run("template shapes", func(t *testing.T) {
		reg := reflectFixture(t, "templates.txtar", "TemplateCode.ast.yaml")

		generic := reg.GetClass("TestNamespace::TemplatedClass")
		require.True(t, generic.Type.Template.IsGeneric())
		require.Equal(t, []string{"T"}, names(generic.Type.Template.Arguments))
		require.False(t, generic.Type.IsInstantiable())

		generic2 := reg.GetClass("TestNamespace::TemplatedClass2")
		require.Equal(t, []string{"TestNamespace::TemplatedClass"}, generic2.BaseClasses)
		require.NotNil(t, generic2.GeneratedBodyLine)
		require.EqualValues(t, 15, *generic2.GeneratedBodyLine)

		spec := reg.GetClass("TestNamespace::TemplatedClass2<float>")
		require.True(t, spec.Type.Template.IsSpecialized())
		require.Equal(t, "TestNamespace::TemplatedClass2", spec.Type.TemplateType())
		require.Equal(t, []string{"float"}, names(spec.Type.Template.Arguments))
		require.Nil(t, spec.GeneratedBodyLine)
		require.True(t, spec.Type.IsInstantiable())

		derived := reg.GetClass("TestNamespace::TemplatedClassSpecialization")
		require.Equal(t, []string{"TestNamespace::TemplatedClass2<float>"}, derived.BaseClasses)
		require.Equal(t,
			[]string{"TestNamespace::TemplatedClass2<float>", "TestNamespace::TemplatedClass"},
			names(derived.RecursiveBaseClasses(reg)),
		)
	})

	ttt.Run("struct templates keep their record kind", func(t *testing.T) {
		reg := reflectFixture(t, "templates.txtar", "Reordered.ast.yaml")
		require.Equal(t, model.ClassTypeStruct, reg.GetClass("Holder").ClassType)
		require.Equal(t, model.ClassTypeStruct, reg.GetClass("Pair<int, float>").ClassType)
		require.Equal(t, []string{"B"}, names(reg.GetClass("Pair").BaseArguments["Holder"]))
	})
}

func TestReflectAliases(ttt *testing.T) {
	reg := reflectFixture(ttt, "aliases.txtar", "AliasCode.ast.yaml")

	tests := []struct {
		alias     string
		aliasType string
		class     string
		enum      string
	}{
		{alias: "IntAlias", aliasType: "int"},
		{alias: "ClassAlias", aliasType: "ClassForAlias", class: "ClassForAlias"},
		{alias: "EnumAlias", aliasType: "EnumForAlias", enum: "EnumForAlias"},
		{alias: "AliasAlias", aliasType: "EnumForAlias", enum: "EnumForAlias"},
		{alias: "TemplateAlias", aliasType: "TemplatedClassForAlias<int>", class: "TemplatedClassForAlias<int>"},
		{alias: "TemplateSpecializationAlias", aliasType: "TemplatedSpecializationForAlias", class: "TemplatedSpecializationForAlias"},
		{alias: "NamespacedAlias", aliasType: "TestNamespace::NamespacedClassForAlias", class: "TestNamespace::NamespacedClassForAlias"},
		{alias: "TestNamespace::NamespacedAlias", aliasType: "TestNamespace::NamespacedClassForAlias", class: "TestNamespace::NamespacedClassForAlias"},
	}
	for _, tt := range tests {
		ttt.Run(tt.alias, func(t *testing.T) {
			a := reg.GetAlias(tt.alias)
			require.NotNil(t, a)
			require.Equal(t, tt.aliasType, a.AliasType.QualifiedName())
			require.Equal(t, tt.class, a.AliasClass)
			require.Equal(t, tt.enum, a.AliasEnum)

			if tt.class != "" {
				c := a.GetUnderlyingClass(reg)
				require.NotNil(t, c)
				require.Equal(t, tt.class, c.Type.QualifiedName())
			} else {
				require.Nil(t, a.GetUnderlyingClass(reg))
			}
			if tt.enum != "" {
				require.NotNil(t, a.GetUnderlyingEnum(reg))
			}
		})
	}

	ttt.Run("alias of a builtin keeps the builtin kind", func(t *testing.T) {
		a := reg.GetAlias("IntAlias")
		require.Equal(t, model.KindInt32, a.Type.Kind)
		require.True(t, a.Type.IsInteger())
	})

	ttt.Run("namespaced aliases stay distinct", func(t *testing.T) {
		global := reg.GetAlias("NamespacedAlias")
		inner := reg.GetAlias("TestNamespace::NamespacedAlias")
		require.NotSame(t, global, inner)
		require.True(t, global.Type.IsInGlobalNamespace())
		require.Equal(t, "NamespacedAlias", inner.Type.Name)
		require.Equal(t, "TestNamespace", inner.Type.Namespace)
	})

	ttt.Run("aliased specializations are reflected", func(t *testing.T) {
		for _, name := range []string{"TemplatedClassForAlias<int>", "TemplatedClassForAlias<float>"} {
			c := reg.GetClass(name)
			require.NotNilf(t, c, "%s not reflected", name)
			require.True(t, c.Type.Template.IsSpecialized())
		}
		require.Equal(t,
			[]string{"TemplatedClassForAlias<float>"},
			reg.GetClass("TemplatedSpecializationForAlias").BaseClasses,
		)
	})
}

func TestReflectErrors(ttt *testing.T) {
	files := loadArchive(ttt, "errors.txtar")
	collide := func(s string) uint32 {
		if s == "mAlpha" || s == "mBeta" {
			return 7
		}
		return registry.CRC32(s)
	}

	tests := []struct {
		name     string
		dump     string
		reg      []registry.Option
		opts     []parser.Option
		wantIs   error
		wantErr  string
		wantDiag int
	}{
		{
			name:    "reflected constructor",
			dump:    "Constructor.ast.yaml",
			wantIs:  ErrUnhandledCursor,
			wantErr: "/mod/Constructor.h(5):",
		},
		{
			name:    "specialization without a reflected template",
			dump:    "MissingTemplate.ast.yaml",
			wantIs:  ErrMissingTemplate,
			wantErr: "template type for 'Container<int>' was not found",
		},
		{
			name:    "unknown metadata lifetime",
			dump:    "BadAnnotation.ast.yaml",
			wantErr: `/mod/BadAnnotation.h(7): annotation "cpprefl-meta-forever:Name,Value": unknown metadata lifetime "forever"`,
		},
		{
			name:    "field hash collision",
			dump:    "Collision.ast.yaml",
			reg:     []registry.Option{registry.WithHashFunction(collide)},
			wantIs:  registry.ErrHashCollision,
			wantErr: `field hash collision in Particle: "mAlpha" and "mBeta"`,
		},
		{
			name:     "frontend errors fail by default",
			dump:     "Diagnostics.ast.yaml",
			wantIs:   ErrDiagnostics,
			wantErr:  "/mod/Diagnostics.h(3): error: unknown type name 'Foo'",
			wantDiag: 1,
		},
		{
			name:     "warnings raised on request",
			dump:     "Diagnostics.ast.yaml",
			opts:     []parser.Option{parser.WithRaiseWarnings()},
			wantIs:   ErrDiagnostics,
			wantErr:  "/mod/Diagnostics.h(2): warning: unused parameter 'x'",
			wantDiag: 2,
		},
		{
			name: "errors ignored on request",
			dump: "Diagnostics.ast.yaml",
			opts: []parser.Option{parser.WithIgnoreErrors()},
		},
		{
			name:     "fatal diagnostics always fail",
			dump:     "Fatal.ast.yaml",
			opts:     []parser.Option{parser.WithIgnoreErrors()},
			wantIs:   ErrDiagnostics,
			wantErr:  "/mod/Missing.h(1): fatal: 'Missing.h' file not found",
			wantDiag: 1,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			p := newParser(t, files[tt.dump], registry.New(tt.reg...), tt.opts...)
			err := p.Parse(context.Background())
			if tt.wantIs == nil && tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
			require.Contains(t, err.Error(), tt.wantErr)
			if tt.wantDiag > 0 {
				var diag *DiagnosticsError
				require.True(t, errors.As(err, &diag))
				require.Len(t, diag.Errors(), tt.wantDiag)
			}
		})
	}

	ttt.Run("hash collision details", func(t *testing.T) {
		p := newParser(t, files["Collision.ast.yaml"], registry.New(registry.WithHashFunction(collide)))
		err := p.Parse(context.Background())
		var hc *registry.HashCollisionError
		require.True(t, errors.As(err, &hc))
		require.Equal(t, "field", hc.Kind)
		require.Equal(t, "Particle", hc.Owner)
		require.EqualValues(t, 7, hc.Hash)
	})

	ttt.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := newParser(t, files["Constructor.ast.yaml"], nil)
		require.ErrorIs(t, p.Parse(ctx), context.Canceled)
	})

	ttt.Run("missing translation unit", func(t *testing.T) {
		p := newParser(t, []byte("file: /mod/Empty.h\n"), nil, parser.WithInputFile("/mod/Empty.h"))
		require.ErrorIs(t, p.Parse(context.Background()), ErrNoTranslation)
	})
}

func TestApplyAnnotation(ttt *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTags  []model.MetadataValue
		wantAttrs map[string]model.MetadataValue
		wantErr   string
	}{
		{
			name: "marker only",
			text: "cpprefl",
		},
		{
			name:     "runtime tag",
			text:     "cpprefl,Serializable",
			wantTags: []model.MetadataValue{{Value: "Serializable", Lifetime: model.LifetimeRuntime}},
		},
		{
			name:      "runtime attribute keeps commas in its value",
			text:      "cpprefl,Range, 0, 10",
			wantAttrs: map[string]model.MetadataValue{"Range": {Value: "0, 10", Lifetime: model.LifetimeRuntime}},
		},
		{
			name:     "compile tag",
			text:     "cpprefl-meta-compile:EditorOnly,",
			wantTags: []model.MetadataValue{{Value: "EditorOnly", Lifetime: model.LifetimeCompile}},
		},
		{
			name:     "meta tag without separator",
			text:     "cpprefl-meta-runtime:Transient",
			wantTags: []model.MetadataValue{{Value: "Transient", Lifetime: model.LifetimeRuntime}},
		},
		{
			name:      "runtime attribute",
			text:      "cpprefl-meta-runtime:DisplayName,Player Name",
			wantAttrs: map[string]model.MetadataValue{"DisplayName": {Value: "Player Name", Lifetime: model.LifetimeRuntime}},
		},
		{
			name:    "missing lifetime separator",
			text:    "cpprefl-meta-runtime",
			wantErr: "malformed annotation",
		},
		{
			name:    "missing name",
			text:    "cpprefl-meta-compile:,Value",
			wantErr: "has no name",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			var meta model.MetadataInfo
			err := applyAnnotation(&meta, tt.text)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Empty(t, cmp.Diff(tt.wantTags, meta.Tags))
			require.Empty(t, cmp.Diff(tt.wantAttrs, meta.Attributes))
		})
	}
}

// kindType is a frontend.Type carrying only a kind.
type kindType struct {
	kind  frontend.TypeKind
	param bool
}

func (k kindType) Kind() frontend.TypeKind            { return k.kind }
func (k kindType) Spelling() string                   { return k.kind.String() }
func (k kindType) IsTemplateParameter() bool          { return k.param }
func (k kindType) Canonical() frontend.Type           { return k }
func (k kindType) ArrayElement() frontend.Type        { return nil }
func (k kindType) Unqualified() frontend.Type         { return k }
func (k kindType) IsConst() bool                      { return false }
func (k kindType) Declaration() frontend.Cursor       { return nil }
func (k kindType) TemplateArguments() []frontend.Type { return nil }

func TestKindOf(ttt *testing.T) {
	tests := []struct {
		in   kindType
		want model.TypeKind
	}{
		{in: kindType{kind: frontend.TypeBool}, want: model.KindBool},
		{in: kindType{kind: frontend.TypeUChar}, want: model.KindUint8},
		{in: kindType{kind: frontend.TypeCharS}, want: model.KindInt8},
		{in: kindType{kind: frontend.TypeWChar}, want: model.KindInt16},
		{in: kindType{kind: frontend.TypeULong}, want: model.KindUint32},
		{in: kindType{kind: frontend.TypeLong}, want: model.KindInt32},
		{in: kindType{kind: frontend.TypeLongLong}, want: model.KindInt64},
		{in: kindType{kind: frontend.TypeLongDouble}, want: model.KindLongDouble},
		{in: kindType{kind: frontend.TypeRecord}, want: model.KindClass},
		{in: kindType{kind: frontend.TypeEnum}, want: model.KindEnum},
		{in: kindType{kind: frontend.TypeVoid}, want: model.KindVoid},
		{in: kindType{kind: frontend.TypePointer}, want: model.KindInvalid},
		{in: kindType{kind: frontend.TypeUnexposed, param: true}, want: model.KindTemplate},
	}
	for _, tt := range tests {
		ttt.Run(tt.in.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.want, kindOf(tt.in))
		})
	}
}
