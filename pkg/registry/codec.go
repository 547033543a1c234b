package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/mod/semver"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// FormatVersion is written into every persisted registry. Readers accept
// any version with the same major.
const FormatVersion = "v1.1.0"

type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

const (
	JSONExtension    = ".reflregistry.json"
	MsgpackExtension = ".reflregistry.mp"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack, "mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown registry format %q", s)
}

// Extension is the file suffix persisted registries of this format use.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return MsgpackExtension
	}
	return JSONExtension
}

// FormatOf infers the format from a registry file name.
func FormatOf(path string) (Format, bool) {
	switch {
	case strings.HasSuffix(path, JSONExtension):
		return FormatJSON, true
	case strings.HasSuffix(path, MsgpackExtension):
		return FormatMsgpack, true
	}
	return "", false
}

// Header describes a persisted registry.
type Header struct {
	Version string
	// Source is the input file the registry was reflected from. Module
	// aggregates leave it empty.
	Source string
}

type document struct {
	Version   string         `json:"version" msgpack:"version"`
	Source    string         `json:"source,omitempty" msgpack:"source,omitempty"`
	Types     []wireType     `json:"types" msgpack:"types"`
	Classes   []wireClass    `json:"classes" msgpack:"classes"`
	Enums     []wireEnum     `json:"enums" msgpack:"enums"`
	Aliases   []wireAlias    `json:"aliases" msgpack:"aliases"`
	Functions []wireFunction `json:"functions" msgpack:"functions"`
}

type wireTemplate struct {
	Form      model.TemplateForm `json:"form" msgpack:"form"`
	Arguments []string           `json:"arguments" msgpack:"arguments"`
}

type wireType struct {
	model.Identity
	Kind     model.TypeKind `json:"kind" msgpack:"kind"`
	Template *wireTemplate  `json:"template,omitempty" msgpack:"template,omitempty"`
}

type wireInstance struct {
	Type  string `json:"type" msgpack:"type"`
	Const bool   `json:"const,omitempty" msgpack:"const,omitempty"`
}

type wireField struct {
	Name     string             `json:"name" msgpack:"name"`
	Type     wireInstance       `json:"type" msgpack:"type"`
	Metadata model.MetadataInfo `json:"metadata" msgpack:"metadata"`
}

type wireMethod struct {
	Name      string             `json:"name" msgpack:"name"`
	Return    wireInstance       `json:"return" msgpack:"return"`
	Arguments []wireInstance     `json:"arguments,omitempty" msgpack:"arguments,omitempty"`
	Metadata  model.MetadataInfo `json:"metadata" msgpack:"metadata"`
}

type wireClass struct {
	Type              string              `json:"type" msgpack:"type"`
	Metadata          model.MetadataInfo  `json:"metadata" msgpack:"metadata"`
	Fields            []wireField         `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Methods           []wireMethod        `json:"methods,omitempty" msgpack:"methods,omitempty"`
	BaseClasses       []string            `json:"base_classes,omitempty" msgpack:"base_classes,omitempty"`
	BaseArguments     map[string][]string `json:"base_arguments,omitempty" msgpack:"base_arguments,omitempty"`
	ClassType         model.ClassType     `json:"class_type" msgpack:"class_type"`
	IsAbstract        bool                `json:"abstract,omitempty" msgpack:"abstract,omitempty"`
	GeneratedBodyLine *uint32             `json:"generated_body_line,omitempty" msgpack:"generated_body_line,omitempty"`
}

type wireEnumValue struct {
	Name     string             `json:"name" msgpack:"name"`
	Value    int64              `json:"value" msgpack:"value"`
	Metadata model.MetadataInfo `json:"metadata" msgpack:"metadata"`
}

type wireEnum struct {
	Type              string             `json:"type" msgpack:"type"`
	Metadata          model.MetadataInfo `json:"metadata" msgpack:"metadata"`
	Values            []wireEnumValue    `json:"values,omitempty" msgpack:"values,omitempty"`
	GeneratedBodyLine *uint32            `json:"generated_body_line,omitempty" msgpack:"generated_body_line,omitempty"`
}

type wireAlias struct {
	Type       string             `json:"type" msgpack:"type"`
	AliasType  string             `json:"alias_type" msgpack:"alias_type"`
	AliasClass string             `json:"alias_class,omitempty" msgpack:"alias_class,omitempty"`
	AliasEnum  string             `json:"alias_enum,omitempty" msgpack:"alias_enum,omitempty"`
	Metadata   model.MetadataInfo `json:"metadata" msgpack:"metadata"`
}

type wireFunction struct {
	model.Identity
	Return    wireInstance       `json:"return" msgpack:"return"`
	Arguments []wireInstance     `json:"arguments,omitempty" msgpack:"arguments,omitempty"`
	Metadata  model.MetadataInfo `json:"metadata" msgpack:"metadata"`
}

// Encode writes r in the given format.
func Encode(w io.Writer, format Format, h Header, r *Registry) error {
	doc := toDocument(h, r)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown registry format %q", format)
}

// Decode reads a registry written by Encode. Type references are re-linked
// so the decoded registry shares one TypeInfo per name; a reference to a
// type the document does not define is an error.
func Decode(rd io.Reader, format Format, opts ...Option) (*Registry, Header, error) {
	var doc document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(rd).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(rd).Decode(&doc)
	default:
		err = fmt.Errorf("unknown registry format %q", format)
	}
	if err != nil {
		return nil, Header{}, fmt.Errorf("decode registry: %w", err)
	}
	h := Header{Version: doc.Version, Source: doc.Source}
	if !semver.IsValid(doc.Version) || semver.Major(doc.Version) != semver.Major(FormatVersion) {
		return nil, h, fmt.Errorf("%w: %q, want %s.x", ErrIncompatibleFormat, doc.Version, semver.Major(FormatVersion))
	}
	r, err := fromDocument(&doc, opts...)
	if err != nil {
		return nil, h, err
	}
	return r, h, nil
}

func toDocument(h Header, r *Registry) *document {
	doc := &document{Version: FormatVersion, Source: h.Source}
	for _, t := range r.Types() {
		wt := wireType{Identity: t.Identity, Kind: t.Kind}
		if t.Template != nil {
			wt.Template = &wireTemplate{Form: t.Template.Form, Arguments: names(t.Template.Arguments)}
		}
		doc.Types = append(doc.Types, wt)
	}
	for _, c := range r.Classes() {
		wc := wireClass{
			Type:              c.Type.QualifiedName(),
			Metadata:          c.Metadata,
			BaseClasses:       c.BaseClasses,
			ClassType:         c.ClassType,
			IsAbstract:        c.IsAbstract,
			GeneratedBodyLine: c.GeneratedBodyLine,
		}
		for _, f := range c.Fields {
			wc.Fields = append(wc.Fields, wireField{Name: f.Name, Type: toInstance(f.Type), Metadata: f.Metadata})
		}
		for _, m := range c.Methods {
			wc.Methods = append(wc.Methods, wireMethod{
				Name:      m.Name,
				Return:    toInstance(m.ReturnType),
				Arguments: toInstances(m.ArgumentTypes),
				Metadata:  m.Metadata,
			})
		}
		if len(c.BaseArguments) > 0 {
			wc.BaseArguments = make(map[string][]string, len(c.BaseArguments))
			for base, args := range c.BaseArguments {
				wc.BaseArguments[base] = names(args)
			}
		}
		doc.Classes = append(doc.Classes, wc)
	}
	for _, e := range r.Enums() {
		we := wireEnum{Type: e.Type.QualifiedName(), Metadata: e.Metadata, GeneratedBodyLine: e.GeneratedBodyLine}
		for _, v := range e.Values {
			we.Values = append(we.Values, wireEnumValue{Name: v.Name, Value: v.Value, Metadata: v.Metadata})
		}
		doc.Enums = append(doc.Enums, we)
	}
	for _, a := range r.Aliases() {
		doc.Aliases = append(doc.Aliases, wireAlias{
			Type:       a.Type.QualifiedName(),
			AliasType:  a.AliasType.QualifiedName(),
			AliasClass: a.AliasClass,
			AliasEnum:  a.AliasEnum,
			Metadata:   a.Metadata,
		})
	}
	for _, f := range r.Functions() {
		doc.Functions = append(doc.Functions, wireFunction{
			Identity:  f.Identity,
			Return:    toInstance(f.ReturnType),
			Arguments: toInstances(f.ArgumentTypes),
			Metadata:  f.Metadata,
		})
	}
	return doc
}

func names(types []*model.TypeInfo) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.QualifiedName()
	}
	return out
}

func toInstance(ti model.TypeInstanceInfo) wireInstance {
	return wireInstance{Type: ti.Type.QualifiedName(), Const: ti.Const}
}

func toInstances(in []model.TypeInstanceInfo) []wireInstance {
	if len(in) == 0 {
		return nil
	}
	out := make([]wireInstance, len(in))
	for i, ti := range in {
		out[i] = toInstance(ti)
	}
	return out
}

type decoder struct {
	r *Registry
}

func fromDocument(doc *document, opts ...Option) (*Registry, error) {
	d := decoder{r: New(opts...)}

	// Types first as shells, then their template arguments, so arguments
	// may refer to types listed later.
	for _, wt := range doc.Types {
		t := &model.TypeInfo{Identity: wt.Identity, Kind: wt.Kind}
		if err := d.r.AddType(t); err != nil {
			return nil, err
		}
	}
	for _, wt := range doc.Types {
		if wt.Template == nil {
			continue
		}
		args, err := d.types(wt.Template.Arguments)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", wt.QualifiedName(), err)
		}
		d.r.types[wt.QualifiedName()].Template = model.NewTemplate(wt.Template.Form, args)
	}

	for _, wc := range doc.Classes {
		c, err := d.class(wc)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", wc.Type, err)
		}
		if err := d.r.AddClass(c); err != nil {
			return nil, err
		}
	}
	for _, we := range doc.Enums {
		t, err := d.typ(we.Type)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}
		e := &model.EnumInfo{Type: t, Metadata: we.Metadata, GeneratedBodyLine: we.GeneratedBodyLine}
		for _, v := range we.Values {
			e.Values = append(e.Values, &model.EnumValueInfo{Name: v.Name, Value: v.Value, Metadata: v.Metadata})
		}
		d.r.AddEnum(e)
	}
	for _, wa := range doc.Aliases {
		t, err := d.typ(wa.Type)
		if err != nil {
			return nil, fmt.Errorf("alias: %w", err)
		}
		at, err := d.typ(wa.AliasType)
		if err != nil {
			return nil, fmt.Errorf("alias %s: %w", wa.Type, err)
		}
		d.r.AddAlias(&model.AliasInfo{
			Type:       t,
			AliasType:  at,
			AliasClass: wa.AliasClass,
			AliasEnum:  wa.AliasEnum,
			Metadata:   wa.Metadata,
		})
	}
	for _, wf := range doc.Functions {
		ret, args, err := d.callable(wf.Return, wf.Arguments)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", wf.QualifiedName(), err)
		}
		f := &model.FunctionInfo{Identity: wf.Identity, ReturnType: ret, ArgumentTypes: args, Metadata: wf.Metadata}
		if err := d.r.AddFunction(f); err != nil {
			return nil, err
		}
	}
	return d.r, nil
}

func (d decoder) typ(name string) (*model.TypeInfo, error) {
	t := d.r.types[name]
	if t == nil {
		return nil, fmt.Errorf("reference to unknown type %q", name)
	}
	return t, nil
}

func (d decoder) types(names []string) ([]*model.TypeInfo, error) {
	out := make([]*model.TypeInfo, len(names))
	for i, n := range names {
		t, err := d.typ(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (d decoder) instance(wi wireInstance) (model.TypeInstanceInfo, error) {
	t, err := d.typ(wi.Type)
	if err != nil {
		return model.TypeInstanceInfo{}, err
	}
	return model.TypeInstanceInfo{Type: t, Const: wi.Const}, nil
}

func (d decoder) callable(ret wireInstance, args []wireInstance) (model.TypeInstanceInfo, []model.TypeInstanceInfo, error) {
	r, err := d.instance(ret)
	if err != nil {
		return r, nil, err
	}
	var out []model.TypeInstanceInfo
	for _, a := range args {
		ai, err := d.instance(a)
		if err != nil {
			return r, nil, err
		}
		out = append(out, ai)
	}
	return r, out, nil
}

func (d decoder) class(wc wireClass) (*model.ClassInfo, error) {
	t, err := d.typ(wc.Type)
	if err != nil {
		return nil, err
	}
	c := &model.ClassInfo{
		Type:              t,
		Metadata:          wc.Metadata,
		BaseClasses:       wc.BaseClasses,
		ClassType:         wc.ClassType,
		IsAbstract:        wc.IsAbstract,
		GeneratedBodyLine: wc.GeneratedBodyLine,
	}
	for _, wf := range wc.Fields {
		ti, err := d.instance(wf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", wf.Name, err)
		}
		c.Fields = append(c.Fields, &model.FieldInfo{Name: wf.Name, Type: ti, Metadata: wf.Metadata})
	}
	for _, wm := range wc.Methods {
		ret, args, err := d.callable(wm.Return, wm.Arguments)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", wm.Name, err)
		}
		c.Methods = append(c.Methods, &model.MethodInfo{Name: wm.Name, ReturnType: ret, ArgumentTypes: args, Metadata: wm.Metadata})
	}
	if len(wc.BaseArguments) > 0 {
		c.BaseArguments = make(map[string][]*model.TypeInfo, len(wc.BaseArguments))
		for base, argNames := range wc.BaseArguments {
			args, err := d.types(argNames)
			if err != nil {
				return nil, fmt.Errorf("base %s: %w", base, err)
			}
			c.BaseArguments[base] = args
		}
	}
	return c, nil
}
