// Package inspect summarizes persisted registries for people.
package inspect

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/jbpagliuco/CppRefl/pkg/manifest"
	"github.com/jbpagliuco/CppRefl/pkg/model"
	"github.com/jbpagliuco/CppRefl/pkg/parser"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

// Summary is a readable view of a registry.
type Summary struct {
	Version   string     `yaml:"version" json:"version"`
	Source    string     `yaml:"source,omitempty" json:"source,omitempty"`
	Classes   []Class    `yaml:"classes,omitempty" json:"classes,omitempty"`
	Enums     []Enum     `yaml:"enums,omitempty" json:"enums,omitempty"`
	Aliases   []Alias    `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Functions []Function `yaml:"functions,omitempty" json:"functions,omitempty"`
}

type Class struct {
	Name       string            `yaml:"name" json:"name"`
	Kind       string            `yaml:"kind" json:"kind"`
	Location   string            `yaml:"location" json:"location"`
	Reflected  bool              `yaml:"reflected" json:"reflected"`
	Abstract   bool              `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Bases      []string          `yaml:"bases,omitempty" json:"bases,omitempty"`
	Fields     []string          `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods    []string          `yaml:"methods,omitempty" json:"methods,omitempty"`
	Tags       []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

type Enum struct {
	Name     string   `yaml:"name" json:"name"`
	Location string   `yaml:"location" json:"location"`
	Values   []string `yaml:"values" json:"values"`
	Tags     []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

type Alias struct {
	Name   string `yaml:"name" json:"name"`
	Target string `yaml:"target" json:"target"`
}

type Function struct {
	Signature string   `yaml:"signature" json:"signature"`
	Location  string   `yaml:"location" json:"location"`
	Tags      []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Load reads the registry at path and summarizes it. Unreflected
// declarations are left out unless all is set.
func Load(path string, opts *parser.Options, all bool) (*Summary, error) {
	reg, h, err := registry.Load(path, opts.Retry(), opts.RegistryOptions()...)
	if err != nil {
		return nil, err
	}
	s := Summarize(reg, all)
	s.Version, s.Source = h.Version, h.Source
	return s, nil
}

// Summarize builds a Summary of reg.
func Summarize(reg *registry.Registry, all bool) *Summary {
	s := &Summary{}
	keep := func(m model.MetadataInfo) bool { return all || m.IsReflected }
	for _, c := range reg.Classes() {
		if !keep(c.Metadata) {
			continue
		}
		cs := Class{
			Name:       c.Type.QualifiedName(),
			Kind:       c.ClassType.String(),
			Location:   location(c.Metadata),
			Reflected:  c.Metadata.IsReflected,
			Abstract:   c.IsAbstract,
			Bases:      c.BaseClasses,
			Tags:       tags(c.Metadata),
			Attributes: attributes(c.Metadata),
		}
		for _, f := range c.Fields {
			cs.Fields = append(cs.Fields, fmt.Sprintf("%s %s", instance(f.Type), f.Name))
		}
		for _, m := range c.Methods {
			cs.Methods = append(cs.Methods, m.Signature())
		}
		s.Classes = append(s.Classes, cs)
	}
	for _, e := range reg.Enums() {
		if !keep(e.Metadata) {
			continue
		}
		es := Enum{Name: e.Type.QualifiedName(), Location: location(e.Metadata), Tags: tags(e.Metadata)}
		for _, v := range e.Values {
			es.Values = append(es.Values, fmt.Sprintf("%s = %d", v.Name, v.Value))
		}
		s.Enums = append(s.Enums, es)
	}
	for _, a := range reg.Aliases() {
		if !keep(a.Metadata) {
			continue
		}
		target := ""
		if a.AliasType != nil {
			target = a.AliasType.QualifiedName()
		}
		s.Aliases = append(s.Aliases, Alias{Name: a.Type.QualifiedName(), Target: target})
	}
	for _, f := range reg.Functions() {
		if !keep(f.Metadata) {
			continue
		}
		s.Functions = append(s.Functions, Function{Signature: f.Signature(), Location: location(f.Metadata), Tags: tags(f.Metadata)})
	}
	return s
}

// Manifest returns the module manifest recorded under opts.
func Manifest(opts *parser.Options) (*manifest.Manifest, error) {
	return manifest.Load(opts.Manifest)
}

// Diff returns a textual diff from previous to current, empty when equal.
func Diff(previous, current *Summary) string {
	return cmp.Diff(previous, current)
}

func location(m model.MetadataInfo) string {
	return fmt.Sprintf("%s:%d", m.SourceLocation.File, m.SourceLocation.Line)
}

func instance(ti model.TypeInstanceInfo) string {
	if ti.Const {
		return "const " + ti.Type.QualifiedName()
	}
	return ti.Type.QualifiedName()
}

func tags(m model.MetadataInfo) []string {
	var out []string
	for _, t := range m.Tags {
		out = append(out, t.Value)
	}
	return out
}

func attributes(m model.MetadataInfo) map[string]string {
	if len(m.Attributes) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Attributes))
	for k, v := range m.Attributes {
		out[k] = v.Value
	}
	return out
}
