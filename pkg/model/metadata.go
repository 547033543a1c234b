package model

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Lifetime says when a metadata value is available. Runtime implies Compile.
type Lifetime uint8

const (
	LifetimeCompile Lifetime = 1
	LifetimeRuntime Lifetime = 3
)

func (l Lifetime) Has(flag Lifetime) bool { return l&flag == flag }

func (l Lifetime) String() string {
	switch l {
	case LifetimeCompile:
		return "compile"
	case LifetimeRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("Lifetime(%d)", uint8(l))
	}
}

func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Lifetime) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "compile":
		*l = LifetimeCompile
	case "runtime":
		*l = LifetimeRuntime
	default:
		return fmt.Errorf("unknown metadata lifetime %q", string(text))
	}
	return nil
}

type MetadataValue struct {
	Value    string   `json:"value" msgpack:"value"`
	Lifetime Lifetime `json:"lifetime" msgpack:"lifetime"`
}

// SourceLocation is where a declaration was found.
type SourceLocation struct {
	File string `json:"file" msgpack:"file"`
	Line uint32 `json:"line" msgpack:"line"`
}

// IDEDiagnostic formats the location the way IDE error lists expect it.
func (s SourceLocation) IDEDiagnostic() string {
	return fmt.Sprintf("%s(%d):", s.File, s.Line)
}

// FilenameNoExt returns the file's base name without its extension.
func (s SourceLocation) FilenameNoExt() string {
	base := filepath.Base(s.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WithinDirectory reports whether the location's file lies under dir.
func (s SourceLocation) WithinDirectory(dir string) bool {
	return PathWithin(s.File, dir)
}

// PathWithin reports whether path equals dir or lies underneath it.
func PathWithin(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	path, dir = filepath.Clean(path), filepath.Clean(dir)
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// MetadataInfo is attached to every reflected entity.
type MetadataInfo struct {
	IsReflected    bool                     `json:"is_reflected" msgpack:"is_reflected"`
	Tags           []MetadataValue          `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Attributes     map[string]MetadataValue `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	SourceLocation SourceLocation           `json:"source_location" msgpack:"source_location"`
	Comment        string                   `json:"comment,omitempty" msgpack:"comment,omitempty"`
}

func (m MetadataInfo) tags(flag Lifetime) []MetadataValue {
	out := make([]MetadataValue, 0, len(m.Tags))
	for _, t := range m.Tags {
		if t.Lifetime.Has(flag) {
			out = append(out, t)
		}
	}
	return out
}

// attributes returns the keys carrying flag, sorted for stable output.
func (m MetadataInfo) attributes(flag Lifetime) []string {
	keys := make([]string, 0, len(m.Attributes))
	for k, v := range m.Attributes {
		if v.Lifetime.Has(flag) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m MetadataInfo) CompileTags() []MetadataValue { return m.tags(LifetimeCompile) }
func (m MetadataInfo) RuntimeTags() []MetadataValue { return m.tags(LifetimeRuntime) }

// CompileAttributes returns the names of attributes visible at compile time.
func (m MetadataInfo) CompileAttributes() []string { return m.attributes(LifetimeCompile) }

// RuntimeAttributes returns the names of attributes visible at runtime.
func (m MetadataInfo) RuntimeAttributes() []string { return m.attributes(LifetimeRuntime) }

// HasTag reports whether a tag with the given value is present.
func (m MetadataInfo) HasTag(value string) bool {
	for _, t := range m.Tags {
		if t.Value == value {
			return true
		}
	}
	return false
}
