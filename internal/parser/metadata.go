package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/model"
)

const (
	// AnnotationMarker appears in every reflection annotation.
	AnnotationMarker = "cpprefl"
	// BodyMarker is the member the generated-body macro declares.
	BodyMarker = "__CppReflGeneratedReflectionCodeMarker"

	annotationSeparator = ","
	metaPrefix          = AnnotationMarker + "-meta-"
)

// Annotation forms:
//
//	cpprefl                              reflected, no metadata
//	cpprefl,Tag                          runtime tag
//	cpprefl,Key,Value                    runtime attribute; Value may hold commas
//	cpprefl-meta-<lifetime>:Name,        tag
//	cpprefl-meta-<lifetime>:Name,Value   attribute
func applyAnnotation(meta *model.MetadataInfo, text string) error {
	if rest, ok := strings.CutPrefix(text, metaPrefix); ok {
		lifetimeText, body, ok := strings.Cut(rest, ":")
		if !ok {
			return fmt.Errorf("malformed annotation %q", text)
		}
		var lifetime model.Lifetime
		if err := lifetime.UnmarshalText([]byte(lifetimeText)); err != nil {
			return fmt.Errorf("annotation %q: %w", text, err)
		}
		name, value, _ := strings.Cut(body, annotationSeparator)
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" {
			return fmt.Errorf("annotation %q has no name", text)
		}
		addMetadata(meta, name, value, lifetime)
		return nil
	}

	parts := strings.SplitN(text, annotationSeparator, 3)
	switch len(parts) {
	case 2:
		addMetadata(meta, strings.TrimSpace(parts[1]), "", model.LifetimeRuntime)
	case 3:
		addMetadata(meta, strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), model.LifetimeRuntime)
	}
	return nil
}

func addMetadata(meta *model.MetadataInfo, name, value string, lifetime model.Lifetime) {
	if value == "" {
		meta.Tags = append(meta.Tags, model.MetadataValue{Value: name, Lifetime: lifetime})
		return
	}
	if meta.Attributes == nil {
		meta.Attributes = map[string]model.MetadataValue{}
	}
	meta.Attributes[name] = model.MetadataValue{Value: value, Lifetime: lifetime}
}

func sourceLocation(c frontend.Cursor) (model.SourceLocation, error) {
	loc := c.Location()
	line, err := safecast.Conv[uint32](loc.Line)
	if err != nil {
		return model.SourceLocation{}, fmt.Errorf("%s line %d: %w", loc.File, loc.Line, err)
	}
	return model.SourceLocation{File: loc.File, Line: line}, nil
}

// cursorMetadata reads the annotation children of c. Declarations without
// a reflection annotation come back with IsReflected false.
func cursorMetadata(c frontend.Cursor) (model.MetadataInfo, error) {
	loc, err := sourceLocation(c)
	if err != nil {
		return model.MetadataInfo{}, err
	}
	meta := model.MetadataInfo{SourceLocation: loc, Comment: c.RawComment()}
	for _, child := range c.Children() {
		if child.Kind() != frontend.CursorAnnotateAttr {
			continue
		}
		text := child.Spelling()
		if !strings.Contains(text, AnnotationMarker) {
			continue
		}
		meta.IsReflected = true
		if err := applyAnnotation(&meta, text); err != nil {
			return meta, fmt.Errorf("%s %w", loc.IDEDiagnostic(), err)
		}
	}
	return meta, nil
}
