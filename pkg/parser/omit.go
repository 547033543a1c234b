package parser

import (
	"strings"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

// Omits reports whether generated code should leave out an entity carrying
// meta. Entities are omitted when one of their tags matches ExcludeTags.
// When no exclusions are configured a "-" tag omits the entity.
func (o *Options) Omits(meta model.MetadataInfo) bool {
	if len(meta.Tags) == 0 {
		return false
	}

	if len(o.ExcludeTags) == 0 {
		return meta.HasTag("-")
	}

	for _, t := range meta.Tags {
		for _, f := range o.ExcludeTags {
			if containsTagPart(f, t.Value) {
				return true
			}
		}
	}

	return false
}

// splitTagList flattens tag lists given as "a,b;c" into their fragments.
func splitTagList(lists []string) []string {
	var out []string
	for _, l := range lists {
		for _, part := range strings.FieldsFunc(l, isTagDelimiter) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// containsTagPart splits a tag value on common delimiters and reports whether
// any fragment matches the expected value.
func containsTagPart(tagVal, expected string) bool {
	if tagVal == "" {
		return false
	}

	for _, part := range strings.FieldsFunc(tagVal, isTagDelimiter) {
		if strings.TrimSpace(part) == expected {
			return true
		}
	}

	return false
}

func isTagDelimiter(r rune) bool { return r == ';' || r == ',' }
