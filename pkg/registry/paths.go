package registry

import (
	"path/filepath"
	"strings"
)

// SourceToGenerated maps a source file to the generated file that mirrors
// it under outDir: outDir/<dir relative to moduleDir>/<stem><ext>.
func SourceToGenerated(src, moduleDir, outDir, ext string) string {
	rel, err := filepath.Rel(moduleDir, filepath.Dir(src))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, rel, stem+ext)
}

// GeneratedToSource inverts SourceToGenerated for a header source, given
// the multi-part extension ext the generated file carries.
func GeneratedToSource(generated, moduleDir, outDir, ext string) string {
	rel, err := filepath.Rel(outDir, filepath.Dir(generated))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	stem := strings.TrimSuffix(filepath.Base(generated), ext)
	return filepath.Join(moduleDir, rel, stem+".h")
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
