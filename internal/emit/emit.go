// Package emit renders the C++ companion files that register reflected
// declarations with the runtime registry.
package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbpagliuco/CppRefl/pkg/model"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

const (
	FileHeaderExt   = ".reflgen.h"
	FileSourceExt   = ".reflgen.cpp"
	ModuleHeaderExt = ".reflmodule.h"
	ModuleSourceExt = ".reflmodule.cpp"
)

type Options struct {
	ModuleName string
	ModuleDir  string
	OutDir     string
	// Omit leaves entities out of generated code. Nil keeps everything.
	Omit func(model.MetadataInfo) bool
}

// File is one generated file.
type File struct {
	Path    string
	Content []byte
}

// Output is a generated header and source pair.
type Output struct {
	Header File
	Source File
	// Empty is set when nothing was reflected.
	Empty bool
}

func (o Output) Files() []File { return []File{o.Header, o.Source} }

// Generator renders code for the declarations held by one registry.
type Generator struct {
	reg  *registry.Registry
	opts Options
}

func New(reg *registry.Registry, opts Options) *Generator {
	if opts.Omit == nil {
		opts.Omit = func(model.MetadataInfo) bool { return false }
	}
	return &Generator{reg: reg, opts: opts}
}

// FileOutputs returns the generated paths for an input file.
func FileOutputs(input, moduleDir, outDir string) (header, source string) {
	return registry.SourceToGenerated(input, moduleDir, outDir, FileHeaderExt),
		registry.SourceToGenerated(input, moduleDir, outDir, FileSourceExt)
}

// ModuleOutputs returns the generated module paths.
func ModuleOutputs(moduleName, outDir string) (header, source string) {
	return filepath.Join(outDir, moduleName+ModuleHeaderExt), filepath.Join(outDir, moduleName+ModuleSourceExt)
}

// Write writes each file, creating parent directories.
func Write(files ...File) error {
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// Remove deletes each file and then any directory under root left empty.
// Missing files are ignored.
func Remove(root string, paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		for dir := filepath.Dir(p); model.PathWithin(dir, root) && filepath.Clean(dir) != filepath.Clean(root); dir = filepath.Dir(dir) {
			entries, err := os.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				break
			}
			if err := os.Remove(dir); err != nil {
				break
			}
		}
	}
	return nil
}
