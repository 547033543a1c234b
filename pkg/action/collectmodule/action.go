// Package collectmodule runs the module pass: merge the per-file registries,
// persist the aggregate, write the module code and record it all in the
// module manifest.
package collectmodule

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/jbpagliuco/CppRefl/internal/emit"
	"github.com/jbpagliuco/CppRefl/pkg/manifest"
	"github.com/jbpagliuco/CppRefl/pkg/parser"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

type Result struct {
	Registry  *registry.Registry
	Aggregate string
	Generated []string
	Merged    []string
	Stale     []string
	Manifest  string
}

// Generate collects the module under opts.ModuleDir.
func Generate(ctx context.Context, opts *parser.Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	collected, err := registry.Collect(ctx, registry.CollectOptions{
		ModuleName:  opts.ModuleName,
		ModuleDir:   opts.ModuleDir,
		OutDir:      opts.OutDir,
		Strict:      opts.StrictMerge,
		Retry:       opts.Retry(),
		Concurrency: opts.Concurrency,
		Logger:      logger,
		Registry:    opts.RegistryOptions(),
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Registry:  collected.Registry,
		Aggregate: filepath.Join(opts.OutDir, registry.AggregateName(opts.ModuleName, opts.Format())),
		Merged:    collected.Files,
		Stale:     collected.Stale,
		Manifest:  opts.Manifest,
	}
	if err := registry.Save(res.Aggregate, registry.Header{}, res.Registry, opts.Retry().WithLogger(logger)); err != nil {
		return nil, err
	}

	out := emit.New(res.Registry, emit.Options{
		ModuleName: opts.ModuleName,
		ModuleDir:  opts.ModuleDir,
		OutDir:     opts.OutDir,
		Omit:       opts.Omits,
	}).Module()
	if err := emit.Write(out.Files()...); err != nil {
		return nil, err
	}
	res.Generated = []string{out.Header.Path, out.Source.Path}

	if err := updateManifest(opts, res, collected.Sources); err != nil {
		return nil, err
	}
	logger.Info("collected module",
		"module", opts.ModuleName,
		"merged", len(res.Merged),
		"stale", len(res.Stale),
		"declarations", res.Registry.Len(),
	)
	return res, nil
}

func updateManifest(opts *parser.Options, res *Result, sources map[string]string) error {
	m, err := manifest.Load(opts.Manifest)
	if err != nil {
		return err
	}
	m.Module = opts.ModuleName
	m.SetVersion(registry.FormatVersion)
	m.Aggregate = res.Aggregate
	m.Generated = res.Generated
	m.Stale = res.Stale
	m.Retain(res.Merged)
	for _, path := range res.Merged {
		m.AddFile(manifest.Entry{Source: sources[path], Registry: path})
	}
	return m.Save(opts.Manifest)
}
