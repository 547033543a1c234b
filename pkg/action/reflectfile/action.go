// Package reflectfile runs the per-file pass: reflect one header, persist
// its registry and write its generated code.
package reflectfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jbpagliuco/CppRefl/internal/emit"
	iparser "github.com/jbpagliuco/CppRefl/internal/parser"
	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/frontend/astdump"
	"github.com/jbpagliuco/CppRefl/pkg/parser"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

type Result struct {
	// Registry is the persisted per-file registry.
	Registry string
	// Generated lists the code files written.
	Generated []string
	// Empty is set when the input had nothing reflected.
	Empty bool
	Classes   int
	Enums     int
	Functions int
}

// Outputs lists every file the pass may write for opts.InputFile.
func Outputs(opts *parser.Options) []string {
	header, source := emit.FileOutputs(opts.InputFile, opts.ModuleDir, opts.OutDir)
	return []string{
		registry.SourceToGenerated(opts.InputFile, opts.ModuleDir, opts.OutDir, registry.JSONExtension),
		registry.SourceToGenerated(opts.InputFile, opts.ModuleDir, opts.OutDir, registry.MsgpackExtension),
		header,
		source,
	}
}

// Generate runs the pass against the input's cursor dump.
func Generate(ctx context.Context, opts *parser.Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	feOpts := []astdump.Option{astdump.WithSuffix(opts.AstSuffix), astdump.WithLogger(logger)}
	if opts.AstDump != "" {
		feOpts = append(feOpts, astdump.WithFile(opts.AstDump))
	}
	return Run(ctx, astdump.New(feOpts...), opts, logger)
}

// Run runs the pass with the given frontend. opts must be normalized.
// Outputs of an earlier run are removed first, so a failed run leaves none
// behind.
func Run(ctx context.Context, fe frontend.Frontend, opts *parser.Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.InputFile == "" {
		return nil, errors.New("input file is required")
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := emit.Remove(opts.OutDir, Outputs(opts)...); err != nil {
		return nil, fmt.Errorf("remove previous outputs: %w", err)
	}

	reg := registry.New(opts.RegistryOptions()...)
	if err := iparser.New(fe, reg, opts, logger).Parse(ctx); err != nil {
		return nil, err
	}

	res := &Result{Registry: registry.SourceToGenerated(opts.InputFile, opts.ModuleDir, opts.OutDir, opts.Format().Extension())}
	if err := registry.Save(res.Registry, registry.Header{Source: opts.InputFile}, reg, opts.Retry().WithLogger(logger)); err != nil {
		return nil, err
	}

	objs := reg.ObjectsInFile(opts.InputFile, true)
	res.Classes, res.Enums, res.Functions = len(objs.Classes), len(objs.Enums), len(objs.Functions)

	out := emit.New(reg, emit.Options{
		ModuleName: opts.ModuleName,
		ModuleDir:  opts.ModuleDir,
		OutDir:     opts.OutDir,
		Omit:       opts.Omits,
	}).SourceFile(opts.InputFile)
	res.Empty = out.Empty
	if out.Empty && opts.DeleteEmptyFiles {
		logger.Info("nothing reflected, no code generated", "input", opts.InputFile)
		return res, nil
	}
	if err := emit.Write(out.Files()...); err != nil {
		return nil, err
	}
	res.Generated = []string{out.Header.Path, out.Source.Path}
	logger.Info("reflected file",
		"input", opts.InputFile,
		"registry", res.Registry,
		"classes", res.Classes,
		"enums", res.Enums,
		"functions", res.Functions,
	)
	return res, nil
}
