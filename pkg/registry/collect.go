package registry

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

type CollectOptions struct {
	// ModuleName names the aggregate registry, which is never collected.
	ModuleName string
	ModuleDir  string
	OutDir     string
	// Strict merges with MergeStrict.
	Strict      bool
	Retry       Retry
	Concurrency int
	Logger      *slog.Logger
	Registry    []Option
}

type CollectResult struct {
	Registry *Registry
	// Files are the per-file registries merged, in merge order.
	Files []string
	// Stale are registries removed because their source no longer exists.
	Stale []string
	// Sources maps each merged registry to the file it was reflected from.
	Sources map[string]string
}

// AggregateName returns the file name of a module's aggregate registry.
func AggregateName(moduleName string, format Format) string {
	return moduleName + format.Extension()
}

// Collect loads every per-file registry under OutDir and merges them into
// one. Registries whose source file is gone are deleted instead. Files are
// decoded concurrently but merged one at a time in path order, so the
// result does not depend on scheduling.
func Collect(ctx context.Context, o CollectOptions) (*CollectResult, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := registryFiles(o.OutDir, o.ModuleName)
	if err != nil {
		return nil, err
	}

	type loaded struct {
		reg    *Registry
		source string
		stale  bool
	}
	results := make([]loaded, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	limit := o.Concurrency
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reg, h, err := Load(path, o.Retry.WithLogger(logger), o.Registry...)
			if err != nil {
				return err
			}
			source := h.Source
			if source == "" {
				format, _ := FormatOf(path)
				source = GeneratedToSource(path, o.ModuleDir, o.OutDir, format.Extension())
			}
			if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
				logger.Info("removing stale registry", "registry", path, "source", source)
				if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				results[i] = loaded{stale: true}
				return nil
			}
			results[i] = loaded{reg: reg, source: source}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &CollectResult{Registry: New(o.Registry...), Sources: make(map[string]string, len(paths))}
	for i, path := range paths {
		if results[i].stale {
			res.Stale = append(res.Stale, path)
			continue
		}
		if o.Strict {
			if err := res.Registry.MergeStrict(results[i].reg); err != nil {
				return nil, err
			}
		} else {
			res.Registry.Merge(results[i].reg)
		}
		res.Files = append(res.Files, path)
		res.Sources[path] = results[i].source
		logger.Debug("merged registry", "registry", path)
	}
	return res, nil
}

func registryFiles(outDir, moduleName string) ([]string, error) {
	skip := map[string]bool{
		AggregateName(moduleName, FormatJSON):    true,
		AggregateName(moduleName, FormatMsgpack): true,
	}
	var paths []string
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == outDir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if _, ok := FormatOf(d.Name()); !ok || skip[d.Name()] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}
