package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

func TestSourceToGenerated(ttt *testing.T) {
	tests := []struct {
		name string
		src  string
		ext  string
		want string
	}{
		{name: "module root", src: "/mod/A.h", ext: ".reflgen.h", want: "/out/A.reflgen.h"},
		{name: "nested", src: "/mod/sub/dir/B.hpp", ext: JSONExtension, want: "/out/sub/dir/B" + JSONExtension},
		{name: "outside module", src: "/elsewhere/C.h", ext: ".reflgen.cpp", want: "/out/C.reflgen.cpp"},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SourceToGenerated(tt.src, "/mod", "/out", tt.ext))
		})
	}

	ttt.Run("inverse", func(t *testing.T) {
		gen := SourceToGenerated("/mod/sub/B.h", "/mod", "/out", JSONExtension)
		require.Equal(t, "/mod/sub/B.h", GeneratedToSource(gen, "/mod", "/out", JSONExtension))
	})
}

func writeFileRegistry(t *testing.T, moduleDir, outDir, src string, format Format, reg *Registry, recordSource bool) string {
	t.Helper()
	path := SourceToGenerated(src, moduleDir, outDir, format.Extension())
	h := Header{}
	if recordSource {
		h.Source = src
	}
	require.NoError(t, Save(path, h, reg, Retry{Attempts: 1}))
	return path
}

func classRegistry(t *testing.T, name, file string) *Registry {
	t.Helper()
	r := New()
	require.NoError(t, r.AddClass(&model.ClassInfo{Type: typeInfo(name, "", model.KindClass), Metadata: reflected(file, 1)}))
	return r
}

func TestCollect(ttt *testing.T) {
	moduleDir := ttt.TempDir()
	outDir := ttt.TempDir()

	liveA := filepath.Join(moduleDir, "A.h")
	liveB := filepath.Join(moduleDir, "sub", "B.h")
	gone := filepath.Join(moduleDir, "Gone.h")
	require.NoError(ttt, os.MkdirAll(filepath.Dir(liveB), 0o755))
	require.NoError(ttt, os.WriteFile(liveA, nil, 0o644))
	require.NoError(ttt, os.WriteFile(liveB, nil, 0o644))

	writeFileRegistry(ttt, moduleDir, outDir, liveA, FormatJSON, classRegistry(ttt, "A", liveA), true)
	writeFileRegistry(ttt, moduleDir, outDir, liveB, FormatMsgpack, classRegistry(ttt, "B", liveB), false)
	stale := writeFileRegistry(ttt, moduleDir, outDir, gone, FormatJSON, classRegistry(ttt, "Gone", gone), true)

	aggregate := filepath.Join(outDir, AggregateName("Core", FormatJSON))
	require.NoError(ttt, Save(aggregate, Header{}, classRegistry(ttt, "Aggregate", liveA), Retry{Attempts: 1}))

	res, err := Collect(context.Background(), CollectOptions{
		ModuleName:  "Core",
		ModuleDir:   moduleDir,
		OutDir:      outDir,
		Strict:      true,
		Retry:       Retry{Attempts: 1},
		Concurrency: 2,
	})
	require.NoError(ttt, err)

	require.NotNil(ttt, res.Registry.GetClass("A"))
	require.NotNil(ttt, res.Registry.GetClass("B"))
	require.Nil(ttt, res.Registry.GetClass("Gone"))
	require.Nil(ttt, res.Registry.GetClass("Aggregate"))
	require.Len(ttt, res.Files, 2)
	require.Equal(ttt, []string{stale}, res.Stale)
	sources := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		sources = append(sources, res.Sources[f])
	}
	require.ElementsMatch(ttt, []string{liveA, liveB}, sources)

	_, err = os.Stat(stale)
	require.ErrorIs(ttt, err, os.ErrNotExist)
	_, err = os.Stat(aggregate)
	require.NoError(ttt, err)
}

func TestCollectStrictConflict(ttt *testing.T) {
	moduleDir := ttt.TempDir()
	outDir := ttt.TempDir()
	a := filepath.Join(moduleDir, "A.h")
	b := filepath.Join(moduleDir, "B.h")
	require.NoError(ttt, os.WriteFile(a, nil, 0o644))
	require.NoError(ttt, os.WriteFile(b, nil, 0o644))

	// Both files claim to declare Dup, each at its own location.
	writeFileRegistry(ttt, moduleDir, outDir, a, FormatJSON, classRegistry(ttt, "Dup", a), true)
	writeFileRegistry(ttt, moduleDir, outDir, b, FormatJSON, classRegistry(ttt, "Dup", b), true)

	opts := CollectOptions{ModuleName: "Core", ModuleDir: moduleDir, OutDir: outDir, Retry: Retry{Attempts: 1}}

	res, err := Collect(context.Background(), opts)
	require.NoError(ttt, err)
	require.Equal(ttt, b, res.Registry.GetClass("Dup").Metadata.SourceLocation.File)

	opts.Strict = true
	_, err = Collect(context.Background(), opts)
	require.ErrorIs(ttt, err, ErrMergeConflict)
}

func TestCollectMissingOutDir(ttt *testing.T) {
	res, err := Collect(context.Background(), CollectOptions{
		ModuleName: "Core",
		ModuleDir:  ttt.TempDir(),
		OutDir:     filepath.Join(ttt.TempDir(), "never-created"),
	})
	require.NoError(ttt, err)
	require.Zero(ttt, res.Registry.Len())
	require.Empty(ttt, res.Files)
}
