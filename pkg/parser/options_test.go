package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jbpagliuco/CppRefl/pkg/model"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

func TestNormalize(ttt *testing.T) {
	ttt.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		opts := Apply(WithModuleDir(filepath.Join(dir, "Game")), WithHashFunction("XXHash"), WithOpenRetry(0, 0))
		require.NoError(t, opts.Normalize())
		require.Equal(t, "Game", opts.ModuleName)
		require.True(t, filepath.IsAbs(opts.OutDir))
		require.Equal(t, filepath.Join(opts.OutDir, DefaultManifest), opts.Manifest)
		require.Equal(t, registry.HashXXHash, opts.HashFunction)
		require.Equal(t, registry.FormatJSON, opts.Format())
		require.Equal(t, 1, opts.Retry().Attempts)
		require.Len(t, opts.RegistryOptions(), 1)
	})

	ttt.Run("absolute manifest kept", func(t *testing.T) {
		manifest := filepath.Join(t.TempDir(), "m.yaml")
		opts := Apply(WithModuleDir(t.TempDir()), WithManifest(manifest), WithRegistryFormat("MP"))
		require.NoError(t, opts.Normalize())
		require.Equal(t, manifest, opts.Manifest)
		require.Equal(t, registry.FormatMsgpack, opts.Format())
	})

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "module directory", wantErr: "module directory is required"},
		{name: "format", opts: []Option{WithModuleDir("."), WithRegistryFormat("xml")}, wantErr: "unknown registry format"},
		{name: "hash", opts: []Option{WithModuleDir("."), WithHashFunction("md5")}, wantErr: "unknown hash function"},
		{name: "backoff", opts: []Option{WithModuleDir("."), WithOpenRetry(2, -1)}, wantErr: "negative open backoff"},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			require.ErrorContains(t, Apply(tt.opts...).Normalize(), tt.wantErr)
		})
	}
}

func TestOmits(ttt *testing.T) {
	meta := func(tags ...string) model.MetadataInfo {
		m := model.MetadataInfo{}
		for _, tag := range tags {
			m.Tags = append(m.Tags, model.MetadataValue{Value: tag, Lifetime: model.LifetimeRuntime})
		}
		return m
	}
	tests := []struct {
		name    string
		exclude []string
		meta    model.MetadataInfo
		want    bool
	}{
		{name: "untagged", meta: meta()},
		{name: "dash without exclusions", meta: meta("-"), want: true},
		{name: "other tag without exclusions", meta: meta("Serializable")},
		{name: "excluded tag", exclude: []string{"Transient"}, meta: meta("Serializable", "Transient"), want: true},
		{name: "dash ignored with exclusions", exclude: []string{"Transient"}, meta: meta("-")},
		{name: "list split", exclude: []string{"EditorOnly; Transient,Debug"}, meta: meta("Debug"), want: true},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			opts := Apply(WithModuleDir("."), WithExcludeTags(tt.exclude...))
			require.NoError(t, opts.Normalize())
			require.Equal(t, tt.want, opts.Omits(tt.meta))
		})
	}
}

func TestSplitTagList(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitTagList([]string{"a, b", ";c;", " "}))
	require.Nil(t, splitTagList(nil))
}
