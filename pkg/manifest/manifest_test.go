package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestManifest(ttt *testing.T) {
	ttt.Run("missing file is empty", func(t *testing.T) {
		m, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(&Manifest{}, m))
	})

	ttt.Run("files stay sorted and unique", func(t *testing.T) {
		m := &Manifest{}
		m.AddFile(Entry{Source: "/mod/b.h", Registry: "/out/b.reflregistry.json"})
		m.AddFile(Entry{Source: "/mod/a.h", Registry: "/out/a.reflregistry.json"})
		m.AddFile(Entry{Source: "/mod/c.h", Registry: "/out/c.reflregistry.json"})
		m.AddFile(Entry{Source: "/mod/sub/b.h", Registry: "/out/b.reflregistry.json"})
		require.Equal(t, []Entry{
			{Source: "/mod/a.h", Registry: "/out/a.reflregistry.json"},
			{Source: "/mod/sub/b.h", Registry: "/out/b.reflregistry.json"},
			{Source: "/mod/c.h", Registry: "/out/c.reflregistry.json"},
		}, m.Files)
		require.Equal(t, "/out/c.reflregistry.json", m.RegistryFile("/mod/c.h"))
		require.Empty(t, m.RegistryFile("/mod/b.h"))

		m.Retain([]string{"/out/c.reflregistry.json"})
		require.Equal(t, []Entry{{Source: "/mod/c.h", Registry: "/out/c.reflregistry.json"}}, m.Files)
	})

	ttt.Run("version changes are remembered", func(t *testing.T) {
		m := &Manifest{}
		m.SetVersion("v1.0.0")
		require.Empty(t, m.PreviousVersion)
		m.SetVersion("v1.0.0")
		require.Empty(t, m.PreviousVersion)
		m.SetVersion("v1.1.0")
		require.Equal(t, "v1.0.0", m.PreviousVersion)
		require.Equal(t, "v1.1.0", m.FormatVersion)
	})

	ttt.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "reflmodule.yaml")
		want := &Manifest{
			Module:        "Game",
			FormatVersion: "v1.1.0",
			Aggregate:     "/out/Game.reflregistry.json",
			Generated:     []string{"/out/Game.reflmodule.h", "/out/Game.reflmodule.cpp"},
			Files:         []Entry{{Source: "/mod/a.h", Registry: "/out/a.reflregistry.json"}},
		}
		require.NoError(t, want.Save(path))
		got, err := Load(path)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(want, got))
	})

	ttt.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("files: [unterminated"), 0o644))
		_, err := Load(path)
		require.ErrorContains(t, err, "unmarshal manifest")
	})
}
