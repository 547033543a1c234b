package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"golang.org/x/tools/txtar"

	iparser "github.com/jbpagliuco/CppRefl/internal/parser"
)

func extract(t *testing.T, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	dir := t.TempDir()
	for _, f := range ar.Files {
		path := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(string(f.Data), "$MOD", dir)), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--level", "error"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCommands(ttt *testing.T) {
	moduleDir := extract(ttt, "module.txtar")
	outDir := filepath.Join(moduleDir, "Generated")

	run(ttt, "file", filepath.Join(moduleDir, "src", "Player.h"), "-m", moduleDir, "-n", "Game", "-o", outDir)
	registryFile := filepath.Join(outDir, "src", "Player.reflregistry.json")
	for _, p := range []string{
		registryFile,
		filepath.Join(outDir, "src", "Player.reflgen.h"),
		filepath.Join(outDir, "src", "Player.reflgen.cpp"),
	} {
		_, err := os.Stat(p)
		require.NoError(ttt, err, p)
	}

	run(ttt, "module", "-m", moduleDir, "-n", "Game", "-o", outDir)
	source, err := os.ReadFile(filepath.Join(outDir, "Game.reflmodule.cpp"))
	require.NoError(ttt, err)
	require.Contains(ttt, string(source), "cpprefl::GetReflectedClass<::Game::Player>();")

	ttt.Run("inspect registry", func(t *testing.T) {
		out := run(t, "inspect", registryFile)
		require.Contains(t, out, "name: Game::Player")
		require.Contains(t, out, "- int mHealth")
		require.Contains(t, out, "- Red = 0")
	})

	ttt.Run("inspect manifest", func(t *testing.T) {
		out := run(t, "inspect", "--show-manifest", "-m", moduleDir, "-o", outDir)
		require.Contains(t, out, "module: Game")
		require.Contains(t, out, "registry: "+registryFile)
	})
}

func TestParseLevel(ttt *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: slog.Level(-8)},
		{in: "TRACE", want: slog.Level(-8)},
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "debug+1", want: slog.LevelDebug + 1},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		ttt.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				require.ErrorContains(t, err, "invalid log level")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReportError(ttt *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "single",
			err:  errors.New("boom"),
			want: []string{"boom"},
		},
		{
			name: "combined",
			err:  multierr.Combine(errors.New("first"), errors.New("second")),
			want: []string{"first", "second"},
		},
		{
			name: "diagnostics",
			err:  &iparser.DiagnosticsError{Err: multierr.Combine(errors.New("a.h(1): error: x"), errors.New("a.h(2): error: y"))},
			want: []string{"a.h(1): error: x", "a.h(2): error: y"},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			reportError(&stdout, &stderr, tt.err)
			require.Equal(t, strings.Join(tt.want, "\n")+"\n", stdout.String())
			for _, w := range tt.want {
				require.Contains(t, stderr.String(), w)
			}
		})
	}
}
