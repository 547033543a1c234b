package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	iparser "github.com/jbpagliuco/CppRefl/internal/parser"
)

var (
	configFiles    []string
	level, version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "cpprefl",
	Short:         "C++ reflection generator",
	Long:          "Reflects annotated C++ declarations into registries and generates the code that registers them at runtime",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stdout, os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

// reportError prints every underlying error on stdout for build logs and
// on stderr, coloured, for consoles.
func reportError(stdout, stderr io.Writer, err error) {
	errs := multierr.Errors(err)
	var diags *iparser.DiagnosticsError
	if errors.As(err, &diags) {
		errs = diags.Errors()
	}
	red := color.New(color.FgRed)
	for _, e := range errs {
		_, _ = fmt.Fprintln(stdout, e)
		_, _ = red.Fprintln(stderr, e)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var ll slog.Level
	if strings.EqualFold(s, "trace") {
		return slog.Level(-8), nil
	}
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		return ll, fmt.Errorf("invalid log level: %s", s)
	}
	return ll, nil
}

func newLogger(ll slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       ll,
		ReplaceAttr: nil,
	}))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll, err := parseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	l := newLogger(ll)
	slog.SetDefault(l)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("cpprefl")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Debug("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Debug("merged config file")
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// The config file may set the level when the flag was left alone.
	llstr := viper.GetString("common.log.level")
	if llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		if ll, err = parseLevel(llstr); err != nil {
			panic(err.Error())
		}
		slog.SetDefault(newLogger(ll))
	}
}
