package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/jbpagliuco/CppRefl/pkg/parser"
)

var defaults = parser.NewOptions()

func addModuleFlags(c *cobra.Command) {
	c.Flags().StringP("module-dir", "m", "", "root directory of the module's sources")
	c.Flags().StringP("module-name", "n", "", "module name (defaults to the module directory's name)")
	c.Flags().StringP("out-dir", "o", defaults.OutDir, "directory for registries and generated code")
	c.Flags().StringSliceP("exclude-tags", "T", []string{}, "leave members carrying these tags out of generated code")
}

func addRegistryFlags(c *cobra.Command) {
	c.Flags().String("registry-format", defaults.RegistryFormat, "registry file format (json, msgpack)")
	c.Flags().String("hash-function", defaults.HashFunction, "name hash (crc32, xxhash)")
	c.Flags().Int("open-attempts", defaults.OpenAttempts, "registry file open attempts")
	c.Flags().Duration("open-backoff", defaults.OpenBackoff, "wait between registry file open attempts")
}

// loadOptions binds the command's flags into viper, so config files and
// environment variables fill whatever the command line leaves unset, and
// decodes the result.
func loadOptions(c *cobra.Command) (*parser.Options, error) {
	var err error
	c.LocalFlags().VisitAll(func(f *pflag.Flag) {
		err = multierr.Append(err, viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f))
	})
	if err != nil {
		return nil, err
	}
	opts := parser.NewOptions()
	if err := viper.Unmarshal(opts); err != nil {
		return nil, err
	}
	return opts, nil
}
