package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jbpagliuco/CppRefl/pkg/action/collectmodule"
)

func init() {
	rootCmd.AddCommand(NewModuleCommand())
}

func NewModuleCommand() *cobra.Command {
	// moduleCmd merges the per-file registries of a module
	var moduleCmd = &cobra.Command{
		Use:   "module",
		Short: "collect a module",
		Long:  "Merge the module's per-file registries, persist the aggregate and generate the module's reflection code",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			_, err = collectmodule.Generate(c.Context(), opts, slog.Default())
			return err
		},
	}
	addModuleFlags(moduleCmd)
	addRegistryFlags(moduleCmd)
	moduleCmd.Flags().Bool("strict-merge", defaults.StrictMerge, "fail when two files declare the same name differently")
	moduleCmd.Flags().Int("concurrency", defaults.Concurrency, "registries decoded in parallel, 0 for GOMAXPROCS")
	moduleCmd.Flags().String("manifest", defaults.Manifest, "module manifest, relative to the output directory unless absolute")

	return moduleCmd
}
