package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jbpagliuco/CppRefl/pkg/action/inspect"
)

func init() {
	rootCmd.AddCommand(NewInspectCommand())
}

func NewInspectCommand() *cobra.Command {
	var (
		against      string
		all, showMan bool
	)

	// inspectCmd prints a registry, a diff between two registries or the module manifest
	var inspectCmd = &cobra.Command{
		Use:   "inspect [registry]",
		Short: "inspect registries",
		Long:  "Print a persisted registry as YAML, diff it against another registry, or print the module manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			out := yaml.NewEncoder(c.OutOrStdout())
			out.SetIndent(2)
			defer func() { _ = out.Close() }()

			if showMan {
				if err := opts.Normalize(); err != nil {
					return err
				}
				m, err := inspect.Manifest(opts)
				if err != nil {
					return err
				}
				return out.Encode(m)
			}
			if len(args) == 0 {
				return fmt.Errorf("a registry file is required")
			}
			cur, err := inspect.Load(args[0], opts, all)
			if err != nil {
				return err
			}
			if against == "" {
				return out.Encode(cur)
			}
			prev, err := inspect.Load(against, opts, all)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.OutOrStdout(), inspect.Diff(prev, cur))
			return err
		},
	}
	addModuleFlags(inspectCmd)
	addRegistryFlags(inspectCmd)
	inspectCmd.Flags().String("manifest", defaults.Manifest, "module manifest, relative to the output directory unless absolute")
	inspectCmd.Flags().StringVar(&against, "against", "", "registry to diff against")
	inspectCmd.Flags().BoolVarP(&all, "all", "a", false, "include unreflected declarations")
	inspectCmd.Flags().BoolVar(&showMan, "show-manifest", false, "print the module manifest instead of a registry")

	return inspectCmd
}
