package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jbpagliuco/CppRefl/pkg/action/reflectfile"
)

func init() {
	rootCmd.AddCommand(NewFileCommand())
}

func NewFileCommand() *cobra.Command {
	// fileCmd reflects one header
	var fileCmd = &cobra.Command{
		Use:   "file [input]",
		Short: "reflect one header",
		Long:  "Reflect the annotated declarations of one header, persist its registry and generate its reflection code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.InputFile = args[0]
			}
			_, err = reflectfile.Generate(c.Context(), opts, slog.Default())
			return err
		},
	}
	addModuleFlags(fileCmd)
	addRegistryFlags(fileCmd)
	fileCmd.Flags().StringP("input-file", "i", "", "header to reflect")
	fileCmd.Flags().StringSliceP("include-paths", "I", []string{}, "include directories handed to the frontend")
	fileCmd.Flags().StringSliceP("definitions", "D", []string{}, "preprocessor definitions handed to the frontend")
	fileCmd.Flags().StringSlice("frontend-args", []string{}, "extra frontend arguments")
	fileCmd.Flags().String("ast-dump", "", "cursor dump to read instead of <input><ast-suffix>")
	fileCmd.Flags().String("ast-suffix", defaults.AstSuffix, "suffix locating an input's cursor dump")
	fileCmd.Flags().Bool("raise-warnings", defaults.RaiseWarnings, "fail on frontend warnings")
	fileCmd.Flags().Bool("raise-errors", defaults.RaiseErrors, "fail on frontend errors")
	fileCmd.Flags().Bool("delete-empty-files", defaults.DeleteEmptyFiles, "do not keep generated code for headers with nothing reflected")

	return fileCmd
}
