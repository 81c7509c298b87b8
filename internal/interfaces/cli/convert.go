package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/molforge/atomkit/internal/infrastructure/parsing"
)

func newConvertCommand(state *cliState) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "convert <source.xyz> [target.db]",
		Short: "Convert an extended-XYZ file into an atoms database",
		Long:  "Convert an extended-XYZ file into a queryable atoms database.  When no\ntarget is given, the database is written next to the source with a .db\nextension.  An existing target is reused unless --overwrite is set.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".db"
			if len(args) == 2 {
				dst = args[1]
			}

			res, err := parsing.ExtXYZToDB(cmd.Context(), src, dst,
				parsing.ConvertOptions{Overwrite: overwrite}, state.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Reused {
				fmt.Fprintf(out, "%s already exists, reused (pass --overwrite to convert again)\n", dst)
				return nil
			}
			fmt.Fprintf(out, "converted %d structures to %s (properties: %s)\n",
				res.Structures, dst, strings.Join(res.Properties, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace the target database if it exists")
	return cmd
}
