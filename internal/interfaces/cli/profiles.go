package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/molforge/atomkit/internal/config"
	"github.com/molforge/atomkit/internal/domain/atoms"
)

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in dataset profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := config.Profiles()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tKIND\tPATH\tMAPPING")
			for _, name := range config.ProfileNames() {
				p := profiles[name]
				mapping := atoms.PropertyMapping(p.PropertyMapping).String()
				if mapping == "" {
					mapping = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Kind, p.DBPath, mapping)
			}
			return w.Flush()
		},
	}
}
