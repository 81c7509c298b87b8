package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/molforge/atomkit/internal/domain/atoms"
)

// openFlags are the per-invocation overrides of the configured dataset
// section.  Flags that are left unset keep the configured value.
type openFlags struct {
	kind          string
	dbpath        string
	fold          string
	molecule      string
	numHeavyAtoms int
	cutoff        float64
	properties    []string
	mapping       string
	index         int
	overwrite     bool
}

func newOpenCommand(state *cliState) *cobra.Command {
	flags := &openFlags{index: -1}

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a dataset and print a summary",
		Long:  "Open the configured dataset (or one described by flags) and print its\nstructure count and available properties.  With --index, also print the\nstructure at that position.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, state, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.kind, "kind", "", "dataset kind (QM9, ISO17, ANI1, MD17, MATPROJ, CUSTOM)")
	f.StringVar(&flags.dbpath, "dbpath", "", "database file, directory, or .xyz file to open")
	f.StringVar(&flags.fold, "fold", "", "ISO17 fold")
	f.StringVar(&flags.molecule, "molecule", "", "MD17 molecule")
	f.IntVar(&flags.numHeavyAtoms, "heavy-atoms", 0, "ANI1 heavy-atom limit")
	f.Float64Var(&flags.cutoff, "cutoff", 0, "Materials Project environment cutoff")
	f.StringSliceVar(&flags.properties, "properties", nil, "properties to load (default: all mapped)")
	f.StringVar(&flags.mapping, "mapping", "", `property mapping override, e.g. "energy:total_energy,forces:atomic_forces"`)
	f.IntVar(&flags.index, "index", -1, "print the structure at this index")
	f.BoolVar(&flags.overwrite, "overwrite", false, "re-run .xyz conversion even if the target database exists")

	return cmd
}

func runOpen(cmd *cobra.Command, state *cliState, flags *openFlags) error {
	profile := toProfile(state.cfg.Dataset, flags.overwrite)
	if flags.kind != "" {
		profile.Kind = flags.kind
	}
	if flags.dbpath != "" {
		profile.DBPath = flags.dbpath
	}
	if flags.fold != "" {
		profile.Fold = flags.fold
	}
	if flags.molecule != "" {
		profile.Molecule = flags.molecule
	}
	if flags.numHeavyAtoms > 0 {
		profile.NumHeavyAtoms = flags.numHeavyAtoms
	}
	if flags.cutoff > 0 {
		profile.Cutoff = flags.cutoff
	}
	if len(flags.properties) > 0 {
		profile.Properties = flags.properties
	}
	if flags.mapping != "" {
		m, err := atoms.ParsePropertyMapping(flags.mapping)
		if err != nil {
			return err
		}
		profile.PropertyMapping = m
	}

	ds, err := state.service.Open(cmd.Context(), profile)
	if err != nil {
		return err
	}
	defer ds.Close()

	count, err := ds.Count(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path:       %s\n", ds.Path())
	fmt.Fprintf(out, "structures: %d\n", count)
	fmt.Fprintf(out, "properties: %s\n", strings.Join(ds.AvailableProperties(), ", "))

	if flags.index >= 0 {
		a, err := ds.Get(cmd.Context(), flags.index)
		if err != nil {
			return err
		}
		printStructure(cmd, flags.index, a)
	}
	return nil
}

func printStructure(cmd *cobra.Command, index int, a *atoms.Atoms) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nstructure %d: %s (%d atoms, %d heavy)\n",
		index, a.Formula(), a.NumAtoms(), a.HeavyAtomCount())
	for i, z := range a.Numbers {
		p := a.Positions[i]
		fmt.Fprintf(out, "  %-2s %12.6f %12.6f %12.6f\n", atoms.Symbol(z), p[0], p[1], p[2])
	}
	for name, values := range a.Properties {
		fmt.Fprintf(out, "  %s = %v\n", name, values)
	}
}
