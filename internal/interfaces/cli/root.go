// Package cli wires the atomkit command tree: global flags, configuration
// loading, logger construction, and the open/convert/profiles subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appdataset "github.com/molforge/atomkit/internal/application/dataset"
	"github.com/molforge/atomkit/internal/config"
	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/logging"
	"github.com/molforge/atomkit/internal/infrastructure/monitoring/prometheus"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	Profile    string
	LogLevel   string
	Verbose    bool
}

// cliState carries initialized dependencies through the command tree.
type cliState struct {
	cfg     *config.Config
	logger  logging.Logger
	service *appdataset.Service
}

// NewRootCommand creates the root command with global flags and all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	state := &cliState{}

	cmd := &cobra.Command{
		Use:     "atomkit",
		Short:   "atomkit — open, convert and inspect atomistic datasets",
		Long:    "atomkit manages atomistic structure datasets: it opens the bundled\ndataset families (QM9, ISO17, ANI1, MD17, Materials Project) as well as\ncustom databases, and converts extended-XYZ files into queryable databases.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initState(state, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment and built-in defaults)")
	pf.StringVarP(&opts.Profile, "profile", "p", "", "named dataset profile (see 'atomkit profiles')")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newOpenCommand(state),
		newConvertCommand(state),
		newProfilesCommand(),
	)

	return cmd
}

// initState loads configuration and builds the logger and dataset service
// every subcommand shares.
func initState(state *cliState, opts *RootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logCfg := logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	metrics := prometheus.NewNopDatasetMetrics()
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics initialization failed: %w", err)
		}
		metrics = prometheus.NewDatasetMetrics(collector)
	}

	state.cfg = cfg
	state.logger = logger
	state.service = appdataset.NewService(logger, metrics)
	return nil
}

// loadConfig loads from the given file, or from the environment plus
// built-in defaults when no file is named.  A --profile flag replaces the
// dataset section wholesale with the named profile's settings.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if opts.Profile != "" && opts.Profile != cfg.Dataset.Profile {
		cfg.Dataset = config.DatasetConfig{Profile: opts.Profile}
		config.ApplyDefaults(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// toProfile converts the configuration's dataset section into the explicit
// parameter struct the application layer consumes.
func toProfile(dc config.DatasetConfig, overwrite bool) appdataset.Profile {
	return appdataset.Profile{
		Kind:            dc.Kind,
		DBPath:          dc.DBPath,
		Fold:            dc.Fold,
		Molecule:        dc.Molecule,
		NumHeavyAtoms:   dc.NumHeavyAtoms,
		Cutoff:          dc.Cutoff,
		APIKey:          dc.APIKey,
		PropertyMapping: atoms.PropertyMapping(dc.PropertyMapping),
		Properties:      dc.Properties,
		Overwrite:       overwrite,
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// ExitOnError prints err to stderr and exits non-zero.
func ExitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
