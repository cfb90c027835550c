// Package cli implements the carbon command line: the HTTP server and
// one-shot estimate, recompute and migrate commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jengzang/carbon-footprint-backend/internal/config"
	"github.com/jengzang/carbon-footprint-backend/internal/observability"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	envFile    string
	debug      bool
}

// runtime carries the configuration resolved in PersistentPreRunE
type runtime struct {
	version string
	flags   globalFlags
	cfg     *config.Config
}

// NewRootCmd creates the root command. Running it without a subcommand starts the server.
func NewRootCmd(ver string) *cobra.Command {
	rt := &runtime{version: ver}

	cmd := &cobra.Command{
		Use:           "carbon",
		Short:         "Carbon footprint estimator and clustering service",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rt)
		},
	}

	cmd.PersistentFlags().StringVar(&rt.flags.configFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&rt.flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().BoolVar(&rt.flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(rt),
		newEstimateCmd(rt),
		newRecomputeCmd(rt),
		newMigrateCmd(rt),
	)
	return cmd
}

func (rt *runtime) load() error {
	config.LoadDotEnv(rt.flags.envFile)

	cfg, err := config.LoadFile(rt.flags.configFile)
	if err != nil {
		return err
	}
	if rt.flags.debug {
		cfg.LogLevel = "debug"
	}
	rt.cfg = cfg

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)
	return nil
}

const rootCmdExample = `  # Start the HTTP server
  carbon serve

  # Estimate one household's monthly emissions
  carbon estimate --km 100 --kwh 200 --meat-meals 5 --spend 1000

  # Estimate and append the result to the dataset
  carbon estimate --km 100 --kwh 200 --meat-meals 5 --spend 1000 --save

  # Recluster the dataset and print cluster averages
  carbon recompute

  # Apply database migrations
  carbon migrate --config config.yaml`
