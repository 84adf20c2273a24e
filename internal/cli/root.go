package cli

import (
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/gigboard/marketplace/internal/pkg/config"
	"github.com/gigboard/marketplace/pkg/logger"
)

// RootOptions holds state shared by every subcommand.
type RootOptions struct {
	LogLevel string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root command for the marketplace binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "marketplace",
		Short:         "Freelance marketplace API",
		Long:          "Clients post jobs, freelancers send proposals, everyone manages their own records.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(cmd.Context(), envconfig.OsLookuper())
			if err != nil {
				return err
			}
			if opts.LogLevel != "" {
				cfg.LogLevel = opts.LogLevel
			}
			opts.cfg = cfg
			opts.log = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  !cfg.IsProduction(),
				Service: "marketplace",
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (trace|debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewHealthcheckCommand(opts))

	return cmd
}
