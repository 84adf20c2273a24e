package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigboard/marketplace/internal/infrastructure/db/mongo"
)

// NewMigrateCommand creates the command that prepares the record store.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes the API relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := mongo.Open(ctx, mongoConfig(opts.cfg))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			if err := store.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			opts.log.Info().
				Str("database", opts.cfg.Mongo.Database).
				Bool("transactions", store.Atomic()).
				Msg("indexes ready")
			return nil
		},
	}
}
