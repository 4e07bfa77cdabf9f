package cmd

import (
	"context"

	"udinder-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Applies the embedded goose migrations to the configured PostgreSQL database.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		log.Info().Msg("Running migrations...")
		if err := repository.Migrate(context.Background(), cfg.Database.DSN()); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
