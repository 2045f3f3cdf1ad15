package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CYule/vibe-gallery/internal/config"
	"github.com/CYule/vibe-gallery/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Run database migrations to set up or update the database schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if _, err := database.New(cfg.Database.Path); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		fmt.Println("Database migrations completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
