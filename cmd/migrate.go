package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"giftshop.GO/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply the catalog schema (versioned SQL on MySQL/PostgreSQL, AutoMigrate on SQLite)",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		v, err := migrations.Up(cfg)
		if err == nil {
			fmt.Fprintf(c.OutOrStdout(), "schema at version %d\n", v)
			return nil
		}
		if !errors.Is(err, migrations.ErrUnsupportedDriver) {
			return err
		}

		a, err := bootstrap(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Migrate(); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "schema updated with AutoMigrate (%s)\n", cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
