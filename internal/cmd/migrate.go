package cmd

import (
	"fmt"

	"github.com/safar/goldstock/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and add missing columns",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	for _, table := range []database.Table{database.ProductsTable, database.SalesRecordsTable} {
		before, err := database.Columns(ctx, e.db, table.Name)
		if err != nil {
			return err
		}
		if len(before) == 0 {
			e.log.Info("creating table", zap.String("table", table.Name))
		}
	}

	if err := database.EnsureSchema(ctx, e.db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	e.log.Info("schema is up to date")
	return nil
}
