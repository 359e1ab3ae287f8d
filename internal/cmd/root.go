package cmd

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/safar/goldstock/internal/config"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "goldstock",
	Short: "Inventory and sales records for a jewelry shop",
	Long: `goldstock keeps the product inventory (images, labor costs, stock) and the
sales history of a small jewelry shop in a local database, and serves them
over an HTTP API for the desktop front end.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *sqlx.DB
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
	e.log.Sync()
}

// setup loads config, builds the logger and opens the database. Any failure
// here is fatal for the command.
func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	e := &env{cfg: cfg, log: log, db: db}
	log.Info("connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("base_dir", cfg.BaseDir))

	return e, nil
}
