package main

import (
	"fmt"
	"os"

	"github.com/de-tools/metric-atlas/pkg/server"
	analysissvc "github.com/de-tools/metric-atlas/pkg/services/analysis"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
	"github.com/de-tools/metric-atlas/pkg/services/config"
	"github.com/de-tools/metric-atlas/pkg/store/postgres"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the metric analysis web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config/config.yaml",
		"Path to the config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The service runs without a database: collection degrades to the
	// dashboard snapshot and SQL passthrough reports failure in-band.
	var executor sqlstore.Executor
	if cfg.Database != nil {
		db, err := postgres.Open(postgres.Settings{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Database,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			PoolSize: cfg.Database.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("database unavailable, continuing without it")
		} else {
			executor = postgres.NewExecutor(db)
		}
	} else {
		logger.Warn().Msg("no database configured, continuing without it")
	}

	analyzer := analysissvc.New(executor, collector.Capabilities{})

	api := server.NewWebAPI(logger, server.Config{
		Addr: cfg.Server.Addr,
		Dependencies: server.Dependencies{
			Analyzer: analyzer,
			Executor: executor,
		},
	})

	return api.Start()
}
