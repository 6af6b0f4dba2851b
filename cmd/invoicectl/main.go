// Command invoicectl administers an invoicer database: it creates login
// accounts, seeds demo data and previews invoice totals offline.
package main

import (
	"fmt"
	"os"

	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "invoicectl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "administer the invoicer database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to config.toml (default: search ., ./config and /etc/invoicer)",
				EnvVars: []string{"INVOICER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			userCommand(),
			seedCommand(),
			totalsCommand(),
		},
	}
}

// openDatabase loads configuration and connects with a zap-backed GORM logger.
// SQLite schemas are created on the fly; other drivers expect cmd/migrate.
func openDatabase(c *cli.Context) (*persistence.Database, *zap.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&logger.Config{
		Level:      c.String("log-level"),
		Format:     "console",
		Output:     "stderr",
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		return nil, nil, err
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(c.String("log-level")), cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	log.Debug("Database connected", zap.String("driver", cfg.Database.Driver))
	return db, log, nil
}
