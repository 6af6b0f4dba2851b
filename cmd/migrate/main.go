// Command migrate applies the SQL files under migrations/<driver> to the
// configured database and scaffolds new migration pairs.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/migration"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "manage the invoicer database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "migrations root holding postgres/, mysql/ and sqlite/",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to config.toml",
				EnvVars: []string{"INVOICER_CONFIG"},
			},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrator(func(_ *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "roll back all migrations",
				Action: withMigrator(func(_ *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					return m.Down()
				}),
			},
			{
				Name:      "step",
				Usage:     "apply n migrations; negative n rolls back",
				ArgsUsage: "<n>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					var n int
					if _, err := fmt.Sscan(c.Args().First(), &n); err != nil {
						return fmt.Errorf("step count required: %w", err)
					}
					return m.Steps(n)
				}),
			},
			{
				Name:      "goto",
				Usage:     "migrate to a specific version",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					var version uint
					if _, err := fmt.Sscan(c.Args().First(), &version); err != nil {
						return fmt.Errorf("version required: %w", err)
					}
					return m.GoTo(version)
				}),
			},
			{
				Name:  "version",
				Usage: "print the applied version",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version %d (dirty=%t)\n", version, dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "set the recorded version without running files",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, log *zap.Logger) error {
					var version int
					if _, err := fmt.Sscan(c.Args().First(), &version); err != nil {
						return fmt.Errorf("version required: %w", err)
					}
					log.Warn("Forcing migration version", zap.Int("version", version))
					return m.Force(version)
				}),
			},
			{
				Name:  "drop",
				Usage: "drop every database object",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "confirm"}},
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					if !c.Bool("confirm") {
						return errors.New("drop needs --confirm")
					}
					return m.Drop()
				}),
			},
			{
				Name:      "create",
				Usage:     "scaffold an up/down pair for every dialect",
				ArgsUsage: "<name> [description]",
				Action: func(c *cli.Context) error {
					if c.Args().Len() == 0 {
						return errors.New("migration name required")
					}
					root, err := migrationsRoot(c)
					if err != nil {
						return err
					}
					mf, err := migration.CreateMigration(root, c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					for _, dialect := range migration.Dialects {
						fmt.Fprintf(c.App.Writer, "%s\t%s\n\t%s\n", dialect, mf.UpPaths[dialect], mf.DownPaths[dialect])
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list migrations for the configured driver",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					root, err := migrationsRoot(c)
					if err != nil {
						return err
					}
					names, err := migration.ListMigrations(filepath.Join(root, cfg.Database.Driver))
					if err != nil {
						return err
					}
					for _, name := range names {
						fmt.Fprintln(c.App.Writer, name)
					}
					return nil
				},
			},
		},
	}
}

type migratorAction func(c *cli.Context, m *migration.Migrator, log *zap.Logger) error

// withMigrator opens the configured database and hands a Migrator to fn
func withMigrator(fn migratorAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		root, err := migrationsRoot(c)
		if err != nil {
			return err
		}
		log, err := logger.New(&logger.Config{
			Level:      c.String("log-level"),
			Format:     "console",
			Output:     "stderr",
			TimeFormat: logger.DefaultTimeFormat,
		})
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync(log) }()

		db, err := migration.Open(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(c.Context); err != nil {
			return fmt.Errorf("ping %s: %w", cfg.Database.Driver, err)
		}

		m, err := migration.New(db, cfg.Database.Driver, root, log)
		if err != nil {
			return err
		}
		defer m.Close()

		log.Info("Running migration command",
			zap.String("command", c.Command.Name),
			zap.String("driver", cfg.Database.Driver),
			zap.String("path", root))
		return fn(c, m, log)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// migrationsRoot resolves --path, then ./migrations, then the directory two
// levels above the executable
func migrationsRoot(c *cli.Context) (string, error) {
	root := c.String("path")
	if root == "" {
		root = defaultMigrationsPath
		if _, err := os.Stat(root); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					root = candidate
				}
			}
		}
	}
	return filepath.Abs(root)
}
