package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage login accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a login account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"INVOICER_USER_PASSWORD"}},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "tenant", Usage: "join an existing tenant instead of starting a new one"},
				},
				Action: func(c *cli.Context) error {
					db, log, err := openDatabase(c)
					if err != nil {
						return err
					}
					defer func() { _ = db.Close() }()
					defer func() { _ = log.Sync() }()

					var tenantID uuid.UUID
					if raw := c.String("tenant"); raw != "" {
						if tenantID, err = uuid.Parse(raw); err != nil {
							return fmt.Errorf("invalid --tenant: %w", err)
						}
					}
					return createUser(c.Context, db.DB, c.App.Writer, c.String("email"), c.String("password"), c.String("name"), tenantID)
				},
			},
		},
	}
}

func createUser(ctx context.Context, db *gorm.DB, out io.Writer, email, password, name string, tenantID uuid.UUID) error {
	users := persistence.NewGormUserRepository(db)

	user, err := identity.NewUser(email, password, name)
	if err != nil {
		return err
	}
	if tenantID != uuid.Nil {
		if err := user.JoinTenant(tenantID); err != nil {
			return err
		}
	}

	exists, err := users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("user %s: %w", user.Email, shared.ErrAlreadyExists)
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "created user %s\n  id:     %s\n  tenant: %s\n", user.Email, user.ID, user.Tenant())
	return err
}
