package main

import (
	"context"
	"fmt"
	"io"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/invoicer/backend/internal/application/catalog"
	"github.com/invoicer/backend/internal/application/partner"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

var (
	gstSlabs  = []string{"0", "5", "12", "18", "28"}
	unitNames = []string{"pcs", "box", "kg", "set"}
)

type seedOptions struct {
	Email     string
	Customers int
	Products  int
	Seed      uint64
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert fake customers and products for a user's tenant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, Usage: "owner of the seeded records"},
			&cli.IntFlag{Name: "customers", Value: 10},
			&cli.IntFlag{Name: "products", Value: 10},
			&cli.Uint64Flag{Name: "seed", Usage: "faker seed; 0 picks a random one"},
		},
		Action: func(c *cli.Context) error {
			db, log, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			defer func() { _ = log.Sync() }()

			return seed(c.Context, db.DB, c.App.Writer, seedOptions{
				Email:     c.String("email"),
				Customers: c.Int("customers"),
				Products:  c.Int("products"),
				Seed:      c.Uint64("seed"),
			})
		},
	}
}

// seed creates records through the application services so seeded data
// passes the same validation and SKU generation as API traffic.
func seed(ctx context.Context, db *gorm.DB, out io.Writer, opts seedOptions) error {
	if opts.Customers < 0 || opts.Products < 0 {
		return fmt.Errorf("counts must not be negative")
	}

	user, err := persistence.NewGormUserRepository(db).FindByEmail(ctx, opts.Email)
	if err != nil {
		return fmt.Errorf("find user %s: %w", opts.Email, err)
	}
	scope := identity.Scope{TenantID: user.Tenant(), UserID: user.ID}

	faker := gofakeit.New(opts.Seed)
	customers := partner.NewCustomerService(persistence.NewGormCustomerRepository(db))
	products := catalog.NewProductService(persistence.NewGormProductRepository(db), numbering.NewGenerator())

	for i := 0; i < opts.Customers; i++ {
		customerType := "Individual"
		company := ""
		if faker.Bool() {
			customerType = "Business"
			company = faker.Company()
		}
		_, err := customers.Create(ctx, scope, partner.CreateCustomerRequest{
			CustomerName:  faker.Name(),
			CompanyName:   company,
			CustomerEmail: faker.Email(),
			WorkPhone:     faker.Phone(),
			CustomerType:  customerType,
			PlaceOfSupply: faker.State(),
			BillingAddress: &partner.BillingAddressRequest{
				Street1: faker.Street(),
				City:    faker.City(),
				State:   faker.State(),
				PinCode: faker.Numerify("######"),
				Country: "India",
			},
		})
		if err != nil {
			return fmt.Errorf("seed customer %d: %w", i+1, err)
		}
	}

	for i := 0; i < opts.Products; i++ {
		productType := "product"
		if faker.Number(1, 4) == 1 {
			productType = "service"
		}
		product, err := products.Create(ctx, scope, catalog.CreateProductRequest{
			Name:        faker.ProductName(),
			Description: faker.Sentence(8),
			Type:        productType,
			UnitPrice:   decimal.NewFromFloat(faker.Price(50, 5000)).Round(2),
			TaxPercent:  decimal.RequireFromString(faker.RandomString(gstSlabs)),
			Unit:        faker.RandomString(unitNames),
			HSNCode:     faker.Numerify("####"),
		})
		if err != nil {
			return fmt.Errorf("seed product %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintf(out, "  %s  %s\n", product.SKU, product.Name); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "seeded %d customers and %d products for tenant %s\n",
		opts.Customers, opts.Products, scope.TenantID)
	return err
}
