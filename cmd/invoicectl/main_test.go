package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/application/catalog"
	"github.com/invoicer/backend/internal/application/partner"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))
	return db
}

func TestTotalsCommand(t *testing.T) {
	items := `[
		{"name": "Cotton Shirt", "quantity": 2, "rate": "100", "discount": "10", "cgst_percent": "9", "sgst_percent": "9"}
	]`

	t.Run("reads items from stdin", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Reader = strings.NewReader(items)
		app.Writer = &out

		require.NoError(t, app.Run([]string{"invoicectl", "totals", "--file", "-", "--paid", "26"}))

		text := out.String()
		assert.Contains(t, text, "Cotton Shirt")
		assert.Regexp(t, `Total\s+226\.00`, text)
		assert.Regexp(t, `Balance\s+200\.00`, text)
		assert.Regexp(t, `Status\s+CREDIT`, text)
	})

	t.Run("adjustment and full payment", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printTotals(strings.NewReader(items), &out,
			mustDecimal(t, "-1"), mustDecimal(t, "225")))

		assert.Regexp(t, `Total\s+225\.00`, out.String())
		assert.Regexp(t, `Status\s+PAID`, out.String())
	})

	t.Run("invalid item", func(t *testing.T) {
		err := printTotals(strings.NewReader(`[{"name": "", "quantity": 1, "rate": "10"}]`), &bytes.Buffer{},
			mustDecimal(t, "0"), mustDecimal(t, "0"))
		assert.ErrorContains(t, err, "item 1")
	})

	t.Run("malformed json", func(t *testing.T) {
		err := printTotals(strings.NewReader(`{`), &bytes.Buffer{}, mustDecimal(t, "0"), mustDecimal(t, "0"))
		assert.ErrorContains(t, err, "decode line items")
	})

	t.Run("bad flag value", func(t *testing.T) {
		app := newApp()
		app.Reader = strings.NewReader(items)
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"invoicectl", "totals", "--file", "-", "--paid", "lots"})
		assert.ErrorContains(t, err, "invalid --paid")
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	var out bytes.Buffer
	require.NoError(t, createUser(ctx, db, &out, "Owner@Example.com", "Password123", "Owner", uuid.Nil))
	assert.Contains(t, out.String(), "created user owner@example.com")

	user, err := persistence.NewGormUserRepository(db).FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, user.Tenant(), "a new account starts its own tenant")

	t.Run("duplicate email", func(t *testing.T) {
		err := createUser(ctx, db, &bytes.Buffer{}, "owner@example.com", "Password123", "Again", uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("joins an existing tenant", func(t *testing.T) {
		require.NoError(t, createUser(ctx, db, &bytes.Buffer{}, "clerk@example.com", "Password123", "Clerk", user.ID))
		clerk, err := persistence.NewGormUserRepository(db).FindByEmail(ctx, "clerk@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, clerk.Tenant())
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, createUser(ctx, db, &bytes.Buffer{}, "owner@example.com", "Password123", "Owner", uuid.Nil))
	user, err := persistence.NewGormUserRepository(db).FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, seed(ctx, db, &out, seedOptions{Email: "owner@example.com", Customers: 4, Products: 3, Seed: 7}))
	assert.Contains(t, out.String(), "seeded 4 customers and 3 products")
	assert.Regexp(t, `\S+-(PRD|SRV)-\d{4}`, out.String())

	customers, total, err := partner.NewCustomerService(persistence.NewGormCustomerRepository(db)).
		List(ctx, user.Tenant(), partner.CustomerListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, customers, 4)

	_, total, err = catalog.NewProductService(persistence.NewGormProductRepository(db), numbering.NewGenerator()).
		List(ctx, user.Tenant(), catalog.ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	t.Run("unknown user", func(t *testing.T) {
		err := seed(ctx, db, &bytes.Buffer{}, seedOptions{Email: "ghost@example.com", Customers: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
