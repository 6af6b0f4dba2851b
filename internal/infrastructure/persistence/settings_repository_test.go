package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/settings"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSettingsRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSettingsRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("missing settings are not found", func(t *testing.T) {
		_, err := repo.FindForTenant(ctx, tenantID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("first save inserts", func(t *testing.T) {
		s := settings.NewUserSettings(tenantID, tenantID)
		require.NoError(t, s.SetBusiness(settings.Business{BusinessName: "Acme", GST: "27abcde1234f1z5"}))
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.FindForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Business.BusinessName)
		assert.Equal(t, "27ABCDE1234F1Z5", got.Business.GST)
		assert.Equal(t, "INV-", got.InvoicePrefix())
		assert.Equal(t, int64(1), got.InvoiceSettings.NextNumber)
	})

	t.Run("second save with a fresh aggregate updates the same row", func(t *testing.T) {
		s := settings.NewUserSettings(tenantID, tenantID)
		require.NoError(t, s.SetInvoiceSettings(settings.InvoiceSettings{Prefix: "ACME/", NextNumber: 42}))
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.FindForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "ACME/", got.InvoicePrefix())
		assert.Equal(t, int64(42), got.InvoiceSettings.NextNumber)
		assert.Empty(t, got.Business.BusinessName)

		var rows int64
		require.NoError(t, db.Table("user_settings").Where("tenant_id = ?", tenantID).Count(&rows).Error)
		assert.Equal(t, int64(1), rows)
	})
}
