package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	archive := NewMemoryArchive("http://archive.test")

	data := []byte("%PDF-1.4 test")
	require.NoError(t, archive.Upload(ctx, "a/b.pdf", data, "application/pdf"))
	data[0] = 'X'

	stored, contentType, ok := archive.Get("a/b.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4 test", string(stored), "upload keeps its own copy")
	assert.Equal(t, "application/pdf", contentType)

	url, expiresAt, err := archive.GenerateDownloadURL(ctx, "a/b.pdf", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "http://archive.test/a/b.pdf?expires=")
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	require.NoError(t, archive.Delete(ctx, "a/b.pdf"))
	assert.Equal(t, 0, archive.Len())

	assert.ErrorIs(t, archive.Upload(ctx, "", nil, ""), errKeyRequired)
}

func TestInvoiceKey(t *testing.T) {
	tenantID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	invoiceID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	key := InvoiceKey(tenantID, invoiceID, "INV-123456/007")
	assert.Equal(t, "invoices/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/INV-123456_007.pdf", key)

	key = InvoiceKey(tenantID, invoiceID, "")
	assert.Equal(t, "invoices/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/22222222-2222-2222-2222-222222222222.pdf", key)
}

func TestNewArchive_FallsBackToMemory(t *testing.T) {
	archive, err := NewArchive(context.Background(), config.StorageConfig{}, nil)
	require.NoError(t, err)
	_, ok := archive.(*MemoryArchive)
	assert.True(t, ok)
}
