package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "test-bucket",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Archive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("endpoint without scheme is accepted", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Endpoint = "localhost:9000"
		cfg.UseSSL = true
		archive, err := NewS3Archive(cfg)
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", archive.Bucket())
	})

	t.Run("default presign expiration is 15 minutes", func(t *testing.T) {
		archive, err := NewS3Archive(testStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, archive.presignExpiration)
	})
}

func TestS3ArchiveOptions(t *testing.T) {
	archive, err := NewS3Archive(testStorageConfig(), WithLogger(zaptest.NewLogger(t)), WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, archive.logger)
	assert.Equal(t, time.Hour, archive.presignExpiration)
}

func TestS3Archive_GenerateDownloadURL(t *testing.T) {
	archive, err := NewS3Archive(testStorageConfig())
	require.NoError(t, err)

	t.Run("empty key returns error", func(t *testing.T) {
		url, _, err := archive.GenerateDownloadURL(context.Background(), "", time.Minute)
		require.ErrorIs(t, err, errKeyRequired)
		assert.Empty(t, url)
	})

	t.Run("presigns a path-style URL", func(t *testing.T) {
		url, expiresAt, err := archive.GenerateDownloadURL(context.Background(), "invoices/t/i/INV-1.pdf", 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/test-bucket/invoices/"))
		assert.Contains(t, url, "X-Amz-Signature")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
	})
}

func TestS3Archive_KeyValidation(t *testing.T) {
	archive, err := NewS3Archive(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, archive.Upload(ctx, "", []byte("x"), "application/pdf"), errKeyRequired)
	assert.ErrorIs(t, archive.Delete(ctx, ""), errKeyRequired)
	_, err = archive.Exists(ctx, "")
	assert.ErrorIs(t, err, errKeyRequired)
}

// Set ARCHIVE_INTEGRATION=1 with MinIO on localhost:9000 to run.
func TestS3Archive_Integration_UploadAndDelete(t *testing.T) {
	if os.Getenv("ARCHIVE_INTEGRATION") == "" {
		t.Skip("set ARCHIVE_INTEGRATION=1 to run against local MinIO")
	}

	cfg := &config.StorageConfig{
		Bucket:       "invoicer-integration",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
	archive, err := NewS3Archive(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, archive.EnsureBucket(ctx))

	key := "integration/doc.pdf"
	require.NoError(t, archive.Upload(ctx, key, []byte("%PDF-1.4"), "application/pdf"))

	exists, err := archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, archive.Delete(ctx, key))
	exists, err = archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
