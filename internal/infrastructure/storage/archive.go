// Package storage archives rendered invoice documents in S3-compatible
// object storage, with an in-memory stand-in when no bucket is configured.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var errKeyRequired = errors.New("storage key is required")

// Archive stores exported documents and hands out time-limited download links
type Archive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

// InvoiceKey returns the object key of an invoice document.
// Keys are grouped per tenant so a bucket policy can scope them.
func InvoiceKey(tenantID, invoiceID uuid.UUID, invoiceNumber string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, invoiceNumber)
	if name == "" {
		name = invoiceID.String()
	}
	return path.Join("invoices", tenantID.String(), invoiceID.String(), name+".pdf")
}

// NewArchive returns the S3 archive when a bucket is configured,
// otherwise the in-memory archive
func NewArchive(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		logger.Info("Object storage not configured, using in-memory archive")
		return NewMemoryArchive("http://localhost/archive"), nil
	}

	archive, err := NewS3Archive(&cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket %q: %w", cfg.Bucket, err)
	}
	return archive, nil
}
