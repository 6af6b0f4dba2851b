package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the data store operations for invoices.
// Every method is scoped by tenant; DeleteForTenant only removes a row whose
// id and tenant both match.
type InvoiceRepository interface {
	// FindByIDForTenant loads an invoice with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindAllForTenant lists invoices without items, newest first by default
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// CountForTenant counts invoices matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Search does a case-insensitive substring match on invoice and order numbers
	Search(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]Invoice, error)

	// Save inserts a new invoice or updates an existing one together with its items
	Save(ctx context.Context, invoice *Invoice) error

	// DeleteForTenant hard-deletes an invoice and its items
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByInvoiceNumber checks invoice number uniqueness within a tenant
	ExistsByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)

	// Summarize aggregates invoice totals for reporting
	Summarize(ctx context.Context, tenantID uuid.UUID, period shared.DateRange) (*Summary, error)
}

// Summary aggregates invoice amounts for a tenant
type Summary struct {
	InvoiceCount  int64
	CreditCount   int64
	PaidCount     int64
	TotalInvoiced decimal.Decimal
	TotalTax      decimal.Decimal
	TotalPaid     decimal.Decimal
	Outstanding   decimal.Decimal
}
