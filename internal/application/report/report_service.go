package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SummaryFilter bounds the summary by invoice date. Both ends are inclusive
// and either may be omitted.
type SummaryFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// SummaryResponse is the per-tenant invoice summary
type SummaryResponse struct {
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
	InvoiceCount  int64           `json:"invoice_count"`
	CreditCount   int64           `json:"credit_count"`
	PaidCount     int64           `json:"paid_count"`
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// ReportService provides application-level report operations
type ReportService struct {
	invoiceRepo invoicing.InvoiceRepository
}

// NewReportService creates a new ReportService
func NewReportService(invoiceRepo invoicing.InvoiceRepository) *ReportService {
	return &ReportService{invoiceRepo: invoiceRepo}
}

// Summary aggregates the tenant's invoices over the optional date range
func (s *ReportService) Summary(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) (*SummaryResponse, error) {
	period := shared.DateRange{From: filter.From, To: shared.EndOfDay(filter.To)}
	if period.From != nil && period.To != nil && period.From.After(*period.To) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "from must not be after to")
	}

	summary, err := s.invoiceRepo.Summarize(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}

	return &SummaryResponse{
		From:          filter.From,
		To:            filter.To,
		InvoiceCount:  summary.InvoiceCount,
		CreditCount:   summary.CreditCount,
		PaidCount:     summary.PaidCount,
		TotalInvoiced: summary.TotalInvoiced.Round(2),
		TotalTax:      summary.TotalTax.Round(2),
		TotalPaid:     summary.TotalPaid.Round(2),
		Outstanding:   summary.Outstanding.Round(2),
	}, nil
}
