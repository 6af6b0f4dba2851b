package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/settings"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/export"
	"github.com/invoicer/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsProvider supplies the tenant preferences invoices depend on
type SettingsProvider interface {
	InvoicePrefix(ctx context.Context, tenantID uuid.UUID) (string, error)
	Business(ctx context.Context, tenantID uuid.UUID) (settings.Business, error)
}

// ExportOptions controls document archiving
type ExportOptions struct {
	// Archive uploads rendered documents and returns a presigned URL
	Archive         bool
	DownloadExpires time.Duration
}

// Metrics records invoice activity
type Metrics interface {
	InvoiceCreated(status string, total decimal.Decimal)
	InvoiceExported(renderer string, elapsed time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) InvoiceCreated(string, decimal.Decimal)        {}
func (noopMetrics) InvoiceExported(string, time.Duration, error) {}

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo  invoicing.InvoiceRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	settings     SettingsProvider
	generator    *numbering.Generator
	renderer     export.Renderer
	archive      storage.Archive
	exportOpts   ExportOptions
	metrics      Metrics
	now          func() time.Time
	logger       *zap.Logger
}

// Option configures an InvoiceService
type Option func(*InvoiceService)

// WithExport enables document export, optionally archiving to object storage
func WithExport(renderer export.Renderer, archive storage.Archive, opts ExportOptions) Option {
	return func(s *InvoiceService) {
		s.renderer = renderer
		s.archive = archive
		s.exportOpts = opts
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *InvoiceService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) Option {
	return func(s *InvoiceService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the clock used for invoice numbers and documents
func WithClock(now func() time.Time) Option {
	return func(s *InvoiceService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	settingsProvider SettingsProvider,
	generator *numbering.Generator,
	opts ...Option,
) *InvoiceService {
	if generator == nil {
		generator = numbering.NewGenerator()
	}
	s := &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		settings:     settingsProvider,
		generator:    generator,
		metrics:      noopMetrics{},
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextNumber returns an invoice number unused within the tenant when checked.
// Nothing is reserved.
func (s *InvoiceService) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	if tenantID == uuid.Nil {
		return "", shared.ErrNotAuthenticated
	}

	prefix := numbering.DefaultInvoicePrefix
	if s.settings != nil {
		p, err := s.settings.InvoicePrefix(ctx, tenantID)
		if err != nil {
			return "", err
		}
		prefix = p
	}

	scheme := numbering.InvoiceNumberScheme{Prefix: prefix, Now: s.now}
	checker := numbering.ExistenceFunc(func(ctx context.Context, candidate string) (bool, error) {
		return s.invoiceRepo.ExistsByInvoiceNumber(ctx, tenantID, candidate)
	})
	return s.generator.Generate(ctx, scheme, checker)
}

// Calculate previews totals for a set of items without touching the store.
// Items must carry their own name and rate.
func (s *InvoiceService) Calculate(req CalculateRequest) (*CalculateResponse, error) {
	items := make([]invoicing.LineItem, 0, len(req.Items))
	for _, r := range req.Items {
		item, err := invoicing.NewLineItem(r.toInput())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if req.PaidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}

	computed, totals := invoicing.CalculateTotals(items, req.Adjustment, req.PaidAmount)
	return &CalculateResponse{
		Items:  ToLineItemResponses(computed),
		Totals: ToTotalsResponse(totals),
	}, nil
}

// Create creates an invoice stamped with the scope's tenant and user.
// Without an invoice number one is generated; an explicit number must be
// unused within the tenant.
func (s *InvoiceService) Create(ctx context.Context, scope identity.Scope, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if scope.IsZero() {
		return nil, shared.ErrNotAuthenticated
	}

	customer, err := s.loadCustomer(ctx, scope.TenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		number, err = s.NextNumber(ctx, scope.TenantID)
		if err != nil {
			return nil, err
		}
	} else if err := s.ensureNumberFree(ctx, scope.TenantID, number); err != nil {
		return nil, err
	}

	var dueDate time.Time
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	inv, err := invoicing.NewInvoice(scope.TenantID, scope.UserID, customer.ID, customer.DisplayName(), number, req.InvoiceDate, dueDate)
	if err != nil {
		return nil, err
	}
	if err := inv.SetOrderNumber(req.OrderNumber); err != nil {
		return nil, err
	}
	if err := inv.SetTerms(req.TermsAndConditions); err != nil {
		return nil, err
	}
	if err := inv.SetRemarks(req.Remarks); err != nil {
		return nil, err
	}

	inputs, err := s.resolveItems(ctx, scope.TenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := inv.ReplaceItems(inputs); err != nil {
		return nil, err
	}
	inv.SetAdjustment(req.Adjustment)
	if err := inv.SetPaidAmount(req.PaidAmount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("tenant_id", inv.TenantID.String()),
		zap.Int("items", inv.ItemCount()))
	s.metrics.InvoiceCreated(inv.Status().String(), inv.Totals.Total)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices newest first with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *shared.EndOfDay(filter.To)
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListResponses(invoices), total, nil
}

// Search matches invoice and order numbers case-insensitively, at most shared.SearchLimit rows
func (s *InvoiceService) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]InvoiceListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []InvoiceListResponse{}, nil
	}
	invoices, err := s.invoiceRepo.Search(ctx, tenantID, query, shared.SearchLimit)
	if err != nil {
		return nil, err
	}
	return ToInvoiceListResponses(invoices), nil
}

// Update applies a typed partial update and recomputes totals
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil && *req.CustomerID != inv.CustomerID {
		customer, err := s.loadCustomer(ctx, tenantID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if err := inv.SetCustomer(customer.ID, customer.DisplayName()); err != nil {
			return nil, err
		}
	}

	if req.InvoiceNumber != nil {
		number := strings.TrimSpace(*req.InvoiceNumber)
		if number != inv.InvoiceNumber {
			if err := s.ensureNumberFree(ctx, tenantID, number); err != nil {
				return nil, err
			}
			if err := inv.SetInvoiceNumber(number); err != nil {
				return nil, err
			}
		}
	}

	if req.OrderNumber != nil {
		if err := inv.SetOrderNumber(*req.OrderNumber); err != nil {
			return nil, err
		}
	}

	if req.InvoiceDate != nil || req.DueDate != nil {
		invoiceDate, dueDate := inv.InvoiceDate, inv.DueDate
		if req.InvoiceDate != nil {
			invoiceDate = *req.InvoiceDate
		}
		if req.DueDate != nil {
			dueDate = *req.DueDate
		}
		if err := inv.SetDates(invoiceDate, dueDate); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		inputs, err := s.resolveItems(ctx, tenantID, *req.Items)
		if err != nil {
			return nil, err
		}
		if err := inv.ReplaceItems(inputs); err != nil {
			return nil, err
		}
	}

	if req.Adjustment != nil {
		inv.SetAdjustment(*req.Adjustment)
	}
	if req.PaidAmount != nil {
		if err := inv.SetPaidAmount(*req.PaidAmount); err != nil {
			return nil, err
		}
	}
	if req.TermsAndConditions != nil {
		if err := inv.SetTerms(*req.TermsAndConditions); err != nil {
			return nil, err
		}
	}
	if req.Remarks != nil {
		if err := inv.SetRemarks(*req.Remarks); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete hard-deletes an invoice matching both id and tenant
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID)
}

// Export renders the invoice document. When archiving is enabled the PDF is
// uploaded and a presigned download URL is returned alongside the bytes.
func (s *InvoiceService) Export(ctx context.Context, tenantID, invoiceID uuid.UUID) (*ExportResult, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Document export is not configured")
	}

	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	doc := &export.Document{Invoice: inv, GeneratedAt: s.now()}
	if s.settings != nil {
		business, err := s.settings.Business(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		doc.Business = business
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, inv.CustomerID)
	switch {
	case err == nil:
		doc.Customer = customer
	case errors.Is(err, shared.ErrNotFound):
		// customer deleted since; print the stored name only
	default:
		return nil, err
	}

	started := time.Now()
	rendered, err := s.renderer.Render(ctx, doc)
	s.metrics.InvoiceExported(s.renderer.Name(), time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}

	result := &ExportResult{
		FileName:    inv.InvoiceNumber + ".pdf",
		ContentType: rendered.ContentType,
		Data:        rendered.Data,
	}

	s.logger.Info("invoice exported",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("renderer", s.renderer.Name()),
		zap.Int("bytes", len(rendered.Data)),
		zap.Duration("duration", rendered.Duration))

	if !s.exportOpts.Archive || s.archive == nil {
		return result, nil
	}

	key := storage.InvoiceKey(tenantID, inv.ID, inv.InvoiceNumber)
	if err := s.archive.Upload(ctx, key, rendered.Data, rendered.ContentType); err != nil {
		return nil, fmt.Errorf("archive invoice %s: %w", inv.InvoiceNumber, err)
	}
	url, expiresAt, err := s.archive.GenerateDownloadURL(ctx, key, s.exportOpts.DownloadExpires)
	if err != nil {
		return nil, fmt.Errorf("presign invoice %s: %w", inv.InvoiceNumber, err)
	}
	result.ArchiveKey = key
	result.DownloadURL = url
	result.ExpiresAt = &expiresAt

	return result, nil
}

func (s *InvoiceService) loadCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return customer, err
}

func (s *InvoiceService) ensureNumberFree(ctx context.Context, tenantID uuid.UUID, number string) error {
	exists, err := s.invoiceRepo.ExistsByInvoiceNumber(ctx, tenantID, number)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Invoice number already exists")
	}
	return nil
}

// resolveItems fills product-backed lines that carry no name from the catalog
func (s *InvoiceService) resolveItems(ctx context.Context, tenantID uuid.UUID, reqs []LineItemRequest) ([]invoicing.LineItemInput, error) {
	inputs := make([]invoicing.LineItemInput, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == nil || strings.TrimSpace(r.Name) != "" || s.productRepo == nil {
			inputs = append(inputs, r.toInput())
			continue
		}

		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, *r.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		if err != nil {
			return nil, err
		}

		item, err := invoicing.NewLineItemFromProduct(product.ID, product.Name, product.HSNCode, product.UnitPrice, product.TaxPercent)
		if err != nil {
			return nil, err
		}
		in := item.Input()
		if r.ID != nil {
			in.ID = *r.ID
		}
		if r.Quantity != nil {
			in.Quantity = *r.Quantity
		}
		in.Discount = r.Discount
		inputs = append(inputs, in)
	}
	return inputs, nil
}
