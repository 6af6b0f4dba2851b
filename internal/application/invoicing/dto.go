package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// LineItemRequest carries the editable fields of a line item. Any "amount"
// sent by a client is ignored; it is always recomputed.
// When ProductID is set and Name is empty, the line is filled from the product
// and an absent Quantity defaults to one.
type LineItemRequest struct {
	ID          *uuid.UUID      `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id"`
	Name        string          `json:"name" binding:"max=200"`
	HSNCode     string          `json:"hsn_code" binding:"max=20"`
	Quantity    *int64          `json:"quantity" binding:"omitempty,gte=0"`
	Rate        decimal.Decimal `json:"rate" binding:"gte=0"`
	Discount    decimal.Decimal `json:"discount" binding:"gte=0"`
	CGSTPercent decimal.Decimal `json:"cgst_percent" binding:"gte=0"`
	SGSTPercent decimal.Decimal `json:"sgst_percent" binding:"gte=0"`
}

func (r LineItemRequest) toInput() invoicing.LineItemInput {
	in := invoicing.LineItemInput{
		ProductID:   r.ProductID,
		Name:        r.Name,
		HSNCode:     r.HSNCode,
		Rate:        r.Rate,
		Discount:    r.Discount,
		CGSTPercent: r.CGSTPercent,
		SGSTPercent: r.SGSTPercent,
	}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	if r.ID != nil {
		in.ID = *r.ID
	}
	return in
}

// CreateInvoiceRequest represents a request to create an invoice.
// InvoiceNumber is generated when left empty.
type CreateInvoiceRequest struct {
	CustomerID         uuid.UUID         `json:"customer_id" binding:"required"`
	InvoiceNumber      string            `json:"invoice_number" binding:"max=50"`
	OrderNumber        string            `json:"order_number" binding:"max=50"`
	InvoiceDate        time.Time         `json:"invoice_date" binding:"required"`
	DueDate            *time.Time        `json:"due_date"`
	Items              []LineItemRequest `json:"items" binding:"dive"`
	Adjustment         decimal.Decimal   `json:"adjustment"`
	PaidAmount         decimal.Decimal   `json:"paid_amount" binding:"gte=0"`
	TermsAndConditions string            `json:"terms_and_conditions" binding:"max=2000"`
	Remarks            string            `json:"remarks" binding:"max=2000"`
}

// UpdateInvoiceRequest is a typed partial update: nil fields are left untouched.
// Items, when present, replaces the whole item list.
type UpdateInvoiceRequest struct {
	CustomerID         *uuid.UUID         `json:"customer_id"`
	InvoiceNumber      *string            `json:"invoice_number" binding:"omitempty,min=1,max=50"`
	OrderNumber        *string            `json:"order_number" binding:"omitempty,max=50"`
	InvoiceDate        *time.Time         `json:"invoice_date"`
	DueDate            *time.Time         `json:"due_date"`
	Items              *[]LineItemRequest `json:"items" binding:"omitempty,dive"`
	Adjustment         *decimal.Decimal   `json:"adjustment"`
	PaidAmount         *decimal.Decimal   `json:"paid_amount" binding:"omitempty,gte=0"`
	TermsAndConditions *string            `json:"terms_and_conditions" binding:"omitempty,max=2000"`
	Remarks            *string            `json:"remarks" binding:"omitempty,max=2000"`
}

// CalculateRequest previews totals without saving anything
type CalculateRequest struct {
	Items      []LineItemRequest `json:"items" binding:"dive"`
	Adjustment decimal.Decimal   `json:"adjustment"`
	PaidAmount decimal.Decimal   `json:"paid_amount" binding:"gte=0"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Name        string          `json:"name"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Discount    decimal.Decimal `json:"discount"`
	CGSTPercent decimal.Decimal `json:"cgst_percent"`
	SGSTPercent decimal.Decimal `json:"sgst_percent"`
	Amount      decimal.Decimal `json:"amount"`
}

// TotalsResponse represents invoice totals in API responses
type TotalsResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	CGSTTotal     decimal.Decimal `json:"cgst_total"`
	SGSTTotal     decimal.Decimal `json:"sgst_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Adjustment    decimal.Decimal `json:"adjustment"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	Status        string          `json:"status"`
}

// CalculateResponse is a totals preview with recomputed line amounts
type CalculateResponse struct {
	Items  []LineItemResponse `json:"items"`
	Totals TotalsResponse     `json:"totals"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                 uuid.UUID          `json:"id"`
	TenantID           uuid.UUID          `json:"tenant_id"`
	UserID             uuid.UUID          `json:"user_id"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	InvoiceNumber      string             `json:"invoice_number"`
	OrderNumber        string             `json:"order_number"`
	InvoiceDate        time.Time          `json:"invoice_date"`
	DueDate            time.Time          `json:"due_date"`
	Items              []LineItemResponse `json:"items"`
	Totals             TotalsResponse     `json:"totals"`
	TermsAndConditions string             `json:"terms_and_conditions"`
	Remarks            string             `json:"remarks"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Version            int                `json:"version"`
}

// InvoiceListResponse represents a list item for invoices
type InvoiceListResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	Total         decimal.Decimal `json:"total"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceListFilter represents filter options for invoice list
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=CREDIT PAID"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NextNumberResponse carries an invoice number preview
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// ExportResult is a rendered invoice document. DownloadURL is set only when
// the document was archived.
type ExportResult struct {
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	Data        []byte     `json:"-"`
	ArchiveKey  string     `json:"archive_key,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ToLineItemResponses converts domain line items
func ToLineItemResponses(items []invoicing.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			HSNCode:     item.HSNCode,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Discount:    item.Discount,
			CGSTPercent: item.CGSTPercent,
			SGSTPercent: item.SGSTPercent,
			Amount:      item.Amount,
		}
	}
	return responses
}

// ToTotalsResponse converts domain totals
func ToTotalsResponse(t invoicing.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:      t.Subtotal,
		DiscountTotal: t.DiscountTotal,
		CGSTTotal:     t.CGSTTotal,
		SGSTTotal:     t.SGSTTotal,
		TaxTotal:      t.TaxTotal(),
		Adjustment:    t.Adjustment,
		Total:         t.Total,
		PaidAmount:    t.PaidAmount,
		BalanceAmount: t.BalanceAmount,
		Status:        t.Status().String(),
	}
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                 inv.ID,
		TenantID:           inv.TenantID,
		UserID:             inv.UserID,
		CustomerID:         inv.CustomerID,
		CustomerName:       inv.CustomerName,
		InvoiceNumber:      inv.InvoiceNumber,
		OrderNumber:        inv.OrderNumber,
		InvoiceDate:        inv.InvoiceDate,
		DueDate:            inv.DueDate,
		Items:              ToLineItemResponses(inv.Items),
		Totals:             ToTotalsResponse(inv.Totals),
		TermsAndConditions: inv.TermsAndConditions,
		Remarks:            inv.Remarks,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
		Version:            inv.Version,
	}
}

// ToInvoiceListResponses converts domain invoices to list items
func ToInvoiceListResponses(invoices []invoicing.Invoice) []InvoiceListResponse {
	responses := make([]InvoiceListResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		responses[i] = InvoiceListResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			OrderNumber:   inv.OrderNumber,
			CustomerID:    inv.CustomerID,
			CustomerName:  inv.CustomerName,
			InvoiceDate:   inv.InvoiceDate,
			DueDate:       inv.DueDate,
			Total:         inv.Totals.Total,
			BalanceAmount: inv.Totals.BalanceAmount,
			Status:        inv.Status().String(),
			CreatedAt:     inv.CreatedAt,
		}
	}
	return responses
}
