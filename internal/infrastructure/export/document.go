// Package export renders computed invoices into PDF documents, either by
// printing an HTML template through headless Chrome or by drawing the page
// natively with gofpdf. Renderers only read the invoice; totals are never
// recomputed here.
package export

import (
	"context"
	"time"

	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/settings"
)

// ContentTypePDF is the MIME type of rendered documents
const ContentTypePDF = "application/pdf"

// Document is everything printed on an invoice
type Document struct {
	Invoice *invoicing.Invoice
	// Business is the issuer block from the tenant's settings
	Business settings.Business
	// Customer is optional; when set its address and GSTIN are printed
	Customer    *partner.Customer
	GeneratedAt time.Time
}

// Result is a rendered document
type Result struct {
	Data        []byte
	ContentType string
	Duration    time.Duration
}

// Renderer turns a Document into a PDF
type Renderer interface {
	Render(ctx context.Context, doc *Document) (*Result, error)
	// Name identifies the backend, e.g. "chromedp" or "gofpdf"
	Name() string
	Close() error
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
)

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func validateDocument(doc *Document) error {
	if doc == nil || doc.Invoice == nil {
		return NewRenderError(ErrCodeInvalidDocument, "document has no invoice", nil)
	}
	return nil
}
