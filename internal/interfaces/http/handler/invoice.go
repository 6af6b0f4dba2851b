package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/application/invoicing"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicing.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  List the tenant's invoices, newest first
// @Tags         invoices
// @Produce      json
// @Param        search       query  string  false  "Search term"
// @Param        status       query  string  false  "Payment status"  Enums(CREDIT, PAID)
// @Param        customer_id  query  string  false  "Customer ID"  format(uuid)
// @Param        from         query  string  false  "Invoice date from (YYYY-MM-DD)"
// @Param        to           query  string  false  "Invoice date to (YYYY-MM-DD)"
// @Param        page         query  int     false  "Page number"  default(1)
// @Param        page_size    query  int     false  "Page size"    default(20)  maximum(100)
// @Success      200 {object} APIResponse[[]invoicing.InvoiceListResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var filter invoicing.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), scope.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// Search godoc
// @ID           searchInvoices
// @Summary      Search invoices
// @Description  Case-insensitive match on invoice number, order number and customer name, at most 10 results
// @Tags         invoices
// @Produce      json
// @Param        q  query  string  true  "Search term"
// @Success      200 {object} APIResponse[[]invoicing.InvoiceListResponse]
// @Security     BearerAuth
// @Router       /invoices/search [get]
func (h *InvoiceHandler) Search(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoices, err := h.invoiceService.Search(c.Request.Context(), scope.TenantID, req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// NextNumber godoc
// @ID           nextInvoiceNumber
// @Summary      Preview the next invoice number
// @Description  Returns a number unused within the tenant at the time of the check. Nothing is reserved.
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[invoicing.NextNumberResponse]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	number, err := h.invoiceService.NextNumber(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoicing.NextNumberResponse{InvoiceNumber: number})
}

// Calculate godoc
// @ID           calculateInvoice
// @Summary      Preview totals
// @Description  Computes line amounts and invoice totals without saving anything
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request  body  invoicing.CalculateRequest  true  "Items and adjustments"
// @Success      200 {object} APIResponse[invoicing.CalculateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/calculate [post]
func (h *InvoiceHandler) Calculate(c *gin.Context) {
	if _, ok := h.scope(c); !ok {
		return
	}
	var req invoicing.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.invoiceService.Calculate(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create godoc
// @ID           createInvoice
// @Summary      Create invoice
// @Description  Creates an invoice. Totals are always recomputed; an invoice number is generated when none is given.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Rejects replays of the same create"
// @Param        request  body  invoicing.CreateInvoiceRequest  true  "Invoice"
// @Success      201 {object} APIResponse[invoicing.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req invoicing.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"  format(uuid)
// @Success      200 {object} APIResponse[invoicing.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), scope.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update invoice
// @Description  Partial update: omitted fields are left untouched, items replace the whole list. Totals are recomputed.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Invoice ID"  format(uuid)
// @Param        request  body  invoicing.UpdateInvoiceRequest  true  "Fields to change"
// @Success      200 {object} APIResponse[invoicing.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invoicing.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), scope.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete invoice
// @Tags         invoices
// @Param        id  path  string  true  "Invoice ID"  format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), scope.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ExportPDF godoc
// @ID           exportInvoicePDF
// @Summary      Export invoice as PDF
// @Description  Streams the rendered PDF. With link=true and archiving enabled, returns a presigned download URL instead.
// @Tags         invoices
// @Produce      application/pdf
// @Produce      json
// @Param        id    path   string  true   "Invoice ID"  format(uuid)
// @Param        link  query  bool    false  "Return a download link instead of the file"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Failure      504 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.invoiceService.Export(c.Request.Context(), scope.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if link, _ := strconv.ParseBool(c.Query("link")); link && result.DownloadURL != "" {
		h.Success(c, result)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
