package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/application/partner"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partner.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  List the tenant's customers, newest first
// @Tags         customers
// @Produce      json
// @Param        search        query  string  false  "Search term"
// @Param        customer_type query  string  false  "Customer type"  Enums(Business, Individual)
// @Param        is_active     query  bool    false  "Active filter"
// @Param        page          query  int     false  "Page number"  default(1)
// @Param        page_size     query  int     false  "Page size"    default(20)  maximum(100)
// @Success      200 {object} APIResponse[[]partner.CustomerListResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var filter partner.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), scope.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, page, pageSize)
}

// Search godoc
// @ID           searchCustomers
// @Summary      Search customers
// @Description  Case-insensitive match on customer and company name, at most 10 results
// @Tags         customers
// @Produce      json
// @Param        q  query  string  true  "Search term"
// @Success      200 {object} APIResponse[[]partner.CustomerListResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/search [get]
func (h *CustomerHandler) Search(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customers, err := h.customerService.Search(c.Request.Context(), scope.TenantID, req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// Create godoc
// @ID           createCustomer
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Rejects replays of the same create"
// @Param        request  body  partner.CreateCustomerRequest  true  "Customer"
// @Success      201 {object} APIResponse[partner.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req partner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Get godoc
// @ID           getCustomer
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id  path  string  true  "Customer ID"  format(uuid)
// @Success      200 {object} APIResponse[partner.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), scope.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update customer
// @Description  Partial update: omitted fields are left untouched
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Customer ID"  format(uuid)
// @Param        request  body  partner.UpdateCustomerRequest  true  "Fields to change"
// @Success      200 {object} APIResponse[partner.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partner.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), scope.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete customer
// @Tags         customers
// @Param        id  path  string  true  "Customer ID"  format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), scope.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
