package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/application/catalog"
	domaincatalog "github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  List the tenant's products, newest first
// @Tags         products
// @Produce      json
// @Param        search     query  string  false  "Search term"
// @Param        type       query  string  false  "Product type"  Enums(product, service)
// @Param        is_active  query  bool    false  "Active filter"
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(20)  maximum(100)
// @Success      200 {object} APIResponse[[]catalog.ProductListResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var filter catalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), scope.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Search godoc
// @ID           searchProducts
// @Summary      Search products
// @Description  Case-insensitive match on name and SKU, at most 10 results
// @Tags         products
// @Produce      json
// @Param        q  query  string  true  "Search term"
// @Success      200 {object} APIResponse[[]catalog.ProductListResponse]
// @Security     BearerAuth
// @Router       /products/search [get]
func (h *ProductHandler) Search(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	products, err := h.productService.Search(c.Request.Context(), scope.TenantID, req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GenerateSKU godoc
// @ID           generateProductSKU
// @Summary      Preview a SKU
// @Description  Returns a SKU unused across all tenants at the time of the check. Nothing is reserved.
// @Tags         products
// @Produce      json
// @Param        name  query  string  true   "Product name"
// @Param        type  query  string  false  "Product type"  Enums(product, service)
// @Success      200 {object} APIResponse[catalog.SKUResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/sku [get]
func (h *ProductHandler) GenerateSKU(c *gin.Context) {
	if _, ok := h.scope(c); !ok {
		return
	}
	var req catalog.GenerateSKURequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productType := domaincatalog.ProductTypeProduct
	if req.Type != "" {
		productType = domaincatalog.ProductType(req.Type)
	}

	sku, err := h.productService.GenerateSKU(c.Request.Context(), req.Name, productType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, catalog.SKUResponse{SKU: sku})
}

// Create godoc
// @ID           createProduct
// @Summary      Create product
// @Description  Creates a product; a SKU is generated when none is given
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Rejects replays of the same create"
// @Param        request  body  catalog.CreateProductRequest  true  "Product"
// @Success      201 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get godoc
// @ID           getProduct
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "Product ID"  format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), scope.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update product
// @Description  Partial update: omitted fields are left untouched. The SKU cannot change.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Product ID"  format(uuid)
// @Param        request  body  catalog.UpdateProductRequest  true  "Fields to change"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), scope.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete product
// @Tags         products
// @Param        id  path  string  true  "Product ID"  format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), scope.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
