package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/application/catalog"
	domaincatalog "github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductRouter(scope identity.Scope, repo *MockProductRepository, opts ...numbering.Option) *gin.Engine {
	opts = append([]numbering.Option{numbering.WithRandom(func(int) int { return 42 })}, opts...)
	h := NewProductHandler(catalog.NewProductService(repo, numbering.NewGenerator(opts...)))
	router := newRouter(scope)
	g := router.Group("/products")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/sku", h.GenerateSKU)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return router
}

func TestProductHandler_GenerateSKU(t *testing.T) {
	t.Run("product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, "CSB-PRD-0042").Return(false, nil)
		router := newProductRouter(newScope(), repo)

		w := doJSON(t, router, http.MethodGet, "/products/sku?name=cotton+shirt+blue", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "CSB-PRD-0042", decodeData[catalog.SKUResponse](t, w).SKU)
	})

	t.Run("service", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, "AC-SRV-0042").Return(false, nil)
		router := newProductRouter(newScope(), repo)

		w := doJSON(t, router, http.MethodGet, "/products/sku?name=annual+care&type=service", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "AC-SRV-0042", decodeData[catalog.SKUResponse](t, w).SKU)
	})

	t.Run("name is required", func(t *testing.T) {
		router := newProductRouter(newScope(), new(MockProductRepository))

		w := doJSON(t, router, http.MethodGet, "/products/sku", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("exhausted", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
		router := newProductRouter(newScope(), repo, numbering.WithMaxAttempts(3))

		w := doJSON(t, router, http.MethodGet, "/products/sku?name=shirt", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeExhausted, decode(t, w).Error.Code)
		repo.AssertNumberOfCalls(t, "ExistsBySKU", 3)
	})
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("generates a SKU when none is given", func(t *testing.T) {
		scope := newScope()
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, "CS-PRD-0042").Return(false, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(p *domaincatalog.Product) bool {
			return p.TenantID == scope.TenantID && p.SKU == "CS-PRD-0042"
		})).Return(nil)
		router := newProductRouter(scope, repo)

		w := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"name":        "Cotton Shirt",
			"type":        "product",
			"unit":        "pcs",
			"unit_price":  "499.00",
			"tax_percent": "12",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeData[catalog.ProductResponse](t, w)
		assert.Equal(t, "CS-PRD-0042", resp.SKU)
		assert.True(t, resp.UnitPrice.Equal(decimal.RequireFromString("499")))
	})

	t.Run("explicit SKU already taken", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", mock.Anything, "TAKEN-1").Return(true, nil)
		router := newProductRouter(newScope(), repo)

		w := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"name": "Cotton Shirt",
			"sku":  "taken-1",
			"type": "product",
			"unit": "pcs",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative price fails validation", func(t *testing.T) {
		router := newProductRouter(newScope(), new(MockProductRepository))

		w := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"name":       "Cotton Shirt",
			"type":       "product",
			"unit":       "pcs",
			"unit_price": "-1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.NotEmpty(t, env.Error.Details)
		assert.Equal(t, "unit_price", env.Error.Details[0].Field)
	})
}
