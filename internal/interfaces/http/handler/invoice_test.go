package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	appinvoicing "github.com/invoicer/backend/internal/application/invoicing"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/export"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	scope     identity.Scope
	invoices  *MockInvoiceRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
	customer  *partner.Customer
	router    *gin.Engine
}

func newInvoiceFixture(t *testing.T, scope identity.Scope, opts ...appinvoicing.Option) *invoiceFixture {
	t.Helper()
	f := &invoiceFixture{
		scope:     scope,
		invoices:  new(MockInvoiceRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
	}
	tenantID := scope.TenantID
	if tenantID == uuid.Nil {
		tenantID = uuid.New()
	}
	customer, err := partner.NewCustomer(tenantID, uuid.New(), "Ravi Kumar", "080-1", partner.CustomerTypeBusiness)
	require.NoError(t, err)
	f.customer = customer

	generator := numbering.NewGenerator(numbering.WithRandom(func(int) int { return 7 }))
	service := appinvoicing.NewInvoiceService(f.invoices, f.customers, f.products, nil, generator, opts...)
	h := NewInvoiceHandler(service)

	f.router = newRouter(scope)
	g := f.router.Group("/invoices")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/next-number", h.NextNumber)
	g.POST("/calculate", h.Calculate)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/pdf", h.ExportPDF)
	return f
}

func (f *invoiceFixture) existingInvoice(t *testing.T) *invoicing.Invoice {
	t.Helper()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(f.scope.TenantID, f.scope.UserID, f.customer.ID, "Ravi Kumar", "INV-000001-001", date, date)
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceItems([]invoicing.LineItemInput{{
		Name:        "Cotton Shirt",
		Quantity:    2,
		Rate:        decimal.NewFromInt(100),
		Discount:    decimal.NewFromInt(10),
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
	}}))
	return inv
}

func sampleInvoiceBody(customerID uuid.UUID) map[string]any {
	return map[string]any{
		"customer_id":    customerID,
		"invoice_number": "INV-42",
		"invoice_date":   "2024-03-15T00:00:00Z",
		"paid_amount":    "50",
		"items": []map[string]any{{
			"name":         "Cotton Shirt",
			"quantity":     2,
			"rate":         "100",
			"discount":     "10",
			"cgst_percent": "9",
			"sgst_percent": "9",
			"amount":       "99999",
		}},
	}
}

func TestInvoiceHandler_Create(t *testing.T) {
	f := newInvoiceFixture(t, newScope())
	f.customers.On("FindByIDForTenant", mock.Anything, f.scope.TenantID, f.customer.ID).Return(f.customer, nil)
	f.invoices.On("ExistsByInvoiceNumber", mock.Anything, f.scope.TenantID, "INV-42").Return(false, nil)
	f.invoices.On("Save", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	w := doJSON(t, f.router, http.MethodPost, "/invoices", sampleInvoiceBody(f.customer.ID))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeData[appinvoicing.InvoiceResponse](t, w)
	assert.Equal(t, "INV-42", resp.InvoiceNumber)
	assert.Equal(t, f.scope.TenantID, resp.TenantID)
	require.Len(t, resp.Items, 1)
	// client-sent amount is ignored
	assert.True(t, resp.Items[0].Amount.Equal(decimal.NewFromInt(226)))
	assert.True(t, resp.Totals.BalanceAmount.Equal(decimal.NewFromInt(176)))
	assert.Equal(t, "CREDIT", resp.Totals.Status)
}

func TestInvoiceHandler_Create_Rejections(t *testing.T) {
	t.Run("negative rate fails validation", func(t *testing.T) {
		f := newInvoiceFixture(t, newScope())
		body := sampleInvoiceBody(f.customer.ID)
		body["items"].([]map[string]any)[0]["rate"] = "-1"

		w := doJSON(t, f.router, http.MethodPost, "/invoices", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
		require.NotEmpty(t, env.Error.Details)
		assert.Equal(t, "items[0].rate", env.Error.Details[0].Field)
		f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("taken number conflicts", func(t *testing.T) {
		f := newInvoiceFixture(t, newScope())
		f.customers.On("FindByIDForTenant", mock.Anything, f.scope.TenantID, f.customer.ID).Return(f.customer, nil)
		f.invoices.On("ExistsByInvoiceNumber", mock.Anything, f.scope.TenantID, "INV-42").Return(true, nil)

		w := doJSON(t, f.router, http.MethodPost, "/invoices", sampleInvoiceBody(f.customer.ID))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_EXISTS", decode(t, w).Error.Code)
	})

	t.Run("store failure is an opaque 500", func(t *testing.T) {
		f := newInvoiceFixture(t, newScope())
		f.customers.On("FindByIDForTenant", mock.Anything, f.scope.TenantID, f.customer.ID).
			Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

		w := doJSON(t, f.router, http.MethodPost, "/invoices", sampleInvoiceBody(f.customer.ID))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	})

	t.Run("unauthenticated never reaches the store", func(t *testing.T) {
		f := newInvoiceFixture(t, identity.Scope{})

		w := doJSON(t, f.router, http.MethodPost, "/invoices", sampleInvoiceBody(f.customer.ID))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.customers.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvoiceHandler_NextNumber(t *testing.T) {
	t.Run("returns a free number", func(t *testing.T) {
		f := newInvoiceFixture(t, newScope())
		f.invoices.On("ExistsByInvoiceNumber", mock.Anything, f.scope.TenantID, mock.AnythingOfType("string")).Return(false, nil)

		w := doJSON(t, f.router, http.MethodGet, "/invoices/next-number", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeData[appinvoicing.NextNumberResponse](t, w)
		assert.Regexp(t, `^INV-\d{6}-007$`, resp.InvoiceNumber)
	})

	t.Run("always colliding is exhausted", func(t *testing.T) {
		f := newInvoiceFixture(t, newScope())
		f.invoices.On("ExistsByInvoiceNumber", mock.Anything, f.scope.TenantID, mock.AnythingOfType("string")).Return(true, nil)

		w := doJSON(t, f.router, http.MethodGet, "/invoices/next-number", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeExhausted, decode(t, w).Error.Code)
		f.invoices.AssertNumberOfCalls(t, "ExistsByInvoiceNumber", numbering.DefaultMaxAttempts)
	})
}

func TestInvoiceHandler_Calculate(t *testing.T) {
	f := newInvoiceFixture(t, newScope())

	w := doJSON(t, f.router, http.MethodPost, "/invoices/calculate", map[string]any{
		"items": []map[string]any{
			{"name": "A", "quantity": 1, "rate": "1000", "cgst_percent": "9", "sgst_percent": "9"},
			{"name": "B", "quantity": 3, "rate": "50", "discount": "5"},
		},
		"adjustment":  "-0.5",
		"paid_amount": "1500",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeData[appinvoicing.CalculateResponse](t, w)
	assert.True(t, resp.Totals.Subtotal.Equal(decimal.NewFromInt(1150)))
	assert.True(t, resp.Totals.DiscountTotal.Equal(decimal.NewFromInt(5)))
	assert.True(t, resp.Totals.CGSTTotal.Equal(decimal.NewFromInt(90)))
	assert.True(t, resp.Totals.Total.Equal(decimal.RequireFromString("1324.5")))
	assert.Equal(t, "PAID", resp.Totals.Status)
	f.invoices.AssertExpectations(t)
}

func TestInvoiceHandler_GetUpdateDelete(t *testing.T) {
	f := newInvoiceFixture(t, newScope())
	inv := f.existingInvoice(t)
	path := "/invoices/" + inv.ID.String()

	t.Run("get", func(t *testing.T) {
		f.invoices.On("FindByIDForTenant", mock.Anything, f.scope.TenantID, inv.ID).Return(inv, nil).Once()

		w := doJSON(t, f.router, http.MethodGet, path, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, inv.InvoiceNumber, decodeData[appinvoicing.InvoiceResponse](t, w).InvoiceNumber)
	})

	t.Run("get of another tenant is not found", func(t *testing.T) {
		other := uuid.New()
		f.invoices.On("FindByIDForTenant", mock.Anything, f.scope.TenantID, other).Return(nil, shared.ErrNotFound).Once()

		w := doJSON(t, f.router, http.MethodGet, "/invoices/"+other.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		f.invoices.On("FindByIDForTenant", mock.Anything, f.scope.TenantID, inv.ID).Return(inv, nil).Once()
		f.invoices.On("Save", mock.Anything, inv).Return(nil).Once()

		w := doJSON(t, f.router, http.MethodPut, path, map[string]any{"paid_amount": "226"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeData[appinvoicing.InvoiceResponse](t, w)
		assert.Equal(t, "INV-000001-001", resp.InvoiceNumber)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, "PAID", resp.Totals.Status)
		assert.True(t, resp.Totals.BalanceAmount.IsZero())
	})

	t.Run("delete", func(t *testing.T) {
		f.invoices.On("DeleteForTenant", mock.Anything, f.scope.TenantID, inv.ID).Return(nil).Once()

		w := doJSON(t, f.router, http.MethodDelete, path, nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delete of another tenant is not found", func(t *testing.T) {
		other := uuid.New()
		f.invoices.On("DeleteForTenant", mock.Anything, f.scope.TenantID, other).Return(shared.ErrNotFound).Once()

		w := doJSON(t, f.router, http.MethodDelete, "/invoices/"+other.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInvoiceHandler_ListAndSearch(t *testing.T) {
	f := newInvoiceFixture(t, newScope())
	inv := f.existingInvoice(t)

	f.invoices.On("FindAllForTenant", mock.Anything, f.scope.TenantID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 2 && filter.PageSize == 5 && filter.Filters["status"] == "CREDIT"
	})).Return([]invoicing.Invoice{*inv}, nil)
	f.invoices.On("CountForTenant", mock.Anything, f.scope.TenantID, mock.Anything).Return(int64(6), nil)
	f.invoices.On("Search", mock.Anything, f.scope.TenantID, "inv-0", shared.SearchLimit).Return([]invoicing.Invoice{*inv}, nil)

	w := doJSON(t, f.router, http.MethodGet, "/invoices?page=2&page_size=5&status=CREDIT", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(6), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)

	w = doJSON(t, f.router, http.MethodGet, "/invoices?status=VOID", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, f.router, http.MethodGet, "/invoices/search?q=inv-0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]appinvoicing.InvoiceListResponse](t, w), 1)
}

func TestInvoiceHandler_ExportPDF(t *testing.T) {
	t.Run("streams the document", func(t *testing.T) {
		scope := newScope()
		f := newInvoiceFixture(t, scope, appinvoicing.WithExport(&stubRenderer{}, nil, appinvoicing.ExportOptions{}))
		inv := f.existingInvoice(t)
		f.invoices.On("FindByIDForTenant", mock.Anything, scope.TenantID, inv.ID).Return(inv, nil)
		f.customers.On("FindByIDForTenant", mock.Anything, scope.TenantID, f.customer.ID).Return(f.customer, nil)

		w := doJSON(t, f.router, http.MethodGet, "/invoices/"+inv.ID.String()+"/pdf", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, export.ContentTypePDF, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-000001-001.pdf")
		assert.Equal(t, "%PDF-1.4 stub", w.Body.String())
	})

	t.Run("render timeout is 504", func(t *testing.T) {
		scope := newScope()
		renderer := &stubRenderer{err: export.NewRenderError(export.ErrCodeRenderTimeout, "PDF rendering timed out", nil)}
		f := newInvoiceFixture(t, scope, appinvoicing.WithExport(renderer, nil, appinvoicing.ExportOptions{}))
		inv := f.existingInvoice(t)
		f.invoices.On("FindByIDForTenant", mock.Anything, scope.TenantID, inv.ID).Return(inv, nil)
		f.customers.On("FindByIDForTenant", mock.Anything, scope.TenantID, f.customer.ID).Return(f.customer, nil)

		w := doJSON(t, f.router, http.MethodGet, "/invoices/"+inv.ID.String()+"/pdf", nil)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Equal(t, dto.ErrCodeRenderTimeout, decode(t, w).Error.Code)
	})

	t.Run("export not configured is 503", func(t *testing.T) {
		f := newInvoiceFixture(t, newScope())

		w := doJSON(t, f.router, http.MethodGet, "/invoices/"+uuid.NewString()+"/pdf", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeExportDisabled, decode(t, w).Error.Code)
	})
}
