package persistence

import (
	"testing"

	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestSortColumns_OrderBy(t *testing.T) {
	tests := []struct {
		name     string
		orderBy  string
		orderDir string
		column   string
		desc     bool
	}{
		{"defaults to newest first", "", "", "created_at", true},
		{"whitelisted column ascending", "total", "asc", "total", false},
		{"direction is case-insensitive", " invoice_date ", " ASC ", "invoice_date", false},
		{"unknown direction means descending", "status", "sideways", "status", true},
		{"unknown column falls back", "password_hash", "asc", "created_at", false},
		{"column casing is not normalised", "TOTAL", "", "created_at", true},
		{"injection falls back", "total; DROP TABLE invoices;--", "", "created_at", true},
		{"expression falls back", "CASE WHEN 1=1 THEN id END", "", "created_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoiceSortColumns.orderBy(shared.Filter{OrderBy: tt.orderBy, OrderDir: tt.orderDir})
			assert.Equal(t, tt.column, got.Column.Name)
			assert.Equal(t, tt.desc, got.Desc)
		})
	}
}

func TestSortColumns_PerResource(t *testing.T) {
	for name, cols := range map[string]sortColumns{
		"customers": customerSortColumns,
		"products":  productSortColumns,
		"invoices":  invoiceSortColumns,
	} {
		t.Run(name, func(t *testing.T) {
			for _, common := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, cols[common], common)
			}
		})
	}
	assert.True(t, productSortColumns["sku"])
	assert.False(t, customerSortColumns["sku"])
}

func TestLikePatternAndSearchLimit(t *testing.T) {
	assert.Equal(t, "%acme%", likePattern("acme"))
	assert.Equal(t, "%50!%!_off!!%", likePattern("50%_off!"))

	assert.Equal(t, shared.SearchLimit, searchLimit(0))
	assert.Equal(t, shared.SearchLimit, searchLimit(shared.SearchLimit+1))
	assert.Equal(t, 5, searchLimit(5))
}
