package persistence

import (
	"strings"

	"github.com/invoicer/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSortField = "created_at"

// sortColumns whitelists the columns a list endpoint may order by.
// Anything else, including casing variants, falls back to created_at.
type sortColumns map[string]bool

var (
	customerSortColumns = newSortColumns("customer_name", "company_name", "customer_type", "is_active")
	productSortColumns  = newSortColumns("name", "sku", "type", "unit_price", "tax_percent", "is_active")
	invoiceSortColumns  = newSortColumns("invoice_number", "invoice_date", "due_date", "customer_name",
		"total", "balance_amount", "status")
)

func newSortColumns(columns ...string) sortColumns {
	set := sortColumns{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		set[c] = true
	}
	return set
}

// orderBy resolves the filter's requested ordering, newest first by default
func (s sortColumns) orderBy(filter shared.Filter) clause.OrderByColumn {
	column := strings.TrimSpace(filter.OrderBy)
	if !s[column] {
		column = defaultSortField
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc"),
	}
}

// applyPagination limits the query to the filter's page, if it names one
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if !filter.Paged() {
		return query
	}
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

// applyOrder orders by a whitelisted column
func applyOrder(query *gorm.DB, filter shared.Filter, allowed sortColumns) *gorm.DB {
	return query.Order(allowed.orderBy(filter))
}

// applySearch adds a case-insensitive substring match over columns, OR-ed together
func applySearch(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := likePattern(term)
	op := likeOperator(query)

	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		if op == "ILIKE" {
			clauses[i] = col + " ILIKE ? ESCAPE '!'"
		} else {
			clauses[i] = "LOWER(" + col + ") LIKE LOWER(?) ESCAPE '!'"
		}
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// likeOperator picks ILIKE on PostgreSQL and a LOWER() comparison elsewhere
func likeOperator(db *gorm.DB) string {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}

// likePattern wraps term in wildcards, escaping LIKE metacharacters with '!'
func likePattern(term string) string {
	replacer := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + replacer.Replace(term) + "%"
}

// searchLimit clamps a caller limit to (0, shared.SearchLimit]
func searchLimit(limit int) int {
	if limit <= 0 || limit > shared.SearchLimit {
		return shared.SearchLimit
	}
	return limit
}
