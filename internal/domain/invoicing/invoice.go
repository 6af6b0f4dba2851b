package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxNumberLength  = 50
	maxRemarksLength = 2000
)

// Invoice is the aggregate root for a tenant's invoice.
// Items and Totals are only changed through methods that recompute totals.
type Invoice struct {
	shared.TenantAggregateRoot
	CustomerID         uuid.UUID
	CustomerName       string
	InvoiceNumber      string
	OrderNumber        string
	InvoiceDate        time.Time
	DueDate            time.Time
	Items              []LineItem
	Totals             Totals
	TermsAndConditions string
	Remarks            string
}

// NewInvoice creates a new invoice with no items
func NewInvoice(tenantID, userID, customerID uuid.UUID, customerName, invoiceNumber string, invoiceDate, dueDate time.Time) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := validateNumber("INVALID_INVOICE_NUMBER", "Invoice number", invoiceNumber, true); err != nil {
		return nil, err
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, userID),
		InvoiceNumber:       strings.TrimSpace(invoiceNumber),
		Items:               make([]LineItem, 0),
	}
	if err := inv.SetCustomer(customerID, customerName); err != nil {
		return nil, err
	}
	if err := inv.SetDates(invoiceDate, dueDate); err != nil {
		return nil, err
	}
	inv.recalculate()

	return inv, nil
}

// SetCustomer sets the billed customer
func (inv *Invoice) SetCustomer(customerID uuid.UUID, customerName string) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	inv.CustomerID = customerID
	inv.CustomerName = strings.TrimSpace(customerName)
	inv.touch()
	return nil
}

// SetInvoiceNumber replaces the invoice number
func (inv *Invoice) SetInvoiceNumber(number string) error {
	if err := validateNumber("INVALID_INVOICE_NUMBER", "Invoice number", number, true); err != nil {
		return err
	}
	inv.InvoiceNumber = strings.TrimSpace(number)
	inv.touch()
	return nil
}

// SetOrderNumber sets the customer's order reference
func (inv *Invoice) SetOrderNumber(number string) error {
	if err := validateNumber("INVALID_ORDER_NUMBER", "Order number", number, false); err != nil {
		return err
	}
	inv.OrderNumber = strings.TrimSpace(number)
	inv.touch()
	return nil
}

// SetDates sets the invoice and due dates
func (inv *Invoice) SetDates(invoiceDate, dueDate time.Time) error {
	if invoiceDate.IsZero() {
		return shared.NewDomainError("INVALID_INVOICE_DATE", "Invoice date is required")
	}
	if dueDate.IsZero() {
		dueDate = invoiceDate
	}
	if dueDate.Before(invoiceDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before invoice date")
	}
	inv.InvoiceDate = invoiceDate
	inv.DueDate = dueDate
	inv.touch()
	return nil
}

// SetTerms sets the terms and conditions text
func (inv *Invoice) SetTerms(terms string) error {
	if len(terms) > maxRemarksLength {
		return shared.NewDomainError("INVALID_TERMS", "Terms and conditions cannot exceed 2000 characters")
	}
	inv.TermsAndConditions = terms
	inv.touch()
	return nil
}

// SetRemarks sets the free-form remarks
func (inv *Invoice) SetRemarks(remarks string) error {
	if len(remarks) > maxRemarksLength {
		return shared.NewDomainError("INVALID_REMARKS", "Remarks cannot exceed 2000 characters")
	}
	inv.Remarks = remarks
	inv.touch()
	return nil
}

// ReplaceItems replaces the whole item list and recomputes totals.
// An input ID is kept only when it names an item already on this invoice;
// any other ID is replaced by a fresh one.
func (inv *Invoice) ReplaceItems(inputs []LineItemInput) error {
	current := make(map[uuid.UUID]struct{}, len(inv.Items))
	for _, existing := range inv.Items {
		current[existing.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(inputs))
	items := make([]LineItem, 0, len(inputs))
	for _, in := range inputs {
		if in.ID != uuid.Nil {
			if _, dup := seen[in.ID]; dup {
				return shared.NewDomainError("DUPLICATE_ITEM", "Line item already exists")
			}
			seen[in.ID] = struct{}{}
			if _, ok := current[in.ID]; !ok {
				in.ID = uuid.Nil
			}
		}
		item, err := NewLineItem(in)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	inv.Items = items
	inv.recalculate()
	return nil
}

// AddItem appends a line item and recomputes totals
func (inv *Invoice) AddItem(in LineItemInput) (LineItem, error) {
	item, err := NewLineItem(in)
	if err != nil {
		return LineItem{}, err
	}
	for _, existing := range inv.Items {
		if existing.ID == item.ID {
			return LineItem{}, shared.NewDomainError("DUPLICATE_ITEM", "Line item already exists")
		}
	}
	inv.Items = append(inv.Items, item)
	inv.recalculate()
	return item, nil
}

// UpdateItem replaces every editable field of an existing item and recomputes totals
func (inv *Invoice) UpdateItem(itemID uuid.UUID, in LineItemInput) error {
	for idx := range inv.Items {
		if inv.Items[idx].ID != itemID {
			continue
		}
		in.ID = itemID
		item, err := NewLineItem(in)
		if err != nil {
			return err
		}
		inv.Items[idx] = item
		inv.recalculate()
		return nil
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// RemoveItem removes a line item and recomputes totals
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculate()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// SetAdjustment sets the signed header adjustment and recomputes totals
func (inv *Invoice) SetAdjustment(adjustment decimal.Decimal) {
	inv.Totals.Adjustment = adjustment
	inv.recalculate()
}

// SetPaidAmount records the amount paid so far and recomputes totals
func (inv *Invoice) SetPaidAmount(paid decimal.Decimal) error {
	if paid.IsNegative() {
		return shared.NewDomainError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}
	inv.Totals.PaidAmount = paid
	inv.recalculate()
	return nil
}

// Status returns the settlement status
func (inv *Invoice) Status() Status {
	return inv.Totals.Status()
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

func (inv *Invoice) recalculate() {
	inv.Items, inv.Totals = CalculateTotals(inv.Items, inv.Totals.Adjustment, inv.Totals.PaidAmount)
	inv.touch()
}

// touch only stamps the time; construction runs through the setters
func (inv *Invoice) touch() {
	inv.UpdatedAt = time.Now()
}

func validateNumber(code, label, value string, required bool) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return shared.NewDomainError(code, label+" cannot be empty")
		}
		return nil
	}
	if len(value) > maxNumberLength {
		return shared.NewDomainError(code, label+" cannot exceed 50 characters")
	}
	return nil
}
