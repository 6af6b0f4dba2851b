package invoicing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItemInput carries the user-editable fields of a line item.
// Amount is deliberately absent: it is always derived.
type LineItemInput struct {
	ID          uuid.UUID
	ProductID   *uuid.UUID
	Name        string
	HSNCode     string
	Quantity    int64
	Rate        decimal.Decimal
	Discount    decimal.Decimal
	CGSTPercent decimal.Decimal
	SGSTPercent decimal.Decimal
}

// LineItem represents a single invoice line
type LineItem struct {
	ID          uuid.UUID
	ProductID   *uuid.UUID
	Name        string
	HSNCode     string
	Quantity    int64
	Rate        decimal.Decimal
	Discount    decimal.Decimal // absolute currency amount, not a percentage
	CGSTPercent decimal.Decimal
	SGSTPercent decimal.Decimal
	Amount      decimal.Decimal // derived, see Compute
}

// NewLineItem validates input and returns a line item with its amount computed
func NewLineItem(in LineItemInput) (LineItem, error) {
	if err := validateLineItemInput(in); err != nil {
		return LineItem{}, err
	}

	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	item := LineItem{
		ID:          id,
		ProductID:   in.ProductID,
		Name:        strings.TrimSpace(in.Name),
		HSNCode:     strings.TrimSpace(in.HSNCode),
		Quantity:    in.Quantity,
		Rate:        in.Rate,
		Discount:    in.Discount,
		CGSTPercent: in.CGSTPercent,
		SGSTPercent: in.SGSTPercent,
	}
	item.Amount = item.Compute()
	return item, nil
}

// NewLineItemFromProduct builds a single-quantity line from a catalog product.
// The product's tax rate is split evenly between CGST and SGST.
func NewLineItemFromProduct(productID uuid.UUID, name, hsnCode string, unitPrice, taxPercent decimal.Decimal) (LineItem, error) {
	half := taxPercent.Div(decimal.NewFromInt(2))
	return NewLineItem(LineItemInput{
		ProductID:   &productID,
		Name:        name,
		HSNCode:     hsnCode,
		Quantity:    1,
		Rate:        unitPrice,
		Discount:    decimal.Zero,
		CGSTPercent: half,
		SGSTPercent: half,
	})
}

// Input returns the editable fields of the item
func (i LineItem) Input() LineItemInput {
	return LineItemInput{
		ID:          i.ID,
		ProductID:   i.ProductID,
		Name:        i.Name,
		HSNCode:     i.HSNCode,
		Quantity:    i.Quantity,
		Rate:        i.Rate,
		Discount:    i.Discount,
		CGSTPercent: i.CGSTPercent,
		SGSTPercent: i.SGSTPercent,
	}
}

// LineTotal returns quantity * rate
func (i LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.Rate)
}

// CGST returns the central tax amount for the line
func (i LineItem) CGST() decimal.Decimal {
	return i.LineTotal().Mul(i.CGSTPercent).Div(hundred)
}

// SGST returns the state tax amount for the line
func (i LineItem) SGST() decimal.Decimal {
	return i.LineTotal().Mul(i.SGSTPercent).Div(hundred)
}

// Compute returns lineTotal + CGST + SGST - discount.
// It depends only on the input fields, never on the stored Amount.
func (i LineItem) Compute() decimal.Decimal {
	return i.LineTotal().Add(i.CGST()).Add(i.SGST()).Sub(i.Discount)
}

func validateLineItemInput(in LineItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Line item name cannot be empty")
	}
	if len(in.Name) > 200 {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Line item name cannot exceed 200 characters")
	}
	if in.Quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if in.Rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	if in.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if in.CGSTPercent.IsNegative() {
		return shared.NewDomainError("INVALID_CGST", "CGST percent cannot be negative")
	}
	if in.SGSTPercent.IsNegative() {
		return shared.NewDomainError("INVALID_SGST", "SGST percent cannot be negative")
	}
	return nil
}
