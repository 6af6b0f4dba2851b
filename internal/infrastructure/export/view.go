package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/invoicer/backend/internal/domain/invoicing"
)

// itemView is one printed line
type itemView struct {
	Index       int
	Name        string
	HSNCode     string
	Quantity    string
	Rate        string
	Discount    string
	CGSTPercent string
	CGST        string
	SGSTPercent string
	SGST        string
	Amount      string
}

// documentView is the preformatted content shared by all renderers
type documentView struct {
	Title         string
	InvoiceNumber string
	OrderNumber   string
	InvoiceDate   string
	DueDate       string
	Status        string
	Paid          bool

	BusinessName    string
	BusinessAddress string
	BusinessEmail   string
	BusinessPhone   string
	BusinessGST     string

	CustomerName    string
	CustomerAddress string
	CustomerGSTIN   string

	Items []itemView

	Subtotal      string
	DiscountTotal string
	CGSTTotal     string
	SGSTTotal     string
	Adjustment    string
	HasAdjustment bool
	Total         string
	PaidAmount    string
	Balance       string

	Terms       string
	Remarks     string
	GeneratedAt string
}

func newDocumentView(doc *Document) documentView {
	inv := doc.Invoice
	generatedAt := doc.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	v := documentView{
		Title:         "Tax Invoice " + inv.InvoiceNumber,
		InvoiceNumber: inv.InvoiceNumber,
		OrderNumber:   inv.OrderNumber,
		InvoiceDate:   FormatDate(inv.InvoiceDate),
		DueDate:       FormatDate(inv.DueDate),
		Status:        Title(inv.Status().String()),
		Paid:          inv.Status() == invoicing.StatusPaid,

		BusinessName:    strings.TrimSpace(doc.Business.BusinessName),
		BusinessAddress: strings.TrimSpace(doc.Business.Address),
		BusinessEmail:   doc.Business.Email,
		BusinessPhone:   doc.Business.Phone,
		BusinessGST:     doc.Business.GST,

		CustomerName: inv.CustomerName,

		Subtotal:      FormatAmount(inv.Totals.Subtotal),
		DiscountTotal: FormatAmount(inv.Totals.DiscountTotal),
		CGSTTotal:     FormatAmount(inv.Totals.CGSTTotal),
		SGSTTotal:     FormatAmount(inv.Totals.SGSTTotal),
		Adjustment:    FormatAmount(inv.Totals.Adjustment),
		HasAdjustment: !inv.Totals.Adjustment.IsZero(),
		Total:         FormatAmount(inv.Totals.Total),
		PaidAmount:    FormatAmount(inv.Totals.PaidAmount),
		Balance:       FormatAmount(inv.Totals.BalanceAmount),

		Terms:       inv.TermsAndConditions,
		Remarks:     inv.Remarks,
		GeneratedAt: generatedAt.Format(dateLayout + " 15:04"),
	}

	if c := doc.Customer; c != nil {
		v.CustomerName = c.DisplayName()
		v.CustomerAddress = c.BillingAddress.Line()
		v.CustomerGSTIN = c.GSTIN
	}

	v.Items = make([]itemView, len(inv.Items))
	for idx, item := range inv.Items {
		v.Items[idx] = itemView{
			Index:       idx + 1,
			Name:        item.Name,
			HSNCode:     item.HSNCode,
			Quantity:    strconv.FormatInt(item.Quantity, 10),
			Rate:        FormatAmount(item.Rate),
			Discount:    FormatAmount(item.Discount),
			CGSTPercent: FormatPercent(item.CGSTPercent),
			CGST:        FormatAmount(item.CGST()),
			SGSTPercent: FormatPercent(item.SGSTPercent),
			SGST:        FormatAmount(item.SGST()),
			Amount:      FormatAmount(item.Amount),
		}
	}

	return v
}
