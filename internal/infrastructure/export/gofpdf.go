package export

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// column widths in mm; they sum to the 190mm printable A4 width
var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 8, "L"},
	{"Item", 50, "L"},
	{"HSN", 18, "L"},
	{"Qty", 12, "R"},
	{"Rate", 20, "R"},
	{"Disc.", 18, "R"},
	{"CGST", 20, "R"},
	{"SGST", 20, "R"},
	{"Amount", 24, "R"},
}

// GofpdfRenderer draws the invoice directly with gofpdf. It needs no browser
// and uses the built-in Helvetica font, so amounts are prefixed "Rs." rather
// than with the rupee sign.
type GofpdfRenderer struct{}

// NewGofpdfRenderer creates a GofpdfRenderer
func NewGofpdfRenderer() *GofpdfRenderer {
	return &GofpdfRenderer{}
}

// Name implements Renderer
func (r *GofpdfRenderer) Name() string { return "gofpdf" }

// Close implements Renderer
func (r *GofpdfRenderer) Close() error { return nil }

// Render implements Renderer
func (r *GofpdfRenderer) Render(ctx context.Context, doc *Document) (*Result, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}

	start := time.Now()
	v := newDocumentView(doc)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetTitle(v.Title, true)
	pdf.SetCreator("invoicer", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	pdf.AddPage()

	// issuer and invoice header
	pdf.SetFont("Helvetica", "B", 16)
	heading := v.BusinessName
	if heading == "" {
		heading = "Tax Invoice"
	}
	pdf.CellFormat(120, 8, tr(heading), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 8, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	left := []string{v.BusinessAddress, v.BusinessEmail, v.BusinessPhone}
	if v.BusinessGST != "" {
		left = append(left, "GSTIN: "+v.BusinessGST)
	}
	right := []string{"# " + v.InvoiceNumber, "Date: " + v.InvoiceDate, "Due: " + v.DueDate, "Status: " + v.Status}
	if v.OrderNumber != "" {
		right = append(right, "Order: "+v.OrderNumber)
	}
	for i := 0; i < max(len(left), len(right)); i++ {
		pdf.CellFormat(120, 5, tr(at(left, i)), "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 5, tr(at(right, i)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// bill to
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(v.CustomerName), "", 1, "L", false, 0, "")
	if v.CustomerAddress != "" {
		pdf.MultiCell(0, 5, tr(v.CustomerAddress), "", "L", false)
	}
	if v.CustomerGSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+v.CustomerGSTIN, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// item table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 7, col.title, "B", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range v.Items {
		cells := []string{
			strconv.Itoa(item.Index), item.Name, item.HSNCode, item.Quantity, item.Rate, item.Discount,
			item.CGST + " (" + item.CGSTPercent + ")", item.SGST + " (" + item.SGSTPercent + ")", item.Amount,
		}
		for i, col := range itemColumns {
			pdf.CellFormat(col.width, 6, tr(fit(pdf, cells[i], col.width)), "B", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(v.Items) == 0 {
		pdf.CellFormat(0, 6, "No items", "B", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// totals
	totals := [][2]string{
		{"Subtotal", v.Subtotal},
		{"CGST", v.CGSTTotal},
		{"SGST", v.SGSTTotal},
		{"Discount", "-" + v.DiscountTotal},
	}
	if v.HasAdjustment {
		totals = append(totals, [2]string{"Adjustment", v.Adjustment})
	}
	totals = append(totals,
		[2]string{"Total", "Rs. " + v.Total},
		[2]string{"Paid", v.PaidAmount},
		[2]string{"Balance Due", "Rs. " + v.Balance},
	)
	for _, row := range totals {
		style := ""
		if row[0] == "Total" || row[0] == "Balance Due" {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, row[1], "", 1, "R", false, 0, "")
	}

	// notes
	pdf.SetFont("Helvetica", "", 8)
	if v.Terms != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 4, tr("Terms & Conditions\n"+v.Terms), "", "L", false)
	}
	if v.Remarks != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 4, tr("Remarks\n"+v.Remarks), "", "L", false)
	}
	pdf.Ln(4)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 4, "Generated "+v.GeneratedAt, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "gofpdf output failed", err)
	}

	return &Result{Data: buf.Bytes(), ContentType: ContentTypePDF, Duration: time.Since(start)}, nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// fit truncates text with an ellipsis so it stays inside a cell
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

var _ Renderer = (*GofpdfRenderer)(nil)
