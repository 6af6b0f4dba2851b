package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

// lineItemFile mirrors the line item JSON accepted by the HTTP API
type lineItemFile struct {
	Name        string          `json:"name"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Discount    decimal.Decimal `json:"discount"`
	CGSTPercent decimal.Decimal `json:"cgst_percent"`
	SGSTPercent decimal.Decimal `json:"sgst_percent"`
}

func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "totals",
		Usage:     "print invoice totals for a JSON array of line items",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "items JSON file, - for stdin"},
			&cli.StringFlag{Name: "adjustment", Value: "0"},
			&cli.StringFlag{Name: "paid", Value: "0"},
		},
		Action: func(c *cli.Context) error {
			adjustment, err := decimal.NewFromString(c.String("adjustment"))
			if err != nil {
				return fmt.Errorf("invalid --adjustment: %w", err)
			}
			paid, err := decimal.NewFromString(c.String("paid"))
			if err != nil {
				return fmt.Errorf("invalid --paid: %w", err)
			}

			var in io.Reader = c.App.Reader
			if path := c.String("file"); path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return printTotals(in, c.App.Writer, adjustment, paid)
		},
	}
}

func printTotals(in io.Reader, out io.Writer, adjustment, paid decimal.Decimal) error {
	var rows []lineItemFile
	if err := json.NewDecoder(in).Decode(&rows); err != nil {
		return fmt.Errorf("decode line items: %w", err)
	}

	items := make([]invoicing.LineItem, 0, len(rows))
	for i, r := range rows {
		item, err := invoicing.NewLineItem(invoicing.LineItemInput{
			Name:        r.Name,
			HSNCode:     r.HSNCode,
			Quantity:    r.Quantity,
			Rate:        r.Rate,
			Discount:    r.Discount,
			CGSTPercent: r.CGSTPercent,
			SGSTPercent: r.SGSTPercent,
		})
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	items, totals := invoicing.CalculateTotals(items, adjustment, paid)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tItem\tQty\tRate\tDiscount\tCGST %\tSGST %\tAmount\t")
	for i, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n", i+1, item.Name, item.Quantity,
			item.Rate.StringFixed(2), item.Discount.StringFixed(2),
			item.CGSTPercent.String(), item.SGSTPercent.String(), item.Amount.StringFixed(2))
	}
	fmt.Fprintln(w)
	for _, line := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", totals.Subtotal},
		{"Discount", totals.DiscountTotal},
		{"CGST", totals.CGSTTotal},
		{"SGST", totals.SGSTTotal},
		{"Adjustment", totals.Adjustment},
		{"Total", totals.Total},
		{"Paid", totals.PaidAmount},
		{"Balance", totals.BalanceAmount},
	} {
		fmt.Fprintf(w, "\t%s\t%s\t\n", line.label, line.value.StringFixed(2))
	}
	fmt.Fprintf(w, "\tStatus\t%s\t\n", totals.Status())
	return w.Flush()
}
