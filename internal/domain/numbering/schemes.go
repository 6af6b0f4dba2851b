package numbering

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	skuSuffixSpace     = 10000
	invoiceSuffixSpace = 1000

	// DefaultInvoicePrefix is used when a tenant has not configured one
	DefaultInvoicePrefix = "INV-"

	fallbackNamePrefix = "GEN"
)

// SKUScheme builds product codes such as "ABC-PRD-0042"
type SKUScheme struct {
	Name    string
	Service bool
}

// Kind implements Scheme
func (s SKUScheme) Kind() string { return "sku" }

// Prefix returns the deterministic part of the SKU
func (s SKUScheme) Prefix() string {
	kind := "PRD"
	if s.Service {
		kind = "SRV"
	}
	return initials(s.Name, 3) + "-" + kind
}

// Candidate implements Scheme
func (s SKUScheme) Candidate(intn func(n int) int) string {
	return fmt.Sprintf("%s-%04d", s.Prefix(), intn(skuSuffixSpace))
}

// InvoiceNumberScheme builds invoice numbers such as "INV-482913-007":
// prefix, the last six digits of the unix-millis clock, and a random suffix.
type InvoiceNumberScheme struct {
	Prefix string
	Now    func() time.Time
}

// Kind implements Scheme
func (s InvoiceNumberScheme) Kind() string { return "invoice_number" }

// Candidate implements Scheme
func (s InvoiceNumberScheme) Candidate(intn func(n int) int) string {
	prefix := s.Prefix
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultInvoicePrefix
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	stamp := now().UnixMilli() % 1000000
	return fmt.Sprintf("%s%06d-%03d", prefix, stamp, intn(invoiceSuffixSpace))
}

// initials returns the uppercased first letter of each word, truncated to max
func initials(name string, max int) string {
	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(name) {
		if count == max {
			break
		}
		r := []rune(word)[0]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		count++
	}
	if b.Len() == 0 {
		return fallbackNamePrefix
	}
	return b.String()
}
