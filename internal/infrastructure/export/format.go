package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "02 Jan 2006"

// FormatAmount rounds to two places and groups digits the Indian way:
// the last three digits, then pairs (12,34,567.80).
func FormatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	grouped := intPart
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		grouped = strings.Join(append(groups, tail), ",")
	}

	out := grouped + "." + frac
	if d.Round(2).IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatPercent prints a rate without trailing zeros, e.g. "9%" or "2.5%"
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

// FormatDate prints dates as "02 Jan 2006"; zero dates print empty
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Title title-cases free text such as units or status labels.
// A cases.Caser keeps state between calls, so each call gets its own.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
