package invoices

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords spells out the integer part of a monetary amount in English
// short-scale words, suffixed with "Only". Fractional cents are dropped.
// Zero renders as "Zero". Pure function of its input.
func AmountInWords(amount decimal.Decimal) string {
	n := amount.IntPart()
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return "Zero"
	}
	return spell(n) + " Only"
}

func spell(n int64) string {
	switch {
	case n >= 1_000_000:
		rest := ""
		if n%1_000_000 != 0 {
			rest = " " + spell(n%1_000_000)
		}
		return spell(n/1_000_000) + " Million" + rest
	case n >= 1_000:
		rest := ""
		if n%1_000 != 0 {
			rest = " " + spell(n%1_000)
		}
		return spell(n/1_000) + " Thousand" + rest
	case n >= 100:
		rest := ""
		if n%100 != 0 {
			rest = " " + spell(n%100)
		}
		return onesWords[n/100] + " Hundred" + rest
	case n >= 20:
		rest := ""
		if n%10 != 0 {
			rest = " " + onesWords[n%10]
		}
		return tensWords[n/10] + rest
	default:
		return onesWords[n]
	}
}

// joinNonEmpty is shared by the document builder for label assembly.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, strings.TrimSpace(part))
		}
	}
	return strings.Join(kept, sep)
}
