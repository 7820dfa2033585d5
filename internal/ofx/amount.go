package ofx

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// SeparatorConvention is the digit-grouping style inferred for an amount.
type SeparatorConvention int

const (
	// NoGrouping: no recognisable grouping or decimal suffix; the token is
	// read as-is.
	NoGrouping SeparatorConvention = iota
	// USStyle: "1,000.01". Commas group thousands, the dot is decimal.
	USStyle
	// EuropeanStyle: "1.000,01". Dots group thousands, the comma is decimal.
	EuropeanStyle
)

func (c SeparatorConvention) String() string {
	switch c {
	case USStyle:
		return "us"
	case EuropeanStyle:
		return "european"
	default:
		return "none"
	}
}

// Currencies are assumed to carry at most two decimal places. A separator
// followed by three digits is a thousands mark; otherwise the length of the
// trailing fraction decides.
var (
	usStyleRegex       = regexp.MustCompile(`\d,\d{3}|\.\d{1,2}$`)
	europeanStyleRegex = regexp.MustCompile(`\d\.\d{3}|,\d{1,2}$`)
	leadingNumberRegex = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// ClassifyAmount reports which convention ParseAmount applies to s.
// The US test runs first; swapping the order changes results for tokens
// such as "1,000.01".
func ClassifyAmount(s string) SeparatorConvention {
	switch {
	case usStyleRegex.MatchString(s):
		return USStyle
	case europeanStyleRegex.MatchString(s):
		return EuropeanStyle
	default:
		return NoGrouping
	}
}

// NormalizeAmount rewrites s into plain dot-decimal form according to its
// convention. Characters other than separators are left untouched.
func NormalizeAmount(s string) string {
	switch ClassifyAmount(s) {
	case USStyle:
		return strings.ReplaceAll(s, ",", "")
	case EuropeanStyle:
		return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	default:
		return s
	}
}

// ParseAmount converts an OFX amount token into a decimal. It never fails:
// the longest leading number of the normalized token is used, so "12abc"
// gives 12 and a token with no leading digits gives decimal.Zero. Leading
// blanks and exponents are not read; callers pass trimmed tokens.
//
// Supported shapes (each optionally signed):
//
//	000,00    0.000,00
//	000.00    0,000.00
func ParseAmount(s string) decimal.Decimal {
	num := leadingNumberRegex.FindString(NormalizeAmount(s))
	if num == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmountFloat is ParseAmount as a float64.
func ParseAmountFloat(s string) float64 {
	f, _ := ParseAmount(s).Float64()
	return f
}
