// Package money converts between decimal amount strings and the integer
// minor-unit values the Open Payments API expects. The conversion always uses
// the asset scale resolved from the wallet address, never an assumed number of
// decimal places.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// ToMinorUnits parses a decimal amount string ("20.00") into minor units at
// the given asset scale (scale 2: "20.00" -> 2000). It rejects negative
// amounts and amounts with more fractional digits than the scale allows.
func ToMinorUnits(amount string, scale int) (int64, error) {
	if scale < 0 || scale > 18 {
		return 0, fmt.Errorf("unsupported asset scale %d", scale)
	}
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("amount is required")
	}
	if strings.HasPrefix(amount, "-") {
		return 0, fmt.Errorf("amount must not be negative")
	}

	whole, frac := amount, ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > scale {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", amount, scale)
	}
	// Right-pad the fraction to the scale so "20.5" at scale 2 becomes 2050.
	frac += strings.Repeat("0", scale-len(frac))

	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return n, nil
}

// FromMinorUnits renders a minor-unit value back into a decimal string at the
// given scale (2000 at scale 2 -> "20.00").
func FromMinorUnits(value int64, scale int) string {
	if scale <= 0 {
		return strconv.FormatInt(value, 10)
	}
	neg := value < 0
	if neg {
		value = -value
	}
	s := strconv.FormatInt(value, 10)
	if len(s) <= scale {
		s = strings.Repeat("0", scale-len(s)+1) + s
	}
	out := s[:len(s)-scale] + "." + s[len(s)-scale:]
	if neg {
		out = "-" + out
	}
	return out
}

// ParseMinorUnits parses the string-encoded integer amounts the Open Payments
// wire format uses ("2000").
func ParseMinorUnits(value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minor-unit value %q: %w", value, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("minor-unit value must not be negative")
	}
	return n, nil
}

// FormatMinorUnits renders an integer minor-unit value as the wire string.
func FormatMinorUnits(value int64) string {
	return strconv.FormatInt(value, 10)
}
