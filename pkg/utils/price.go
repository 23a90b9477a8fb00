package utils

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/currency"

	"storefront-search-api/internal/models"
)

var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// FormatPrice renders a money value for display without converting the
// amount to a float. The currency's narrow symbol and decimal scale come from
// CLDR; the amount is only padded or stripped of trailing zeros textually.
func FormatPrice(m models.Money) string {
	amount := strings.TrimSpace(m.Amount)
	if amount == "" {
		return ""
	}

	code := strings.TrimSpace(m.CurrencyCode)
	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return amount
		}
		return amount + " " + strings.ToUpper(code)
	}

	if amountPattern.MatchString(amount) {
		scale, _ := currency.Standard.Rounding(unit)
		amount = toScale(amount, scale)
	}

	symbol := fmt.Sprint(currency.NarrowSymbol(unit))
	if symbol == unit.String() {
		return symbol + " " + amount
	}
	return symbol + amount
}

// toScale pads the fraction with zeros up to scale digits. Extra digits are
// dropped only when they are zeros, so the amount is never rounded.
func toScale(amount string, scale int) string {
	whole, frac, _ := strings.Cut(amount, ".")
	for len(frac) > scale && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	if len(frac) < scale {
		frac += strings.Repeat("0", scale-len(frac))
	}
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
