package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrUnparseableAmount is returned when a monetary string is not a number
// once currency decoration has been removed.
var ErrUnparseableAmount = errors.New("unparseable amount")

var (
	plainNumber  = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)
	groupedDigit = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
)

// ParseAmount converts a decorated monetary string such as "$1,200.50" into
// an exact decimal. Currency symbols and whitespace are stripped, commas
// are accepted only as thousands separators in groups of three, and a bare
// leading or trailing decimal point is allowed (".5", "200."). Letters,
// exponents and any other leftover characters make the value unparseable.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(stripCurrencySymbols(raw))

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], strings.TrimSpace(s[1:])
		if sign == "+" {
			sign = ""
		}
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if strings.Contains(intPart, ",") {
		if !groupedDigit.MatchString(intPart) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparseableAmount, raw)
		}
		intPart = strings.ReplaceAll(intPart, ",", "")
	}
	// A trailing point ("200.") is dropped; a lone "." leaves nothing to match.
	s = intPart
	if hasDot && fracPart != "" {
		s += "." + fracPart
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparseableAmount, raw)
	}

	d, err := decimal.NewFromString(sign + s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrUnparseableAmount, raw, err)
	}
	return d, nil
}

func stripCurrencySymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
}
