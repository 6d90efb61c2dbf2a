package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one input row exactly as read from the source file.
// An empty ID means the identifier was null.
type RawRecord struct {
	ID      string `csv:"id"`
	Country string `csv:"country"`
	Amount  string `csv:"amount"`
	Date    string `csv:"date"`
}

// CleanRecord is a RawRecord that passed the row-validity policy.
type CleanRecord struct {
	ID      string
	Country string
	Amount  decimal.Decimal
	// Date is the zero time when the source date was empty or unparseable.
	Date time.Time
}

// CountryAggregate maps a country to its total revenue.
type CountryAggregate map[string]decimal.Decimal

// Countries returns the aggregate's keys in ascending order.
func (a CountryAggregate) Countries() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both aggregates hold the same countries with
// numerically equal totals.
func (a CountryAggregate) Equal(b CountryAggregate) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}
