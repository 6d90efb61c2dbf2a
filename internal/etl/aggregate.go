package etl

import (
	"github.com/BartekS5/revetl/pkg/models"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision totals are rounded to before storage.
const CurrencyPlaces = 2

// Aggregate sums amounts per country with exact decimal arithmetic. Only the
// final sums are rounded, half away from zero.
func Aggregate(records []models.CleanRecord) models.CountryAggregate {
	sums := make(map[string]decimal.Decimal)
	for _, r := range records {
		sums[r.Country] = sums[r.Country].Add(r.Amount)
	}

	agg := make(models.CountryAggregate, len(sums))
	for country, total := range sums {
		agg[country] = total.Round(CurrencyPlaces)
	}
	return agg
}
