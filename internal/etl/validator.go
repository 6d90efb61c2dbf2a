package etl

import (
	"strings"

	"github.com/BartekS5/revetl/pkg/models"
	"github.com/BartekS5/revetl/pkg/utils"
)

type Validator struct {
	Policy models.RowPolicy
}

func NewValidator(policy models.RowPolicy) *Validator {
	return &Validator{Policy: policy}
}

// ValidateRecord applies the row policy to one raw row. Checks run in a fixed
// order (amount, country, id, date) and the first failure decides the reason.
func (v *Validator) ValidateRecord(raw models.RawRecord) (models.CleanRecord, models.DropReason, bool) {
	amount, err := utils.ParseAmount(raw.Amount)
	if err != nil {
		return models.CleanRecord{}, models.DropUnparseableAmount, false
	}
	if amount.IsNegative() {
		return models.CleanRecord{}, models.DropNegativeAmount, false
	}

	country := strings.TrimSpace(raw.Country)
	if country == "" {
		return models.CleanRecord{}, models.DropEmptyCountry, false
	}

	id := strings.TrimSpace(raw.ID)
	if id == "" && v.Policy.MissingID == models.MissingIDDrop {
		return models.CleanRecord{}, models.DropMissingID, false
	}

	rec := models.CleanRecord{ID: id, Country: country, Amount: amount}
	date, err := utils.ParseDate(raw.Date)
	if err == nil {
		rec.Date = date
	} else if v.Policy.RequireValidDate {
		return models.CleanRecord{}, models.DropInvalidDate, false
	}

	return rec, "", true
}
