package etl

import (
	"github.com/BartekS5/revetl/pkg/logger"
	"github.com/BartekS5/revetl/pkg/models"
)

// Cleaner turns raw rows into a CountryAggregate under a fixed RowPolicy.
// It has no side effects besides debug logging.
type Cleaner struct {
	Validator *Validator
	Log       *logger.Logger
}

func NewCleaner(policy models.RowPolicy, log *logger.Logger) *Cleaner {
	if log == nil {
		log = logger.Discard()
	}
	return &Cleaner{Validator: NewValidator(policy), Log: log}
}

// Clean validates every row. Bad rows are dropped and counted, never fatal.
func (c *Cleaner) Clean(raw []models.RawRecord) ([]models.CleanRecord, models.CleanReport) {
	report := models.CleanReport{
		Read:    len(raw),
		Dropped: make(map[models.DropReason]int),
	}
	clean := make([]models.CleanRecord, 0, len(raw))

	for i, r := range raw {
		rec, reason, ok := c.Validator.ValidateRecord(r)
		if !ok {
			report.Dropped[reason]++
			// Line numbers count the header as line 1.
			c.Log.Debug("dropping row", "line", i+2, "reason", reason, "id", r.ID, "amount", r.Amount)
			continue
		}
		clean = append(clean, rec)
	}

	report.Kept = len(clean)
	return clean, report
}

// Transform runs Clean followed by Aggregate.
func (c *Cleaner) Transform(raw []models.RawRecord) (models.CountryAggregate, models.CleanReport) {
	clean, report := c.Clean(raw)
	return Aggregate(clean), report
}
