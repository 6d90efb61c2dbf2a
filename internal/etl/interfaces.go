package etl

import (
	"context"

	"github.com/BartekS5/revetl/pkg/models"
)

type Reader interface {
	Read(ctx context.Context) ([]models.RawRecord, error)
	Source() string
}

type Writer interface {
	Write(ctx context.Context, agg models.CountryAggregate) error
	Target() string
}

// Reporter receives the summary of every finished run.
type Reporter interface {
	Report(ctx context.Context, report *models.RunReport) error
}
