package etl

import (
	"context"
	"time"

	"github.com/BartekS5/revetl/pkg/logger"
	"github.com/BartekS5/revetl/pkg/models"
	"github.com/google/uuid"
)

type Pipeline struct {
	Reader   Reader
	Cleaner  *Cleaner
	Writer   Writer
	Reporter Reporter
	DryRun   bool
	Log      *logger.Logger

	now func() time.Time
}

func NewPipeline(reader Reader, cleaner *Cleaner, writer Writer, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{
		Reader:  reader,
		Cleaner: cleaner,
		Writer:  writer,
		Log:     log,
		now:     time.Now,
	}
}

// Run executes read, transform and write once. A failed stage aborts the run
// with a *StageError and nothing is persisted.
func (p *Pipeline) Run(ctx context.Context) (*models.RunReport, error) {
	now := p.now
	if now == nil {
		now = time.Now
	}

	report := &models.RunReport{
		RunID:     uuid.NewString(),
		Source:    p.Reader.Source(),
		Target:    p.Writer.Target(),
		Policy:    p.Cleaner.Validator.Policy.String(),
		StartedAt: now().UTC(),
		DryRun:    p.DryRun,
	}
	log := p.Log.With("run", report.RunID)
	log.Info("starting pipeline", "source", report.Source, "target", report.Target, "policy", report.Policy, "dry_run", p.DryRun)

	// 1. Read
	raw, err := p.Reader.Read(ctx)
	if err != nil {
		log.Error("read failed", "err", err)
		return nil, &StageError{Stage: StageRead, Err: err}
	}
	log.Infof("read %d rows", len(raw))

	// 2. Clean and aggregate
	agg, cleanReport := p.Cleaner.Transform(raw)
	report.RowsRead = cleanReport.Read
	report.RowsKept = cleanReport.Kept
	report.Dropped = make(map[string]int, len(cleanReport.Dropped))
	for _, reason := range cleanReport.Reasons() {
		n := cleanReport.Dropped[reason]
		report.Dropped[string(reason)] = n
		log.Warn("dropped rows", "reason", reason, "count", n)
	}
	report.Totals = make(map[string]string, len(agg))
	for _, country := range agg.Countries() {
		total := agg[country].StringFixed(CurrencyPlaces)
		report.Totals[country] = total
		log.Debug("aggregate", "country", country, "total_revenue", total)
	}
	log.Infof("kept %d of %d rows across %d countries", cleanReport.Kept, cleanReport.Read, len(agg))

	// 3. Write (skip if DryRun)
	if p.DryRun {
		log.Infof("[DRY RUN] Would write %d countries to %s", len(agg), report.Target)
	} else {
		if err := p.Writer.Write(ctx, agg); err != nil {
			log.Error("write failed", "err", err)
			return nil, &StageError{Stage: StageWrite, Err: err}
		}
		log.Infof("wrote %d countries to %s", len(agg), report.Target)
	}

	report.FinishedAt = now().UTC()

	// The table is already committed; a lost report only warrants a warning.
	if p.Reporter != nil {
		if err := p.Reporter.Report(ctx, report); err != nil {
			log.Warn("failed to record run report", "err", err)
		}
	}

	log.Info("pipeline finished successfully", "duration", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}
