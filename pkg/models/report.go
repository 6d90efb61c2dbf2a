package models

import (
	"sort"
	"time"
)

// DropReason names why a raw row was excluded from aggregation.
type DropReason string

const (
	DropUnparseableAmount DropReason = "unparseable_amount"
	DropNegativeAmount    DropReason = "negative_amount"
	DropEmptyCountry      DropReason = "empty_country"
	DropMissingID         DropReason = "missing_id"
	DropInvalidDate       DropReason = "invalid_date"
)

// CleanReport counts what the cleaner kept and dropped.
type CleanReport struct {
	Read    int
	Kept    int
	Dropped map[DropReason]int
}

// DroppedTotal returns the number of rows dropped for any reason.
func (r CleanReport) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// Reasons returns the drop reasons present in the report, sorted.
func (r CleanReport) Reasons() []DropReason {
	reasons := make([]DropReason, 0, len(r.Dropped))
	for reason := range r.Dropped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

// RunReport summarises one pipeline invocation.
type RunReport struct {
	RunID      string            `bson:"_id" json:"run_id"`
	Source     string            `bson:"source" json:"source"`
	Target     string            `bson:"target" json:"target"`
	Policy     string            `bson:"policy" json:"policy"`
	StartedAt  time.Time         `bson:"started_at" json:"started_at"`
	FinishedAt time.Time         `bson:"finished_at" json:"finished_at"`
	RowsRead   int               `bson:"rows_read" json:"rows_read"`
	RowsKept   int               `bson:"rows_kept" json:"rows_kept"`
	Dropped    map[string]int    `bson:"dropped" json:"dropped"`
	Totals     map[string]string `bson:"totals" json:"totals"`
	DryRun     bool              `bson:"dry_run" json:"dry_run"`
}
