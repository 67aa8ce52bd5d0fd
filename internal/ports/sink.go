package ports

import (
	"context"

	"kameo_report/internal/models"
)

// ReportSink receives the finished report of a run. It returns the
// locations it wrote to, if any.
type ReportSink interface {
	Name() string
	Write(ctx context.Context, runID string, rep *models.Report) ([]string, error)
}

// RunSummary is recorded when a run ends.
type RunSummary struct {
	Transactions int
	Lenders      int
	Skipped      int
	Outputs      []string
	Err          error
}

// RunJournal keeps track of conversion runs.
type RunJournal interface {
	Started(ctx context.Context, runID, source string) error
	Skipped(ctx context.Context, runID string, skips []models.Skip) error
	Finished(ctx context.Context, runID string, sum RunSummary) error
}
