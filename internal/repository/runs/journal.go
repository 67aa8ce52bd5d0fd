package runs

import (
	"context"

	mg "kameo_report/internal/config/connections/mongo"
	"kameo_report/internal/models"
	"kameo_report/internal/ports"
)

// Journal records conversion runs in Mongo.
type Journal struct {
	MG *mg.Mongo
}

func NewJournal(m *mg.Mongo) *Journal { return &Journal{MG: m} }

func (j *Journal) Started(ctx context.Context, runID, source string) error {
	return InsertRun(ctx, j.MG, Record{ID: runID, Source: source, Status: StatusRunning})
}

func (j *Journal) Skipped(ctx context.Context, runID string, skips []models.Skip) error {
	return LogSkips(ctx, j.MG, runID, skips)
}

func (j *Journal) Finished(ctx context.Context, runID string, sum ports.RunSummary) error {
	return FinishRun(ctx, j.MG, runID, sum.Transactions, sum.Lenders, sum.Skipped, sum.Outputs, sum.Err)
}
