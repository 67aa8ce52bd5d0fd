package runs

import (
	"context"
	"time"

	mg "kameo_report/internal/config/connections/mongo"
	"kameo_report/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SkipsCollection = "conversion_skips"

type SkipItem struct {
	RunID     string    `bson:"run_id" json:"run_id"`
	Kind      string    `bson:"kind" json:"kind"`
	Line      int       `bson:"line" json:"line"`
	Text      string    `bson:"text" json:"text"`
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func skipItems(runID string, skips []models.Skip, now time.Time) []any {
	docs := make([]any, 0, len(skips))
	for _, s := range skips {
		docs = append(docs, SkipItem{
			RunID:     runID,
			Kind:      string(s.Kind),
			Line:      s.Line,
			Text:      s.Text,
			Reason:    s.Reason,
			CreatedAt: now,
		})
	}
	return docs
}

// LogSkips stores every dropped block or line of a run.
func LogSkips(ctx context.Context, m *mg.Mongo, runID string, skips []models.Skip) error {
	if len(skips) == 0 {
		return nil
	}
	if !m.Ready() {
		return mongo.ErrClientDisconnected
	}
	_, err := m.Database.Collection(SkipsCollection).InsertMany(ctx, skipItems(runID, skips, time.Now().UTC()), options.InsertMany().SetOrdered(true))
	return err
}
