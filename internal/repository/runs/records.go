package runs

import (
	"context"
	"errors"
	"fmt"
	"time"

	mg "kameo_report/internal/config/connections/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const RunsCollection = "conversion_runs"

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

type Record struct {
	ID           string     `bson:"_id" json:"id"`
	Status       string     `bson:"status" json:"status"`
	Source       string     `bson:"source" json:"source"`
	Transactions int        `bson:"transactions" json:"transactions"`
	Lenders      int        `bson:"lenders" json:"lenders"`
	Skipped      int        `bson:"skipped" json:"skipped"`
	Outputs      []string   `bson:"outputs,omitempty" json:"outputs,omitempty"`
	Errors       *string    `bson:"errors,omitempty" json:"errors,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	FinishedAt   *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
}

func InsertRun(ctx context.Context, m *mg.Mongo, rec Record) error {
	if !m.Ready() {
		return mongo.ErrClientDisconnected
	}
	if rec.ID == "" {
		return errors.New("empty run id")
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = StatusRunning
	}

	_, err := m.Database.Collection(RunsCollection).InsertOne(ctx, rec, options.InsertOne())
	return err
}

func UpdateRunStatus(ctx context.Context, m *mg.Mongo, runID, status string) error {
	return updateRun(ctx, m, runID, bson.M{"status": status})
}

// FinishRun stores the outcome of a run. A non-nil runErr marks it failed.
func FinishRun(ctx context.Context, m *mg.Mongo, runID string, transactions, lenders, skipped int, outputs []string, runErr error) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":       StatusDone,
		"transactions": transactions,
		"lenders":      lenders,
		"skipped":      skipped,
		"outputs":      outputs,
		"finished_at":  now,
	}
	if runErr != nil {
		set["status"] = StatusFailed
		set["errors"] = runErr.Error()
	}
	return updateRun(ctx, m, runID, set)
}

func updateRun(ctx context.Context, m *mg.Mongo, runID string, set bson.M) error {
	if !m.Ready() {
		return mongo.ErrClientDisconnected
	}
	if runID == "" {
		return errors.New("empty run id")
	}
	if s, ok := set["status"].(string); ok && s == "" {
		return errors.New("empty status")
	}
	set["updated_at"] = time.Now().UTC()

	res, err := m.Database.Collection(RunsCollection).UpdateOne(ctx, bson.M{"_id": runID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no conversion run found with id %s", runID)
	}
	return nil
}

func FindRunByID(ctx context.Context, m *mg.Mongo, id string) (Record, error) {
	var out Record
	if !m.Ready() {
		return out, mongo.ErrClientDisconnected
	}
	if err := m.Database.Collection(RunsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return out, fmt.Errorf("run %s: %w", id, err)
	}
	return out, nil
}

func ListRuns(ctx context.Context, m *mg.Mongo, limit int64) ([]Record, error) {
	if !m.Ready() {
		return nil, mongo.ErrClientDisconnected
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := m.Database.Collection(RunsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	recs := make([]Record, 0)
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
