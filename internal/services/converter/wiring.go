package converter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"kameo_report/internal/adapters/opener"
	"kameo_report/internal/config"
	"kameo_report/internal/ports"
	"kameo_report/internal/repository/database"
	"kameo_report/internal/repository/runs"
	"kameo_report/internal/services/export"
)

const httpSourceTimeout = 2 * time.Minute

// FromConfig builds a converter over the connected backends of cfg.
// Local files go to cfg.OutputDir unless it is empty.
func FromConfig(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Service, error) {
	if err := export.ValidateFormats(cfg.OutputFormats); err != nil {
		return nil, err
	}

	httpOp := opener.NewHTTPOpener(&http.Client{Timeout: httpSourceTimeout}, log)
	var s3Op *opener.S3Opener
	if cfg.S3 != nil {
		s3Op = opener.NewS3Opener(cfg.S3.Client, log)
	}
	compound := opener.NewCompoundOpener(httpOp, s3Op, opener.NewFileOpener(""))

	var sinks []ports.ReportSink
	if cfg.OutputDir != "" {
		sinks = append(sinks, export.LocalSink{Dir: cfg.OutputDir, Formats: cfg.OutputFormats})
	}
	if cfg.S3 != nil {
		sinks = append(sinks, export.S3Sink{
			Store:   cfg.S3,
			Bucket:  cfg.S3.Bucket,
			Prefix:  cfg.ReportPrefix,
			Formats: cfg.OutputFormats,
		})
	}
	if cfg.Postgres.Ready() {
		repo := database.NewReportsRepo(cfg.Postgres)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("report schema: %w", err)
		}
		sinks = append(sinks, repo)
	}

	var journal ports.RunJournal
	if cfg.Mongo.Ready() {
		journal = runs.NewJournal(cfg.Mongo)
	}

	return NewService(compound, sinks, journal, log), nil
}
