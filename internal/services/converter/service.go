package converter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kameo_report/internal/models"
	"kameo_report/internal/ports"
	"kameo_report/internal/services/report"
)

const defaultMaxSourceBytes = 64 << 20

var (
	ErrSourceTooLarge = errors.New("source exceeds size limit")
	ErrNotUTF8        = errors.New("source is not valid UTF-8")
)

var utf8BOM = []byte("\xef\xbb\xbf")

type Request struct {
	FilePath string
	RunID    string
}

type Result struct {
	RunID        string
	Source       string
	FilePath     string
	ContentType  string
	SizeBytes    int64
	SHA256       string
	Transactions int
	Lenders      int
	Skipped      int
	Outputs      []string
	Duration     time.Duration
}

type Service struct {
	Opener         ports.FileOpener
	Sinks          []ports.ReportSink
	Journal        ports.RunJournal
	Log            zerolog.Logger
	MaxSourceBytes int64
}

// NewService wires a converter. journal may be nil.
func NewService(opener ports.FileOpener, sinks []ports.ReportSink, journal ports.RunJournal, log zerolog.Logger) *Service {
	return &Service{
		Opener:         opener,
		Sinks:          sinks,
		Journal:        journal,
		Log:            log.With().Str("component", "converter").Logger(),
		MaxSourceBytes: defaultMaxSourceBytes,
	}
}

// Convert reads one export, builds the report and hands it to every sink.
// A source without transactions is a successful run with empty tables.
func (s *Service) Convert(ctx context.Context, req Request) (Result, error) {
	t0 := time.Now()
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := s.Log.With().Str("run_id", runID).Str("path", req.FilePath).Logger()
	log.Info().Msg("convert start")

	if s.Journal != nil {
		if err := s.Journal.Started(ctx, runID, req.FilePath); err != nil {
			log.Warn().Err(err).Msg("journal start")
		}
	}

	res := Result{RunID: runID, FilePath: req.FilePath}
	rep, err := s.run(ctx, req, &res)
	res.Duration = time.Since(t0)

	if rep != nil {
		for _, sk := range rep.Skips {
			log.Debug().Str("kind", string(sk.Kind)).Int("line", sk.Line).Str("reason", sk.Reason).Msg("skipped")
		}
		res.Transactions = len(rep.Transactions)
		res.Lenders = len(rep.Lenders)
		res.Skipped = len(rep.Skips)
	}
	s.finish(ctx, log, rep, res, err)

	if err != nil {
		log.Error().Err(err).Dur("duration", res.Duration).Msg("convert failed")
		return res, err
	}
	if res.Transactions == 0 {
		log.Warn().Int("skipped", res.Skipped).Msg("no transactions found in source")
	}
	log.Info().
		Int("transactions", res.Transactions).
		Int("lenders", res.Lenders).
		Int("skipped", res.Skipped).
		Str("sha256", res.SHA256).
		Dur("duration", res.Duration).
		Msg("convert done")
	return res, nil
}

func (s *Service) run(ctx context.Context, req Request, res *Result) (*models.Report, error) {
	rc, meta, err := s.Opener.Open(ctx, req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	res.Source = meta.Source
	res.ContentType = meta.ContentType
	res.SizeBytes = meta.Size

	text, sum, err := s.readText(rc)
	if err != nil {
		return nil, err
	}
	res.SHA256 = sum

	rep := report.Build(text)

	var errs []error
	for _, sink := range s.Sinks {
		written, err := sink.Write(ctx, res.RunID, rep)
		res.Outputs = append(res.Outputs, written...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", sink.Name(), err))
		}
	}
	return rep, errors.Join(errs...)
}

// readText reads the whole source, drops a UTF-8 byte order mark and
// returns the text with the sha256 of the raw bytes.
func (s *Service) readText(r io.Reader) (string, string, error) {
	limit := s.MaxSourceBytes
	if limit <= 0 {
		limit = defaultMaxSourceBytes
	}
	hasher := sha256.New()
	data, err := io.ReadAll(io.LimitReader(io.TeeReader(r, hasher), limit+1))
	if err != nil {
		return "", "", fmt.Errorf("read source: %w", err)
	}
	if int64(len(data)) > limit {
		return "", "", fmt.Errorf("%w (%d bytes)", ErrSourceTooLarge, limit)
	}
	sum := hex.EncodeToString(hasher.Sum(nil))

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", sum, ErrNotUTF8
	}
	return string(data), sum, nil
}

func (s *Service) finish(ctx context.Context, log zerolog.Logger, rep *models.Report, res Result, runErr error) {
	if s.Journal == nil {
		return
	}
	if rep != nil {
		if err := s.Journal.Skipped(ctx, res.RunID, rep.Skips); err != nil {
			log.Warn().Err(err).Msg("journal skips")
		}
	}
	sum := ports.RunSummary{
		Transactions: res.Transactions,
		Lenders:      res.Lenders,
		Skipped:      res.Skipped,
		Outputs:      res.Outputs,
		Err:          runErr,
	}
	if err := s.Journal.Finished(ctx, res.RunID, sum); err != nil {
		log.Warn().Err(err).Msg("journal finish")
	}
}
