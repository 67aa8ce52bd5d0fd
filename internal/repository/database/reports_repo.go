package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"kameo_report/internal/config/connections/postgres"
	"kameo_report/internal/models"

	"github.com/jackc/pgx/v5"
)

type ReportsRepo struct {
	pg *postgres.Postgres
}

func NewReportsRepo(pg *postgres.Postgres) *ReportsRepo {
	return &ReportsRepo{pg: pg}
}

const schemaQuery = `
	CREATE TABLE IF NOT EXISTS loan_transactions (
		run_id                                  uuid             NOT NULL,
		row_no                                  integer          NOT NULL,
		company                                 text             NOT NULL,
		loan_id                                 bigint           NOT NULL,
		status                                  text             NOT NULL,
		duration_months                         integer          NOT NULL,
		innbetalte_terminer                     integer          NOT NULL,
		estimated_repaid                        date,
		interest_rate                           double precision NOT NULL,
		forventet_renteinntekt                  double precision NOT NULL,
		netto_renteinntekt                      double precision NOT NULL,
		renter_utestaaende                      double precision NOT NULL,
		netto_vs_forventet_renteinntekt_prosent double precision NOT NULL,
		tildeling                               double precision NOT NULL,
		total_forventet_avkastning              double precision NOT NULL,
		tilbakebetalt                           double precision NOT NULL,
		total_faktisk_avkastning                double precision NOT NULL,
		faktisk_vs_forventet_avkastning_prosent double precision NOT NULL,
		date                                    date             NOT NULL,
		transaction_type                        text             NOT NULL,
		amount_nok                              double precision NOT NULL,
		PRIMARY KEY (run_id, row_no)
	);

	CREATE TABLE IF NOT EXISTS lender_summaries (
		run_id                                  uuid             NOT NULL,
		company                                 text             NOT NULL,
		status                                  text             NOT NULL,
		siste_transaksjonsdato                  date,
		antall_laan                             integer          NOT NULL,
		gjennomsnittlig_rente                   double precision NOT NULL,
		forventet_renteinntekt                  double precision NOT NULL,
		netto_renteinntekt                      double precision NOT NULL,
		tildeling                               double precision NOT NULL,
		tilbakebetalt                           double precision NOT NULL,
		total_forventet_avkastning              double precision NOT NULL,
		total_faktisk_avkastning                double precision NOT NULL,
		renter_utestaaende                      double precision NOT NULL,
		netto_vs_forventet_renteinntekt_prosent double precision NOT NULL,
		faktisk_vs_forventet_avkastning_prosent double precision NOT NULL,
		amount_by_type                          jsonb            NOT NULL,
		PRIMARY KEY (run_id, company, status)
	);
`

const insertTransactionQuery = `
	INSERT INTO loan_transactions (
		run_id, row_no, company, loan_id, status, duration_months, innbetalte_terminer,
		estimated_repaid, interest_rate, forventet_renteinntekt, netto_renteinntekt,
		renter_utestaaende, netto_vs_forventet_renteinntekt_prosent, tildeling,
		total_forventet_avkastning, tilbakebetalt, total_faktisk_avkastning,
		faktisk_vs_forventet_avkastning_prosent, date, transaction_type, amount_nok
	)
	VALUES (
		$1::uuid, $2, $3, $4, $5, $6, $7,
		$8::date, $9, $10, $11,
		$12, $13, $14,
		$15, $16, $17,
		$18, $19::date, $20, $21
	)
	ON CONFLICT (run_id, row_no) DO NOTHING;
`

const insertLenderQuery = `
	INSERT INTO lender_summaries (
		run_id, company, status, siste_transaksjonsdato, antall_laan, gjennomsnittlig_rente,
		forventet_renteinntekt, netto_renteinntekt, tildeling, tilbakebetalt,
		total_forventet_avkastning, total_faktisk_avkastning, renter_utestaaende,
		netto_vs_forventet_renteinntekt_prosent, faktisk_vs_forventet_avkastning_prosent,
		amount_by_type
	)
	VALUES (
		$1::uuid, $2, $3, $4::date, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13,
		$14, $15,
		$16::jsonb
	)
	ON CONFLICT (run_id, company, status) DO NOTHING;
`

func (r *ReportsRepo) EnsureSchema(ctx context.Context) error {
	if !r.pg.Ready() {
		return errors.New("postgres not available")
	}
	_, err := r.pg.Pool.Exec(ctx, schemaQuery)
	return err
}

// SaveReport stores both tables of a run in one transaction.
func (r *ReportsRepo) SaveReport(ctx context.Context, runID string, rep *models.Report) error {
	if !r.pg.Ready() {
		return errors.New("postgres not available")
	}

	batch := &pgx.Batch{}
	for i, row := range rep.Transactions {
		batch.Queue(insertTransactionQuery, transactionArgs(runID, i+1, row)...)
	}
	for _, row := range rep.Lenders {
		args, err := lenderArgs(runID, row)
		if err != nil {
			return err
		}
		batch.Queue(insertLenderQuery, args...)
	}
	if batch.Len() == 0 {
		return nil
	}

	tx, err := r.pg.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func transactionArgs(runID string, rowNo int, r models.EnrichedRow) []any {
	return []any{
		runID, rowNo, r.Company, r.LoanID, string(r.Status), r.DurationMonths, r.InnbetalteTerminer,
		nullDate(r.EstimatedRepaid), r.InterestRate, r.ForventetRenteinntekt, r.NettoRenteinntekt,
		r.RenterUtestaaende, r.NettoVsForventetRenteinntektProsent, r.Tildeling,
		r.TotalForventetAvkastning, r.Tilbakebetalt, r.TotalFaktiskAvkastning,
		r.FaktiskVsForventetAvkastningProsent, r.Date, string(r.TransactionType), r.AmountNOK,
	}
}

func lenderArgs(runID string, r models.LenderSummaryRow) ([]any, error) {
	pivot, err := pivotJSON(r.AmountByType)
	if err != nil {
		return nil, fmt.Errorf("amount_by_type for %s/%s: %w", r.Company, r.Status, err)
	}
	return []any{
		runID, r.Company, string(r.Status), nullDate(r.SisteTransaksjonsdato), r.AntallLaan, r.GjennomsnittligRente,
		r.ForventetRenteinntekt, r.NettoRenteinntekt, r.Tildeling, r.Tilbakebetalt,
		r.TotalForventetAvkastning, r.TotalFaktiskAvkastning, r.RenterUtestaaende,
		r.NettoVsForventetRenteinntektProsent, r.FaktiskVsForventetAvkastningProsent,
		pivot,
	}, nil
}

// pivotJSON encodes the per-type totals; JSON has no infinities, so those become null.
func pivotJSON(amounts map[models.TransactionType]float64) (string, error) {
	m := make(map[string]*float64, len(amounts))
	for t, v := range amounts {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			m[string(t)] = nil
			continue
		}
		m[string(t)] = &v
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *ReportsRepo) Name() string { return "postgres" }

// Write makes the repo usable as a report sink.
func (r *ReportsRepo) Write(ctx context.Context, runID string, rep *models.Report) ([]string, error) {
	if err := r.SaveReport(ctx, runID, rep); err != nil {
		return nil, err
	}
	return []string{"postgres://loan_transactions,lender_summaries?run_id=" + runID}, nil
}
