package report

import (
	"cmp"
	"math"
	"slices"
	"time"

	"kameo_report/internal/models"
)

// loanFacts is what every metric of one loan is derived from.
type loanFacts struct {
	header   models.LoanHeader
	sum      map[models.TransactionType]float64
	earliest map[models.TransactionType]time.Time
	first    time.Time
}

func collectFacts(records []models.TransactionRecord) loanFacts {
	f := loanFacts{
		header:   records[0].LoanHeader,
		sum:      make(map[models.TransactionType]float64),
		earliest: make(map[models.TransactionType]time.Time),
	}
	for i, r := range records {
		f.sum[r.TransactionType] += r.AmountNOK
		if e, ok := f.earliest[r.TransactionType]; !ok || r.Date.Before(e) {
			f.earliest[r.TransactionType] = r.Date
		}
		if i == 0 || r.Date.Before(f.first) {
			f.first = r.Date
		}
	}
	return f
}

func (f loanFacts) has(t models.TransactionType) bool {
	_, ok := f.earliest[t]
	return ok
}

// estimatedRepaid picks, in order: the first repayment, the first interest
// payment plus the term, or the first transaction plus the term and one month.
func (f loanFacts) estimatedRepaid() time.Time {
	if d, ok := f.earliest[models.TxnTilbakebetaling]; ok {
		return d
	}
	if d, ok := f.earliest[models.TxnRenteinntekt]; ok {
		return addMonths(d, f.header.DurationMonths)
	}
	return addMonths(f.first, f.header.DurationMonths+1)
}

func (f loanFacts) status() models.LoanStatus {
	switch {
	case f.has(models.TxnTilbakebetaling):
		return models.StatusTilbakebetalt
	case f.has(models.TxnTildeling) && !f.has(models.TxnRenteinntekt):
		return models.StatusVenter
	default:
		return models.StatusAktiv
	}
}

// LoanMetricsFor computes the loan-scoped metrics from all records of one
// loan. The term and rate are taken from the first record. Percentages are
// left as the raw division result, so a zero expectation gives Inf or NaN.
func LoanMetricsFor(records []models.TransactionRecord) models.LoanMetrics {
	if len(records) == 0 {
		return models.LoanMetrics{}
	}
	f := collectFacts(records)

	tildeling := math.Abs(f.sum[models.TxnTildeling])
	expected := tildeling * (f.header.InterestRate / 100) * (float64(f.header.DurationMonths) / 12)
	net := f.sum[models.TxnForsinkelsesrente] + f.sum[models.TxnRenteinntekt]
	repaid := math.Abs(f.sum[models.TxnTilbakebetaling])
	totalExpected := tildeling + expected
	totalActual := repaid + net

	return models.LoanMetrics{
		Status:                              f.status(),
		EstimatedRepaid:                     f.estimatedRepaid(),
		ForventetRenteinntekt:               expected,
		NettoRenteinntekt:                   net,
		RenterUtestaaende:                   expected - net,
		NettoVsForventetRenteinntektProsent: net / expected * 100,
		Tildeling:                           tildeling,
		TotalForventetAvkastning:            totalExpected,
		Tilbakebetalt:                       repaid,
		TotalFaktiskAvkastning:              totalActual,
		FaktiskVsForventetAvkastningProsent: totalActual / totalExpected * 100,
	}
}

// Enrich computes the metrics of every loan and joins them onto its
// transactions. Rows come back ordered by loan id, then date; rows with the
// same loan and date keep their source order.
func Enrich(records []models.TransactionRecord) []models.EnrichedRow {
	metrics := make(map[int64]models.LoanMetrics)
	for id, recs := range groupByLoan(records) {
		metrics[id] = LoanMetricsFor(recs)
	}
	return joinLoanMetrics(sortByLoanAndDate(records), metrics)
}

func groupByLoan(records []models.TransactionRecord) map[int64][]models.TransactionRecord {
	groups := make(map[int64][]models.TransactionRecord)
	for _, r := range records {
		groups[r.LoanID] = append(groups[r.LoanID], r)
	}
	return groups
}

func sortByLoanAndDate(records []models.TransactionRecord) []models.TransactionRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.TransactionRecord) int {
		return cmp.Or(cmp.Compare(a.LoanID, b.LoanID), a.Date.Compare(b.Date))
	})
	return sorted
}

// joinLoanMetrics expects sorted rows. It broadcasts each loan's metrics
// and counts the interest payments seen so far within the loan.
func joinLoanMetrics(sorted []models.TransactionRecord, metrics map[int64]models.LoanMetrics) []models.EnrichedRow {
	out := make([]models.EnrichedRow, 0, len(sorted))
	paid := 0
	for i, r := range sorted {
		if i == 0 || r.LoanID != sorted[i-1].LoanID {
			paid = 0
		}
		if r.TransactionType == models.TxnRenteinntekt {
			paid++
		}
		out = append(out, models.EnrichedRow{
			TransactionRecord:  r,
			LoanMetrics:        metrics[r.LoanID],
			InnbetalteTerminer: paid,
		})
	}
	return out
}
