package report

import (
	"cmp"
	"math"
	"slices"
	"time"

	"kameo_report/internal/models"
)

var knownTypes = []models.TransactionType{
	models.TxnTildeling,
	models.TxnRenteinntekt,
	models.TxnTilbakebetaling,
	models.TxnForsinkelsesrente,
}

type lenderKey struct {
	company string
	status  models.LoanStatus
}

// collapsedLoan is one loan reduced from its repeated rows.
type collapsedLoan struct {
	key           lenderKey
	interestRate  float64
	lastDate      time.Time
	expected      float64
	net           float64
	tildeling     float64
	tilbakebetalt float64
	totalExpected float64
	totalActual   float64
}

// Summarize aggregates enriched rows per (company, status). Money fields are
// summed over one collapsed value per loan, since every row of a loan carries
// the same loan-scoped numbers. Percentages are recomputed from the sums and
// a non-finite result becomes zero.
func Summarize(rows []models.EnrichedRow) []models.LenderSummaryRow {
	pivot := pivotAmounts(rows)

	groups := make(map[lenderKey]*models.LenderSummaryRow)
	for _, loan := range collapseLoans(rows) {
		g, ok := groups[loan.key]
		if !ok {
			g = &models.LenderSummaryRow{Company: loan.key.company, Status: loan.key.status}
			groups[loan.key] = g
		}
		g.AntallLaan++
		g.GjennomsnittligRente += loan.interestRate
		g.ForventetRenteinntekt += loan.expected
		g.NettoRenteinntekt += loan.net
		g.Tildeling += loan.tildeling
		g.Tilbakebetalt += loan.tilbakebetalt
		g.TotalForventetAvkastning += loan.totalExpected
		g.TotalFaktiskAvkastning += loan.totalActual
		if loan.lastDate.After(g.SisteTransaksjonsdato) {
			g.SisteTransaksjonsdato = loan.lastDate
		}
	}

	out := make([]models.LenderSummaryRow, 0, len(groups))
	for key, g := range groups {
		g.GjennomsnittligRente /= float64(g.AntallLaan)
		g.RenterUtestaaende = g.ForventetRenteinntekt - g.NettoRenteinntekt
		g.NettoVsForventetRenteinntektProsent = finiteOrZero(g.NettoRenteinntekt/g.ForventetRenteinntekt) * 100
		g.FaktiskVsForventetAvkastningProsent = finiteOrZero(g.TotalFaktiskAvkastning/g.TotalForventetAvkastning) * 100
		g.AmountByType = withKnownTypes(pivot[key])
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b models.LenderSummaryRow) int {
		return cmp.Or(cmp.Compare(a.Company, b.Company), cmp.Compare(a.Status, b.Status))
	})
	return out
}

// pivotAmounts sums raw amounts per transaction type for every (company, status).
func pivotAmounts(rows []models.EnrichedRow) map[lenderKey]map[models.TransactionType]float64 {
	pivot := make(map[lenderKey]map[models.TransactionType]float64)
	for _, r := range rows {
		key := lenderKey{company: r.Company, status: r.Status}
		if pivot[key] == nil {
			pivot[key] = make(map[models.TransactionType]float64)
		}
		pivot[key][r.TransactionType] += r.AmountNOK
	}
	return pivot
}

// collapseLoans keeps one entry per loan id in first-seen order. Company,
// status and rate come from the loan's first row; numbers take the maximum.
func collapseLoans(rows []models.EnrichedRow) []collapsedLoan {
	index := make(map[int64]int)
	var loans []collapsedLoan
	for _, r := range rows {
		i, ok := index[r.LoanID]
		if !ok {
			index[r.LoanID] = len(loans)
			loans = append(loans, collapsedLoan{
				key:           lenderKey{company: r.Company, status: r.Status},
				interestRate:  r.InterestRate,
				lastDate:      r.Date,
				expected:      r.ForventetRenteinntekt,
				net:           r.NettoRenteinntekt,
				tildeling:     r.Tildeling,
				tilbakebetalt: r.Tilbakebetalt,
				totalExpected: r.TotalForventetAvkastning,
				totalActual:   r.TotalFaktiskAvkastning,
			})
			continue
		}
		l := &loans[i]
		if r.Date.After(l.lastDate) {
			l.lastDate = r.Date
		}
		l.expected = max(l.expected, r.ForventetRenteinntekt)
		l.net = max(l.net, r.NettoRenteinntekt)
		l.tildeling = max(l.tildeling, r.Tildeling)
		l.tilbakebetalt = max(l.tilbakebetalt, r.Tilbakebetalt)
		l.totalExpected = max(l.totalExpected, r.TotalForventetAvkastning)
		l.totalActual = max(l.totalActual, r.TotalFaktiskAvkastning)
	}
	return loans
}

func withKnownTypes(amounts map[models.TransactionType]float64) map[models.TransactionType]float64 {
	out := make(map[models.TransactionType]float64, len(amounts)+len(knownTypes))
	for _, t := range knownTypes {
		out[t] = 0
	}
	for t, v := range amounts {
		out[t] = v
	}
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
