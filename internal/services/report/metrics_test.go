package report

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kameo_report/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(h models.LoanHeader, date time.Time, typ models.TransactionType, amount float64) models.TransactionRecord {
	return models.TransactionRecord{LoanHeader: h, Date: date, TransactionType: typ, AmountNOK: amount}
}

var acme = models.LoanHeader{Company: "Acme AS", LoanID: 100, DurationMonths: 12, InterestRate: 10}

func TestLoanMetricsFor_status(t *testing.T) {
	cases := []struct {
		name  string
		types []models.TransactionType
		want  models.LoanStatus
	}{
		{"allocated only", []models.TransactionType{models.TxnTildeling}, models.StatusVenter},
		{"paying interest", []models.TransactionType{models.TxnTildeling, models.TxnRenteinntekt}, models.StatusAktiv},
		{"repaid wins", []models.TransactionType{models.TxnTildeling, models.TxnRenteinntekt, models.TxnTilbakebetaling}, models.StatusTilbakebetalt},
		{"repaid without allocation", []models.TransactionType{models.TxnTilbakebetaling}, models.StatusTilbakebetalt},
		{"late interest only", []models.TransactionType{models.TxnForsinkelsesrente}, models.StatusAktiv},
		{"unknown type", []models.TransactionType{"Gebyr"}, models.StatusAktiv},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var recs []models.TransactionRecord
			for i, typ := range c.types {
				recs = append(recs, rec(acme, day(2024, 1, 1+i), typ, 1))
			}
			assert.Equal(t, c.want, LoanMetricsFor(recs).Status)
		})
	}
}

func TestLoanMetricsFor_estimatedRepaid(t *testing.T) {
	t.Run("earliest repayment", func(t *testing.T) {
		m := LoanMetricsFor([]models.TransactionRecord{
			rec(acme, day(2024, 1, 1), models.TxnTildeling, -1000),
			rec(acme, day(2024, 9, 1), models.TxnTilbakebetaling, 500),
			rec(acme, day(2024, 6, 1), models.TxnTilbakebetaling, 500),
			rec(acme, day(2024, 2, 1), models.TxnRenteinntekt, 8),
		})
		assert.Equal(t, day(2024, 6, 1), m.EstimatedRepaid)
	})
	t.Run("first interest plus term", func(t *testing.T) {
		m := LoanMetricsFor([]models.TransactionRecord{
			rec(acme, day(2024, 1, 1), models.TxnTildeling, -1000),
			rec(acme, day(2024, 3, 31), models.TxnRenteinntekt, 8),
			rec(acme, day(2024, 1, 31), models.TxnRenteinntekt, 8),
		})
		assert.Equal(t, day(2025, 1, 31), m.EstimatedRepaid)
	})
	t.Run("first transaction plus term and a month", func(t *testing.T) {
		m := LoanMetricsFor([]models.TransactionRecord{
			rec(acme, day(2024, 2, 6), models.TxnTildeling, -1000),
			rec(acme, day(2024, 1, 31), models.TxnForsinkelsesrente, 1),
		})
		assert.Equal(t, day(2025, 2, 28), m.EstimatedRepaid)
	})
}

func TestLoanMetricsFor_money(t *testing.T) {
	m := LoanMetricsFor([]models.TransactionRecord{
		rec(acme, day(2024, 1, 1), models.TxnTildeling, -600),
		rec(acme, day(2024, 1, 2), models.TxnTildeling, -400),
		rec(acme, day(2024, 2, 1), models.TxnRenteinntekt, 8.33),
		rec(acme, day(2024, 3, 1), models.TxnForsinkelsesrente, 1.67),
		rec(acme, day(2024, 4, 1), models.TxnTilbakebetaling, 250),
	})
	assert.InDelta(t, 1000, m.Tildeling, 1e-9)
	assert.InDelta(t, 100, m.ForventetRenteinntekt, 1e-9)
	assert.InDelta(t, 10, m.NettoRenteinntekt, 1e-9)
	assert.Equal(t, m.ForventetRenteinntekt-m.NettoRenteinntekt, m.RenterUtestaaende)
	assert.InDelta(t, 10, m.NettoVsForventetRenteinntektProsent, 1e-9)
	assert.InDelta(t, 1100, m.TotalForventetAvkastning, 1e-9)
	assert.InDelta(t, 250, m.Tilbakebetalt, 1e-9)
	assert.InDelta(t, 260, m.TotalFaktiskAvkastning, 1e-9)
	assert.InDelta(t, 260.0/1100*100, m.FaktiskVsForventetAvkastningProsent, 1e-9)
}

func TestLoanMetricsFor_zeroExpectationIsNonFinite(t *testing.T) {
	m := LoanMetricsFor([]models.TransactionRecord{
		rec(acme, day(2024, 2, 1), models.TxnRenteinntekt, 5),
	})
	assert.Zero(t, m.ForventetRenteinntekt)
	assert.True(t, math.IsInf(m.NettoVsForventetRenteinntektProsent, 1))
	assert.True(t, math.IsInf(m.FaktiskVsForventetAvkastningProsent, 1))

	m = LoanMetricsFor([]models.TransactionRecord{
		rec(acme, day(2024, 2, 1), "Gebyr", 5),
	})
	assert.True(t, math.IsNaN(m.NettoVsForventetRenteinntektProsent))
}

func TestEnrich_broadcastAndRunningCounter(t *testing.T) {
	other := models.LoanHeader{Company: "Beta AS", LoanID: 7, DurationMonths: 6, InterestRate: 12}
	rows := Enrich([]models.TransactionRecord{
		rec(acme, day(2024, 3, 1), models.TxnRenteinntekt, 8.33),
		rec(other, day(2024, 1, 5), models.TxnTildeling, -500),
		rec(acme, day(2024, 1, 1), models.TxnTildeling, -1000),
		rec(acme, day(2024, 2, 1), models.TxnRenteinntekt, 8.33),
		rec(acme, day(2024, 2, 15), models.TxnForsinkelsesrente, 0.5),
	})
	require.Len(t, rows, 5)

	assert.Equal(t, int64(7), rows[0].LoanID)
	assert.Equal(t, models.StatusVenter, rows[0].Status)
	assert.Equal(t, 0, rows[0].InnbetalteTerminer)

	acmeRows := rows[1:]
	wantDates := []time.Time{day(2024, 1, 1), day(2024, 2, 1), day(2024, 2, 15), day(2024, 3, 1)}
	wantCounter := []int{0, 1, 1, 2}
	for i, r := range acmeRows {
		assert.Equal(t, wantDates[i], r.Date)
		assert.Equal(t, wantCounter[i], r.InnbetalteTerminer)
		assert.Equal(t, acmeRows[0].LoanMetrics, r.LoanMetrics)
		assert.Equal(t, r.ForventetRenteinntekt-r.NettoRenteinntekt, r.RenterUtestaaende)
	}
	assert.Equal(t, models.StatusAktiv, acmeRows[0].Status)
	assert.InDelta(t, 17.16, acmeRows[0].NettoRenteinntekt, 1e-9)
}

func TestEnrich_empty(t *testing.T) {
	assert.Empty(t, Enrich(nil))
}
