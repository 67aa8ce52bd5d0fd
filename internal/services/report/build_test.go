package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kameo_report/internal/models"
)

const acmeHeader = "Acme AS - 100 | Løpetid: 12 m | Rente: 10,00%\n"

func TestBuild_allocationOnlyIsWaiting(t *testing.T) {
	rep := Build(acmeHeader + "2024-01-01\tTildeling\t-1000,00\tNOK\t100,00\t-1000,00\n")

	require.Len(t, rep.Transactions, 1)
	r := rep.Transactions[0]
	assert.Equal(t, int64(100), r.LoanID)
	assert.Equal(t, 12, r.DurationMonths)
	assert.InDelta(t, 10.0, r.InterestRate, 1e-9)
	assert.InDelta(t, -1000.0, r.AmountNOK, 1e-9)
	assert.Equal(t, models.StatusVenter, r.Status)
	assert.Equal(t, day(2025, 2, 1), r.EstimatedRepaid)
}

func TestBuild_interestMakesLoanActive(t *testing.T) {
	rep := Build(acmeHeader +
		"2024-01-01\tTildeling\t-1000,00\tNOK\t100,00\t-1000,00\n" +
		"2024-02-01\tRenteinntekt\t8,33\tNOK\t100,00\t8,33\n")

	require.Len(t, rep.Transactions, 2)
	interest := rep.Transactions[1]
	assert.Equal(t, models.TxnRenteinntekt, interest.TransactionType)
	assert.Equal(t, 1, interest.InnbetalteTerminer)
	assert.InDelta(t, 100.0, interest.ForventetRenteinntekt, 1e-9)
	assert.InDelta(t, 8.33, interest.NettoRenteinntekt, 1e-9)
	assert.InDelta(t, 91.67, interest.RenterUtestaaende, 1e-9)
	assert.Equal(t, models.StatusAktiv, interest.Status)
	assert.Equal(t, day(2025, 2, 1), interest.EstimatedRepaid)
	assert.Equal(t, rep.Transactions[0].LoanMetrics, interest.LoanMetrics)
}

func TestBuild_malformedHeaderDoesNotTouchOtherLoans(t *testing.T) {
	good := acmeHeader + "2024-01-01\tTildeling\t-1000,00\tNOK\t100,00\t-1000,00\n"
	bad := "BadRow 12 m\n2024-01-01\tTildeling\t-50,00\tNOK\t100,00\t-50,00\n"
	broken := "Broken AS - 7 | Løpetid: 3 m\n2024-01-01\tTildeling\t-50,00\tNOK\t100,00\t-50,00\n"

	alone := Build(good)
	mixed := Build(bad + good + broken)

	assert.Equal(t, alone.Transactions, mixed.Transactions)
	assert.Equal(t, alone.Lenders, mixed.Lenders)
	require.Len(t, mixed.Skips, 2)
	assert.Equal(t, models.SkipPreamble, mixed.Skips[0].Kind)
	assert.Equal(t, models.SkipHeader, mixed.Skips[1].Kind)
	assert.Empty(t, Build(bad).Transactions)
}

func TestBuild_emptyInputGivesEmptyTables(t *testing.T) {
	rep := Build("")
	assert.Empty(t, rep.Transactions)
	assert.Empty(t, rep.Lenders)
	assert.Empty(t, rep.Skips)
}
