package database

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kameo_report/internal/config/connections/postgres"
	"kameo_report/internal/models"
)

var placeholder = regexp.MustCompile(`\$\d+`)

func TestInsertArgsMatchPlaceholders(t *testing.T) {
	row := models.EnrichedRow{
		TransactionRecord: models.TransactionRecord{
			LoanHeader: models.LoanHeader{Company: "Acme AS", LoanID: 100, DurationMonths: 12, InterestRate: 10},
			Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	assert.Len(t, transactionArgs("run", 1, row), len(placeholder.FindAllString(insertTransactionQuery, -1)))

	args, err := lenderArgs("run", models.LenderSummaryRow{Company: "Acme AS", Status: models.StatusAktiv})
	require.NoError(t, err)
	assert.Len(t, args, len(placeholder.FindAllString(insertLenderQuery, -1)))
}

func TestPivotJSON(t *testing.T) {
	s, err := pivotJSON(map[models.TransactionType]float64{
		models.TxnTildeling:    -1000,
		models.TxnRenteinntekt: math.Inf(1),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Tildeling":-1000,"Renteinntekt":null}`, s)
}

func TestNullDate(t *testing.T) {
	assert.Nil(t, nullDate(time.Time{}))
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, nullDate(d))
	assert.Equal(t, d, *nullDate(d))
}

func TestSaveReport_requiresPool(t *testing.T) {
	repo := NewReportsRepo(&postgres.Postgres{})
	assert.Error(t, repo.SaveReport(context.Background(), "run", &models.Report{}))
	assert.Error(t, repo.EnsureSchema(context.Background()))
}
