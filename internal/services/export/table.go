package export

import (
	"time"

	"kameo_report/internal/models"
)

const dateLayout = "2006-01-02"

const (
	TransactionsName = "transformed_kameo"
	LendersName      = "transformed_kameo_lender"
)

var TransactionColumns = []string{
	"company", "loan_id", "status", "duration_months", "innbetalte_terminer",
	"estimated_repaid", "interest_rate", "forventet_renteinntekt", "netto_renteinntekt", "renter_utestaaende", "netto_vs_forventet_renteinntekt_prosent",
	"tildeling", "total_forventet_avkastning", "tilbakebetalt", "total_faktisk_avkastning", "faktisk_vs_forventet_avkastning_prosent",
	"date", "transaction_type", "amount_nok",
}

var LenderColumns = []string{
	"company", "status", "siste_transaksjonsdato", "antall_laan", "gjennomsnittlig_rente",
	"forventet_renteinntekt", "Tildeling", "Tilbakebetalt", "forsinkelses_rente", "Renteinntekt", "Netto_renteinntekt",
}

// Table is a named, typed grid. Cells hold string, int, int64 or float64.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

func TransactionTable(rows []models.EnrichedRow) Table {
	t := Table{Name: TransactionsName, Columns: TransactionColumns, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Company,
			r.LoanID,
			string(r.Status),
			r.DurationMonths,
			r.InnbetalteTerminer,
			formatDate(r.EstimatedRepaid),
			r.InterestRate,
			r.ForventetRenteinntekt,
			r.NettoRenteinntekt,
			r.RenterUtestaaende,
			r.NettoVsForventetRenteinntektProsent,
			r.Tildeling,
			r.TotalForventetAvkastning,
			r.Tilbakebetalt,
			r.TotalFaktiskAvkastning,
			r.FaktiskVsForventetAvkastningProsent,
			formatDate(r.Date),
			string(r.TransactionType),
			r.AmountNOK,
		})
	}
	return t
}

// LenderTable uses the raw pivot totals for the per-type columns, so
// Tildeling keeps the sign of the source.
func LenderTable(rows []models.LenderSummaryRow) Table {
	t := Table{Name: LendersName, Columns: LenderColumns, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Company,
			string(r.Status),
			formatDate(r.SisteTransaksjonsdato),
			r.AntallLaan,
			r.GjennomsnittligRente,
			r.ForventetRenteinntekt,
			r.Amount(models.TxnTildeling),
			r.Amount(models.TxnTilbakebetaling),
			r.Amount(models.TxnForsinkelsesrente),
			r.Amount(models.TxnRenteinntekt),
			r.NetInterest(),
		})
	}
	return t
}

// Tables returns both report tables in output order.
func Tables(rep *models.Report) []Table {
	return []Table{TransactionTable(rep.Transactions), LenderTable(rep.Lenders)}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
