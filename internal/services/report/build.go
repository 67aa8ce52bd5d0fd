package report

import "kameo_report/internal/models"

// Build runs the whole pipeline over one export. Text without any valid
// transaction gives a report with empty tables, not an error.
func Build(text string) *models.Report {
	records, diag := Extract(text)
	rows := Enrich(records)
	return &models.Report{
		Transactions: rows,
		Lenders:      Summarize(rows),
		Skips:        diag.Skips,
	}
}
