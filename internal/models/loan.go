package models

import "time"

type TransactionType string

const (
	TxnTildeling         TransactionType = "Tildeling"
	TxnRenteinntekt      TransactionType = "Renteinntekt"
	TxnTilbakebetaling   TransactionType = "Tilbakebetaling"
	TxnForsinkelsesrente TransactionType = "Forsinkelsesrente"
)

type LoanStatus string

const (
	StatusAktiv         LoanStatus = "Aktiv"
	StatusVenter        LoanStatus = "Venter"
	StatusTilbakebetalt LoanStatus = "Tilbakebetalt"
)

// LoanHeader is parsed once from the first line of a loan block.
type LoanHeader struct {
	Company        string
	LoanID         int64
	DurationMonths int
	InterestRate   float64
}

// TransactionRecord is one ledger line with its loan header denormalized onto it.
type TransactionRecord struct {
	LoanHeader
	Date            time.Time
	TransactionType TransactionType
	AmountNOK       float64
}

// LoanMetrics holds the loan-scoped values that are broadcast to every row of a loan.
type LoanMetrics struct {
	Status                              LoanStatus
	EstimatedRepaid                     time.Time
	ForventetRenteinntekt               float64
	NettoRenteinntekt                   float64
	RenterUtestaaende                   float64
	NettoVsForventetRenteinntektProsent float64
	Tildeling                           float64
	TotalForventetAvkastning            float64
	Tilbakebetalt                       float64
	TotalFaktiskAvkastning              float64
	FaktiskVsForventetAvkastningProsent float64
}

// EnrichedRow is a transaction joined with the metrics of its loan.
// InnbetalteTerminer is a running count, so it differs between rows of the same loan.
type EnrichedRow struct {
	TransactionRecord
	LoanMetrics
	InnbetalteTerminer int
}
