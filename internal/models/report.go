package models

import "time"

// LenderSummaryRow aggregates the loans of one (company, status) pair.
type LenderSummaryRow struct {
	Company                             string
	Status                              LoanStatus
	SisteTransaksjonsdato               time.Time
	AntallLaan                          int
	GjennomsnittligRente                float64
	ForventetRenteinntekt               float64
	NettoRenteinntekt                   float64
	Tildeling                           float64
	Tilbakebetalt                       float64
	TotalForventetAvkastning            float64
	TotalFaktiskAvkastning              float64
	RenterUtestaaende                   float64
	NettoVsForventetRenteinntektProsent float64
	FaktiskVsForventetAvkastningProsent float64

	// AmountByType sums the raw amount_nok per transaction type. The four
	// known types are always present.
	AmountByType map[TransactionType]float64
}

// Amount returns the pivot total for t, zero when the type was never seen.
func (r LenderSummaryRow) Amount(t TransactionType) float64 {
	return r.AmountByType[t]
}

// NetInterest is the pivot sum of late-payment interest and ordinary interest.
func (r LenderSummaryRow) NetInterest() float64 {
	return r.Amount(TxnForsinkelsesrente) + r.Amount(TxnRenteinntekt)
}

type SkipKind string

const (
	SkipPreamble SkipKind = "preamble"
	SkipHeader   SkipKind = "header"
	SkipLine     SkipKind = "line"
)

// Skip describes one piece of source text that was dropped during extraction.
type Skip struct {
	Kind   SkipKind `json:"kind" bson:"kind"`
	Line   int      `json:"line" bson:"line"`
	Text   string   `json:"text" bson:"text"`
	Reason string   `json:"reason" bson:"reason"`
}

// Report is the full output of one pipeline run.
type Report struct {
	Transactions []EnrichedRow
	Lenders      []LenderSummaryRow
	Skips        []Skip
}
