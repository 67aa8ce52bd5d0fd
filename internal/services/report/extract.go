package report

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kameo_report/internal/models"
)

var (
	// company, loan id, duration in months, interest rate with decimal comma
	headerPattern   = regexp.MustCompile(`^(.*?) - (\d+)\s+\| Løpetid: (\d+)[^|]+\| Rente: ([\d,]+)%`)
	txnStartPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\t`)

	nokReplacer = strings.NewReplacer(",", ".", "\u2212", "-", " ", "", "\u00a0", "", "\u202f", "")
)

const (
	dateLayout   = "2006-01-02"
	txnFieldsLen = 6
)

var ErrHeaderMismatch = errors.New("header does not match loan header format")

// Diagnostics collects what extraction dropped. It never affects the output rows.
type Diagnostics struct {
	Skips []models.Skip
}

func (d *Diagnostics) add(kind models.SkipKind, line int, text, reason string) {
	d.Skips = append(d.Skips, models.Skip{Kind: kind, Line: line, Text: text, Reason: reason})
}

// Count returns the number of skips of the given kind.
func (d Diagnostics) Count(kind models.SkipKind) int {
	n := 0
	for _, s := range d.Skips {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// ParseHeader parses a loan header line.
func ParseHeader(line string) (models.LoanHeader, error) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return models.LoanHeader{}, ErrHeaderMismatch
	}
	loanID, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return models.LoanHeader{}, fmt.Errorf("loan id %q: %w", m[2], err)
	}
	duration, err := strconv.Atoi(m[3])
	if err != nil {
		return models.LoanHeader{}, fmt.Errorf("duration %q: %w", m[3], err)
	}
	rate, err := strconv.ParseFloat(strings.ReplaceAll(m[4], ",", "."), 64)
	if err != nil {
		return models.LoanHeader{}, fmt.Errorf("interest rate %q: %w", m[4], err)
	}
	return models.LoanHeader{
		Company:        strings.TrimSpace(m[1]),
		LoanID:         loanID,
		DurationMonths: duration,
		InterestRate:   rate,
	}, nil
}

// IsTransactionLine reports whether line starts with a YYYY-MM-DD date and a tab.
func IsTransactionLine(line string) bool {
	return txnStartPattern.MatchString(line)
}

// ParseTransactionLine parses a tab separated transaction line for the loan h.
// Fields: date, type, amount, currency, unit price, amount in NOK.
func ParseTransactionLine(h models.LoanHeader, line string) (models.TransactionRecord, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != txnFieldsLen {
		return models.TransactionRecord{}, fmt.Errorf("expected %d fields, got %d", txnFieldsLen, len(parts))
	}
	date, err := time.Parse(dateLayout, parts[0])
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("date %q: %w", parts[0], err)
	}
	amount, err := parseNOK(parts[5])
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("amount_nok %q: %w", parts[5], err)
	}
	return models.TransactionRecord{
		LoanHeader:      h,
		Date:            date,
		TransactionType: models.TransactionType(strings.TrimSpace(parts[1])),
		AmountNOK:       amount,
	}, nil
}

// parseNOK reads amounts like "−2 000,00".
func parseNOK(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(nokReplacer.Replace(s)), 64)
}

// Extract parses every block of text. Blocks with a bad header and lines
// that fail to parse are dropped and reported in the diagnostics.
func Extract(text string) ([]models.TransactionRecord, Diagnostics) {
	var (
		records []models.TransactionRecord
		diag    Diagnostics
		first   = true
	)
	for block := range Segment(text) {
		if first {
			first = false
			notePreamble(&diag, text[:block.Offset])
		}
		lines := block.Lines()
		h, err := ParseHeader(lines[0])
		if err != nil {
			diag.add(models.SkipHeader, block.StartLine, lines[0], err.Error())
			continue
		}
		for i, line := range lines[1:] {
			if !IsTransactionLine(line) {
				continue
			}
			rec, err := ParseTransactionLine(h, line)
			if err != nil {
				diag.add(models.SkipLine, block.StartLine+1+i, line, err.Error())
				continue
			}
			records = append(records, rec)
		}
	}
	if first {
		notePreamble(&diag, text)
	}
	return records, diag
}

func notePreamble(diag *Diagnostics, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}
	diag.add(models.SkipPreamble, 1, firstLine(text), fmt.Sprintf("%d line(s) before the first loan header", lines))
}

func firstLine(text string) string {
	for line := range strings.Lines(strings.TrimLeft(text, "\r\n")) {
		return trimEOL(line)
	}
	return ""
}
