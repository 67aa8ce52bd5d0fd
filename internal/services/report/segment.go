// Package report turns a Kameo investment export into a per-transaction
// ledger and a per-lender summary. It does no I/O and does not log.
package report

import (
	"iter"
	"regexp"
	"strings"
)

// A loan block starts on a line shaped like "BFM 8 AS - 4481 | Løpetid: 26 m | ...".
var blockStartPattern = regexp.MustCompile(`^[\p{L}\p{N}_].+ - \d+ \| Løpetid`)

// Block is the text of one loan, from its header line up to the next header.
type Block struct {
	Text      string
	StartLine int // 1-based line number of the header
	Offset    int // byte offset of the header in the source text
}

// Lines splits the block into lines without their terminators.
func (b Block) Lines() []string {
	var out []string
	for line := range strings.Lines(b.Text) {
		out = append(out, trimEOL(line))
	}
	return out
}

// Segment yields one Block per loan header found at the start of a line.
// Text before the first header belongs to no block.
func Segment(text string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		var (
			cur    strings.Builder
			open   bool
			start  int
			offset int
			lineNo int
			pos    int
		)
		for line := range strings.Lines(text) {
			lineNo++
			if blockStartPattern.MatchString(trimEOL(line)) {
				if open && !yield(Block{Text: cur.String(), StartLine: start, Offset: offset}) {
					return
				}
				cur.Reset()
				open, start, offset = true, lineNo, pos
			}
			if open {
				cur.WriteString(line)
			}
			pos += len(line)
		}
		if open {
			yield(Block{Text: cur.String(), StartLine: start, Offset: offset})
		}
	}
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}
