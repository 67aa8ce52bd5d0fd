package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the header row and every data row of t.
func WriteCSV(out io.Writer, t Table) error {
	w := csv.NewWriter(out)

	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range rec {
			rec[j] = ""
			if j < len(row) {
				rec[j] = cellText(row[j])
			}
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}
