package history

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tally/internal/calc"
)

// GridRow is one row submitted by a history editor. Both cells are raw text;
// an empty cell marks a row the editor left blank.
type GridRow struct {
	Operation string `json:"operation" yaml:"operation"`
	Result    string `json:"result" yaml:"result"`
}

// RowError reports a grid row whose result cell is not a number.
type RowError struct {
	Row   int // 1-based
	Value string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("invalid number format in row %d: %q", e.Row, e.Value)
}

// ParseGrid turns editor rows into records.
//
// Rows with an empty cell are skipped. The first row whose result does not
// parse aborts the whole edit with a *RowError. At most capacity records are
// accepted; later rows are ignored.
func ParseGrid(rows []GridRow, capacity int) ([]Record, error) {
	var out []Record
	for i, row := range rows {
		if len(out) >= capacity {
			break
		}
		if strings.TrimSpace(row.Operation) == "" || strings.TrimSpace(row.Result) == "" {
			continue
		}
		result, err := calc.ParseNumber(row.Result)
		if err != nil {
			return nil, &RowError{Row: i + 1, Value: row.Result}
		}
		out = append(out, Record{
			Result:      result,
			Description: norm.NFC.String(row.Operation),
		})
	}
	return out, nil
}

// ApplyGrid validates rows with ParseGrid and bulk-replaces the store with
// the accepted records. On error the store is unchanged.
func (s *Store) ApplyGrid(rows []GridRow) (int, error) {
	records, err := ParseGrid(rows, len(s.slots))
	if err != nil {
		return s.count, err
	}
	if err := s.Replace(records, len(records)); err != nil {
		return s.count, err
	}
	return s.count, nil
}

// Grid renders the populated slots as editor rows.
func (s *Store) Grid() []GridRow {
	records := s.Records()
	rows := make([]GridRow, len(records))
	for i, r := range records {
		rows[i] = GridRow{Operation: r.Description, Result: calc.FormatNumber(r.Result)}
	}
	return rows
}

// Preview renders up to n populated records as
// "i. <description> (Result: <r>)".
func (s *Store) Preview(n int) []string {
	records := s.Records()
	if n < len(records) {
		records = records[:n]
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("%d. %s (Result: %s)", i+1, r.Description, calc.FormatNumber(r.Result))
	}
	return lines
}
