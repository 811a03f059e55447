// Package settings reads and writes the flat key=value settings file.
//
// Encode always writes the six keys in a fixed order. Parse is shared by the
// silent and interactive load paths and only ever consults LastResult and
// TotalCalculations; the other keys are written for the user's benefit.
package settings

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/history"
)

// Keys in the order Encode writes them.
const (
	KeyLastCalculationDate = "LastCalculationDate"
	KeyTotalCalculations   = "TotalCalculations"
	KeyMaxHistoryEntries   = "MaxHistoryEntries"
	KeyFirstNumber         = "FirstNumber"
	KeySecondNumber        = "SecondNumber"
	KeyLastResult          = "LastResult"
)

// Settings is the full settings record.
type Settings struct {
	LastCalculationDate time.Time `json:"last_calculation_date"`
	TotalCalculations   int       `json:"total_calculations"`
	MaxHistoryEntries   int       `json:"max_history_entries"`
	FirstNumber         float64   `json:"first_number"`
	SecondNumber        float64   `json:"second_number"`
	LastResult          float64   `json:"last_result"`
}

// Pairs returns the key/value strings in file order.
func (s Settings) Pairs() [][2]string {
	return [][2]string{
		{KeyLastCalculationDate, s.LastCalculationDate.Format(history.TimestampLayout)},
		{KeyTotalCalculations, strconv.Itoa(s.TotalCalculations)},
		{KeyMaxHistoryEntries, strconv.Itoa(s.MaxHistoryEntries)},
		{KeyFirstNumber, calc.FormatNumber(s.FirstNumber)},
		{KeySecondNumber, calc.FormatNumber(s.SecondNumber)},
		{KeyLastResult, calc.FormatNumber(s.LastResult)},
	}
}

// Encode writes one key=value line per field.
func Encode(w io.Writer, s Settings) error {
	bw := bufio.NewWriter(w)
	for _, kv := range s.Pairs() {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", kv[0], kv[1]); err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}

// Marshal returns the settings text for s.
func Marshal(s Settings) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = Encode(&buf, s)
	return buf.Bytes()
}
