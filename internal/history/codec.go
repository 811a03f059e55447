package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/roach88/tally/internal/calc"
)

// Header is the first line of a history file.
const Header = "Index, Operation, Result"

// headerToken must appear somewhere in the first line of a valid file.
const headerToken = "Index"

// ErrInvalidFormat is returned by Decode when the header line is missing
// or does not contain "Index".
var ErrInvalidFormat = errors.New("invalid history file format")

// Encode writes the populated slots of s in the history text format.
func Encode(w io.Writer, s *Store) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	for i, r := range s.Records() {
		if _, err := fmt.Fprintf(bw, "%d, %s, %s\n", i+1, r.Description, calc.FormatNumber(r.Result)); err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}

// Marshal returns the history text for s.
func Marshal(s *Store) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = Encode(&buf, s)
	return buf.Bytes()
}

// Decode reads history text from r into s and returns the new count.
//
// An invalid header leaves s untouched and returns ErrInvalidFormat.
// Otherwise the count is reset to 0 before any row is read, so a read error
// part way through leaves only the rows decoded so far. Rows with fewer than
// three fields or an unparsable result are skipped. Reading stops once the
// store is full.
func Decode(r io.Reader, s *Store) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return s.count, fmt.Errorf("decode history: %w", err)
		}
		return s.count, ErrInvalidFormat
	}
	if !strings.Contains(sc.Text(), headerToken) {
		return s.count, ErrInvalidFormat
	}

	s.count = 0
	for s.count < len(s.slots) && sc.Scan() {
		rec, ok := parseRow(sc.Text())
		if !ok {
			continue
		}
		s.slots[s.count] = rec
		s.count++
	}
	if err := sc.Err(); err != nil {
		return s.count, fmt.Errorf("decode history: %w", err)
	}
	return s.count, nil
}

// Unmarshal decodes history text held in memory.
func Unmarshal(data []byte, s *Store) (int, error) {
	return Decode(bytes.NewReader(data), s)
}

func parseRow(line string) (Record, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return Record{}, false
	}
	result, err := calc.ParseNumber(parts[2])
	if err != nil {
		return Record{}, false
	}
	return Record{Result: result, Description: strings.TrimSpace(parts[1])}, true
}
