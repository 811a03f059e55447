package settings

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/tally/internal/calc"
)

// Update is the partial result of parsing a settings file. Nil fields were
// absent or rejected.
type Update struct {
	LastResult        *float64
	TotalCalculations *int
}

// Empty reports whether the update carries no fields.
func (u Update) Empty() bool {
	return u.LastResult == nil && u.TotalCalculations == nil
}

// Parse reads settings text and extracts the fields the calculator restores.
//
// A line is considered only when splitting it on "=" yields exactly two
// parts, so a value containing "=" disqualifies its line. LastResult must be
// a number. TotalCalculations must be an integer in [1, capacity]. Every
// other line is ignored. Only read errors are returned.
func Parse(r io.Reader, capacity int) (Update, error) {
	var u Update
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), "=")
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case KeyLastResult:
			if v, err := calc.ParseNumber(value); err == nil {
				u.LastResult = &v
			}
		case KeyTotalCalculations:
			if v, err := strconv.Atoi(value); err == nil && v > 0 && v <= capacity {
				u.TotalCalculations = &v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return u, fmt.Errorf("parse settings: %w", err)
	}
	return u, nil
}

// ParseBytes parses settings text held in memory.
func ParseBytes(data []byte, capacity int) (Update, error) {
	return Parse(bytes.NewReader(data), capacity)
}
