package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/history"
)

// Form holds the settings as editable text, one field per key.
type Form map[string]string

// FormOf renders s as an editable form.
func FormOf(s Settings) Form {
	f := make(Form, 6)
	for _, kv := range s.Pairs() {
		f[kv[0]] = kv[1]
	}
	return f
}

// Set assigns a field from a "key=value" assignment.
func (f Form) Set(assignment string) error {
	key, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", assignment)
	}
	key = strings.TrimSpace(key)
	if _, known := f[key]; !known {
		return fmt.Errorf("unknown setting %q", key)
	}
	f[key] = strings.TrimSpace(value)
	return nil
}

// FieldError reports the first form field that failed validation.
type FieldError struct {
	Key     string
	Value   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Key, e.Message, e.Value)
}

// ParseForm validates every field of f. Any invalid field rejects the whole
// form. TotalCalculations must lie in [0, capacity].
func ParseForm(f Form, capacity int) (Settings, error) {
	var s Settings
	var err error

	raw := f[KeyLastCalculationDate]
	if s.LastCalculationDate, err = time.ParseInLocation(history.TimestampLayout, strings.TrimSpace(raw), time.Local); err != nil {
		return Settings{}, &FieldError{Key: KeyLastCalculationDate, Value: raw, Message: "invalid date format, use yyyy-MM-dd HH:mm:ss"}
	}

	raw = f[KeyTotalCalculations]
	if s.TotalCalculations, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil {
		return Settings{}, &FieldError{Key: KeyTotalCalculations, Value: raw, Message: "must be a valid integer"}
	}
	if s.TotalCalculations < 0 || s.TotalCalculations > capacity {
		return Settings{}, &FieldError{Key: KeyTotalCalculations, Value: raw, Message: fmt.Sprintf("must be between 0 and %d", capacity)}
	}

	raw = f[KeyMaxHistoryEntries]
	if s.MaxHistoryEntries, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil {
		return Settings{}, &FieldError{Key: KeyMaxHistoryEntries, Value: raw, Message: "must be a valid integer"}
	}

	numbers := []struct {
		key string
		dst *float64
	}{
		{KeyFirstNumber, &s.FirstNumber},
		{KeySecondNumber, &s.SecondNumber},
		{KeyLastResult, &s.LastResult},
	}
	for _, n := range numbers {
		raw = f[n.key]
		if *n.dst, err = calc.ParseNumber(raw); err != nil {
			return Settings{}, &FieldError{Key: n.key, Value: raw, Message: "must be a valid number"}
		}
	}

	return s, nil
}
