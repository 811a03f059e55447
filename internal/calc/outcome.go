package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Status tags the result of Evaluate.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidOperand
	StatusDivideByZero
	StatusOverflow
)

var statusNames = map[Status]string{
	StatusOK:             "ok",
	StatusInvalidOperand: "invalid_operand",
	StatusDivideByZero:   "divide_by_zero",
	StatusOverflow:       "overflow",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Outcome is the tagged result of one calculation.
// First, Second and Result are only meaningful when Status is StatusOK.
type Outcome struct {
	Status  Status
	Op      Op
	First   float64
	Second  float64
	Result  float64
	Message string
}

// OK reports whether the calculation succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// Description renders the calculation as "a sym b = r".
func (o Outcome) Description() string {
	return fmt.Sprintf("%s %s %s = %s",
		FormatNumber(o.First), o.Op.Symbol(), FormatNumber(o.Second), FormatNumber(o.Result))
}

// Err returns nil for a successful outcome and an *Error otherwise.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &Error{Status: o.Status, Message: o.Message}
}

// Error carries a failed Outcome through error-returning call paths.
type Error struct {
	Status  Status
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// StatusOf extracts the Status from an error produced by Outcome.Err.
// Errors of any other kind report ok=false.
func StatusOf(err error) (Status, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status, true
	}
	return 0, false
}

const (
	msgFirstInvalid  = "first number is invalid, please enter a valid number"
	msgSecondInvalid = "second number is invalid, please enter a valid number"
	msgDivideByZero  = "cannot divide by zero, please enter a non-zero second number"
	msgOverflow      = "calculation result is too large"
	msgUnknownOp     = "unknown operation"
)

// Evaluate parses both operands and applies op.
// Nothing is evaluated unless both operands are valid numbers, and Divide
// is never reached with a zero divisor.
func Evaluate(op Op, first, second string) Outcome {
	if !op.Valid() {
		return Outcome{Status: StatusInvalidOperand, Op: op, Message: msgUnknownOp}
	}

	a, st := parseOperand(first)
	if st != StatusOK {
		return failed(op, st, msgFirstInvalid)
	}
	b, st := parseOperand(second)
	if st != StatusOK {
		return failed(op, st, msgSecondInvalid)
	}

	if op == OpDivide && b == 0 {
		return Outcome{Status: StatusDivideByZero, Op: op, Message: msgDivideByZero}
	}

	r := op.Apply(a, b)
	if math.IsInf(r, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		return Outcome{Status: StatusOverflow, Op: op, Message: msgOverflow}
	}

	return Outcome{Status: StatusOK, Op: op, First: a, Second: b, Result: r}
}

func failed(op Op, st Status, invalidMsg string) Outcome {
	if st == StatusOverflow {
		return Outcome{Status: st, Op: op, Message: msgOverflow}
	}
	return Outcome{Status: st, Op: op, Message: invalidMsg}
}

func parseOperand(s string) (float64, Status) {
	v, err := ParseNumber(s)
	if err == nil {
		return v, StatusOK
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, StatusOverflow
	}
	return 0, StatusInvalidOperand
}
