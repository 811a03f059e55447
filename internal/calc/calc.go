package calc

import (
	"fmt"
	"strings"
)

// Op identifies one of the four arithmetic operations.
type Op int

const (
	OpAdd Op = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
)

var opNames = map[Op]string{
	OpAdd:      "add",
	OpSubtract: "subtract",
	OpMultiply: "multiply",
	OpDivide:   "divide",
}

// Display symbols used in history descriptions.
var opSymbols = map[Op]string{
	OpAdd:      "+",
	OpSubtract: "−",
	OpMultiply: "×",
	OpDivide:   "÷",
}

var opAliases = map[string]Op{
	"+": OpAdd, "add": OpAdd, "plus": OpAdd,
	"-": OpSubtract, "−": OpSubtract, "sub": OpSubtract, "subtract": OpSubtract, "minus": OpSubtract,
	"*": OpMultiply, "x": OpMultiply, "×": OpMultiply, "mul": OpMultiply, "multiply": OpMultiply, "times": OpMultiply,
	"/": OpDivide, "÷": OpDivide, "div": OpDivide, "divide": OpDivide,
}

// String returns the lower-case operation name.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Symbol returns the glyph used when describing a calculation.
func (o Op) Symbol() string {
	return opSymbols[o]
}

// Valid reports whether o is one of the four known operations.
func (o Op) Valid() bool {
	_, ok := opNames[o]
	return ok
}

// ParseOp accepts an operator symbol or name, case-insensitively.
func ParseOp(s string) (Op, error) {
	op, ok := opAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown operation %q", s)
	}
	return op, nil
}

// Apply computes a <op> b without any validation.
func (o Op) Apply(a, b float64) float64 {
	switch o {
	case OpAdd:
		return Add(a, b)
	case OpSubtract:
		return Subtract(a, b)
	case OpMultiply:
		return Multiply(a, b)
	case OpDivide:
		return Divide(a, b)
	}
	panic(fmt.Sprintf("calc: apply of invalid %s", o))
}

func Add(a, b float64) float64 {
	return a + b
}

func Subtract(a, b float64) float64 {
	return a - b
}

func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a / b. A zero divisor is not guarded here; Evaluate checks
// it before calling.
func Divide(a, b float64) float64 {
	return a / b
}
