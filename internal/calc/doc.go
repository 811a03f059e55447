// Package calc implements the arithmetic evaluator behind tally.
//
// The four operations are plain float64 functions. Evaluate is the calling
// flow used by every front end: it parses the two operands, rejects division
// by exactly zero before Divide is reached, and reports the result as a
// tagged Outcome instead of an error value.
//
// Outcome statuses:
//   - StatusOK: the calculation produced a result
//   - StatusInvalidOperand: an operand is not a number
//   - StatusDivideByZero: the second operand of a division is zero
//   - StatusOverflow: finite operands produced an infinite result
//
// Numbers are rendered with FormatNumber, which is locale independent and
// never truncates precision.
package calc
