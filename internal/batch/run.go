package batch

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/session"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index   int    `json:"index"`
	Status  string `json:"status"`
	Text    string `json:"text"`
	Passed  bool   `json:"passed"`
	Failure string `json:"failure,omitempty"`
}

// Report summarizes a run.
type Report struct {
	Name   string       `json:"name"`
	Steps  []StepResult `json:"steps"`
	Failed int          `json:"failed"`
	Saved  bool         `json:"saved"`
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return r.Failed == 0
}

// Run executes every step through sess.Calculate, in order, and persists
// the session afterwards when the script asks for it. A failed expectation
// does not stop the run.
func Run(ctx context.Context, sess *session.Session, s *Script) (*Report, error) {
	report := &Report{Name: s.Name}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		op, err := calc.ParseOp(st.Op)
		if err != nil {
			return report, fmt.Errorf("step %d: %w", i+1, err)
		}

		out := sess.Calculate(ctx, op, st.First, st.Second)
		res := StepResult{
			Index:  i + 1,
			Status: out.Status.String(),
			Text:   out.Message,
			Passed: true,
		}
		if out.OK() {
			res.Text = out.Description()
		}
		if failure := check(st.Expect, out); failure != "" {
			res.Passed = false
			res.Failure = failure
			report.Failed++
		}
		report.Steps = append(report.Steps, res)
	}

	if s.Save {
		if err := sess.Persist(); err != nil {
			return report, err
		}
		report.Saved = true
	}
	return report, nil
}

func check(exp *Expect, out calc.Outcome) string {
	if exp == nil {
		return ""
	}
	if exp.Status != "" && exp.Status != out.Status.String() {
		return fmt.Sprintf("expected status %s, got %s", exp.Status, out.Status)
	}
	if exp.Result != nil {
		if !out.OK() {
			return fmt.Sprintf("expected result %s, got %s", calc.FormatNumber(*exp.Result), out.Status)
		}
		if out.Result != *exp.Result {
			return fmt.Sprintf("expected result %s, got %s",
				calc.FormatNumber(*exp.Result), calc.FormatNumber(out.Result))
		}
	}
	return ""
}
