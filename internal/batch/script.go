// Package batch runs YAML calculation scripts against a session.
//
// A script looks like:
//
//	name: monthly totals
//	save: true
//	steps:
//	  - {op: "+", first: 10, second: 5, expect: {result: 15}}
//	  - {op: "/", first: 1, second: 0, expect: {status: divide_by_zero}}
//
// Operands are kept as text so invalid input can be scripted too.
package batch

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/calc"
)

// Script is a parsed batch file.
type Script struct {
	Name  string `yaml:"name"`
	Save  bool   `yaml:"save,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step is one calculation.
type Step struct {
	Op     string  `yaml:"op"`
	First  string  `yaml:"first"`
	Second string  `yaml:"second"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect constrains a step's outcome. Empty fields are not checked.
type Expect struct {
	Status string   `yaml:"status,omitempty"`
	Result *float64 `yaml:"result,omitempty"`
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks operators and expected statuses up front so a script
// fails before any step runs.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script %q has no steps", s.Name)
	}
	for i, st := range s.Steps {
		if _, err := calc.ParseOp(st.Op); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.Expect != nil && st.Expect.Status != "" {
			if _, err := calc.ParseStatus(st.Expect.Status); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}
