package history

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the number of slots in a Store created with New(0).
const DefaultCapacity = 50

// ErrCapacity is returned when a bulk operation names more slots than the
// store has.
var ErrCapacity = errors.New("history capacity exceeded")

// Record is one recorded calculation.
type Record struct {
	Result      float64 `json:"result" yaml:"result"`
	Description string  `json:"description" yaml:"description"`
}

// Store is the fixed-capacity history buffer.
// The zero value is not usable; create stores with New.
type Store struct {
	slots []Record
	count int
}

// New creates an empty store with the given capacity.
// A capacity <= 0 selects DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{slots: make([]Record, capacity)}
}

// Capacity returns the number of slots.
func (s *Store) Capacity() int {
	return len(s.slots)
}

// Count returns the number of populated slots.
func (s *Store) Count() int {
	return s.count
}

// Append records a calculation. Once the store is full the next append
// restarts at slot 0; see the package documentation.
func (s *Store) Append(result float64, description string) {
	if s.count >= len(s.slots) {
		s.count = 0
	}
	s.slots[s.count] = Record{Result: result, Description: description}
	s.count++
}

// Records returns a copy of the populated slots [0, Count()).
func (s *Store) Records() []Record {
	out := make([]Record, s.count)
	copy(out, s.slots[:s.count])
	return out
}

// Slot returns the record in slot i regardless of Count, including stale
// records left behind by a wraparound.
func (s *Store) Slot(i int) (Record, error) {
	if i < 0 || i >= len(s.slots) {
		return Record{}, fmt.Errorf("slot %d out of range [0, %d)", i, len(s.slots))
	}
	return s.slots[i], nil
}

// Replace overwrites slots [0, n) with records[:n] and sets the count to n.
// Slots at or beyond n keep their current contents.
func (s *Store) Replace(records []Record, n int) error {
	if n < 0 || n > len(s.slots) {
		return fmt.Errorf("replace %d records: %w (capacity %d)", n, ErrCapacity, len(s.slots))
	}
	if n > len(records) {
		return fmt.Errorf("replace %d records: only %d supplied", n, len(records))
	}
	copy(s.slots[:n], records[:n])
	s.count = n
	return nil
}

// SetCount changes how many slots are considered populated without
// touching their contents.
func (s *Store) SetCount(n int) error {
	if n < 0 || n > len(s.slots) {
		return fmt.Errorf("set count %d: %w (capacity %d)", n, ErrCapacity, len(s.slots))
	}
	s.count = n
	return nil
}

// Full reports whether the next Append will wrap around to slot 0.
func (s *Store) Full() bool {
	return s.count >= len(s.slots)
}
