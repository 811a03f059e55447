package history

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fill appends n records whose result equals their 1-based sequence number.
func fill(t *testing.T, s *Store, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		s.Append(float64(i), fmt.Sprintf("calc %d", i))
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultCapacity, s.Capacity())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Records())

	assert.Equal(t, 7, New(7).Capacity())
}

func TestAppend_UpToCapacity(t *testing.T) {
	s := New(DefaultCapacity)
	for n := 1; n <= DefaultCapacity; n++ {
		s.Append(float64(n), fmt.Sprintf("calc %d", n))
		require.Equal(t, n, s.Count())
	}

	records := s.Records()
	require.Len(t, records, DefaultCapacity)
	for i, r := range records {
		assert.Equal(t, float64(i+1), r.Result)
		assert.Equal(t, fmt.Sprintf("calc %d", i+1), r.Description)
	}
	assert.True(t, s.Full())
}

func TestAppend_WrapsToSlotZero(t *testing.T) {
	s := New(DefaultCapacity)
	fill(t, s, DefaultCapacity)

	s.Append(99, "newest")

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, []Record{{Result: 99, Description: "newest"}}, s.Records())

	// Slots from the previous cycle are left as they were.
	for i := 1; i < DefaultCapacity; i++ {
		r, err := s.Slot(i)
		require.NoError(t, err)
		assert.Equal(t, float64(i+1), r.Result)
	}
}

func TestAppend_AcceptsNonFinite(t *testing.T) {
	s := New(3)
	s.Append(math.Inf(1), "")
	s.Append(math.NaN(), "nan")

	records := s.Records()
	require.Len(t, records, 2)
	assert.True(t, math.IsInf(records[0].Result, 1))
	assert.True(t, math.IsNaN(records[1].Result))
}

func TestRecords_ReturnsCopy(t *testing.T) {
	s := New(3)
	s.Append(1, "one")

	records := s.Records()
	records[0].Description = "changed"

	assert.Equal(t, "one", s.Records()[0].Description)
}

func TestSlot_OutOfRange(t *testing.T) {
	s := New(3)
	_, err := s.Slot(3)
	assert.Error(t, err)
	_, err = s.Slot(-1)
	assert.Error(t, err)
}

func TestReplace(t *testing.T) {
	s := New(5)
	fill(t, s, 4)

	err := s.Replace([]Record{{Result: 10, Description: "a"}, {Result: 20, Description: "b"}}, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []Record{{Result: 10, Description: "a"}, {Result: 20, Description: "b"}}, s.Records())

	// Slots beyond the new count keep their contents.
	r, err := s.Slot(2)
	require.NoError(t, err)
	assert.Equal(t, Record{Result: 3, Description: "calc 3"}, r)
}

func TestReplace_Bounds(t *testing.T) {
	s := New(2)
	fill(t, s, 1)

	err := s.Replace(make([]Record, 3), 3)
	require.ErrorIs(t, err, ErrCapacity)

	err = s.Replace(nil, -1)
	require.ErrorIs(t, err, ErrCapacity)

	err = s.Replace([]Record{{Result: 1}}, 2)
	require.Error(t, err)

	assert.Equal(t, 1, s.Count())
}

func TestSetCount_ExposesStaleSlots(t *testing.T) {
	s := New(4)
	fill(t, s, 4)
	s.Append(5, "calc 5")
	require.Equal(t, 1, s.Count())

	require.NoError(t, s.SetCount(3))
	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "calc 5", records[0].Description)
	assert.Equal(t, "calc 2", records[1].Description)
	assert.Equal(t, "calc 3", records[2].Description)

	assert.ErrorIs(t, s.SetCount(5), ErrCapacity)
}
