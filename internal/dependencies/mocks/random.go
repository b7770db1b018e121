package mocks

import (
	"github.com/mcoot/tourney/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Each method
// pops from its own queue; an exhausted queue yields the lowest legal value.
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// RangeResults is a queue of results to return from IntRange
	RangeResults []int
	rangeIndex   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// IntRange returns the next queued result, or min if none remaining
func (r *MockRandom) IntRange(min, max int) int {
	if r.rangeIndex >= len(r.RangeResults) {
		return min
	}
	result := r.RangeResults[r.rangeIndex]
	r.rangeIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueIntRange adds values to the IntRange result queue
func (r *MockRandom) QueueIntRange(values ...int) {
	r.RangeResults = append(r.RangeResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.RangeResults = nil
	r.rangeIndex = 0
}
