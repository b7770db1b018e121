package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockRandomQueues(t *testing.T) {
	r := NewMockRandom()
	r.QueueIntn(1, 0)
	r.QueueIntRange(1234567)

	assert.Equal(t, 1, r.Intn(2))
	assert.Equal(t, 0, r.Intn(2))
	assert.Equal(t, 0, r.Intn(2), "exhausted queue")
	assert.Equal(t, 1234567, r.IntRange(1000001, 9999999))
	assert.Equal(t, 1000001, r.IntRange(1000001, 9999999), "exhausted queue")

	r.Reset()
	r.QueueIntn(1)
	assert.Equal(t, 1, r.Intn(2))
}

func TestMockClockStep(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now(), "zero step keeps the clock frozen")

	c.Step = time.Second
	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, 2*time.Second, c.Since(start))

	c.Advance(time.Minute)
	c.Set(start)
	assert.Zero(t, c.Since(start))
}
