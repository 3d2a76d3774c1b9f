package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Advances(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c := NewDeterministicClock(start, time.Minute)

	assert.True(t, c.Now().Equal(start))
	assert.True(t, c.Now().Equal(start.Add(time.Minute)))
	assert.True(t, c.Current().Equal(start.Add(2*time.Minute)))
}

func TestDeterministicClock_Reset(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c := NewDeterministicClock(start, time.Minute)

	c.Now()
	c.Reset(start)
	assert.True(t, c.Now().Equal(start))
}
