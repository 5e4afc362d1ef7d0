package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/screwyprof/mixdelegator/pkg/clock"
)

type frozenClock struct {
	now time.Time
}

func (f frozenClock) After(time.Duration) <-chan time.Time { return nil }
func (f frozenClock) Now() time.Time                        { return f.now }

func TestSince(t *testing.T) {
	t.Parallel()

	t.Run("it measures elapsed time against the given clock", func(t *testing.T) {
		t.Parallel()

		// Arrange
		start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		c := frozenClock{now: start.Add(90 * time.Second)}

		// Act
		elapsed := clock.Since(c, start)

		// Assert
		assert.Equal(t, 90*time.Second, elapsed)
	})

	t.Run("it fires after the requested duration on the system clock", func(t *testing.T) {
		t.Parallel()

		// Arrange
		c := clock.SystemClock{}
		before := c.Now()

		// Act
		fired := <-c.After(time.Millisecond)

		// Assert
		assert.False(t, fired.Before(before))
	})
}
