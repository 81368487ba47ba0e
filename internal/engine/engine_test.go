package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngineRunsTicks(t *testing.T) {
	e := NewEngine(1)
	e.Interval = time.Millisecond
	e.Speed = 10

	var ticks []uint64
	e.OnTick = func(tick uint64, dt float64) {
		ticks = append(ticks, tick)
		assert.InDelta(t, 1, dt, 1e-9)
		if tick >= 5 {
			e.Stop()
		}
	}

	e.Run()
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, ticks)
	assert.False(t, e.Running)
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "0m00s", SimTime(0))
	assert.Equal(t, "1m05s", SimTime(65.4))
	assert.Equal(t, "2h03m09s", SimTime(2*3600+189))
}
