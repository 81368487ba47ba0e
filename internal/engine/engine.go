// Package engine provides the tick-based simulation loop, the strategy
// selector, the bilateral negotiation protocol, and the simulation
// aggregate that wires citizens, field, and market together.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Engine drives the simulation forward at a fixed sim-seconds-per-tick
// rate. Wall-clock pacing is adjustable; sim time is not.
type Engine struct {
	Tick     uint64        // current tick counter (monotonic)
	Dt       float64       // sim-seconds advanced per tick
	Speed    float64       // wall-clock multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // wall-clock interval of one tick at speed 1
	Running  bool

	// OnTick runs every tick with the tick number and sim-time delta.
	OnTick func(tick uint64, dt float64)
}

// NewEngine creates an engine advancing dt sim-seconds per tick.
func NewEngine(dt float64) *Engine {
	return &Engine{
		Dt:       dt,
		Speed:    1.0,
		Interval: time.Duration(dt * float64(time.Second)),
	}
}

// Run starts the simulation loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "dt", e.Dt, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

func (e *Engine) step() {
	e.Tick++
	if e.OnTick != nil {
		e.OnTick(e.Tick, e.Dt)
	}
}

// SimTime renders a sim-seconds clock as a human-readable duration.
func SimTime(seconds float64) string {
	total := int64(seconds)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
