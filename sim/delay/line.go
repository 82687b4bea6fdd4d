// Package delay provides ring-buffered delay lines that hold sensor and
// actuator samples for a fixed number of control steps.
package delay

import (
	"log"

	"github.com/sarchlab/neurosim/sim"
)

// A Line stores the recent history of a number of channels that all share the
// same delay. The line advances once per control step. Reads return the value
// that was written exactly Delay() advances earlier.
type Line struct {
	delay       int
	numChannels int
	slots       [][]float64
	cursor      int
}

// NewLine creates a line whose reads lag its writes by delay advances.
func NewLine(delay int) *Line {
	if delay < 0 {
		log.Panicf("delay line cannot have a negative delay %d", delay)
	}

	return &Line{
		delay: delay,
		slots: make([][]float64, delay+1),
	}
}

// Delay returns the number of advances between a write and its read.
func (l *Line) Delay() int {
	return l.delay
}

// NumChannels returns the number of channels registered in the line.
func (l *Line) NumChannels() int {
	return l.numChannels
}

// AddChannel registers a new zero-filled channel and returns its index.
func (l *Line) AddChannel() int {
	for i := range l.slots {
		l.slots[i] = append(l.slots[i], 0)
	}

	l.numChannels++

	return l.numChannels - 1
}

// Advance moves the write cursor to the next slot.
func (l *Line) Advance() {
	l.cursor = (l.cursor + 1) % len(l.slots)
}

// Write sets the value of a channel in the current slot.
func (l *Line) Write(i int, v float64) {
	l.mustHaveChannel(i)
	l.slots[l.cursor][i] = v
}

// Add accumulates a value into a channel in the current slot.
func (l *Line) Add(i int, v float64) {
	l.mustHaveChannel(i)
	l.slots[l.cursor][i] += v
}

// Current returns the value of a channel in the current slot.
func (l *Line) Current(i int) float64 {
	l.mustHaveChannel(i)
	return l.slots[l.cursor][i]
}

// Read returns the value of a channel written Delay() advances ago.
func (l *Line) Read(i int) float64 {
	l.mustHaveChannel(i)
	return l.slots[(l.cursor+1)%len(l.slots)][i]
}

// ClearCurrent zeroes a channel in the current slot.
func (l *Line) ClearCurrent(i int) {
	l.mustHaveChannel(i)
	l.slots[l.cursor][i] = 0
}

// ClearAllCurrent zeroes every channel in the current slot.
func (l *Line) ClearAllCurrent() {
	clear(l.slots[l.cursor])
}

// Reset zeroes the full history and rewinds the cursor. Registered channels
// are kept.
func (l *Line) Reset() {
	for _, s := range l.slots {
		clear(s)
	}

	l.cursor = 0
}

func (l *Line) mustHaveChannel(i int) {
	if i < 0 || i >= l.numChannels {
		sim.AssertionPanic(
			"channel %d is not registered in a delay line with %d channels",
			i, l.numChannels)
	}
}
