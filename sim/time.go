package sim

import (
	"log"
	"math"
)

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
)

// Period returns the time between two consecutive control steps.
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of steps passed since time 0.
func (f Freq) Cycle(time VTimeInSec) uint64 {
	return uint64(math.Round(float64(time) * float64(f)))
}

// FreqOf returns the frequency that matches a step size.
func FreqOf(stepSize VTimeInSec) Freq {
	if stepSize <= 0 {
		log.Panicf("step size must be positive, got %g", stepSize)
	}

	return Freq(1.0 / stepSize)
}

// StepsIn returns the number of whole steps of the given size that fit in a
// duration, rounded to the nearest step.
func StepsIn(duration, stepSize VTimeInSec) int {
	return int(math.Round(float64(duration) / float64(stepSize)))
}

// TimeEpsilon is the tolerance used when comparing simulated times.
const TimeEpsilon VTimeInSec = 1e-9
