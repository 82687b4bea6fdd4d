package delay

import (
	"slices"

	"github.com/sarchlab/neurosim/sim"
)

// SampleCount converts a two-way neural delay into the number of control steps
// of one-way latency. The result is at least one.
func SampleCount(delay, stepSize sim.VTimeInSec) int {
	if stepSize <= 0 {
		sim.AssertionPanic("step size must be positive, got %g", stepSize)
	}

	n := sim.StepsIn(delay/2, stepSize)
	if n < 1 {
		return 1
	}

	return n
}

// lineSet keeps one line per latency. A channel that is read n steps after
// it is written lives in a line with a lag of n-1, because the group reads one
// step after it writes.
type lineSet struct {
	lines  map[int]*Line
	counts []int
}

func (s *lineSet) lineFor(n int) *Line {
	if s.lines == nil {
		s.lines = make(map[int]*Line)
	}

	if l, ok := s.lines[n]; ok {
		return l
	}

	l := NewLine(n - 1)
	s.lines[n] = l

	pos, _ := slices.BinarySearch(s.counts, n)
	s.counts = slices.Insert(s.counts, pos, n)

	return l
}

func (s *lineSet) each(fn func(*Line)) {
	for _, n := range s.counts {
		fn(s.lines[n])
	}
}

func (s *lineSet) len() int {
	return len(s.counts)
}
