// Package storage keeps labelled channels of samples, one frame per point in
// simulated time.
package storage

import (
	"sort"

	"github.com/sarchlab/neurosim/sim"
)

// A Frame holds the values of all channels at one point in time.
type Frame struct {
	store  *Storage
	time   sim.VTimeInSec
	values []float64
}

// Time returns the time of the frame.
func (f *Frame) Time() sim.VTimeInSec {
	return f.time
}

// Set writes a value by label, adding the channel when it does not exist yet.
func (f *Frame) Set(label string, v float64) {
	idx, ok := f.store.index[label]
	if !ok {
		idx = f.store.AddChannel(label)
	}

	f.values[idx] = v
}

// SetValue writes a value by channel index.
func (f *Frame) SetValue(channel int, v float64) {
	f.values[channel] = v
}

// Get reads a value by label.
func (f *Frame) Get(label string) (float64, bool) {
	idx, ok := f.store.index[label]
	if !ok {
		return 0, false
	}

	return f.values[idx], true
}

// Value reads a value by channel index.
func (f *Frame) Value(channel int) float64 {
	return f.values[channel]
}

// Values returns the values of the frame in channel order.
func (f *Frame) Values() []float64 {
	return f.values
}

// Storage is a table of frames ordered by time.
type Storage struct {
	labels []string
	index  map[string]int
	frames []*Frame
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{index: make(map[string]int)}
}

// AddChannel appends a channel and returns its index. Existing frames get a
// zero value. A label that already exists gets a new channel all the same;
// label lookups resolve to the first one.
func (s *Storage) AddChannel(label string) int {
	idx := len(s.labels)
	s.labels = append(s.labels, label)

	if _, ok := s.index[label]; !ok {
		s.index[label] = idx
	}

	for _, f := range s.frames {
		f.values = append(f.values, 0)
	}

	return idx
}

// ChannelIndex finds a channel by label.
func (s *Storage) ChannelIndex(label string) (int, bool) {
	idx, ok := s.index[label]
	return idx, ok
}

// Labels returns the channel labels in order.
func (s *Storage) Labels() []string {
	return s.labels
}

// ChannelCount returns the number of channels.
func (s *Storage) ChannelCount() int {
	return len(s.labels)
}

// AddFrame appends a zero-filled frame. Frames must be added in increasing
// time order.
func (s *Storage) AddFrame(t sim.VTimeInSec) *Frame {
	if n := len(s.frames); n > 0 && t <= s.frames[n-1].time {
		sim.AssertionPanic("frame at %g added after frame at %g",
			t, s.frames[n-1].time)
	}

	f := &Frame{
		store:  s,
		time:   t,
		values: make([]float64, len(s.labels)),
	}
	s.frames = append(s.frames, f)

	return f
}

// IsEmpty checks if no frame has been added.
func (s *Storage) IsEmpty() bool {
	return len(s.frames) == 0
}

// FrameCount returns the number of frames.
func (s *Storage) FrameCount() int {
	return len(s.frames)
}

// Frame returns the frame at an index.
func (s *Storage) Frame(i int) *Frame {
	return s.frames[i]
}

// Back returns the newest frame, or nil when empty.
func (s *Storage) Back() *Frame {
	if len(s.frames) == 0 {
		return nil
	}

	return s.frames[len(s.frames)-1]
}

// LastFrameAtOrBefore returns the index of the newest frame whose time is not
// after t, or -1 if there is none.
func (s *Storage) LastFrameAtOrBefore(t sim.VTimeInSec) int {
	limit := t + sim.TimeEpsilon

	return sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].time > limit
	}) - 1
}

// EraseFramesBefore drops every frame older than t.
func (s *Storage) EraseFramesBefore(t sim.VTimeInSec) {
	n := sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].time >= t-sim.TimeEpsilon
	})

	if n == 0 {
		return
	}

	s.frames = append(s.frames[:0], s.frames[n:]...)
}

// ClearData drops all frames and keeps the channels.
func (s *Storage) ClearData() {
	s.frames = nil
}

// Clear drops all frames and channels.
func (s *Storage) Clear() {
	s.frames = nil
	s.labels = nil
	s.index = make(map[string]int)
}
