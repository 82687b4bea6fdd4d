// Package history reads sensor values back from a shared time-frame storage,
// so that a sensor can be read at any delay chosen at run time.
package history

import (
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// Sensor is a named source of samples.
type Sensor interface {
	Name() string
	Value() float64
}

// An Adapter binds a sensor to one channel of a storage.
type Adapter struct {
	storage *storage.Storage
	sensor  Sensor
	channel int
}

// NewAdapter adds a channel for the sensor to the storage.
func NewAdapter(st *storage.Storage, s Sensor) *Adapter {
	return &Adapter{
		storage: st,
		sensor:  s,
		channel: st.AddChannel(s.Name()),
	}
}

// Sensor returns the sensor the adapter reads.
func (a *Adapter) Sensor() Sensor {
	return a.sensor
}

// Name returns the name of the sensor.
func (a *Adapter) Name() string {
	return a.sensor.Name()
}

// UpdateStorage writes the sensor value into the newest frame.
func (a *Adapter) UpdateStorage() {
	back := a.storage.Back()
	if back == nil {
		sim.AssertionPanic("sensor %s updated before any frame exists",
			a.sensor.Name())
	}

	back.SetValue(a.channel, a.sensor.Value())
}

// Value returns the value of the newest frame that is at least delay older
// than the newest frame. It returns zero when no such frame exists.
func (a *Adapter) Value(delay sim.VTimeInSec) float64 {
	back := a.storage.Back()
	if back == nil {
		return 0
	}

	i := a.storage.LastFrameAtOrBefore(back.Time() - delay)
	if i < 0 {
		return 0
	}

	return a.storage.Frame(i).Value(a.channel)
}

// AverageValue returns the mean over window frames that end delaySteps frames
// before the newest frame. Frames before the first one are left out. It
// returns zero when the end frame does not exist.
func (a *Adapter) AverageValue(delaySteps, window int) float64 {
	end := a.storage.FrameCount() - 1 - delaySteps
	if end < 0 {
		return 0
	}

	if window < 1 {
		window = 1
	}

	start := max(end-window+1, 0)

	sum := 0.0
	for i := start; i <= end; i++ {
		sum += a.storage.Frame(i).Value(a.channel)
	}

	return sum / float64(end-start+1)
}

// Fixed reads an adapter at a delay chosen once.
type Fixed struct {
	Adapter *Adapter
	Delay   sim.VTimeInSec
}

// Value returns the delayed value.
func (f Fixed) Value() float64 {
	return f.Adapter.Value(f.Delay)
}
