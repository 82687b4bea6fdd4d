package delay

import (
	"github.com/sarchlab/neurosim/sim"
)

// Sensor is a named source of samples.
type Sensor interface {
	Name() string
	Value() float64
}

// Actuator is a named sink of inputs.
type Actuator interface {
	Name() string
	AddInput(v float64)
}

type sensorChannel struct {
	sensor  Sensor
	samples int
	channel Channel
}

// A SensorGroup owns the delay lines of all delayed sensors in a model.
// Sensors are told apart by identity, so the same sensor requested twice with
// the same delay shares one channel.
type SensorGroup struct {
	lines   lineSet
	sensors []sensorChannel
}

// NewSensorGroup creates an empty SensorGroup.
func NewSensorGroup() *SensorGroup {
	return &SensorGroup{}
}

// Acquire returns the handle that reads a sensor after a two-way delay.
func (g *SensorGroup) Acquire(
	s Sensor,
	delay, stepSize sim.VTimeInSec,
) (SensorValue, error) {
	return g.AcquireSteps(s, SampleCount(delay, stepSize))
}

// AcquireSteps returns the handle that reads a sensor n control steps late.
func (g *SensorGroup) AcquireSteps(s Sensor, n int) (SensorValue, error) {
	if n < 1 {
		return SensorValue{}, sim.ConfigErrorf(s.Name(),
			"sensor latency must be at least one step, got %d", n)
	}

	for _, e := range g.sensors {
		if e.sensor != s {
			continue
		}

		if e.samples != n {
			return SensorValue{}, sim.ConfigErrorf(s.Name(),
				"sensor cannot have different delay values (%d and %d steps)",
				e.samples, n)
		}

		return SensorValue{e.channel}, nil
	}

	line := g.lines.lineFor(n)
	ch := Channel{line: line, index: line.AddChannel()}
	line.Write(ch.index, s.Value())

	g.sensors = append(g.sensors, sensorChannel{
		sensor:  s,
		samples: n,
		channel: ch,
	})

	return SensorValue{ch}, nil
}

// NumChannels returns the number of registered sensors.
func (g *SensorGroup) NumChannels() int {
	return len(g.sensors)
}

// NumLines returns the number of distinct latencies in use.
func (g *SensorGroup) NumLines() int {
	return g.lines.len()
}

// Advance moves every line to a new step.
func (g *SensorGroup) Advance() {
	g.lines.each((*Line).Advance)
}

// Snapshot writes the current value of every sensor into its line.
func (g *SensorGroup) Snapshot() {
	for _, e := range g.sensors {
		e.channel.line.Write(e.channel.index, e.sensor.Value())
	}
}

// Reset discards the history and records the current sensor values.
func (g *SensorGroup) Reset() {
	g.lines.each((*Line).Reset)
	g.Snapshot()
}

type actuatorChannel struct {
	actuator Actuator
	samples  int
	channel  Channel
}

// An ActuatorGroup owns the delay lines of all delayed actuators in a model.
type ActuatorGroup struct {
	lines     lineSet
	actuators []actuatorChannel
}

// NewActuatorGroup creates an empty ActuatorGroup.
func NewActuatorGroup() *ActuatorGroup {
	return &ActuatorGroup{}
}

// Acquire returns the handle that drives an actuator after a two-way delay.
func (g *ActuatorGroup) Acquire(
	a Actuator,
	delay, stepSize sim.VTimeInSec,
) (ActuatorValue, error) {
	return g.AcquireSteps(a, SampleCount(delay, stepSize))
}

// AcquireSteps returns the handle that drives an actuator n control steps
// late.
func (g *ActuatorGroup) AcquireSteps(a Actuator, n int) (ActuatorValue, error) {
	if n < 1 {
		return ActuatorValue{}, sim.ConfigErrorf(a.Name(),
			"actuator latency must be at least one step, got %d", n)
	}

	for _, e := range g.actuators {
		if e.actuator != a {
			continue
		}

		if e.samples != n {
			return ActuatorValue{}, sim.ConfigErrorf(a.Name(),
				"actuator cannot have different delay values (%d and %d steps)",
				e.samples, n)
		}

		return ActuatorValue{e.channel}, nil
	}

	line := g.lines.lineFor(n)
	ch := Channel{line: line, index: line.AddChannel()}

	g.actuators = append(g.actuators, actuatorChannel{
		actuator: a,
		samples:  n,
		channel:  ch,
	})

	return ActuatorValue{ch}, nil
}

// NumChannels returns the number of registered actuators.
func (g *ActuatorGroup) NumChannels() int {
	return len(g.actuators)
}

// NumLines returns the number of distinct latencies in use.
func (g *ActuatorGroup) NumLines() int {
	return g.lines.len()
}

// Flush adds the delayed input of every channel into its actuator.
func (g *ActuatorGroup) Flush() {
	for _, e := range g.actuators {
		e.actuator.AddInput(e.channel.line.Read(e.channel.index))
	}
}

// Advance moves every line to a new step.
func (g *ActuatorGroup) Advance() {
	g.lines.each((*Line).Advance)
}

// ClearCurrent zeroes the slot that controllers are about to write.
func (g *ActuatorGroup) ClearCurrent() {
	g.lines.each((*Line).ClearAllCurrent)
}

// Reset discards all pending inputs.
func (g *ActuatorGroup) Reset() {
	g.lines.each((*Line).Reset)
}
