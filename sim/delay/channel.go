package delay

import "github.com/sarchlab/neurosim/sim"

// A Reader provides a scalar value, no matter how it is delayed.
type Reader interface {
	Value() float64
}

// Channel locates one channel in a line. It does not own the line and can be
// copied freely.
type Channel struct {
	line  *Line
	index int
}

// Valid checks if the channel points into a line.
func (c Channel) Valid() bool {
	return c.line != nil
}

// Delay returns the lag of the line in advances.
func (c Channel) Delay() int {
	c.mustBeValid()
	return c.line.Delay()
}

// Index returns the index of the channel in its line.
func (c Channel) Index() int {
	return c.index
}

func (c Channel) mustBeValid() {
	if c.line == nil {
		sim.AssertionPanic("access through an unregistered delay channel")
	}
}

// SensorValue reads a delayed sensor sample.
type SensorValue struct {
	Channel
}

// Value returns the delayed sample.
func (v SensorValue) Value() float64 {
	v.mustBeValid()
	return v.line.Read(v.index)
}

// ActuatorValue accumulates contributions to an actuator input that reach the
// actuator after a delay.
type ActuatorValue struct {
	Channel
}

// AddInput adds a contribution to the current step.
func (v ActuatorValue) AddInput(x float64) {
	v.mustBeValid()
	v.line.Add(v.index, x)
}

// Input returns what has been accumulated in the current step.
func (v ActuatorValue) Input() float64 {
	v.mustBeValid()
	return v.line.Current(v.index)
}
