package model

import "github.com/sarchlab/neurosim/sim"

// Vec3 is a position in the world frame. X points forward, Y up and Z to
// the right.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Actuator is a physical actuator. Inputs are accumulated during a control
// step and cleared before the next one.
type Actuator interface {
	Name() string
	AddInput(v float64)
	ClearInput()
	Input() float64
}

// Muscle is an actuator with contraction state.
type Muscle interface {
	Actuator

	NormalizedForce() float64
	NormalizedFiberLength() float64
	NormalizedFiberVelocity() float64
	NormalizedSpindleRate() float64
	Activation() float64
	Excitation() float64
}

// Dof is a degree of freedom of the body.
type Dof interface {
	Name() string
	Pos() float64
	Vel() float64
}

// Leg is a limb that can carry the body.
type Leg interface {
	Name() string
	Side() Side
	Length() float64

	// Load returns the ground reaction force on the foot, normalized by body
	// weight.
	Load() float64
	FootPos() Vec3
	BasePos() Vec3
}

// Plant is the simulated body. It is advanced by an external integrator and
// only read by controllers.
type Plant interface {
	Name() string
	Time() sim.VTimeInSec
	PreviousTime() sim.VTimeInSec
	IntegrationStep() int
	PreviousIntegrationStep() int

	Actuators() []Actuator
	Muscles() []Muscle
	Dofs() []Dof
	Legs() []Leg
	ComPos() Vec3

	// Advance integrates the plant over dt with the current actuator inputs.
	Advance(dt sim.VTimeInSec) error

	// ResetState restores the initial state.
	ResetState()
}
