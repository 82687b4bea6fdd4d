package model

import (
	"math"

	"github.com/sarchlab/neurosim/sim"
)

// Sensor reads one scalar from the plant. Sensors are plain values; two
// sensors of the same kind that read the same component compare equal.
type Sensor interface {
	Name() string
	Value() float64
}

// MuscleForceSensor reads the normalized muscle force.
type MuscleForceSensor struct{ Muscle Muscle }

// Name returns the sensor name.
func (s MuscleForceSensor) Name() string { return s.Muscle.Name() + ".F" }

// Value returns the sensor value.
func (s MuscleForceSensor) Value() float64 { return s.Muscle.NormalizedForce() }

// MuscleLengthSensor reads the normalized fiber length.
type MuscleLengthSensor struct{ Muscle Muscle }

// Name returns the sensor name.
func (s MuscleLengthSensor) Name() string { return s.Muscle.Name() + ".L" }

// Value returns the sensor value.
func (s MuscleLengthSensor) Value() float64 { return s.Muscle.NormalizedFiberLength() }

// MuscleVelocitySensor reads the normalized fiber velocity.
type MuscleVelocitySensor struct{ Muscle Muscle }

// Name returns the sensor name.
func (s MuscleVelocitySensor) Name() string { return s.Muscle.Name() + ".V" }

// Value returns the sensor value.
func (s MuscleVelocitySensor) Value() float64 { return s.Muscle.NormalizedFiberVelocity() }

// MuscleSpindleSensor reads the normalized spindle rate.
type MuscleSpindleSensor struct{ Muscle Muscle }

// Name returns the sensor name.
func (s MuscleSpindleSensor) Name() string { return s.Muscle.Name() + ".S" }

// Value returns the sensor value.
func (s MuscleSpindleSensor) Value() float64 { return s.Muscle.NormalizedSpindleRate() }

// MuscleActivationSensor reads the muscle activation.
type MuscleActivationSensor struct{ Muscle Muscle }

// Name returns the sensor name.
func (s MuscleActivationSensor) Name() string { return s.Muscle.Name() + ".A" }

// Value returns the sensor value.
func (s MuscleActivationSensor) Value() float64 { return s.Muscle.Activation() }

// MuscleExcitationSensor reads the muscle excitation.
type MuscleExcitationSensor struct{ Muscle Muscle }

// Name returns the sensor name.
func (s MuscleExcitationSensor) Name() string { return s.Muscle.Name() + ".excitation" }

// Value returns the sensor value.
func (s MuscleExcitationSensor) Value() float64 { return s.Muscle.Excitation() }

// LegLoadSensor reads the scaled and clamped leg load.
type LegLoadSensor struct {
	Leg      Leg
	Gain     float64
	Offset   float64
	Min, Max float64
}

// NewLegLoadSensor creates an unscaled, unclamped leg load sensor.
func NewLegLoadSensor(leg Leg) LegLoadSensor {
	return LegLoadSensor{
		Leg:  leg,
		Gain: 1,
		Min:  math.Inf(-1),
		Max:  math.Inf(1),
	}
}

// Name returns the sensor name.
func (s LegLoadSensor) Name() string { return s.Leg.Name() + ".LD" }

// Value returns the sensor value.
func (s LegLoadSensor) Value() float64 {
	return math.Max(s.Min, math.Min(s.Max, s.Gain*s.Leg.Load()+s.Offset))
}

// DofPositionSensor reads a dof position, optionally relative to a root dof.
type DofPositionSensor struct {
	Dof  Dof
	Root Dof
}

// Name returns the sensor name.
func (s DofPositionSensor) Name() string { return dofSensorName(s.Dof, s.Root) + ".DP" }

// Value returns the sensor value.
func (s DofPositionSensor) Value() float64 {
	if s.Root == nil {
		return s.Dof.Pos()
	}

	return rootSign(s.Dof, s.Root)*s.Root.Pos() + s.Dof.Pos()
}

// DofVelocitySensor reads a dof velocity, optionally relative to a root dof.
type DofVelocitySensor struct {
	Dof  Dof
	Root Dof
}

// Name returns the sensor name.
func (s DofVelocitySensor) Name() string { return dofSensorName(s.Dof, s.Root) + ".DV" }

// Value returns the sensor value.
func (s DofVelocitySensor) Value() float64 {
	if s.Root == nil {
		return s.Dof.Vel()
	}

	return rootSign(s.Dof, s.Root)*s.Root.Vel() + s.Dof.Vel()
}

func dofSensorName(dof, root Dof) string {
	if root == nil {
		return dof.Name()
	}

	return root.Name() + "_" + dof.Name()
}

// rootSign flips unsided root dofs for left dofs, so that both sides see the
// root rotation in their own frame.
func rootSign(dof, root Dof) float64 {
	if SideOf(dof.Name()) == SideLeft && SideOf(root.Name()) == SideNone {
		return -1
	}

	return 1
}

// CreateSensor builds a sensor from a kind code and a component name resolved
// for a location. The kinds are F, L, V, S, A and excitation for muscles, DP
// and DV for dofs and LD for legs.
func (m *Model) CreateSensor(kind, name string, loc Location) (Sensor, error) {
	switch kind {
	case "F", "L", "V", "S", "A", "excitation":
		mus, err := FindByLocation(m.plant.Muscles(), name, loc)
		if err != nil {
			return nil, err
		}

		return m.AcquireSensor(muscleSensor(kind, mus)), nil
	case "DP", "DV":
		dof, err := FindByLocation(m.plant.Dofs(), name, loc)
		if err != nil {
			return nil, err
		}

		if kind == "DP" {
			return m.AcquireSensor(DofPositionSensor{Dof: dof}), nil
		}

		return m.AcquireSensor(DofVelocitySensor{Dof: dof}), nil
	case "LD":
		leg, err := FindByLocation(m.plant.Legs(), name, loc)
		if err != nil {
			return nil, err
		}

		return m.AcquireSensor(NewLegLoadSensor(leg)), nil
	}

	return nil, sim.ConfigErrorf(name, "unknown sensor kind %q", kind)
}

func muscleSensor(kind string, mus Muscle) Sensor {
	switch kind {
	case "F":
		return MuscleForceSensor{mus}
	case "L":
		return MuscleLengthSensor{mus}
	case "V":
		return MuscleVelocitySensor{mus}
	case "S":
		return MuscleSpindleSensor{mus}
	case "A":
		return MuscleActivationSensor{mus}
	default:
		return MuscleExcitationSensor{mus}
	}
}
