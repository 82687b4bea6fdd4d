// Package plant provides a synthetic walker. It does not integrate forces.
// It replays scripted gait kinematics and lets muscle activation follow the
// actuator inputs, which is enough to drive controllers end to end.
package plant

import (
	"fmt"
	"math"

	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
)

// Side suffixes and the phase offset of each leg.
var legSides = []struct {
	suffix string
	offset float64
}{
	{"_r", 0},
	{"_l", 0.5},
}

// Plant is a synthetic walker with two legs.
type Plant struct {
	config Config

	time, prevTime sim.VTimeInSec
	step, prevStep int

	legs    []*Leg
	dofs    []*Dof
	muscles []*Muscle
	fallen  bool
}

// Builder can build plants.
type Builder struct {
	config Config
}

// MakeBuilder creates a builder with the default settings.
func MakeBuilder() Builder {
	return Builder{config: DefaultConfig()}
}

// WithConfig replaces the settings.
func (b Builder) WithConfig(c Config) Builder {
	b.config = c
	return b
}

// WithFallTime makes the walker collapse at the given time.
func (b Builder) WithFallTime(t sim.VTimeInSec) Builder {
	b.config.FallTime = float64(t)
	return b
}

// Build creates the plant.
func (b Builder) Build() (*Plant, error) {
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	p := &Plant{config: b.config}

	for i, s := range legSides {
		p.legs = append(p.legs, &Leg{
			plant:  p,
			name:   fmt.Sprintf("leg%d%s", i, s.suffix),
			offset: s.offset,
		})
	}

	dofIndex := map[string]*Dof{}

	for _, dc := range b.config.Dofs {
		if !dc.Bilateral {
			d := &Dof{plant: p, name: dc.Name, config: dc}
			p.dofs = append(p.dofs, d)

			continue
		}

		for i, s := range legSides {
			d := &Dof{plant: p, name: dc.Name + s.suffix, config: dc, leg: p.legs[i]}
			p.dofs = append(p.dofs, d)
			dofIndex[d.name] = d
		}
	}

	for _, mc := range b.config.Muscles {
		for _, s := range legSides {
			p.muscles = append(p.muscles, &Muscle{
				name: mc.Name + s.suffix,
				dof:  dofIndex[mc.Dof+s.suffix],
				arm:  mc.MomentArm,
			})
		}
	}

	p.ResetState()

	return p, nil
}

// Name returns the name of the plant.
func (p *Plant) Name() string {
	return p.config.Name
}

// Config returns the settings of the plant.
func (p *Plant) Config() Config {
	return p.config
}

// Time returns the simulated time.
func (p *Plant) Time() sim.VTimeInSec { return p.time }

// PreviousTime returns the time before the last call to Advance.
func (p *Plant) PreviousTime() sim.VTimeInSec { return p.prevTime }

// IntegrationStep counts the calls to Advance since the last reset.
func (p *Plant) IntegrationStep() int { return p.step }

// PreviousIntegrationStep returns the step before the last call to Advance.
// It is -1 right after a reset.
func (p *Plant) PreviousIntegrationStep() int { return p.prevStep }

// Actuators returns the muscles as actuators.
func (p *Plant) Actuators() []model.Actuator {
	out := make([]model.Actuator, len(p.muscles))
	for i, m := range p.muscles {
		out[i] = m
	}

	return out
}

// Muscles returns the muscles of both legs.
func (p *Plant) Muscles() []model.Muscle {
	out := make([]model.Muscle, len(p.muscles))
	for i, m := range p.muscles {
		out[i] = m
	}

	return out
}

// Dofs returns the dofs in configuration order. Bilateral dofs appear once
// per leg.
func (p *Plant) Dofs() []model.Dof {
	out := make([]model.Dof, len(p.dofs))
	for i, d := range p.dofs {
		out[i] = d
	}

	return out
}

// Legs returns the right leg and then the left leg.
func (p *Plant) Legs() []model.Leg {
	out := make([]model.Leg, len(p.legs))
	for i, l := range p.legs {
		out[i] = l
	}

	return out
}

// Fallen tells if the walker has started to collapse.
func (p *Plant) Fallen() bool {
	return p.fallen
}

// ComPos returns the center of mass. It moves forward at the stride speed
// and sinks to the ground after the fall time.
func (p *Plant) ComPos() model.Vec3 {
	speed := p.config.StrideLength / p.config.StrideTime

	return model.Vec3{
		X: speed * float64(p.time),
		Y: p.config.HipHeight * p.heightFactor(),
	}
}

func (p *Plant) heightFactor() float64 {
	if !p.fallen {
		return 1
	}

	into := float64(p.time) - p.config.FallTime

	return math.Max(0, 1-into/p.config.FallDuration)
}

// Advance moves the plant forward by dt. Muscle activations follow the
// current actuator inputs.
func (p *Plant) Advance(dt sim.VTimeInSec) error {
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		return fmt.Errorf("plant %s: invalid step size %g", p.Name(), dt)
	}

	for _, m := range p.muscles {
		if math.IsNaN(m.input) || math.IsInf(m.input, 0) {
			return fmt.Errorf("plant %s: muscle %s has non-finite input %g at %gs",
				p.Name(), m.name, m.input, p.time)
		}
	}

	for _, m := range p.muscles {
		m.integrate(float64(dt), p.config)
	}

	p.prevTime, p.prevStep = p.time, p.step
	p.time += dt
	p.step++

	if p.config.FallTime > 0 && float64(p.time) >= p.config.FallTime {
		p.fallen = true
	}

	return nil
}

// ResetState returns to time zero with relaxed muscles.
func (p *Plant) ResetState() {
	p.time, p.prevTime = 0, 0
	p.step, p.prevStep = 0, -1
	p.fallen = false

	for _, m := range p.muscles {
		m.input = 0
		m.activation = 0
	}
}
