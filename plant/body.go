package plant

import (
	"math"

	"github.com/sarchlab/neurosim/model"
)

// Leg follows a fixed stance and swing pattern.
type Leg struct {
	plant  *Plant
	name   string
	offset float64
}

func (l *Leg) Name() string     { return l.name }
func (l *Leg) Side() model.Side { return model.SideOf(l.name) }
func (l *Leg) Length() float64  { return l.plant.config.LegLength }

// Phase returns the position of the leg in its stride, in [0, 1). Stance
// starts at phase zero.
func (l *Leg) Phase() float64 {
	s := float64(l.plant.time)/l.plant.config.StrideTime + l.offset
	return s - math.Floor(s)
}

// InStance tells if the foot is on the ground.
func (l *Leg) InStance() bool {
	return !l.plant.fallen && l.Phase() < l.plant.config.DutyFactor
}

// Load returns the share of body weight on the foot. The weight is split
// evenly while both feet are on the ground.
func (l *Leg) Load() float64 {
	if !l.InStance() {
		return 0
	}

	for _, o := range l.plant.legs {
		if o != l && o.InStance() {
			return 0.5
		}
	}

	return 1
}

// BasePos returns the hip position.
func (l *Leg) BasePos() model.Vec3 {
	c := l.plant.ComPos()

	z := 0.1
	if l.Side() == model.SideLeft {
		z = -z
	}

	return model.Vec3{X: c.X, Y: c.Y, Z: z}
}

// FootPos returns the foot position. The foot moves backwards relative to
// the hip during stance and swings forward again.
func (l *Leg) FootPos() model.Vec3 {
	cfg := l.plant.config
	half := cfg.StrideLength / 2
	phase := l.Phase()

	var rel float64
	if phase < cfg.DutyFactor {
		rel = half - cfg.StrideLength*phase/cfg.DutyFactor
	} else {
		u := (phase - cfg.DutyFactor) / (1 - cfg.DutyFactor)
		rel = -half * math.Cos(math.Pi*u)
	}

	base := l.BasePos()

	return model.Vec3{X: base.X + rel, Z: base.Z}
}

// Dof is a joint that follows a sinusoid over the stride.
type Dof struct {
	plant  *Plant
	name   string
	config DofConfig
	leg    *Leg
}

func (d *Dof) Name() string { return d.name }

func (d *Dof) angle() float64 {
	phase := float64(d.plant.time) / d.plant.config.StrideTime
	if d.leg != nil {
		phase = d.leg.Phase()
	}

	return 2 * math.Pi * (phase + d.config.Phase)
}

// Pos returns the joint angle in radians.
func (d *Dof) Pos() float64 {
	return d.config.Offset + d.config.Amplitude*math.Sin(d.angle())
}

// Vel returns the joint velocity in radians per second.
func (d *Dof) Vel() float64 {
	w := 2 * math.Pi / d.plant.config.StrideTime
	return d.config.Amplitude * w * math.Cos(d.angle())
}

// Muscle has first order activation dynamics. Its length follows the dof it
// spans.
type Muscle struct {
	name       string
	dof        *Dof
	arm        float64
	input      float64
	activation float64
}

func (m *Muscle) Name() string       { return m.name }
func (m *Muscle) AddInput(v float64) { m.input += v }
func (m *Muscle) ClearInput()        { m.input = 0 }
func (m *Muscle) Input() float64     { return m.input }

// Excitation returns the input clamped to [0, 1].
func (m *Muscle) Excitation() float64 {
	return math.Max(0, math.Min(1, m.input))
}

func (m *Muscle) Activation() float64 {
	return m.activation
}

func (m *Muscle) NormalizedFiberLength() float64 {
	return 1 + m.arm*(m.dof.Pos()-m.dof.config.Offset)
}

func (m *Muscle) NormalizedFiberVelocity() float64 {
	return m.arm * m.dof.Vel()
}

// NormalizedForce combines a gaussian active force-length relation with a
// quadratic passive force.
func (m *Muscle) NormalizedForce() float64 {
	l := m.NormalizedFiberLength()
	active := m.activation * math.Exp(-math.Pow((l-1)/0.45, 2))
	passive := math.Pow(math.Max(0, l-1)/0.6, 2)

	return active + passive
}

// NormalizedSpindleRate grows with stretch and stretch velocity.
func (m *Muscle) NormalizedSpindleRate() float64 {
	return math.Max(0, m.NormalizedFiberLength()-1+0.2*m.NormalizedFiberVelocity())
}

func (m *Muscle) integrate(dt float64, c Config) {
	u := m.Excitation()

	tau := c.DeactivationTime
	if u > m.activation {
		tau = c.ActivationTime
	}

	m.activation += (u - m.activation) * (1 - math.Exp(-dt/tau))
}
