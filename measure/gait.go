package measure

import (
	"math"
	"sort"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

type gaitStep struct {
	time   sim.VTimeInSec
	length float64
}

// GaitMeasure scores walking at a target speed. A result of zero means that
// every counted step was between min_velocity and max_velocity. A step at
// half of min_velocity adds 0.5, and a walker that falls right away scores
// one.
//
// Steps are detected when a foot gets loaded. The distance walked is the
// mean of the two rearmost of the center of mass and the feet.
type GaitMeasure struct {
	Base

	terminationHeight float64
	minVelocity       float64
	maxVelocity       float64
	minNormVelocity   float64
	loadThreshold     float64
	minStepDuration   sim.VTimeInSec
	initiationSteps   int
	duration          sim.VTimeInSec

	initHeight  float64
	prevDist    float64
	steps       []gaitStep
	prevContact []bool
	fell        bool
}

// NewGaitMeasure reads the velocity range and the step detection settings.
// The plant needs at least two legs. When duration is set, a simulation
// that ends early counts the missing time as standing still.
func NewGaitMeasure(node *config.Node, m *model.Model) (Objective, error) {
	base, err := MakeBase(node, true)
	if err != nil {
		return nil, err
	}

	g := &GaitMeasure{Base: base}

	var minStep, duration, initSteps float64

	for _, f := range []struct {
		v   *float64
		key string
		def float64
	}{
		{&g.terminationHeight, "termination_height", 0.5},
		{&g.minVelocity, "min_velocity", 0},
		{&g.maxVelocity, "max_velocity", math.MaxFloat64},
		{&g.minNormVelocity, "min_norm_velocity", 0.1},
		{&g.loadThreshold, "load_threshold", 0.1},
		{&minStep, "min_step_duration", 0.1},
		{&initSteps, "initiation_steps", 2},
		{&duration, "duration", 0},
	} {
		*f.v, err = node.Float(f.key, f.def)
		if err != nil {
			return nil, err
		}
	}

	if g.maxVelocity < g.minVelocity {
		return nil, sim.ConfigErrorf(node.Path(),
			"max_velocity %g is below min_velocity %g",
			g.maxVelocity, g.minVelocity)
	}

	if initSteps < 0 || initSteps != math.Trunc(initSteps) {
		return nil, sim.ConfigErrorf(node.Path()+".initiation_steps",
			"expected a non-negative integer, got %g", initSteps)
	}

	if len(m.Plant().Legs()) < 2 {
		return nil, sim.ConfigErrorf(node.Path(),
			"gait measure needs two legs, plant %s has %d",
			m.Plant().Name(), len(m.Plant().Legs()))
	}

	g.minStepDuration = sim.VTimeInSec(minStep)
	g.initiationSteps = int(initSteps)
	g.duration = sim.VTimeInSec(duration)

	g.Reset(m)

	return g, nil
}

func (g *GaitMeasure) gaitDist(m *model.Model) float64 {
	legs := m.Plant().Legs()
	d := []float64{
		m.Plant().ComPos().X,
		legs[0].FootPos().X,
		legs[1].FootPos().X,
	}
	sort.Float64s(d)

	return (d[0] + d[1]) / 2
}

// hasNewContact tells if a foot got loaded since the last call. The first
// call only records the contacts.
func (g *GaitMeasure) hasNewContact(m *model.Model) bool {
	legs := m.Plant().Legs()

	if g.prevContact == nil {
		g.prevContact = make([]bool, len(legs))
		for i, l := range legs {
			g.prevContact[i] = l.Load() >= g.loadThreshold
		}

		return false
	}

	found := false

	for i, l := range legs {
		contact := l.Load() >= g.loadThreshold
		found = found || (contact && !g.prevContact[i])
		g.prevContact[i] = contact
	}

	return found
}

func (g *GaitMeasure) addStep(m *model.Model) {
	d := g.gaitDist(m)
	g.steps = append(g.steps, gaitStep{time: m.Time(), length: d - g.prevDist})
	g.prevDist = d
}

// UpdateAnalysis records new steps. It requests termination when the center
// of mass drops below termination_height times its initial height.
func (g *GaitMeasure) UpdateAnalysis(m *model.Model, t sim.VTimeInSec) bool {
	if m.Plant().ComPos().Y < g.terminationHeight*g.initHeight {
		g.fell = true
		return true
	}

	newContact := g.hasNewContact(m)

	dt := t
	if n := len(g.steps); n > 0 {
		dt = t - g.steps[n-1].time
	}

	if newContact && dt > g.minStepDuration {
		g.addStep(m)
	}

	return false
}

// Fell tells if the simulation ended with a fall.
func (g *GaitMeasure) Fell() bool {
	return g.fell
}

// StepCount returns the number of steps detected so far.
func (g *GaitMeasure) StepCount() int {
	return len(g.steps)
}

// normVelocity maps a step velocity to one inside the range and to less
// outside of it.
func (g *GaitMeasure) normVelocity(v float64) float64 {
	var violation float64

	switch {
	case v < g.minVelocity:
		violation = g.minVelocity - v
	case v > g.maxVelocity:
		violation = v - g.maxVelocity
	}

	norm := max(g.minVelocity, g.minNormVelocity)

	return max(-1, min(1, 1-violation/norm))
}

func stepDuration(steps []gaitStep, i int) sim.VTimeInSec {
	if i == 0 {
		return steps[0].time
	}

	return steps[i].time - steps[i-1].time
}

// Result closes the last step at the current time and averages the
// normalized step velocities over time. The first steps are skipped as
// initiation while there are enough later steps.
func (g *GaitMeasure) Result(m *model.Model) float64 {
	steps := g.steps

	last := sim.VTimeInSec(0)
	if n := len(steps); n > 0 {
		last = steps[n-1].time
	}

	if m.Time() > last+sim.TimeEpsilon {
		steps = append(steps[:len(steps):len(steps)], gaitStep{
			time:   m.Time(),
			length: g.gaitDist(m) - g.prevDist,
		})
	}

	start := max(0, min(len(steps)-g.initiationSteps, g.initiationSteps))

	var score, total float64

	for i := start; i < len(steps); i++ {
		dt := float64(stepDuration(steps, i))
		if dt <= 0 {
			continue
		}

		score += dt * g.normVelocity(steps[i].length/dt)
		total += dt
	}

	if m.Time() < g.duration {
		total += float64(g.duration - m.Time())
	}

	if total == 0 {
		return 1
	}

	return 1 - score/total
}

// WeightedResult weighs the gait result.
func (g *GaitMeasure) WeightedResult(m *model.Model) float64 {
	return g.weigh(g.Result(m))
}

// Reset forgets the steps and takes the current pose as the start.
func (g *GaitMeasure) Reset(m *model.Model) {
	g.initHeight = m.Plant().ComPos().Y
	g.prevDist = g.gaitDist(m)
	g.steps = nil
	g.prevContact = nil
	g.fell = false
}

// StoreData stores the length and velocity of the last step.
func (g *GaitMeasure) StoreData(f *storage.Frame, _ storage.Flags) {
	var length, velocity float64

	if n := len(g.steps); n > 0 {
		length = g.steps[n-1].length
		if dt := float64(stepDuration(g.steps, n-1)); dt > 0 {
			velocity = length / dt
		}
	}

	f.Set(g.name+".step_length", length)
	f.Set(g.name+".step_velocity", velocity)
}
