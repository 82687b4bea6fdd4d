package measure

import (
	"path"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// EffortType selects what an EffortMeasure integrates.
type EffortType int

// The effort types.
const (
	SquaredActuatorInput EffortType = iota
	SquaredMuscleActivation
	MuscleActivation
)

var effortTypeNames = map[string]EffortType{
	"SquaredActuatorInput":    SquaredActuatorInput,
	"SquaredMuscleActivation": SquaredMuscleActivation,
	"MuscleActivation":        MuscleActivation,
}

// EffortMeasure averages the effort of the selected actuators over the
// simulated time.
type EffortMeasure struct {
	Base

	effortType EffortType
	include    []string
	exclude    []string

	integral sim.VTimeInSec
	sum      float64
	last     float64
	lastTime sim.VTimeInSec
}

// NewEffortMeasure reads measure_type and the include and exclude patterns.
// Patterns are shell globs on actuator names.
func NewEffortMeasure(node *config.Node, _ *model.Model) (Objective, error) {
	base, err := MakeBase(node, true)
	if err != nil {
		return nil, err
	}

	e := &EffortMeasure{
		Base:    base,
		include: node.Strings("include"),
		exclude: node.Strings("exclude"),
	}

	name := node.String("measure_type", "SquaredActuatorInput")

	t, ok := effortTypeNames[name]
	if !ok {
		return nil, sim.ConfigErrorf(node.Path()+".measure_type",
			"unknown effort type %q", name)
	}

	e.effortType = t

	for _, p := range append(append([]string{}, e.include...), e.exclude...) {
		if _, err := path.Match(p, ""); err != nil {
			return nil, sim.ConfigErrorf(node.Path(),
				"bad actuator pattern %q", p)
		}
	}

	return e, nil
}

func (e *EffortMeasure) selects(name string) bool {
	if len(e.include) > 0 {
		found := false

		for _, p := range e.include {
			if ok, _ := path.Match(p, name); ok {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	for _, p := range e.exclude {
		if ok, _ := path.Match(p, name); ok {
			return false
		}
	}

	return true
}

// Current returns the mean effort of the selected actuators right now.
func (e *EffortMeasure) Current(m *model.Model) float64 {
	total := 0.0
	n := 0

	if e.effortType == SquaredActuatorInput {
		for _, a := range m.Plant().Actuators() {
			if e.selects(a.Name()) {
				total += a.Input() * a.Input()
				n++
			}
		}
	} else {
		for _, mus := range m.Plant().Muscles() {
			if !e.selects(mus.Name()) {
				continue
			}

			a := mus.Activation()
			if e.effortType == SquaredMuscleActivation {
				a *= a
			}

			total += a
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return total / float64(n)
}

// UpdateAnalysis integrates the effort with the trapezoidal rule. It never
// requests termination.
func (e *EffortMeasure) UpdateAnalysis(m *model.Model, t sim.VTimeInSec) bool {
	v := e.Current(m)

	if t > e.lastTime {
		dt := t - e.lastTime
		e.sum += 0.5 * (v + e.last) * float64(dt)
		e.integral += dt
	}

	e.last = v
	e.lastTime = t

	return false
}

// Result returns the time averaged effort.
func (e *EffortMeasure) Result(*model.Model) float64 {
	if e.integral == 0 {
		return e.last
	}

	return e.sum / float64(e.integral)
}

// WeightedResult weighs the time averaged effort.
func (e *EffortMeasure) WeightedResult(m *model.Model) float64 {
	return e.weigh(e.Result(m))
}

// Reset forgets the accumulated effort.
func (e *EffortMeasure) Reset(*model.Model) {
	e.integral = 0
	e.sum = 0
	e.last = 0
	e.lastTime = 0
}

// StoreData stores the current effort.
func (e *EffortMeasure) StoreData(f *storage.Frame, _ storage.Flags) {
	f.Set(e.name+".effort", e.last)
}
