package measure

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// SimulationTimeMeasure scores how much of the planned duration was
// simulated before the body fell.
type SimulationTimeMeasure struct {
	Base

	maxDuration       sim.VTimeInSec
	terminationHeight float64
	initialHeight     float64
	heightRatio       float64
	fell              bool
}

// NewSimulationTimeMeasure needs max_duration. The body is considered fallen
// when its center of mass drops below termination_height times its initial
// height.
func NewSimulationTimeMeasure(node *config.Node, m *model.Model) (Objective, error) {
	base, err := MakeBase(node, false)
	if err != nil {
		return nil, err
	}

	s := &SimulationTimeMeasure{Base: base}

	d, err := node.Float("max_duration", 0)
	if err != nil {
		return nil, err
	}

	if d <= 0 {
		return nil, sim.ConfigErrorf(node.Path(),
			"max_duration must be positive, got %g", d)
	}

	s.maxDuration = sim.VTimeInSec(d)

	s.terminationHeight, err = node.Float("termination_height", 0.5)
	if err != nil {
		return nil, err
	}

	s.initialHeight = m.Plant().ComPos().Y
	s.heightRatio = 1

	return s, nil
}

// UpdateAnalysis requests termination when the body fell or the duration
// is over.
func (s *SimulationTimeMeasure) UpdateAnalysis(m *model.Model, t sim.VTimeInSec) bool {
	y := m.Plant().ComPos().Y
	if s.initialHeight != 0 {
		s.heightRatio = y / s.initialHeight
	}

	if y < s.terminationHeight*s.initialHeight {
		s.fell = true
		return true
	}

	return t >= s.maxDuration-sim.TimeEpsilon
}

// Fell tells if the simulation ended with a fall.
func (s *SimulationTimeMeasure) Fell() bool {
	return s.fell
}

// Result returns the simulated fraction of the planned duration.
func (s *SimulationTimeMeasure) Result(m *model.Model) float64 {
	return min(1, float64(m.Time()/s.maxDuration))
}

// WeightedResult weighs the simulated fraction.
func (s *SimulationTimeMeasure) WeightedResult(m *model.Model) float64 {
	return s.weigh(s.Result(m))
}

// Reset takes the current height as the initial height.
func (s *SimulationTimeMeasure) Reset(m *model.Model) {
	s.initialHeight = m.Plant().ComPos().Y
	s.heightRatio = 1
	s.fell = false
}

// StoreData stores the height of the center of mass relative to its
// initial height.
func (s *SimulationTimeMeasure) StoreData(f *storage.Frame, _ storage.Flags) {
	f.Set(s.name+".height_ratio", s.heightRatio)
}
