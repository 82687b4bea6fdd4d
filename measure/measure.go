// Package measure scores simulations. A measure watches the model after
// every step and produces one number when the simulation ends.
package measure

import (
	"log"
	"math"
	"sort"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// An Objective is a model.Objective that knows how to weigh its result.
type Objective interface {
	model.Objective

	// WeightedResult applies the offset, the threshold and the weight.
	WeightedResult(m *model.Model) float64

	// WorstResult is what a failed simulation scores.
	WorstResult() float64

	// Minimize tells if lower results are better.
	Minimize() bool
}

// A Constructor builds a measure from its settings.
type Constructor func(node *config.Node, m *model.Model) (Objective, error)

var constructors = map[string]Constructor{}

// Register adds a measure type. Registering a name twice is a programming
// error.
func Register(name string, c Constructor) {
	if _, ok := constructors[name]; ok {
		log.Panicf("measure type %s is already registered", name)
	}

	constructors[name] = c
}

func init() {
	Register("SimulationTimeMeasure", NewSimulationTimeMeasure)
	Register("EffortMeasure", NewEffortMeasure)
	Register("CompositeMeasure", NewCompositeMeasure)
	Register("GaitMeasure", NewGaitMeasure)
}

// IsMeasure checks if a name is a registered measure type.
func IsMeasure(name string) bool {
	_, ok := constructors[name]
	return ok
}

// Names lists the registered measure types.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Create builds the measure named by the key of node.
func Create(node *config.Node, m *model.Model) (Objective, error) {
	c, ok := constructors[node.Key]
	if !ok {
		return nil, sim.ConfigErrorf(node.Path(),
			"unknown measure type %q", node.Key)
	}

	return c(node, m)
}

// Build creates the measure described by the first child of doc that names
// a registered measure. It returns nil when there is none.
func Build(doc *config.Node, m *model.Model) (Objective, error) {
	for _, c := range doc.Children() {
		if IsMeasure(c.Key) {
			return Create(c, m)
		}
	}

	return nil, nil
}

// Base holds the settings that all measures share.
type Base struct {
	name                string
	Weight              float64
	Threshold           float64
	ThresholdTransition float64
	ResultOffset        float64
	minimize            bool
}

// MakeBase reads the common settings. A measure without a name is named
// after its type.
func MakeBase(node *config.Node, minimizeByDefault bool) (Base, error) {
	b := Base{name: node.String("name", node.Key)}

	var err error

	for _, f := range []struct {
		v   *float64
		key string
		def float64
	}{
		{&b.Weight, "weight", 1},
		{&b.Threshold, "threshold", 0},
		{&b.ThresholdTransition, "threshold_transition", 0},
		{&b.ResultOffset, "result_offset", 0},
	} {
		*f.v, err = node.Float(f.key, f.def)
		if err != nil {
			return b, err
		}
	}

	b.minimize, err = node.Bool("minimize", minimizeByDefault)

	return b, err
}

// Name returns the name of the measure.
func (b *Base) Name() string {
	return b.name
}

// Minimize tells if lower results are better.
func (b *Base) Minimize() bool {
	return b.minimize
}

// WorstResult returns the largest or the lowest float.
func (b *Base) WorstResult() float64 {
	if b.minimize {
		return math.MaxFloat64
	}

	return -math.MaxFloat64
}

// StoreData stores nothing.
func (b *Base) StoreData(*storage.Frame, storage.Flags) {}

// weigh applies the offset, the threshold and the weight to a raw result.
// Results below the threshold count as zero, and results inside the
// transition band are scaled down.
func (b *Base) weigh(result float64) float64 {
	v := result + b.ResultOffset

	if b.minimize && b.Threshold != 0 {
		switch {
		case v < b.Threshold:
			v = 0
		case v < b.Threshold+b.ThresholdTransition:
			v = v * (v - b.Threshold) / b.ThresholdTransition
		}
	}

	return b.Weight * v
}
