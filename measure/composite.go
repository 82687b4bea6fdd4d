package measure

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// CompositeMeasure adds up the weighted results of its children.
type CompositeMeasure struct {
	Base

	children []Objective
}

// NewCompositeMeasure creates the children listed under Measures. All
// children must agree on the direction of optimization.
func NewCompositeMeasure(node *config.Node, m *model.Model) (Objective, error) {
	base, err := MakeBase(node, true)
	if err != nil {
		return nil, err
	}

	c := &CompositeMeasure{Base: base}

	list := node.Child("Measures")
	if list == nil || len(list.Children()) == 0 {
		return nil, sim.ConfigErrorf(node.Path(), "no Measures defined")
	}

	for _, child := range list.Children() {
		ms, err := Create(child, m)
		if err != nil {
			return nil, err
		}

		if ms.Minimize() != c.minimize {
			return nil, sim.ConfigErrorf(child.Path(),
				"measure %s does not optimize in the same direction as %s",
				ms.Name(), c.name)
		}

		c.children = append(c.children, ms)
	}

	return c, nil
}

// Children returns the child measures.
func (c *CompositeMeasure) Children() []Objective {
	return c.children
}

// UpdateAnalysis updates all children and terminates if any child asks to.
func (c *CompositeMeasure) UpdateAnalysis(m *model.Model, t sim.VTimeInSec) bool {
	terminate := false

	for _, ms := range c.children {
		terminate = ms.UpdateAnalysis(m, t) || terminate
	}

	return terminate
}

// Result returns the sum of the weighted results of the children.
func (c *CompositeMeasure) Result(m *model.Model) float64 {
	total := 0.0
	for _, ms := range c.children {
		total += ms.WeightedResult(m)
	}

	return total
}

func (c *CompositeMeasure) WeightedResult(m *model.Model) float64 {
	return c.weigh(c.Result(m))
}

func (c *CompositeMeasure) Reset(m *model.Model) {
	for _, ms := range c.children {
		ms.Reset(m)
	}
}

func (c *CompositeMeasure) StoreData(f *storage.Frame, flags storage.Flags) {
	for _, ms := range c.children {
		ms.StoreData(f, flags)
	}
}
