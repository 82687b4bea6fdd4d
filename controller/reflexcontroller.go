package controller

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// ReflexController runs a set of reflexes.
type ReflexController struct {
	Base

	symmetric bool
	dualSided bool
	reflexes  []Reflex
}

// NewReflexController creates reflexes from every registered reflex node and
// from the entries of a Reflexes list. A controller without a side creates
// each reflex for both sides unless dual_sided is turned off.
func NewReflexController(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (Controller, error) {
	base, err := MakeBase(ctx, node)
	if err != nil {
		return nil, err
	}

	c := &ReflexController{Base: base}

	c.symmetric, err = node.Bool("symmetric", loc.Symmetric)
	if err != nil {
		return nil, err
	}

	c.dualSided, err = node.Bool("dual_sided", loc.Side == model.SideNone)
	if err != nil {
		return nil, err
	}

	locs := []model.Location{{Side: loc.Side, Symmetric: c.symmetric}}
	if c.dualSided {
		locs = []model.Location{
			{Side: model.SideLeft, Symmetric: c.symmetric},
			{Side: model.SideRight, Symmetric: c.symmetric},
		}
	}

	var nodes []*config.Node
	for _, rn := range node.Children() {
		if ctx.Registry.IsReflex(rn.Key) {
			nodes = append(nodes, rn)
		}
	}

	if list := node.Child("Reflexes"); list != nil {
		nodes = append(nodes, list.Children()...)
	}

	for _, rn := range nodes {
		for _, l := range locs {
			r, err := ctx.Registry.CreateReflex(ctx, rn, c, l)
			if err != nil {
				return nil, err
			}

			c.reflexes = append(c.reflexes, r)
		}
	}

	return c, nil
}

// Reflexes returns the reflexes in evaluation order.
func (c *ReflexController) Reflexes() []Reflex {
	return c.reflexes
}

// UpdateControls lets every reflex add its output.
func (c *ReflexController) UpdateControls(m *model.Model, t sim.VTimeInSec) bool {
	return ifActive(c, m, t, func(m *model.Model, t sim.VTimeInSec) bool {
		for _, r := range c.reflexes {
			r.ComputeControls(m, t)
		}

		return false
	})
}

// Reset clears the last output of every reflex.
func (c *ReflexController) Reset(*model.Model) {
	for _, r := range c.reflexes {
		r.Reset()
	}
}

// StoreData stores the output terms of every reflex.
func (c *ReflexController) StoreData(f *storage.Frame, flags storage.Flags) {
	for _, r := range c.reflexes {
		r.StoreData(f, flags)
	}
}

// TrySetControlParameter sets the value on every reflex that has it.
func (c *ReflexController) TrySetControlParameter(name string, v float64) int {
	n := 0
	for _, r := range c.reflexes {
		n += r.TrySetControlParameter(name, v)
	}

	return n
}

// TryGetControlParameter returns the value of the first reflex that has it.
func (c *ReflexController) TryGetControlParameter(name string) (float64, bool) {
	for _, r := range c.reflexes {
		if v, ok := r.TryGetControlParameter(name); ok {
			return v, true
		}
	}

	return 0, false
}

// ControlParameters lists the control parameters of all reflexes.
func (c *ReflexController) ControlParameters() []string {
	var names []string
	for _, r := range c.reflexes {
		names = append(names, r.ControlParameters()...)
	}

	return names
}

// Info describes the controller and its reflexes.
func (c *ReflexController) Info() sim.Info {
	info := c.info("ReflexController")
	info["dual_sided"] = c.dualSided

	reflexes := make([]sim.Info, 0, len(c.reflexes))
	for _, r := range c.reflexes {
		reflexes = append(reflexes, r.Info())
	}

	info["reflexes"] = reflexes

	return info
}
