package controller

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// CompositeController runs a list of child controllers in order.
type CompositeController struct {
	Base

	children []Controller
}

// NewCompositeController creates children from every registered controller
// node and from the entries of a Controllers list. With dual_sided set, each
// child is created once for the left and once for the right side.
func NewCompositeController(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (Controller, error) {
	base, err := MakeBase(ctx, node)
	if err != nil {
		return nil, err
	}

	c := &CompositeController{Base: base}

	dualSided, err := node.Bool("dual_sided", false)
	if err != nil {
		return nil, err
	}

	locs := []model.Location{loc}
	if dualSided {
		locs = []model.Location{
			{Side: model.SideLeft, Symmetric: loc.Symmetric},
			{Side: model.SideRight, Symmetric: loc.Symmetric},
		}
	}

	for _, cn := range childControllerNodes(ctx.Registry, node) {
		for _, l := range locs {
			child, err := ctx.Registry.CreateController(ctx, cn, l)
			if err != nil {
				return nil, err
			}

			c.addChild(child)
		}
	}

	return c, nil
}

func childControllerNodes(r *Registry, node *config.Node) []*config.Node {
	var nodes []*config.Node

	for _, cn := range node.Children() {
		if r.IsController(cn.Key) {
			nodes = append(nodes, cn)
		}
	}

	if list := node.Child("Controllers"); list != nil {
		nodes = append(nodes, list.Children()...)
	}

	return nodes
}

func (c *CompositeController) addChild(child Controller) {
	for _, existing := range c.children {
		if existing.Name() != child.Name() {
			continue
		}

		if child.Name() == "" {
			c.logger.Debug("composite has multiple unnamed children",
				"controller", c.name)
		} else {
			c.logger.Warn("duplicate controller name",
				"controller", c.name, "child", child.Name())
		}

		break
	}

	c.children = append(c.children, child)
}

// Children returns the child controllers in evaluation order.
func (c *CompositeController) Children() []Controller {
	return c.children
}

// UpdateControls runs all children. Any child can request termination.
func (c *CompositeController) UpdateControls(
	m *model.Model,
	t sim.VTimeInSec,
) bool {
	return ifActive(c, m, t, func(m *model.Model, t sim.VTimeInSec) bool {
		terminate := false
		for _, child := range c.children {
			if child.UpdateControls(m, t) {
				terminate = true
			}
		}

		return terminate
	})
}

// UpdateAnalysis runs the analysis of all children.
func (c *CompositeController) UpdateAnalysis(
	m *model.Model,
	t sim.VTimeInSec,
) bool {
	return ifActive(c, m, t, func(m *model.Model, t sim.VTimeInSec) bool {
		terminate := false
		for _, child := range c.children {
			if child.UpdateAnalysis(m, t) {
				terminate = true
			}
		}

		return terminate
	})
}

// Reset resets all children.
func (c *CompositeController) Reset(m *model.Model) {
	for _, child := range c.children {
		child.Reset(m)
	}
}

// StoreData stores the data of all children.
func (c *CompositeController) StoreData(f *storage.Frame, flags storage.Flags) {
	for _, child := range c.children {
		child.StoreData(f, flags)
	}
}

// TrySetControlParameter sets the value on every child that has it.
func (c *CompositeController) TrySetControlParameter(name string, v float64) int {
	return setOnAll(c.children, name, v)
}

// TryGetControlParameter returns the value of the first child that has it.
func (c *CompositeController) TryGetControlParameter(name string) (float64, bool) {
	return getFromAny(c.children, name)
}

// ControlParameters lists the control parameters of all children.
func (c *CompositeController) ControlParameters() []string {
	return listAll(c.children)
}

// Info describes the controller and its children.
func (c *CompositeController) Info() sim.Info {
	info := c.info("CompositeController")
	info["children"] = childInfos(c.children)

	return info
}
