package controller

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
)

// MirrorController instantiates one template controller for the right and
// the left side.
type MirrorController struct {
	CompositeController
}

// NewMirrorController creates the right copy first and the left copy second.
func NewMirrorController(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (Controller, error) {
	base, err := MakeBase(ctx, node)
	if err != nil {
		return nil, err
	}

	nodes := childControllerNodes(ctx.Registry, node)
	if len(nodes) != 1 {
		return nil, sim.ConfigErrorf(node.Path(),
			"mirror controller needs exactly one child, got %d", len(nodes))
	}

	c := &MirrorController{CompositeController{Base: base}}

	for _, side := range []model.Side{model.SideRight, model.SideLeft} {
		child, err := ctx.Registry.CreateController(ctx, nodes[0],
			model.Location{Side: side, Symmetric: loc.Symmetric})
		if err != nil {
			return nil, err
		}

		c.children = append(c.children, child)
	}

	return c, nil
}

// Info describes the controller and both copies.
func (c *MirrorController) Info() sim.Info {
	info := c.info("MirrorController")
	info["children"] = childInfos(c.children)

	return info
}
