package controller

import (
	"fmt"
	"sort"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// SequentialController runs one child at a time. Children take over after
// fixed transition intervals.
type SequentialController struct {
	CompositeController

	startTimes []sim.VTimeInSec
	activeIdx  int
}

// NewSequentialController reads one transition interval less than there are
// children.
func NewSequentialController(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (Controller, error) {
	cc, err := NewCompositeController(ctx, node, loc)
	if err != nil {
		return nil, err
	}

	c := &SequentialController{
		CompositeController: *cc.(*CompositeController),
	}

	n := len(c.children)
	if n == 0 {
		return nil, sim.ConfigErrorf(node.Path(),
			"sequential controller has no children")
	}

	if !node.Has("transition_intervals") {
		return nil, sim.ConfigErrorf(node.Path(),
			"missing transition_intervals")
	}

	intervals := node.Strings("transition_intervals")
	if len(intervals) != n-1 {
		return nil, sim.ConfigErrorf(node.Path(),
			"expected %d transition intervals, got %d", n-1, len(intervals))
	}

	c.startTimes = make([]sim.VTimeInSec, n)
	for i, raw := range intervals {
		v, err := ctx.Params.Define(fmt.Sprintf("transition%d", i+1), raw)
		if err != nil {
			return nil, sim.ConfigErrorf(node.Path()+".transition_intervals",
				"%w", err)
		}

		c.startTimes[i+1] = c.startTimes[i] + sim.VTimeInSec(v)
	}

	return c, nil
}

// StartTimes returns when each child takes over, relative to the start of
// the controller.
func (c *SequentialController) StartTimes() []sim.VTimeInSec {
	return c.startTimes
}

// ActiveIndex returns the child that runs at a local time.
func (c *SequentialController) ActiveIndex(local sim.VTimeInSec) int {
	idx := sort.Search(len(c.startTimes), func(i int) bool {
		return c.startTimes[i] > local
	}) - 1

	return max(0, min(idx, len(c.children)-1))
}

func (c *SequentialController) localTime(t sim.VTimeInSec) sim.VTimeInSec {
	return t - c.StartTime
}

// UpdateControls runs the active child on its own clock.
func (c *SequentialController) UpdateControls(
	m *model.Model,
	t sim.VTimeInSec,
) bool {
	return ifActive(c, m, t, func(m *model.Model, t sim.VTimeInSec) bool {
		local := c.localTime(t)
		c.activeIdx = c.ActiveIndex(local)

		return c.children[c.activeIdx].UpdateControls(m,
			local-c.startTimes[c.activeIdx])
	})
}

// UpdateAnalysis runs the analysis of the active child.
func (c *SequentialController) UpdateAnalysis(
	m *model.Model,
	t sim.VTimeInSec,
) bool {
	return ifActive(c, m, t, func(m *model.Model, t sim.VTimeInSec) bool {
		local := c.localTime(t)
		idx := c.ActiveIndex(local)

		return c.children[idx].UpdateAnalysis(m, local-c.startTimes[idx])
	})
}

// Reset resets the children and makes the first child active.
func (c *SequentialController) Reset(m *model.Model) {
	c.activeIdx = 0
	c.CompositeController.Reset(m)
}

// StoreData stores the index and the data of the child that ran in the last
// control update.
func (c *SequentialController) StoreData(f *storage.Frame, flags storage.Flags) {
	name := c.name
	if name == "" {
		name = "SequentialController"
	}

	f.Set(name+".active_index", float64(c.activeIdx))
	c.children[c.activeIdx].StoreData(f, flags)
}

// Info describes the controller, its children and their start times.
func (c *SequentialController) Info() sim.Info {
	info := c.info("SequentialController")
	info["children"] = childInfos(c.children)

	starts := make([]float64, len(c.startTimes))
	for i, s := range c.startTimes {
		starts[i] = float64(s)
	}

	info["start_times"] = starts

	return info
}
