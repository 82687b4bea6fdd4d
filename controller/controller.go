// Package controller provides the tree of controllers that compute actuator
// inputs, from composition nodes down to reflexes and the gait state machine.
package controller

import (
	"log/slog"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/params"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// A Controller is a node in the controller tree.
type Controller interface {
	model.Controller

	// IsActive checks if the controller runs at time t.
	IsActive(m *model.Model, t sim.VTimeInSec) bool
	SetDisabled(disabled bool)
	IsDisabled() bool

	// TrySetControlParameter sets a named control value and returns how many
	// values were changed.
	TrySetControlParameter(name string, v float64) int
	TryGetControlParameter(name string) (float64, bool)
	ControlParameters() []string
}

// BuildContext carries what controllers need while they are being built.
type BuildContext struct {
	Model    *model.Model
	Params   params.Resolver
	Registry *Registry
	Logger   *slog.Logger
}

// NewBuildContext creates a context with the built-in registry and the model
// logger.
func NewBuildContext(m *model.Model, par params.Resolver) BuildContext {
	return BuildContext{
		Model:    m,
		Params:   par,
		Registry: DefaultRegistry(),
		Logger:   m.Logger(),
	}
}

// Build creates the controller described by the first child of doc that
// names a registered controller.
func Build(ctx BuildContext, doc *config.Node) (Controller, error) {
	for _, c := range doc.Children() {
		if ctx.Registry.IsController(c.Key) {
			return ctx.Registry.CreateController(ctx, c,
				model.NewLocation(model.SideNone))
		}
	}

	return nil, sim.ConfigErrorf(doc.Path(), "no controller defined")
}

// Base holds what all controllers share: a name, an activation window and a
// disabled flag.
type Base struct {
	name      string
	StartTime sim.VTimeInSec
	StopTime  sim.VTimeInSec
	disabled  bool
	logger    *slog.Logger
}

// MakeBase reads the common settings of a controller.
func MakeBase(ctx BuildContext, node *config.Node) (Base, error) {
	b := Base{
		name:   node.String("name", ""),
		logger: sim.LoggerOrDefault(ctx.Logger),
	}

	start, err := ctx.Params.Float(node, "start_time", 0)
	if err != nil {
		return b, err
	}

	stop, err := ctx.Params.Float(node, "stop_time", 0)
	if err != nil {
		return b, err
	}

	b.StartTime = sim.VTimeInSec(start)
	b.StopTime = sim.VTimeInSec(stop)

	b.disabled, err = node.Bool("disabled", false)
	if err != nil {
		return b, err
	}

	if pn := node.Child("Parameters"); pn != nil {
		for _, p := range pn.Children() {
			_, err = ctx.Params.Define(p.Key, p.Value)
			if err != nil {
				return b, sim.ConfigErrorf(pn.Path()+"."+p.Key, "%w", err)
			}
		}
	}

	return b, nil
}

// Name returns the name of the controller.
func (b *Base) Name() string {
	return b.name
}

// IsActive checks the activation window and the disabled flag.
func (b *Base) IsActive(_ *model.Model, t sim.VTimeInSec) bool {
	if b.disabled {
		return false
	}

	return t >= b.StartTime && (b.StopTime == 0 || t < b.StopTime)
}

// SetDisabled turns the controller off or on.
func (b *Base) SetDisabled(disabled bool) {
	b.disabled = disabled
}

// IsDisabled checks if the controller is turned off.
func (b *Base) IsDisabled() bool {
	return b.disabled
}

// UpdateAnalysis does nothing.
func (b *Base) UpdateAnalysis(*model.Model, sim.VTimeInSec) bool {
	return false
}

// Reset warns that the controller keeps its state.
func (b *Base) Reset(*model.Model) {
	b.logger.Warn("Reset() is not implemented", "controller", b.name)
}

// StoreData stores nothing.
func (b *Base) StoreData(*storage.Frame, storage.Flags) {}

// TrySetControlParameter changes nothing.
func (b *Base) TrySetControlParameter(string, float64) int {
	return 0
}

// TryGetControlParameter finds nothing.
func (b *Base) TryGetControlParameter(string) (float64, bool) {
	return 0, false
}

// ControlParameters lists nothing.
func (b *Base) ControlParameters() []string {
	return nil
}

func (b *Base) info(kind string) sim.Info {
	info := sim.Info{"type": kind}

	if b.name != "" {
		info["name"] = b.name
	}

	if b.StartTime != 0 {
		info["start_time"] = float64(b.StartTime)
	}

	if b.StopTime != 0 {
		info["stop_time"] = float64(b.StopTime)
	}

	if b.disabled {
		info["disabled"] = true
	}

	return info
}

// ifActive runs compute only when c is active at time t.
func ifActive(
	c Controller,
	m *model.Model,
	t sim.VTimeInSec,
	compute func(*model.Model, sim.VTimeInSec) bool,
) bool {
	if !c.IsActive(m, t) {
		return false
	}

	return compute(m, t)
}

func setOnAll(children []Controller, name string, v float64) int {
	n := 0
	for _, c := range children {
		n += c.TrySetControlParameter(name, v)
	}

	return n
}

func getFromAny(children []Controller, name string) (float64, bool) {
	for _, c := range children {
		if v, ok := c.TryGetControlParameter(name); ok {
			return v, true
		}
	}

	return 0, false
}

func listAll(children []Controller) []string {
	var names []string
	for _, c := range children {
		names = append(names, c.ControlParameters()...)
	}

	return names
}

func childInfos(children []Controller) []sim.Info {
	infos := make([]sim.Info, 0, len(children))
	for _, c := range children {
		infos = append(infos, c.Info())
	}

	return infos
}

// Walk calls fn on c and then on every controller below it, depth first in
// creation order.
func Walk(c Controller, fn func(Controller)) {
	if c == nil {
		return
	}

	fn(c)

	switch p := c.(type) {
	case interface{ Children() []Controller }:
		for _, child := range p.Children() {
			Walk(child, fn)
		}
	case *GaitStateController:
		for _, child := range p.children() {
			Walk(child, fn)
		}
	}
}
