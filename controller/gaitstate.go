package controller

import (
	"fmt"
	"strings"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/history"
	"github.com/sarchlab/neurosim/sim/storage"
)

// HookPosGaitStateChange marks a leg entering a new gait state. The hook item
// is a GaitTransition.
var HookPosGaitStateChange = &sim.HookPos{Name: "GaitStateChange"}

// GaitState is the phase of one leg in the gait cycle.
type GaitState int

// The gait states, in the order of their bits in a StateMask.
const (
	GaitStateUnknown GaitState = iota
	GaitStateEarlyStance
	GaitStateLateStance
	GaitStateLiftoff
	GaitStateSwing
	GaitStateLanding
	gaitStateCount
)

var gaitStateNames = [...]string{
	"Unknown",
	"EarlyStance",
	"LateStance",
	"Liftoff",
	"Swing",
	"Landing",
}

func (s GaitState) String() string {
	if s < 0 || s >= gaitStateCount {
		return fmt.Sprintf("GaitState(%d)", int(s))
	}

	return gaitStateNames[s]
}

// ParseGaitState finds a gait state by name.
func ParseGaitState(name string) (GaitState, error) {
	for i, n := range gaitStateNames {
		if n == name {
			return GaitState(i), nil
		}
	}

	return GaitStateUnknown, fmt.Errorf("unknown gait state %q", name)
}

// StateMask is a set of gait states.
type StateMask uint8

// Has checks if a state is in the mask.
func (m StateMask) Has(s GaitState) bool {
	return m&(1<<uint(s)) != 0
}

// String formats the mask as bits with the last state first.
func (m StateMask) String() string {
	return fmt.Sprintf("%0*b", int(gaitStateCount), uint8(m))
}

// ParseStateMask reads space separated state names.
func ParseStateMask(s string) (StateMask, error) {
	var mask StateMask

	for _, name := range strings.Fields(s) {
		st, err := ParseGaitState(name)
		if err != nil {
			return 0, err
		}

		mask |= 1 << uint(st)
	}

	return mask, nil
}

// GaitTransition is the item of a gait state change hook.
type GaitTransition struct {
	Leg  string
	From GaitState
	To   GaitState
	Time sim.VTimeInSec
}

// LegState tracks the gait phase of one leg.
type LegState struct {
	Leg   model.Leg
	State GaitState

	load *history.Adapter

	LegLength           float64
	StanceLoadThreshold float64
	SwingLoadThreshold  float64
	LandingThreshold    float64
	LateStanceThreshold float64
	LiftoffThreshold    float64

	LegLoad     float64
	SagittalPos float64
	CoronalPos  float64

	AllowStance     bool
	AllowSwing      bool
	AllowLateStance bool
	AllowLiftoff    bool
	AllowLanding    bool
}

func newLegState(
	ctx BuildContext,
	node *config.Node,
	leg model.Leg,
	override float64,
) (*LegState, error) {
	ls := &LegState{
		Leg:       leg,
		load:      ctx.Model.AcquireSensorDelayAdapter(model.NewLegLoadSensor(leg)),
		LegLength: leg.Length(),
	}

	if override != 0 {
		ls.LegLength = override
	}

	var err error

	read := func(key string, def float64) float64 {
		if err != nil {
			return 0
		}

		var v float64
		v, err = ctx.Params.Float(node, key, def)

		return v
	}

	ls.StanceLoadThreshold = read("stance_load_threshold", 0.1)
	ls.SwingLoadThreshold = read("swing_load_threshold", ls.StanceLoadThreshold)
	ls.LandingThreshold = read("landing_threshold", 0)
	ls.LateStanceThreshold = read("late_stance_threshold", 0)
	ls.LiftoffThreshold = read("liftoff_threshold", -1)

	if err != nil {
		return nil, err
	}

	return ls, nil
}

func (ls *LegState) reset() {
	*ls = LegState{
		Leg:                 ls.Leg,
		load:                ls.load,
		LegLength:           ls.LegLength,
		StanceLoadThreshold: ls.StanceLoadThreshold,
		SwingLoadThreshold:  ls.SwingLoadThreshold,
		LandingThreshold:    ls.LandingThreshold,
		LateStanceThreshold: ls.LateStanceThreshold,
		LiftoffThreshold:    ls.LiftoffThreshold,
	}
}

// ConditionalController runs a controller while one leg is in one of a set
// of gait states.
type ConditionalController struct {
	Mask        StateMask
	LegIndex    int
	Controller  Controller
	Active      bool
	ActiveSince sim.VTimeInSec
}

// GaitStateController runs a finite state machine per leg and switches
// sub-controllers by gait state.
type GaitStateController struct {
	Base
	sim.HookableBase

	legs         []*LegState
	conditionals []*ConditionalController

	legLoadSensorDelay sim.VTimeInSec
	useModelCOM        bool
	symmetric          bool

	lastUpdateStep int
}

// NewGaitStateController creates a leg state per leg of the plant and the
// conditional controllers listed under ConditionalControllers.
func NewGaitStateController(
	ctx BuildContext,
	node *config.Node,
	_ model.Location,
) (Controller, error) {
	base, err := MakeBase(ctx, node)
	if err != nil {
		return nil, err
	}

	c := &GaitStateController{Base: base, lastUpdateStep: -1}

	err = c.readSettings(node)
	if err != nil {
		return nil, err
	}

	err = c.createLegStates(ctx, node)
	if err != nil {
		return nil, err
	}

	err = c.createConditionalControllers(ctx, node)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *GaitStateController) readSettings(node *config.Node) error {
	d, err := node.Float("leg_load_sensor_delay", 0)
	if err != nil {
		return err
	}

	c.legLoadSensorDelay = sim.VTimeInSec(d)

	c.useModelCOM, err = node.Bool("use_model_com_reference_pos", false)
	if err != nil {
		return err
	}

	c.symmetric, err = node.Bool("symmetric", true)

	return err
}

func (c *GaitStateController) createLegStates(
	ctx BuildContext,
	node *config.Node,
) error {
	plant := ctx.Model.Plant()
	legs := plant.Legs()

	if len(legs) == 0 {
		return sim.ConfigErrorf(node.Path(),
			"could not find any legs in %s, make sure the plant defines "+
				"legs with a base body, a foot body and a contact force",
			plant.Name())
	}

	if len(legs)%2 != 0 {
		return sim.ConfigErrorf(node.Path(),
			"an even number of legs is required, found %d", len(legs))
	}

	override, err := node.Float("override_leg_length", 0)
	if err != nil {
		return err
	}

	for _, leg := range legs {
		prefix := ""
		if !c.symmetric {
			prefix = leg.Name() + "."
		}

		restore := ctx.Params.PushPrefix(prefix)
		ls, err := newLegState(ctx, node, leg, override)
		restore()

		if err != nil {
			return err
		}

		c.legs = append(c.legs, ls)
	}

	return nil
}

func (c *GaitStateController) createConditionalControllers(
	ctx BuildContext,
	node *config.Node,
) error {
	list := node.Child("ConditionalControllers")
	if list == nil {
		return sim.ConfigErrorf(node.Path(), "missing ConditionalControllers")
	}

	for _, entry := range list.Children() {
		err := c.createConditionalEntry(ctx, entry)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *GaitStateController) createConditionalEntry(
	ctx BuildContext,
	entry *config.Node,
) error {
	states, err := entry.RequireString("states")
	if err != nil {
		return err
	}

	side, err := model.ParseSide(entry.String("legs", ""))
	if err != nil {
		return sim.ConfigErrorf(entry.Path()+".legs", "%w", err)
	}

	var cnode *config.Node
	for _, cn := range entry.Children() {
		if ctx.Registry.IsController(cn.Key) {
			cnode = cn
			break
		}
	}

	if cnode == nil {
		return sim.ConfigErrorf(entry.Path(), "no controller defined")
	}

	groups := strings.FieldsFunc(states, func(r rune) bool {
		return r == ';' || r == ','
	})

	for _, group := range groups {
		mask, err := ParseStateMask(group)
		if err != nil {
			return sim.ConfigErrorf(entry.Path()+".states", "%w", err)
		}

		if mask == 0 {
			return sim.ConfigErrorf(entry.Path()+".states",
				"conditional controller has empty state mask")
		}

		for i, ls := range c.legs {
			if side != model.SideNone && ls.Leg.Side() != side {
				continue
			}

			loc := model.Location{Side: ls.Leg.Side(), Symmetric: c.symmetric}

			restore := ctx.Params.PushPrefix("S" + mask.String() + ".")
			child, err := ctx.Registry.CreateController(ctx, cnode, loc)
			restore()

			if err != nil {
				return err
			}

			c.conditionals = append(c.conditionals, &ConditionalController{
				Mask:       mask,
				LegIndex:   i,
				Controller: child,
			})
		}
	}

	return nil
}

// LegStates returns the state of every leg, in plant order.
func (c *GaitStateController) LegStates() []*LegState {
	return c.legs
}

// ConditionalControllers returns the conditional controllers in creation
// order.
func (c *GaitStateController) ConditionalControllers() []*ConditionalController {
	return c.conditionals
}

// UpdateControls updates the leg states once per integration step, then runs
// the active conditional controllers on their own clocks.
func (c *GaitStateController) UpdateControls(
	m *model.Model,
	t sim.VTimeInSec,
) bool {
	return ifActive(c, m, t, func(m *model.Model, t sim.VTimeInSec) bool {
		plant := m.Plant()
		if plant.IntegrationStep() != plant.PreviousIntegrationStep() {
			c.updateLegStates(m, t)
			c.updateControllerStates(t)
		}

		for _, cc := range c.conditionals {
			if cc.Active {
				cc.Controller.UpdateControls(m, t-cc.ActiveSince)
			}
		}

		return false
	})
}

func (c *GaitStateController) updateLegStates(m *model.Model, t sim.VTimeInSec) {
	step := m.Plant().IntegrationStep()
	if step == c.lastUpdateStep {
		sim.AssertionPanic(
			"gait states updated twice in integration step %d", step)
	}

	c.lastUpdateStep = step

	for _, ls := range c.legs {
		c.updateEligibility(m, ls)
	}

	for i, ls := range c.legs {
		next := nextGaitState(ls, c.legs[i^1])
		if next == ls.State {
			continue
		}

		tr := GaitTransition{
			Leg:  ls.Leg.Name(),
			From: ls.State,
			To:   next,
			Time: t,
		}
		ls.State = next

		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosGaitStateChange,
			Item:   tr,
		})
	}
}

func (c *GaitStateController) updateEligibility(m *model.Model, ls *LegState) {
	load := ls.load.Value(c.legLoadSensorDelay)

	ls.LegLoad = load
	ls.AllowStance = load > ls.StanceLoadThreshold
	ls.AllowSwing = load <= ls.SwingLoadThreshold

	ref := ls.Leg.BasePos()
	if c.useModelCOM {
		ref = m.Plant().ComPos()
	}

	d := ls.Leg.FootPos().Sub(ref)
	ls.SagittalPos = d.X
	ls.CoronalPos = d.Z

	ls.AllowLateStance = ls.SagittalPos < ls.LegLength*ls.LateStanceThreshold
	ls.AllowLiftoff = ls.SagittalPos < ls.LegLength*ls.LiftoffThreshold
	ls.AllowLanding = ls.SagittalPos > ls.LegLength*ls.LandingThreshold
}

func nextGaitState(ls, mir *LegState) GaitState {
	behind := mir.AllowStance && ls.SagittalPos < mir.SagittalPos

	switch ls.State {
	case GaitStateUnknown:
		switch {
		case ls.AllowStance && behind:
			return GaitStateLiftoff
		case ls.AllowStance && ls.AllowLateStance:
			return GaitStateLateStance
		case ls.AllowStance:
			return GaitStateEarlyStance
		case ls.AllowLanding:
			return GaitStateLanding
		default:
			return GaitStateSwing
		}
	case GaitStateEarlyStance:
		if behind {
			return GaitStateLiftoff
		}

		if ls.AllowLateStance {
			return GaitStateLateStance
		}
	case GaitStateLateStance:
		if behind || ls.AllowLiftoff {
			return GaitStateLiftoff
		}
	case GaitStateLiftoff:
		if ls.AllowSwing {
			return GaitStateSwing
		}
	case GaitStateSwing:
		next := ls.State
		if ls.AllowStance && ls.SagittalPos > mir.SagittalPos {
			next = GaitStateEarlyStance
		}

		if !ls.AllowStance && ls.AllowLanding {
			next = GaitStateLanding
		}

		return next
	case GaitStateLanding:
		if ls.AllowStance {
			return GaitStateEarlyStance
		}
	}

	return ls.State
}

func (c *GaitStateController) updateControllerStates(t sim.VTimeInSec) {
	for _, cc := range c.conditionals {
		active := cc.Mask.Has(c.legs[cc.LegIndex].State)
		if active != cc.Active {
			cc.Active = active
			cc.ActiveSince = t
		}
	}
}

// Reset puts all legs back into the unknown state and deactivates all
// conditional controllers.
func (c *GaitStateController) Reset(m *model.Model) {
	c.lastUpdateStep = -1

	for _, ls := range c.legs {
		ls.reset()
	}

	for _, cc := range c.conditionals {
		cc.Active = false
		cc.ActiveSince = 0
		cc.Controller.Reset(m)
	}
}

// StoreData stores the state and sagittal position of each leg and the data
// of the active conditional controllers.
func (c *GaitStateController) StoreData(f *storage.Frame, flags storage.Flags) {
	for _, ls := range c.legs {
		f.Set(ls.Leg.Name()+".state", float64(ls.State))
	}

	for _, ls := range c.legs {
		f.Set(ls.Leg.Name()+".sag_pos", ls.SagittalPos)
	}

	for _, cc := range c.conditionals {
		if cc.Active {
			cc.Controller.StoreData(f, flags)
		}
	}
}

func (c *GaitStateController) children() []Controller {
	children := make([]Controller, len(c.conditionals))
	for i, cc := range c.conditionals {
		children[i] = cc.Controller
	}

	return children
}

// TrySetControlParameter sets the value on every conditional controller.
func (c *GaitStateController) TrySetControlParameter(name string, v float64) int {
	return setOnAll(c.children(), name, v)
}

// TryGetControlParameter returns the first value found.
func (c *GaitStateController) TryGetControlParameter(name string) (float64, bool) {
	return getFromAny(c.children(), name)
}

// ControlParameters lists the control parameters of all conditional
// controllers.
func (c *GaitStateController) ControlParameters() []string {
	return listAll(c.children())
}

// ConditionName names a conditional controller by its leg and states.
func (c *GaitStateController) ConditionName(cc *ConditionalController) string {
	var b strings.Builder

	b.WriteString(c.legs[cc.LegIndex].Leg.Name())

	for s := GaitStateUnknown; s < gaitStateCount; s++ {
		if cc.Mask.Has(s) {
			b.WriteString("-")
			b.WriteString(s.String())
		}
	}

	return b.String()
}

// Info describes the legs and the conditional controllers.
func (c *GaitStateController) Info() sim.Info {
	info := c.info("GaitStateController")

	legs := make([]sim.Info, 0, len(c.legs))
	for _, ls := range c.legs {
		legs = append(legs, sim.Info{
			"leg":                   ls.Leg.Name(),
			"leg_length":            ls.LegLength,
			"stance_load_threshold": ls.StanceLoadThreshold,
			"swing_load_threshold":  ls.SwingLoadThreshold,
			"landing_threshold":     ls.LandingThreshold,
			"late_stance_threshold": ls.LateStanceThreshold,
			"liftoff_threshold":     ls.LiftoffThreshold,
		})
	}

	info["legs"] = legs

	conds := make([]sim.Info, 0, len(c.conditionals))
	for _, cc := range c.conditionals {
		ci := cc.Controller.Info()
		ci["condition"] = c.ConditionName(cc)
		conds = append(conds, ci)
	}

	info["conditional_controllers"] = conds

	return info
}
