package controller

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/delay"
	"github.com/sarchlab/neurosim/sim/storage"
)

// DofReflex feeds back the position and velocity of a degree of freedom.
type DofReflex struct {
	ReflexBase

	source    model.Dof
	name      string
	delay     sim.VTimeInSec
	mirror    bool
	condition int

	P0, KP, V0, KV, C0 float64

	allowNegP, allowNegV bool

	pos, vel  delay.SensorValue
	targetPos delay.SensorValue

	uP, uV float64
}

// NewDofReflex creates a dof reflex. The source may be measured relative to
// a source_parent dof.
func NewDofReflex(
	ctx BuildContext,
	node *config.Node,
	_ *ReflexController,
	loc model.Location,
) (Reflex, error) {
	base, err := MakeReflexBase(ctx, node, loc)
	if err != nil {
		return nil, err
	}

	r := &DofReflex{ReflexBase: base}

	sourceName, err := node.RequireString("source")
	if err != nil {
		return nil, err
	}

	r.source, err = ctx.Model.FindDof(sourceName, loc)
	if err != nil {
		return nil, err
	}

	var parent model.Dof
	if pn := node.String("source_parent", ""); pn != "" {
		parent, err = ctx.Model.FindDof(pn, loc)
		if err != nil {
			return nil, err
		}
	}

	mirrorLeft, err := node.Bool("mirror_left", false)
	if err != nil {
		return nil, err
	}

	r.mirror = mirrorLeft && loc.Side == model.SideLeft
	r.name = ReflexName(r.actuator.Name(), sourceName)

	restore := ctx.Params.PushPrefix(ReflexParName(node, loc) + ".")
	defer restore()

	controlName := ctx.Params.Prefix()

	err = r.readParams(ctx, node)
	if err != nil {
		return nil, err
	}

	err = r.acquireSensors(ctx, node, parent, loc)
	if err != nil {
		return nil, err
	}

	r.addControl(controlName+"P0", &r.P0)
	r.addControl(controlName+"KP", &r.KP)
	r.addControl(controlName+"V0", &r.V0)
	r.addControl(controlName+"KV", &r.KV)
	r.addControl(controlName+"C0", &r.C0)

	return r, nil
}

func (r *DofReflex) readParams(ctx BuildContext, node *config.Node) error {
	d, err := ctx.Params.Float(node, "delay", 0)
	if err != nil {
		return err
	}

	r.delay = sim.VTimeInSec(d)

	for _, p := range []struct {
		v   *float64
		key string
	}{
		{&r.P0, "P0"}, {&r.KP, "KP"}, {&r.V0, "V0"}, {&r.KV, "KV"}, {&r.C0, "C0"},
	} {
		*p.v, err = ctx.Params.Float(node, p.key, 0)
		if err != nil {
			return err
		}
	}

	r.allowNegP, err = node.Bool("allow_neg_P", true)
	if err != nil {
		return err
	}

	r.allowNegV, err = node.Bool("allow_neg_V", true)
	if err != nil {
		return err
	}

	r.condition, err = node.Int("condition", 0)
	if err != nil {
		return err
	}

	if r.condition < -1 || r.condition > 1 {
		return sim.ConfigErrorf(node.Path()+".condition",
			"condition must be -1, 0 or 1, got %d", r.condition)
	}

	return nil
}

func (r *DofReflex) acquireSensors(
	ctx BuildContext,
	node *config.Node,
	parent model.Dof,
	loc model.Location,
) error {
	var err error

	r.pos, err = ctx.Model.AcquireDelayedSensor(
		model.DofPositionSensor{Dof: r.source, Root: parent}, r.delay)
	if err != nil {
		return err
	}

	r.vel, err = ctx.Model.AcquireDelayedSensor(
		model.DofVelocitySensor{Dof: r.source, Root: parent}, r.delay)
	if err != nil {
		return err
	}

	if ps := node.String("P0_source", ""); ps != "" {
		dof, err := ctx.Model.FindDof(ps, loc)
		if err != nil {
			return err
		}

		r.targetPos, err = ctx.Model.AcquireDelayedSensor(
			model.DofPositionSensor{Dof: dof}, r.delay)
		if err != nil {
			return err
		}
	}

	return nil
}

// Name returns target and source.
func (r *DofReflex) Name() string {
	return r.name
}

// ComputeControls adds C0 and the position and velocity terms when the
// condition holds. With condition -1 both errors must be negative, with 1
// both must be positive.
func (r *DofReflex) ComputeControls(*model.Model, sim.VTimeInSec) {
	pos := r.pos.Value()
	vel := r.vel.Value()

	if r.mirror {
		pos, vel = -pos, -vel
	}

	target := r.P0
	if r.targetPos.Valid() {
		target += r.targetPos.Value()
	}

	dp := target - pos
	dv := r.V0 - vel

	fire := r.condition == 0 ||
		(r.condition == -1 && dp < 0 && dv < 0) ||
		(r.condition == 1 && dp > 0 && dv > 0)

	if !fire {
		r.uP, r.uV = 0, 0
		return
	}

	r.uP = gainTerm(dp, r.KP, 0, r.allowNegP)
	r.uV = gainTerm(dv, r.KV, 0, r.allowNegV)

	r.AddTargetControlValue(r.C0 + r.uP + r.uV)
}

// Reset clears the terms of the last step.
func (r *DofReflex) Reset() {
	r.uP, r.uV = 0, 0
}

// StoreData stores the position and velocity terms.
func (r *DofReflex) StoreData(f *storage.Frame, _ storage.Flags) {
	f.Set(r.name+".RDP", r.uP)
	f.Set(r.name+".RDV", r.uV)
}

// Info describes the reflex.
func (r *DofReflex) Info() sim.Info {
	info := r.info("DofReflex", r.name)
	info["source"] = r.source.Name()
	info["delay"] = float64(r.delay)
	info["condition"] = r.condition

	if r.mirror {
		info["mirror"] = true
	}

	return info
}
