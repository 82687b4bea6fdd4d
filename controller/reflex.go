package controller

import (
	"math"
	"sort"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// A Reflex adds one feedback term to an actuator.
type Reflex interface {
	Name() string
	ComputeControls(m *model.Model, t sim.VTimeInSec)
	Reset()
	StoreData(f *storage.Frame, flags storage.Flags)
	Info() sim.Info

	TrySetControlParameter(name string, v float64) int
	TryGetControlParameter(name string) (float64, bool)
	ControlParameters() []string
}

type inputSink interface {
	AddInput(v float64)
}

// ReflexBase holds the target actuator and the output bounds of a reflex.
type ReflexBase struct {
	Target          string
	MinControlValue float64
	MaxControlValue float64

	actuator model.Actuator
	sink     inputSink

	controls     map[string]*float64
	controlNames []string
}

// MakeReflexBase resolves the target actuator. With actuator_delay set, the
// output reaches the actuator through a delayed channel.
func MakeReflexBase(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (ReflexBase, error) {
	b := ReflexBase{controls: make(map[string]*float64)}

	var err error

	b.Target, err = node.RequireString("target")
	if err != nil {
		return b, err
	}

	b.actuator, err = ctx.Model.FindActuator(b.Target, loc)
	if err != nil {
		return b, err
	}

	b.MinControlValue, err = ctx.Params.Float(node, "min_control_value",
		math.Inf(-1))
	if err != nil {
		return b, err
	}

	b.MaxControlValue, err = ctx.Params.Float(node, "max_control_value",
		math.Inf(1))
	if err != nil {
		return b, err
	}

	actDelay, err := node.Float("actuator_delay", 0)
	if err != nil {
		return b, err
	}

	b.sink = b.actuator
	if actDelay > 0 {
		b.sink, err = ctx.Model.AcquireDelayedActuator(b.actuator,
			sim.VTimeInSec(actDelay))
		if err != nil {
			return b, err
		}
	}

	return b, nil
}

// Actuator returns the target actuator.
func (b *ReflexBase) Actuator() model.Actuator {
	return b.actuator
}

// AddTargetControlValue clamps u and adds it to the target. It returns the
// clamped value.
func (b *ReflexBase) AddTargetControlValue(u float64) float64 {
	u = math.Max(b.MinControlValue, math.Min(b.MaxControlValue, u))
	b.sink.AddInput(u)

	return u
}

func (b *ReflexBase) addControl(name string, v *float64) {
	if _, ok := b.controls[name]; !ok {
		b.controlNames = append(b.controlNames, name)
	}

	b.controls[name] = v
}

// TrySetControlParameter sets a named gain or offset.
func (b *ReflexBase) TrySetControlParameter(name string, v float64) int {
	p, ok := b.controls[name]
	if !ok {
		return 0
	}

	*p = v

	return 1
}

// TryGetControlParameter reads a named gain or offset.
func (b *ReflexBase) TryGetControlParameter(name string) (float64, bool) {
	p, ok := b.controls[name]
	if !ok {
		return 0, false
	}

	return *p, true
}

// ControlParameters lists the names of the gains and offsets.
func (b *ReflexBase) ControlParameters() []string {
	names := append([]string(nil), b.controlNames...)
	sort.Strings(names)

	return names
}

// Reset does nothing. Reflexes only keep their last output.
func (b *ReflexBase) Reset() {}

func (b *ReflexBase) info(kind, name string) sim.Info {
	info := sim.Info{
		"type":   kind,
		"name":   name,
		"target": b.actuator.Name(),
	}

	if !math.IsInf(b.MinControlValue, -1) {
		info["min_control_value"] = b.MinControlValue
	}

	if !math.IsInf(b.MaxControlValue, 1) {
		info["max_control_value"] = b.MaxControlValue
	}

	return info
}

// ReflexName names a reflex by its target and its source.
func ReflexName(target, source string) string {
	if target == source {
		return target
	}

	return target + "-" + source
}

// ReflexParName returns the parameter prefix of a reflex. It is par_name when
// given, otherwise it is built from target and source.
func ReflexParName(node *config.Node, loc model.Location) string {
	if pn := node.String("par_name", ""); pn != "" {
		return loc.ParName(pn)
	}

	trg := loc.ParName(node.String("target", ""))
	src := loc.ParName(node.String("source", trg))

	return ReflexName(trg, src)
}

// gainTerm returns k*(v-o), clamped at zero when negative values are not
// allowed.
func gainTerm(v, k, o float64, allowNeg bool) float64 {
	u := k * (v - o)
	if !allowNeg && u < 0 {
		return 0
	}

	return u
}
