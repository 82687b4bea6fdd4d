package controller

import (
	"math"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/history"
	"github.com/sarchlab/neurosim/sim/storage"
)

// DefaultSpindleWindow is the number of samples that spindle sources are
// averaged over.
const DefaultSpindleWindow = 21

// SensorReflex feeds back any sensor through the sensor history.
type SensorReflex struct {
	ReflexBase

	adapter *history.Adapter
	kind    string
	name    string
	delay   sim.VTimeInSec
	sign    float64
	window  int

	P0, KP, C0 float64
	allowNegP  bool

	val float64
}

// NewSensorReflex creates a reflex on the sensor of the given kind that reads
// the source component.
func NewSensorReflex(
	ctx BuildContext,
	node *config.Node,
	_ *ReflexController,
	loc model.Location,
) (Reflex, error) {
	base, err := MakeReflexBase(ctx, node, loc)
	if err != nil {
		return nil, err
	}

	r := &SensorReflex{ReflexBase: base, sign: 1}

	r.kind, err = node.RequireString("sensor")
	if err != nil {
		return nil, err
	}

	s, err := ctx.Model.CreateSensor(r.kind, node.String("source", r.Target), loc)
	if err != nil {
		return nil, err
	}

	r.adapter = ctx.Model.AcquireSensorDelayAdapter(s)
	r.name = ReflexName(r.actuator.Name(), s.Name())

	mirrorLeft, err := node.Bool("mirror_left", false)
	if err != nil {
		return nil, err
	}

	if mirrorLeft && loc.Side == model.SideLeft {
		r.sign = -1
	}

	r.window, err = node.Int("smoothing_window", DefaultSpindleWindow)
	if err != nil {
		return nil, err
	}

	restore := ctx.Params.PushPrefix(ReflexParName(node, loc) + ".")
	defer restore()

	controlName := ctx.Params.Prefix()

	err = r.readParams(ctx, node)
	if err != nil {
		return nil, err
	}

	r.addControl(controlName+"P0", &r.P0)
	r.addControl(controlName+"KP", &r.KP)
	r.addControl(controlName+"C0", &r.C0)

	return r, nil
}

func (r *SensorReflex) readParams(ctx BuildContext, node *config.Node) error {
	d, err := ctx.Params.Float(node, "delay", 0)
	if err != nil {
		return err
	}

	r.delay = sim.VTimeInSec(d)

	r.P0, err = ctx.Params.Float(node, "P0", 0)
	if err != nil {
		return err
	}

	r.KP, err = ctx.Params.Float(node, "KP", 0)
	if err != nil {
		return err
	}

	r.allowNegP, err = node.Bool("allow_neg_P", true)
	if err != nil {
		return err
	}

	r.C0, err = ctx.Params.Float(node, "C0", 0)

	return err
}

// Name returns target and source sensor.
func (r *SensorReflex) Name() string {
	return r.name
}

// sourceValue reads the delayed source. Spindle sources are averaged to
// smooth their rate.
func (r *SensorReflex) sourceValue(m *model.Model) float64 {
	if r.kind == "S" {
		steps := int(math.Round(float64(r.delay / m.ControlStepSize())))
		return r.adapter.AverageValue(steps, r.window)
	}

	return r.adapter.Value(m.SensorDelay(r.delay))
}

// ComputeControls adds C0 and KP times the source minus P0.
func (r *SensorReflex) ComputeControls(m *model.Model, _ sim.VTimeInSec) {
	r.val = r.KP*(r.sign*r.sourceValue(m)) - r.P0
	if !r.allowNegP && r.val < 0 {
		r.val = 0
	}

	r.AddTargetControlValue(r.C0 + r.val)
}

// Reset clears the value of the last step.
func (r *SensorReflex) Reset() {
	r.val = 0
}

// StoreData stores the feedback value.
func (r *SensorReflex) StoreData(f *storage.Frame, _ storage.Flags) {
	f.Set(r.name+".V", r.val)
}

// Info describes the reflex.
func (r *SensorReflex) Info() sim.Info {
	info := r.info("SensorReflex", r.name)
	info["sensor"] = r.kind
	info["source"] = r.adapter.Name()
	info["delay"] = float64(r.delay)

	return info
}
