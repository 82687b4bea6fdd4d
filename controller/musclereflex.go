package controller

import (
	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/delay"
	"github.com/sarchlab/neurosim/sim/storage"
)

// MuscleReflex feeds back the length, velocity, force, spindle rate and
// activation of a source muscle.
type MuscleReflex struct {
	ReflexBase

	source model.Muscle
	name   string
	delay  sim.VTimeInSec

	KL, L0, KV, V0, KF, F0, KS, S0, KA, A0, C0 float64

	allowNegL, allowNegV, allowNegF, allowNegS, allowNegA bool

	length, velocity, force, spindle, activation delay.SensorValue

	uL, uV, uF, uS, uA, uTotal float64
}

type gainSpec struct {
	gain, offset *float64
	gainKey      string
	offsetKey    string
	offsetDef    float64
	allowNeg     *bool
	allowNegKey  string
	allowNegDef  bool
}

// NewMuscleReflex creates a muscle reflex. Delayed sensors are only acquired
// for gains that are not zero.
func NewMuscleReflex(
	ctx BuildContext,
	node *config.Node,
	_ *ReflexController,
	loc model.Location,
) (Reflex, error) {
	base, err := MakeReflexBase(ctx, node, loc)
	if err != nil {
		return nil, err
	}

	r := &MuscleReflex{ReflexBase: base}

	r.source, err = ctx.Model.FindMuscle(node.String("source", r.Target), loc)
	if err != nil {
		return nil, err
	}

	r.name = ReflexName(r.actuator.Name(), r.source.Name())

	restore := ctx.Params.PushPrefix(ReflexParName(node, loc) + ".")
	defer restore()

	controlName := ctx.Params.Prefix()

	err = r.readParams(ctx, node)
	if err != nil {
		return nil, err
	}

	r.addControl(controlName+"C0", &r.C0)

	sensors := []struct {
		gain, offset *float64
		names        [2]string
		handle       *delay.SensorValue
		sensor       model.Sensor
	}{
		{&r.KF, &r.F0, [2]string{"KF", "F0"}, &r.force, model.MuscleForceSensor{Muscle: r.source}},
		{&r.KL, &r.L0, [2]string{"KL", "L0"}, &r.length, model.MuscleLengthSensor{Muscle: r.source}},
		{&r.KV, &r.V0, [2]string{"KV", "V0"}, &r.velocity, model.MuscleVelocitySensor{Muscle: r.source}},
		{&r.KS, &r.S0, [2]string{"KS", "S0"}, &r.spindle, model.MuscleSpindleSensor{Muscle: r.source}},
		{&r.KA, &r.A0, [2]string{"KA", "A0"}, &r.activation, model.MuscleActivationSensor{Muscle: r.source}},
	}

	for _, s := range sensors {
		if *s.gain == 0 {
			continue
		}

		*s.handle, err = ctx.Model.AcquireDelayedSensor(s.sensor, r.delay)
		if err != nil {
			return nil, err
		}

		r.addControl(controlName+s.names[0], s.gain)
		r.addControl(controlName+s.names[1], s.offset)
	}

	return r, nil
}

func (r *MuscleReflex) readParams(ctx BuildContext, node *config.Node) error {
	def := 0.0
	if d, err := ctx.Model.TwoWayNeuralDelay(r.source.Name()); err == nil {
		def = float64(d)
	}

	d, err := ctx.Params.Float(node, "delay", def)
	if err != nil {
		return err
	}

	r.delay = sim.VTimeInSec(d)

	specs := []gainSpec{
		{&r.KL, &r.L0, "KL", "L0", 1, &r.allowNegL, "allow_neg_L", true},
		{&r.KV, &r.V0, "KV", "V0", 0, &r.allowNegV, "allow_neg_V", false},
		{&r.KF, &r.F0, "KF", "F0", 0, &r.allowNegF, "allow_neg_F", true},
		{&r.KS, &r.S0, "KS", "S0", 0, &r.allowNegS, "allow_neg_S", false},
		{&r.KA, &r.A0, "KA", "A0", 0, &r.allowNegA, "allow_neg_A", false},
	}

	for _, s := range specs {
		*s.gain, err = ctx.Params.Float(node, s.gainKey, 0)
		if err != nil {
			return err
		}

		*s.offset, err = ctx.Params.Float(node, s.offsetKey, s.offsetDef)
		if err != nil {
			return err
		}

		*s.allowNeg, err = node.Bool(s.allowNegKey, s.allowNegDef)
		if err != nil {
			return err
		}
	}

	r.C0, err = ctx.Params.Float(node, "C0", 0)

	return err
}

// Name returns target and source.
func (r *MuscleReflex) Name() string {
	return r.name
}

// Source returns the source muscle.
func (r *MuscleReflex) Source() model.Muscle {
	return r.source
}

func sensorTerm(s delay.SensorValue, k, o float64, allowNeg bool) float64 {
	if !s.Valid() {
		return 0
	}

	return gainTerm(s.Value(), k, o, allowNeg)
}

// ComputeControls adds the sum of all terms and C0 to the target.
func (r *MuscleReflex) ComputeControls(*model.Model, sim.VTimeInSec) {
	r.uL = sensorTerm(r.length, r.KL, r.L0, r.allowNegL)
	r.uV = sensorTerm(r.velocity, r.KV, r.V0, r.allowNegV)
	r.uF = sensorTerm(r.force, r.KF, r.F0, r.allowNegF)
	r.uS = sensorTerm(r.spindle, r.KS, r.S0, r.allowNegS)
	r.uA = sensorTerm(r.activation, r.KA, r.A0, r.allowNegA)

	r.uTotal = r.uL + r.uV + r.uF + r.uS + r.uA + r.C0
	r.AddTargetControlValue(r.uTotal)
}

// Output returns the unclamped output of the last step.
func (r *MuscleReflex) Output() float64 {
	return r.uTotal
}

// Reset clears the output of the last step.
func (r *MuscleReflex) Reset() {
	r.uL, r.uV, r.uF, r.uS, r.uA, r.uTotal = 0, 0, 0, 0, 0, 0
}

// StoreData stores the terms of the sensors in use.
func (r *MuscleReflex) StoreData(f *storage.Frame, _ storage.Flags) {
	if r.length.Valid() {
		f.Set(r.name+".RL", r.uL)
	}

	if r.velocity.Valid() {
		f.Set(r.name+".RV", r.uV)
	}

	if r.force.Valid() {
		f.Set(r.name+".RF", r.uF)
	}

	if r.spindle.Valid() {
		f.Set(r.name+".RS", r.uS)
	}

	if r.activation.Valid() {
		f.Set(r.name+".RA", r.uA)
	}
}

// Info describes the reflex.
func (r *MuscleReflex) Info() sim.Info {
	info := r.info("MuscleReflex", r.name)
	info["source"] = r.source.Name()
	info["delay"] = float64(r.delay)

	for _, name := range r.ControlParameters() {
		v, _ := r.TryGetControlParameter(name)
		info[name] = v
	}

	return info
}
