// Package model ties a plant to its controllers. It owns the delayed sensor
// and actuator channels and runs the per-step update in causal order.
package model

import (
	"log/slog"

	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/delay"
	"github.com/sarchlab/neurosim/sim/history"
	"github.com/sarchlab/neurosim/sim/storage"
)

// HookPosBeforeControls marks the start of a control update.
var HookPosBeforeControls = &sim.HookPos{Name: "BeforeControls"}

// HookPosAfterControls marks the end of a control update.
var HookPosAfterControls = &sim.HookPos{Name: "AfterControls"}

// HookPosTerminationRequest marks a termination request.
var HookPosTerminationRequest = &sim.HookPos{Name: "TerminationRequest"}

// A Controller computes actuator inputs from sensor data.
type Controller interface {
	Name() string

	// UpdateControls adds actuator inputs for time t. It returns true to
	// request termination.
	UpdateControls(m *Model, t sim.VTimeInSec) bool

	// UpdateAnalysis inspects the model after a step. It returns true to
	// request termination.
	UpdateAnalysis(m *Model, t sim.VTimeInSec) bool

	Reset(m *Model)
	StoreData(f *storage.Frame, flags storage.Flags)
	Info() sim.Info
}

// An Objective scores a simulation.
type Objective interface {
	Name() string
	UpdateAnalysis(m *Model, t sim.VTimeInSec) bool
	Result(m *Model) float64
	Reset(m *Model)
	StoreData(f *storage.Frame, flags storage.Flags)
}

// Model runs the controllers of one plant.
type Model struct {
	sim.HookableBase

	name   string
	plant  Plant
	logger *slog.Logger

	stepSize           sim.VTimeInSec
	neuralDelays       map[string]sim.VTimeInSec
	sensorDelayScaling float64
	historyRetention   sim.VTimeInSec

	sensors          []Sensor
	delayedSensors   *delay.SensorGroup
	delayedActuators *delay.ActuatorGroup
	historyStorage   *storage.Storage
	adapters         []*history.Adapter

	controller Controller
	measure    Objective

	storeData     bool
	storeFlags    storage.Flags
	dataInterval  sim.VTimeInSec
	data          *storage.Storage
	controlSteps  int
	lastStoreStep int

	terminate bool
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Plant returns the plant that the model controls.
func (m *Model) Plant() Plant {
	return m.plant
}

// Logger returns the logger of the model.
func (m *Model) Logger() *slog.Logger {
	return m.logger
}

// Time returns the plant time.
func (m *Model) Time() sim.VTimeInSec {
	return m.plant.Time()
}

// ControlStepSize returns the time between control updates.
func (m *Model) ControlStepSize() sim.VTimeInSec {
	return m.stepSize
}

// ControlSteps returns the number of control updates since the last reset.
func (m *Model) ControlSteps() int {
	return m.controlSteps
}

// Controller returns the controller, or nil.
func (m *Model) Controller() Controller {
	return m.controller
}

// SetController sets the controller.
func (m *Model) SetController(c Controller) {
	m.controller = c
}

// Measure returns the measure, or nil.
func (m *Model) Measure() Objective {
	return m.measure
}

// SetMeasure sets the measure.
func (m *Model) SetMeasure(ms Objective) {
	m.measure = ms
}

// FindActuator finds an actuator by name for a location.
func (m *Model) FindActuator(name string, loc Location) (Actuator, error) {
	return FindByLocation(m.plant.Actuators(), name, loc)
}

// FindMuscle finds a muscle by name for a location.
func (m *Model) FindMuscle(name string, loc Location) (Muscle, error) {
	return FindByLocation(m.plant.Muscles(), name, loc)
}

// FindDof finds a dof by name for a location.
func (m *Model) FindDof(name string, loc Location) (Dof, error) {
	return FindByLocation(m.plant.Dofs(), name, loc)
}

// TwoWayNeuralDelay returns the configured neural delay of a component. A
// sided name falls back to its base name.
func (m *Model) TwoWayNeuralDelay(name string) (sim.VTimeInSec, error) {
	if d, ok := m.neuralDelays[name]; ok {
		return d, nil
	}

	if d, ok := m.neuralDelays[BaseName(name)]; ok {
		return d, nil
	}

	return 0, sim.ConfigErrorf(name, "could not find neural delay")
}

// HasNeuralDelay checks if a neural delay is configured for a component.
func (m *Model) HasNeuralDelay(name string) bool {
	_, err := m.TwoWayNeuralDelay(name)
	return err == nil
}

// SensorDelay scales a delay used to read the sensor history.
func (m *Model) SensorDelay(d sim.VTimeInSec) sim.VTimeInSec {
	return d * sim.VTimeInSec(m.sensorDelayScaling)
}

// AcquireSensor returns the model's instance of a sensor, adding it when no
// equal sensor exists yet.
func (m *Model) AcquireSensor(s Sensor) Sensor {
	for _, existing := range m.sensors {
		if existing == s {
			return existing
		}
	}

	m.sensors = append(m.sensors, s)

	return s
}

// Sensors returns all sensors acquired so far.
func (m *Model) Sensors() []Sensor {
	return m.sensors
}

// AcquireDelayedSensor returns a handle that reads a sensor after a two-way
// delay.
func (m *Model) AcquireDelayedSensor(
	s Sensor,
	twoWayDelay sim.VTimeInSec,
) (delay.SensorValue, error) {
	return m.delayedSensors.Acquire(m.AcquireSensor(s), twoWayDelay, m.stepSize)
}

// AcquireDelayedActuator returns a handle that drives an actuator after a
// two-way delay.
func (m *Model) AcquireDelayedActuator(
	a Actuator,
	twoWayDelay sim.VTimeInSec,
) (delay.ActuatorValue, error) {
	return m.delayedActuators.Acquire(a, twoWayDelay, m.stepSize)
}

// AcquireSensorDelayAdapter returns the history adapter of a sensor.
func (m *Model) AcquireSensorDelayAdapter(s Sensor) *history.Adapter {
	s = m.AcquireSensor(s)

	for _, a := range m.adapters {
		if a.Sensor() == s {
			return a
		}
	}

	a := history.NewAdapter(m.historyStorage, s)
	m.adapters = append(m.adapters, a)

	if back := m.historyStorage.Back(); back != nil {
		a.UpdateStorage()
	}

	return a
}

// DelayedSensors returns the group of ring-buffered sensors.
func (m *Model) DelayedSensors() *delay.SensorGroup {
	return m.delayedSensors
}

// DelayedActuators returns the group of ring-buffered actuators.
func (m *Model) DelayedActuators() *delay.ActuatorGroup {
	return m.delayedActuators
}

// SensorHistory returns the storage behind the history adapters.
func (m *Model) SensorHistory() *storage.Storage {
	return m.historyStorage
}

// UpdateSensorDelayAdapters records the current value of every history
// adapter. It must be called once at time zero and once after every
// integration step.
func (m *Model) UpdateSensorDelayAdapters() {
	if len(m.adapters) == 0 {
		return
	}

	now := m.plant.Time()
	prev := m.plant.PreviousTime()
	st := m.historyStorage

	firstFrame := now == 0 && st.IsEmpty()
	redoFirstFrame := now == 0 && st.FrameCount() == 1
	subsequentFrame := !st.IsEmpty() && now > prev && prev == st.Back().Time()

	if !firstFrame && !redoFirstFrame && !subsequentFrame {
		sim.AssertionPanic(
			"sensor history update out of order: time %g, previous %g, "+
				"%d frames stored", now, prev, st.FrameCount())
	}

	if !redoFirstFrame {
		st.AddFrame(now)
	}

	for _, a := range m.adapters {
		a.UpdateStorage()
	}

	if m.historyRetention > 0 {
		st.EraseFramesBefore(now - m.historyRetention)
	}
}

// UpdateControlValues runs one control step. Delayed actuator inputs are
// delivered before the controllers run, and fresh sensor samples are taken
// after, so that no controller sees data younger than its delay.
func (m *Model) UpdateControlValues() {
	now := m.plant.Time()

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosBeforeControls,
		Item:   now,
	})

	if m.controller != nil {
		for _, a := range m.plant.Actuators() {
			a.ClearInput()
		}
	}

	if now > 0 {
		m.delayedActuators.Flush()
		m.delayedActuators.Advance()
		m.delayedActuators.ClearCurrent()
	} else {
		m.delayedSensors.Snapshot()
		m.delayedActuators.ClearCurrent()
	}

	terminate := false
	if m.controller != nil {
		terminate = m.controller.UpdateControls(m, now)
	}

	if now > 0 {
		m.delayedSensors.Advance()
		m.delayedSensors.Snapshot()
	} else {
		m.delayedActuators.Flush()
	}

	m.controlSteps++

	if terminate {
		m.RequestTermination()
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosAfterControls,
		Item:   now,
	})
}

// UpdateAnalyses runs the analysis of the controller and the measure.
func (m *Model) UpdateAnalyses() {
	now := m.plant.Time()

	terminate := false
	if m.controller != nil {
		terminate = m.controller.UpdateAnalysis(m, now) || terminate
	}

	if m.measure != nil {
		terminate = m.measure.UpdateAnalysis(m, now) || terminate
	}

	if terminate {
		m.RequestTermination()
	}
}

// RequestTermination asks the driver to stop after the current step.
func (m *Model) RequestTermination() {
	if !m.terminate {
		m.InvokeHook(sim.HookCtx{
			Domain: m,
			Pos:    HookPosTerminationRequest,
			Item:   m.plant.Time(),
		})
	}

	m.terminate = true
}

// ShouldTerminate checks if termination was requested.
func (m *Model) ShouldTerminate() bool {
	return m.terminate
}

// Reset restores the initial state of the plant and clears all recorded
// history. Registered channels, sensors and adapters are kept.
func (m *Model) Reset() {
	m.plant.ResetState()

	for _, a := range m.plant.Actuators() {
		a.ClearInput()
	}

	m.terminate = false
	m.controlSteps = 0
	m.lastStoreStep = 0
	m.historyStorage.ClearData()
	m.data.Clear()
	m.delayedSensors.Reset()
	m.delayedActuators.Reset()

	if m.controller != nil {
		m.controller.Reset(m)
	}

	if m.measure != nil {
		m.measure.Reset(m)
	}
}

// Info returns a description of the model and its controller.
func (m *Model) Info() sim.Info {
	info := sim.Info{
		"name":              m.name,
		"plant":             m.plant.Name(),
		"time":              float64(m.plant.Time()),
		"control_step_size": float64(m.stepSize),
		"control_frequency": float64(sim.FreqOf(m.stepSize)),
		"sensors":           len(m.sensors),
		"delayed_sensors":   m.delayedSensors.NumChannels(),
		"delayed_actuators": m.delayedActuators.NumChannels(),
		"history_channels":  len(m.adapters),
		"terminated":        m.terminate,
	}

	if m.controller != nil {
		info["controller"] = m.controller.Info()
	}

	if m.measure != nil {
		info["measure"] = m.measure.Name()
	}

	return info
}
