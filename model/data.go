package model

import (
	"github.com/sarchlab/neurosim/sim/storage"
)

// SetStoreData turns frame recording on or off.
func (m *Model) SetStoreData(on bool, flags storage.Flags) {
	m.storeData = on
	m.storeFlags = flags
}

// StoresData checks if frames are recorded.
func (m *Model) StoresData() bool {
	return m.storeData
}

// Data returns the recorded frames.
func (m *Model) Data() *storage.Storage {
	return m.data
}

// StoreDataIfNeeded records a frame when the data interval has passed since
// the last recorded frame.
func (m *Model) StoreDataIfNeeded() {
	if !m.storeData {
		return
	}

	interval := 1
	if m.dataInterval > 0 {
		interval = max(1, int(m.dataInterval/m.stepSize+0.5))
	}

	if m.data.IsEmpty() || m.controlSteps-m.lastStoreStep >= interval {
		m.StoreCurrentFrame()
	}
}

// StoreCurrentFrame records a frame at the current time, unless one exists.
func (m *Model) StoreCurrentFrame() {
	if !m.storeData {
		return
	}

	now := m.plant.Time()
	if back := m.data.Back(); back != nil && now <= back.Time() {
		return
	}

	f := m.data.AddFrame(now)
	m.StoreData(f, m.storeFlags)
	m.lastStoreStep = m.controlSteps
}

// StoreData writes the model state selected by flags into a frame.
func (m *Model) StoreData(f *storage.Frame, flags storage.Flags) {
	if flags.Has(storage.FlagSimulationStatistics) {
		f.Set("simulation.control_steps", float64(m.controlSteps))
		f.Set("simulation.integration_step",
			float64(m.plant.IntegrationStep()))
	}

	if flags.Has(storage.FlagActuatorInput) {
		for _, a := range m.plant.Actuators() {
			f.Set(a.Name()+".input", a.Input())
		}
	}

	if flags.Has(storage.FlagSensorData) {
		for _, a := range m.adapters {
			f.Set(a.Name(), a.Value(0))
		}
	}

	if flags.Has(storage.FlagControllerData) && m.controller != nil {
		m.controller.StoreData(f, flags)
	}

	if flags.Has(storage.FlagMeasureData) && m.measure != nil {
		m.measure.StoreData(f, flags)
	}
}
