package model

import (
	"log/slog"

	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/delay"
	"github.com/sarchlab/neurosim/sim/storage"
)

// Config holds the settings of a model.
type Config struct {
	Name                     string             `yaml:"name"`
	ControlStepSize          float64            `yaml:"control_step_size"`
	NeuralDelays             map[string]float64 `yaml:"neural_delays"`
	SensorDelayScalingFactor float64            `yaml:"sensor_delay_scaling_factor"`
	HistoryRetention         float64            `yaml:"history_retention"`
	StoreData                bool               `yaml:"store_data"`
	DataInterval             float64            `yaml:"data_interval"`
	DataFlags                string             `yaml:"data_flags"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Name:                     "model",
		ControlStepSize:          0.001,
		SensorDelayScalingFactor: 1,
		DataFlags:                "all",
	}
}

// Builder can build models.
type Builder struct {
	plant  Plant
	config Config
	logger *slog.Logger
}

// MakeBuilder creates a builder with the default settings.
func MakeBuilder() Builder {
	return Builder{config: DefaultConfig()}
}

// WithPlant sets the plant to control.
func (b Builder) WithPlant(p Plant) Builder {
	b.plant = p
	return b
}

// WithConfig replaces the settings.
func (b Builder) WithConfig(c Config) Builder {
	b.config = c
	return b
}

// WithControlStepSize sets the time between control updates.
func (b Builder) WithControlStepSize(step sim.VTimeInSec) Builder {
	b.config.ControlStepSize = float64(step)
	return b
}

// WithNeuralDelays sets the two-way neural delays by component name.
func (b Builder) WithNeuralDelays(delays map[string]float64) Builder {
	b.config.NeuralDelays = delays
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

func (b Builder) parametersMustBeValid() error {
	c := b.config

	if b.plant == nil {
		return sim.ConfigErrorf(c.Name, "a plant is required")
	}

	if c.ControlStepSize <= 0 {
		return sim.ConfigErrorf(c.Name,
			"control step size must be positive, got %g", c.ControlStepSize)
	}

	if c.SensorDelayScalingFactor < 0 {
		return sim.ConfigErrorf(c.Name,
			"sensor delay scaling factor cannot be negative, got %g",
			c.SensorDelayScalingFactor)
	}

	if c.HistoryRetention < 0 || c.DataInterval < 0 {
		return sim.ConfigErrorf(c.Name,
			"history retention and data interval cannot be negative")
	}

	for name, d := range c.NeuralDelays {
		if d < 0 {
			return sim.ConfigErrorf(c.Name,
				"neural delay of %s cannot be negative, got %g", name, d)
		}
	}

	_, unknown := storage.ParseFlags(c.DataFlags)
	if len(unknown) > 0 {
		return sim.ConfigErrorf(c.Name, "unknown data flags %v", unknown)
	}

	return nil
}

// Build creates the model.
func (b Builder) Build() (*Model, error) {
	err := b.parametersMustBeValid()
	if err != nil {
		return nil, err
	}

	c := b.config
	flags, _ := storage.ParseFlags(c.DataFlags)

	name := c.Name
	if name == "" {
		name = b.plant.Name()
	}

	scaling := c.SensorDelayScalingFactor
	if scaling == 0 {
		scaling = 1
	}

	m := &Model{
		name:               name,
		plant:              b.plant,
		logger:             sim.LoggerOrDefault(b.logger).With("model", name),
		stepSize:           sim.VTimeInSec(c.ControlStepSize),
		neuralDelays:       make(map[string]sim.VTimeInSec),
		sensorDelayScaling: scaling,
		historyRetention:   sim.VTimeInSec(c.HistoryRetention),
		delayedSensors:     delay.NewSensorGroup(),
		delayedActuators:   delay.NewActuatorGroup(),
		historyStorage:     storage.NewStorage(),
		storeData:          c.StoreData,
		storeFlags:         flags,
		dataInterval:       sim.VTimeInSec(c.DataInterval),
		data:               storage.NewStorage(),
	}

	for name, d := range c.NeuralDelays {
		m.neuralDelays[name] = sim.VTimeInSec(d)
	}

	return m, nil
}
