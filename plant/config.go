package plant

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/neurosim/sim"
)

// DofConfig describes a scripted degree of freedom. A bilateral dof follows
// the phase of the leg on its side.
type DofConfig struct {
	Name      string  `yaml:"name"`
	Bilateral bool    `yaml:"bilateral"`
	Amplitude float64 `yaml:"amplitude"`
	Offset    float64 `yaml:"offset"`
	Phase     float64 `yaml:"phase"`
}

// MuscleConfig describes a muscle that spans one dof. Its fiber length
// changes by MomentArm per radian of the dof.
type MuscleConfig struct {
	Name      string  `yaml:"name"`
	Dof       string  `yaml:"dof"`
	MomentArm float64 `yaml:"moment_arm"`
}

// Config holds the settings of a synthetic plant.
type Config struct {
	Name             string         `yaml:"name"`
	StrideTime       float64        `yaml:"stride_time"`
	DutyFactor       float64        `yaml:"duty_factor"`
	StrideLength     float64        `yaml:"stride_length"`
	LegLength        float64        `yaml:"leg_length"`
	HipHeight        float64        `yaml:"hip_height"`
	ActivationTime   float64        `yaml:"activation_time"`
	DeactivationTime float64        `yaml:"deactivation_time"`
	FallTime         float64        `yaml:"fall_time"`
	FallDuration     float64        `yaml:"fall_duration"`
	Dofs             []DofConfig    `yaml:"dofs"`
	Muscles          []MuscleConfig `yaml:"muscles"`
}

// DefaultConfig returns a walker with a one second stride, one pelvis dof,
// three joints and four muscles per leg.
func DefaultConfig() Config {
	return Config{
		Name:             "walker",
		StrideTime:       1,
		DutyFactor:       0.6,
		StrideLength:     0.6,
		LegLength:        0.9,
		HipHeight:        0.9,
		ActivationTime:   0.01,
		DeactivationTime: 0.04,
		FallDuration:     0.5,
		Dofs: []DofConfig{
			{Name: "pelvis_tilt", Amplitude: 0.05, Phase: 0.25},
			{Name: "hip_flexion", Bilateral: true, Amplitude: 0.4, Offset: 0.1},
			{Name: "knee_angle", Bilateral: true, Amplitude: 0.5, Offset: -0.6, Phase: 0.5},
			{Name: "ankle_angle", Bilateral: true, Amplitude: 0.25, Phase: 0.3},
		},
		Muscles: []MuscleConfig{
			{Name: "iliopsoas", Dof: "hip_flexion", MomentArm: -0.2},
			{Name: "hamstrings", Dof: "hip_flexion", MomentArm: 0.25},
			{Name: "soleus", Dof: "ankle_angle", MomentArm: 0.4},
			{Name: "tib_ant", Dof: "ankle_angle", MomentArm: -0.35},
		},
	}
}

// ParseConfig reads YAML settings on top of the defaults. Unknown keys are
// rejected.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return c, sim.ConfigErrorf("plant", "%w", err)
	}

	return c, nil
}

// LoadConfig reads the settings from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, sim.ConfigErrorf("plant", "%w", err)
	}

	return ParseConfig(data)
}

func (c Config) validate() error {
	switch {
	case c.StrideTime <= 0:
		return sim.ConfigErrorf("plant", "stride_time must be positive")
	case c.DutyFactor <= 0.5 || c.DutyFactor >= 1:
		return sim.ConfigErrorf("plant",
			"duty_factor must be between 0.5 and 1, got %g", c.DutyFactor)
	case c.LegLength <= 0 || c.HipHeight <= 0:
		return sim.ConfigErrorf("plant",
			"leg_length and hip_height must be positive")
	case c.ActivationTime <= 0 || c.DeactivationTime <= 0:
		return sim.ConfigErrorf("plant", "activation time constants must be positive")
	case c.FallTime > 0 && c.FallDuration <= 0:
		return sim.ConfigErrorf("plant", "fall_duration must be positive")
	}

	dofs := map[string]bool{}
	for _, d := range c.Dofs {
		if d.Name == "" || dofs[d.Name] {
			return sim.ConfigErrorf("plant", "bad or duplicate dof name %q", d.Name)
		}

		dofs[d.Name] = d.Bilateral
	}

	for _, m := range c.Muscles {
		bilateral, ok := dofs[m.Dof]
		if !ok {
			return sim.ConfigErrorf("plant",
				"muscle %s spans unknown dof %q", m.Name, m.Dof)
		}

		if !bilateral {
			return sim.ConfigErrorf("plant",
				"muscle %s must span a bilateral dof", m.Name)
		}
	}

	return nil
}
