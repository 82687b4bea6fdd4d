// Package scenario reads the documents that describe one evaluation setup and
// builds fresh model instances from them.
//
// A scenario document looks like this:
//
//	name: walk
//	plant:
//	  stride_time: 1.2
//	model:
//	  control_step_size: 0.005
//	  neural_delays: {soleus: 0.035}
//	evaluation:
//	  max_duration: 10
//	parameters:
//	  soleus.KF: 0.8
//	controller:
//	  GaitStateController: {...}
//	measure:
//	  SimulationTimeMeasure: {...}
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/controller"
	"github.com/sarchlab/neurosim/evaluation"
	"github.com/sarchlab/neurosim/measure"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/params"
	"github.com/sarchlab/neurosim/plant"
	"github.com/sarchlab/neurosim/sim"
)

type document struct {
	Name       string             `yaml:"name"`
	Plant      yaml.Node          `yaml:"plant"`
	Model      yaml.Node          `yaml:"model"`
	Evaluation yaml.Node          `yaml:"evaluation"`
	Parameters map[string]float64 `yaml:"parameters"`
	Controller yaml.Node          `yaml:"controller"`
	Measure    yaml.Node          `yaml:"measure"`
}

// A Scenario is a parsed scenario document.
type Scenario struct {
	Name       string
	Plant      plant.Config
	Model      model.Config
	Evaluation evaluation.Options
	Parameters map[string]float64
	Controller *config.Node
	Measure    *config.Node
}

// An Instance is one model built from a scenario, together with the parts
// that were created for it.
type Instance struct {
	Model      *model.Model
	Plant      *plant.Plant
	Controller controller.Controller
	Params     *params.Set
}

// Parse reads a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var doc document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, sim.ConfigErrorf("scenario", "%w", err)
	}

	s := &Scenario{
		Name:       doc.Name,
		Plant:      plant.DefaultConfig(),
		Model:      model.DefaultConfig(),
		Parameters: doc.Parameters,
	}

	if s.Name != "" {
		s.Model.Name = s.Name
	}

	sections := []struct {
		name string
		node *yaml.Node
		out  any
	}{
		{"plant", &doc.Plant, &s.Plant},
		{"model", &doc.Model, &s.Model},
		{"evaluation", &doc.Evaluation, &s.Evaluation},
	}

	for _, sec := range sections {
		err = decodeStrict(sec.node, sec.out)
		if err != nil {
			return nil, sim.ConfigErrorf(sec.name, "%w", err)
		}
	}

	s.Controller, err = config.FromYAML(&doc.Controller)
	if err != nil {
		return nil, err
	}

	s.Measure, err = config.FromYAML(&doc.Measure)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Load reads a scenario document from a file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	return Parse(data)
}

// decodeStrict decodes a section on top of the values already in out.
func decodeStrict(node *yaml.Node, out any) error {
	if node.Kind == 0 {
		return nil
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Build creates a new instance. Values override the parameters of the
// document.
func (s *Scenario) Build(
	logger *slog.Logger,
	values map[string]float64,
) (*Instance, error) {
	logger = sim.LoggerOrDefault(logger)

	p, err := plant.MakeBuilder().WithConfig(s.Plant).Build()
	if err != nil {
		return nil, err
	}

	m, err := model.MakeBuilder().
		WithPlant(p).
		WithConfig(s.Model).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, err
	}

	par := params.NewSet().WithValues(s.Parameters).WithValues(values)
	inst := &Instance{Model: m, Plant: p, Params: par}

	if len(s.Controller.Children()) > 0 {
		inst.Controller, err = controller.Build(
			controller.NewBuildContext(m, par), s.Controller)
		if err != nil {
			return nil, err
		}

		m.SetController(inst.Controller)
	}

	ms, err := measure.Build(s.Measure, m)
	if err != nil {
		return nil, err
	}

	if ms != nil {
		m.SetMeasure(ms)
	}

	if unused := par.Unused(); len(unused) > 0 {
		sort.Strings(unused)
		m.Logger().Warn("parameters not used by any controller",
			"names", unused)
	}

	return inst, nil
}

// Job returns a batch job that builds a new instance with the given
// parameter values. Each instance built is passed to onBuild when it is not
// nil.
func (s *Scenario) Job(
	name string,
	logger *slog.Logger,
	values map[string]float64,
	onBuild func(*Instance),
) evaluation.Job {
	return evaluation.Job{
		Name: name,
		Build: func() (*model.Model, error) {
			inst, err := s.Build(logger, values)
			if err != nil {
				return nil, err
			}

			if onBuild != nil {
				onBuild(inst)
			}

			return inst.Model, nil
		},
	}
}
