package controller

import (
	"log"
	"sort"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
)

// A Constructor builds a controller from its settings for a location.
type Constructor func(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (Controller, error)

// A ReflexConstructor builds a reflex owned by a reflex controller.
type ReflexConstructor func(
	ctx BuildContext,
	node *config.Node,
	rc *ReflexController,
	loc model.Location,
) (Reflex, error)

// Registry maps type names to constructors.
type Registry struct {
	controllers map[string]Constructor
	reflexes    map[string]ReflexConstructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]Constructor),
		reflexes:    make(map[string]ReflexConstructor),
	}
}

// DefaultRegistry creates a registry with all built-in types.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterController("CompositeController", NewCompositeController)
	r.RegisterController("MirrorController", NewMirrorController)
	r.RegisterController("SequentialController", NewSequentialController)
	r.RegisterController("GaitStateController", NewGaitStateController)
	r.RegisterController("ReflexController", NewReflexController)
	r.RegisterController("NoiseController", NewNoiseController)

	r.RegisterReflex("MuscleReflex", NewMuscleReflex)
	r.RegisterReflex("DofReflex", NewDofReflex)
	r.RegisterReflex("SensorReflex", NewSensorReflex)

	return r
}

// RegisterController adds a controller type. Registering a name twice is a
// programming error.
func (r *Registry) RegisterController(name string, c Constructor) {
	if _, ok := r.controllers[name]; ok {
		log.Panicf("controller type %s is already registered", name)
	}

	r.controllers[name] = c
}

// RegisterReflex adds a reflex type.
func (r *Registry) RegisterReflex(name string, c ReflexConstructor) {
	if _, ok := r.reflexes[name]; ok {
		log.Panicf("reflex type %s is already registered", name)
	}

	r.reflexes[name] = c
}

// IsController checks if a name is a registered controller type.
func (r *Registry) IsController(name string) bool {
	_, ok := r.controllers[name]
	return ok
}

// IsReflex checks if a name is a registered reflex type.
func (r *Registry) IsReflex(name string) bool {
	_, ok := r.reflexes[name]
	return ok
}

// ControllerNames lists the registered controller types.
func (r *Registry) ControllerNames() []string {
	names := make([]string, 0, len(r.controllers))
	for n := range r.controllers {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// CreateController builds the controller named by the key of node.
func (r *Registry) CreateController(
	ctx BuildContext,
	node *config.Node,
	loc model.Location,
) (Controller, error) {
	c, ok := r.controllers[node.Key]
	if !ok {
		return nil, sim.ConfigErrorf(node.Path(),
			"unknown controller type %q", node.Key)
	}

	return c(ctx, node, loc)
}

// CreateReflex builds the reflex named by the key of node.
func (r *Registry) CreateReflex(
	ctx BuildContext,
	node *config.Node,
	rc *ReflexController,
	loc model.Location,
) (Reflex, error) {
	c, ok := r.reflexes[node.Key]
	if !ok {
		return nil, sim.ConfigErrorf(node.Path(),
			"unknown reflex type %q", node.Key)
	}

	return c(ctx, node, rc, loc)
}
