package controller

import (
	"math"
	"math/rand/v2"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/params"
	"github.com/sarchlab/neurosim/sim"
)

const defaultNoiseSeed = 123

// NoiseController adds Gaussian noise to the input of every actuator. The
// standard deviation is base_noise plus proportional_noise times the input
// at the time the controller runs.
type NoiseController struct {
	Base

	baseNoise         float64
	proportionalNoise float64
	seed              uint64
	rng               *rand.Rand
}

// NewNoiseController reads the noise levels and random_seed. A seed of zero
// is derived from the parameters resolved so far, so that each parameter set
// gets its own noise and a rerun of the same set gets the same noise.
func NewNoiseController(
	ctx BuildContext,
	node *config.Node,
	_ model.Location,
) (Controller, error) {
	base, err := MakeBase(ctx, node)
	if err != nil {
		return nil, err
	}

	c := &NoiseController{Base: base}

	c.baseNoise, err = node.Float("base_noise", 0)
	if err != nil {
		return nil, err
	}

	c.proportionalNoise, err = node.Float("proportional_noise", 0)
	if err != nil {
		return nil, err
	}

	if c.baseNoise < 0 || c.proportionalNoise < 0 {
		return nil, sim.ConfigErrorf(node.Path(),
			"noise levels must not be negative")
	}

	seed, err := node.Float("random_seed", defaultNoiseSeed)
	if err != nil {
		return nil, err
	}

	if seed < 0 || seed != math.Trunc(seed) {
		return nil, sim.ConfigErrorf(node.Path()+".random_seed",
			"seed must be a non-negative integer, got %g", seed)
	}

	c.seed = uint64(seed)
	if c.seed == 0 {
		c.seed = seedFromParams(ctx.Params)
	}

	c.rng = rand.New(rand.NewPCG(c.seed, c.seed))

	return c, nil
}

// seedFromParams folds the values of the resolved parameters into a seed.
func seedFromParams(par params.Resolver) uint64 {
	set, ok := par.(interface{ Infos() []params.Info })
	if !ok {
		return defaultNoiseSeed
	}

	var s uint64
	for _, info := range set.Infos() {
		s ^= math.Float64bits(info.Value)
	}

	return s>>32 ^ s
}

// Seed returns the seed of the noise sequence.
func (c *NoiseController) Seed() uint64 {
	return c.seed
}

// UpdateControls adds noise to the inputs that the controllers before this
// one have set.
func (c *NoiseController) UpdateControls(m *model.Model, t sim.VTimeInSec) bool {
	return ifActive(c, m, t, func(m *model.Model, _ sim.VTimeInSec) bool {
		for _, a := range m.Plant().Actuators() {
			std := c.baseNoise + c.proportionalNoise*a.Input()
			if std > 0 {
				a.AddInput(c.rng.NormFloat64() * std)
			}
		}

		return false
	})
}

// Reset restarts the noise sequence.
func (c *NoiseController) Reset(*model.Model) {
	c.rng = rand.New(rand.NewPCG(c.seed, c.seed))
}

// Info describes the noise levels and the seed.
func (c *NoiseController) Info() sim.Info {
	info := c.info("NoiseController")
	info["base_noise"] = c.baseNoise
	info["proportional_noise"] = c.proportionalNoise
	info["random_seed"] = c.seed

	return info
}
