// Package params resolves the tunable parameters that controllers read while
// they are being built.
package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/sim"
)

// A Resolver turns settings into parameter values. Names are qualified by the
// active prefix.
type Resolver interface {
	// Float reads the setting under key as a parameter named key.
	Float(node *config.Node, key string, def float64) (float64, error)

	// FloatNamed reads the setting under key as a parameter with a given
	// name.
	FloatNamed(node *config.Node, key, name string, def float64) (float64, error)

	// Define registers a parameter from a spec string directly.
	Define(name, spec string) (float64, error)

	// PushPrefix appends to the prefix. Calling the returned function
	// restores the previous prefix.
	PushPrefix(prefix string) func()

	// Prefix returns the active prefix.
	Prefix() string
}

// Info describes one parameter.
type Info struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Free  bool    `json:"free"`
}

// Spec is a parsed parameter setting. A setting is either a plain number or
// "mean~std" with optional bounds "<min,max>". Only the latter is free to be
// chosen from outside.
type Spec struct {
	Mean, Std float64
	Min, Max  float64
	Free      bool
}

// ParseSpec parses a parameter setting.
func ParseSpec(s string) (Spec, error) {
	spec := Spec{Min: math.Inf(-1), Max: math.Inf(1)}
	s = strings.TrimSpace(s)

	if i := strings.IndexByte(s, '<'); i >= 0 {
		if !strings.HasSuffix(s, ">") {
			return spec, fmt.Errorf("missing '>' in %q", s)
		}

		bounds := strings.Split(s[i+1:len(s)-1], ",")
		if len(bounds) != 2 {
			return spec, fmt.Errorf("bounds in %q need a min and a max", s)
		}

		var err error

		spec.Min, err = strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
		if err != nil {
			return spec, fmt.Errorf("bad lower bound in %q", s)
		}

		spec.Max, err = strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64)
		if err != nil {
			return spec, fmt.Errorf("bad upper bound in %q", s)
		}

		if spec.Min > spec.Max {
			return spec, fmt.Errorf("lower bound above upper bound in %q", s)
		}

		s = strings.TrimSpace(s[:i])
	}

	mean, std, free := strings.Cut(s, "~")

	v, err := strconv.ParseFloat(strings.TrimSpace(mean), 64)
	if err != nil {
		return spec, fmt.Errorf("%q is not a number", mean)
	}

	spec.Mean = v

	if free {
		spec.Free = true

		spec.Std, err = strconv.ParseFloat(strings.TrimSpace(std), 64)
		if err != nil {
			return spec, fmt.Errorf("%q is not a standard deviation", std)
		}
	}

	return spec, nil
}

// A Set resolves parameters against a table of externally chosen values and
// records every parameter it resolved.
type Set struct {
	values   map[string]float64
	prefixes []string
	infos    []Info
	index    map[string]int
}

// NewSet creates a Set with no external values.
func NewSet() *Set {
	return &Set{
		values: make(map[string]float64),
		index:  make(map[string]int),
	}
}

// WithValues sets the externally chosen values of free parameters.
func (s *Set) WithValues(values map[string]float64) *Set {
	for k, v := range values {
		s.values[k] = v
	}

	return s
}

// Prefix returns the active prefix.
func (s *Set) Prefix() string {
	return strings.Join(s.prefixes, "")
}

// PushPrefix appends to the prefix until the returned function is called.
func (s *Set) PushPrefix(prefix string) func() {
	s.prefixes = append(s.prefixes, prefix)
	n := len(s.prefixes)

	return func() {
		s.prefixes = s.prefixes[:n-1]
	}
}

// Float reads the setting under key as a parameter named key.
func (s *Set) Float(node *config.Node, key string, def float64) (float64, error) {
	return s.FloatNamed(node, key, key, def)
}

// FloatNamed reads the setting under key as a parameter with a given name.
// A missing setting yields def and is not recorded.
func (s *Set) FloatNamed(
	node *config.Node,
	key, name string,
	def float64,
) (float64, error) {
	c := node.Child(key)
	if c == nil {
		return def, nil
	}

	v, err := s.Define(name, c.Value)
	if err != nil {
		return 0, sim.ConfigErrorf(node.Path()+"."+key, "%w", err)
	}

	return v, nil
}

// Define registers a parameter from a spec string. A parameter defined twice
// under the same qualified name keeps its first value.
func (s *Set) Define(name, specString string) (float64, error) {
	full := s.Prefix() + name

	if i, ok := s.index[full]; ok {
		return s.infos[i].Value, nil
	}

	spec, err := ParseSpec(specString)
	if err != nil {
		return 0, err
	}

	value := spec.Mean
	if spec.Free {
		if v, ok := s.values[full]; ok {
			value = v
		}
	}

	value = math.Max(spec.Min, math.Min(spec.Max, value))

	s.index[full] = len(s.infos)
	s.infos = append(s.infos, Info{
		Name:  full,
		Value: value,
		Mean:  spec.Mean,
		Std:   spec.Std,
		Min:   spec.Min,
		Max:   spec.Max,
		Free:  spec.Free,
	})

	return value, nil
}

// Infos returns the parameters in the order they were first resolved.
func (s *Set) Infos() []Info {
	return s.infos
}

// FreeInfos returns only the free parameters.
func (s *Set) FreeInfos() []Info {
	var free []Info

	for _, info := range s.infos {
		if info.Free {
			free = append(free, info)
		}
	}

	return free
}

// Unused returns the external values that no parameter asked for.
func (s *Set) Unused() []string {
	var names []string

	for name := range s.values {
		if _, ok := s.index[name]; !ok {
			names = append(names, name)
		}
	}

	return names
}
