package model

import (
	"fmt"
	"strings"

	"github.com/sarchlab/neurosim/sim"
)

// Side tells which side of the body a component is on.
type Side int

// The sides. SideOpposite only appears in names, as the "_o" suffix.
const (
	SideNone Side = iota
	SideLeft
	SideRight
	SideOpposite
)

// ParseSide reads a side name.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return SideLeft, nil
	case "right", "r":
		return SideRight, nil
	case "both", "none", "":
		return SideNone, nil
	case "opposite", "other":
		return SideOpposite, nil
	}

	return SideNone, fmt.Errorf("unknown side %q", s)
}

// Opposite returns the other side. SideNone stays SideNone.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return s
	}
}

// Suffix returns the name suffix of the side.
func (s Side) Suffix() string {
	switch s {
	case SideLeft:
		return "_l"
	case SideRight:
		return "_r"
	case SideOpposite:
		return "_o"
	default:
		return ""
	}
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "Left"
	case SideRight:
		return "Right"
	case SideOpposite:
		return "Opposite"
	default:
		return "None"
	}
}

// SideOf reads the side from the suffix of a name.
func SideOf(name string) Side {
	switch {
	case strings.HasSuffix(name, "_r"):
		return SideRight
	case strings.HasSuffix(name, "_l"):
		return SideLeft
	case strings.HasSuffix(name, "_o"):
		return SideOpposite
	default:
		return SideNone
	}
}

// BaseName strips the side suffix from a name.
func BaseName(name string) string {
	if SideOf(name) != SideNone {
		return name[:len(name)-2]
	}

	return name
}

// A Location is the side a controller is built for. Symmetric locations share
// parameters between both sides.
type Location struct {
	Side      Side
	Symmetric bool
}

// NewLocation creates a symmetric location on a side.
func NewLocation(side Side) Location {
	return Location{Side: side, Symmetric: true}
}

// Opposite returns the location on the other side.
func (l Location) Opposite() Location {
	return Location{Side: l.Side.Opposite(), Symmetric: l.Symmetric}
}

// SidedName resolves a name for the location. Names without a side get the
// location side, names ending in "_o" get the opposite side, and names with
// an explicit side are kept.
func (l Location) SidedName(name string) string {
	switch SideOf(name) {
	case SideNone:
		return name + l.Side.Suffix()
	case SideOpposite:
		return BaseName(name) + l.Side.Opposite().Suffix()
	default:
		return name
	}
}

// ParName returns the parameter name for a component name. Symmetric
// locations drop the side so that both sides share a parameter.
func (l Location) ParName(name string) string {
	if !l.Symmetric {
		return l.SidedName(name)
	}

	side := SideOf(name)
	if side == SideNone || side == l.Side {
		return BaseName(name)
	}

	return BaseName(name) + "_o"
}

// FindByLocation finds a component by name for a location. A name without a
// side first matches a component without a side.
func FindByLocation[T sim.Named](items []T, name string, loc Location) (T, error) {
	if SideOf(name) == SideNone {
		if item, ok := FindByName(items, name); ok {
			return item, nil
		}
	}

	sided := loc.SidedName(name)
	if item, ok := FindByName(items, sided); ok {
		return item, nil
	}

	var zero T

	return zero, sim.ConfigErrorf(sided, "could not find component")
}

// FindByName finds a component by exact name.
func FindByName[T sim.Named](items []T, name string) (T, bool) {
	for _, item := range items {
		if item.Name() == name {
			return item, true
		}
	}

	var zero T

	return zero, false
}
