package storage

import "strings"

// Flags select what a component writes when asked to store data.
type Flags uint32

// The kinds of data that can be stored.
const (
	FlagSimulationStatistics Flags = 1 << iota
	FlagActuatorInput
	FlagSensorData
	FlagControllerData
	FlagMeasureData

	FlagNone Flags = 0
	FlagAll        = FlagSimulationStatistics | FlagActuatorInput |
		FlagSensorData | FlagControllerData | FlagMeasureData
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagSimulationStatistics, "simulation_statistics"},
	{FlagActuatorInput, "actuator_input"},
	{FlagSensorData, "sensor_data"},
	{FlagControllerData, "controller_data"},
	{FlagMeasureData, "measure_data"},
}

// Has checks if all bits of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// ParseFlags reads a comma separated list of flag names. Unknown names are
// ignored and returned separately.
func ParseFlags(s string) (Flags, []string) {
	var (
		flags   Flags
		unknown []string
	)

	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		if name == "all" {
			flags |= FlagAll
			continue
		}

		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				flags |= fn.flag
				found = true
			}
		}

		if !found {
			unknown = append(unknown, name)
		}
	}

	return flags, unknown
}

func (fl Flags) String() string {
	var names []string

	for _, fn := range flagNames {
		if fl.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}

	return strings.Join(names, ",")
}
