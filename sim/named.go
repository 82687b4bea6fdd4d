package sim

// Named describes an object that has a name.
type Named interface {
	Name() string
}

// Info is a metadata tree describing a component and its children.
type Info map[string]any
