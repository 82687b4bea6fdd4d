// Package config provides the ordered, hierarchical configuration documents
// that controllers and measures are built from.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/neurosim/sim"
)

// A Node is a key with either a scalar value or an ordered list of children.
// Keys are not unique among siblings.
type Node struct {
	Key      string
	Value    string
	Line     int
	parent   *Node
	children []*Node
}

// NewNode creates a node with a scalar value and children.
func NewNode(key, value string, children ...*Node) *Node {
	n := &Node{Key: key, Value: value}
	for _, c := range children {
		n.Add(c)
	}

	return n
}

// Add appends a child.
func (n *Node) Add(c *Node) *Node {
	c.parent = n
	n.children = append(n.children, c)

	return n
}

// Set appends a scalar child.
func (n *Node) Set(key, value string) *Node {
	return n.Add(&Node{Key: key, Value: value})
}

// Children returns the children in document order.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the first child with the key, or nil.
func (n *Node) Child(key string) *Node {
	for _, c := range n.children {
		if c.Key == key {
			return c
		}
	}

	return nil
}

// Has checks if a child with the key exists.
func (n *Node) Has(key string) bool {
	return n.Child(key) != nil
}

// Path returns the keys from the root to the node, joined by dots.
func (n *Node) Path() string {
	var keys []string

	for p := n; p != nil; p = p.parent {
		if p.Key != "" {
			keys = append([]string{p.Key}, keys...)
		}
	}

	return strings.Join(keys, ".")
}

func (n *Node) errorf(key, format string, args ...any) error {
	where := n.Path()
	if key != "" {
		if where != "" {
			where += "."
		}

		where += key
	}

	if n.Line > 0 {
		where = fmt.Sprintf("%s (line %d)", where, n.Line)
	}

	return sim.ConfigErrorf(where, format, args...)
}

// String reads a scalar child, or def when missing.
func (n *Node) String(key, def string) string {
	c := n.Child(key)
	if c == nil {
		return def
	}

	return c.Value
}

// RequireString reads a scalar child that must exist.
func (n *Node) RequireString(key string) (string, error) {
	c := n.Child(key)
	if c == nil {
		return "", n.errorf(key, "required setting is missing")
	}

	return c.Value, nil
}

// Float reads a numeric child, or def when missing.
func (n *Node) Float(key string, def float64) (float64, error) {
	c := n.Child(key)
	if c == nil {
		return def, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil {
		return 0, n.errorf(key, "%q is not a number", c.Value)
	}

	return v, nil
}

// Int reads an integer child, or def when missing.
func (n *Node) Int(key string, def int) (int, error) {
	c := n.Child(key)
	if c == nil {
		return def, nil
	}

	v, err := strconv.Atoi(strings.TrimSpace(c.Value))
	if err != nil {
		return 0, n.errorf(key, "%q is not an integer", c.Value)
	}

	return v, nil
}

// Bool reads a boolean child, or def when missing. Numbers and yes/no are
// accepted, with zero meaning false.
func (n *Node) Bool(key string, def bool) (bool, error) {
	c := n.Child(key)
	if c == nil {
		return def, nil
	}

	s := strings.ToLower(strings.TrimSpace(c.Value))
	switch s {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}

	if v, err := strconv.ParseBool(s); err == nil {
		return v, nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0, nil
	}

	return false, n.errorf(key, "%q is not a boolean", c.Value)
}

// Strings reads a list of scalars, given either as a sequence or as a scalar
// separated by spaces or commas.
func (n *Node) Strings(key string) []string {
	c := n.Child(key)
	if c == nil {
		return nil
	}

	if len(c.children) > 0 {
		fields := make([]string, 0, len(c.children))
		for _, e := range c.children {
			fields = append(fields, strings.TrimSpace(e.Value))
		}

		return fields
	}

	return splitList(c.Value)
}

// splitList splits at spaces, tabs and commas, except inside the "<min,max>"
// bounds of a parameter spec.
func splitList(s string) []string {
	fields := []string{}
	depth := 0
	start := -1

	for i, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth = max(0, depth-1)
		case depth == 0 && (r == ' ' || r == ',' || r == '\t'):
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}

			continue
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		fields = append(fields, s[start:])
	}

	return fields
}

// Floats reads a list of numbers, given either as a sequence or as a scalar
// separated by spaces or commas.
func (n *Node) Floats(key string) ([]float64, error) {
	fields := n.Strings(key)
	if fields == nil {
		return nil, nil
	}

	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, n.errorf(key, "%q is not a number", f)
		}

		values = append(values, v)
	}

	return values, nil
}

// Parse reads a YAML document. Mappings keep their key order. A sequence item
// that is a mapping with a single key becomes a child with that key, so typed
// lists can be written as
//
//	Controllers:
//	  - ReflexController: {...}
//	  - GaitStateController: {...}
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, sim.ConfigErrorf("", "cannot parse document: %w", err)
	}

	return FromYAML(&doc)
}

// FromYAML converts an already decoded YAML node, such as one field of a
// larger document, into a Node.
func FromYAML(y *yaml.Node) (*Node, error) {
	root := &Node{}

	if y != nil && y.Kind == yaml.DocumentNode {
		if len(y.Content) == 0 {
			return root, nil
		}

		y = y.Content[0]
	}

	if y == nil || y.Kind == 0 {
		return root, nil
	}

	err := fill(root, y)
	if err != nil {
		return nil, err
	}

	return root, nil
}

// Load reads a YAML document from a file.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return Parse(data)
}

func fill(n *Node, y *yaml.Node) error {
	n.Line = y.Line

	switch y.Kind {
	case yaml.ScalarNode:
		n.Value = y.Value
	case yaml.MappingNode:
		for i := 0; i+1 < len(y.Content); i += 2 {
			c := &Node{Key: y.Content[i].Value}
			n.Add(c)

			err := fill(c, y.Content[i+1])
			if err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, item := range y.Content {
			c := &Node{}
			n.Add(c)

			target := item
			if item.Kind == yaml.MappingNode && len(item.Content) == 2 &&
				item.Content[1].Kind != yaml.ScalarNode {
				c.Key = item.Content[0].Value
				target = item.Content[1]
			}

			err := fill(c, target)
			if err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return fill(n, y.Alias)
	default:
		return sim.ConfigErrorf(n.Path(), "unsupported yaml node at line %d",
			y.Line)
	}

	return nil
}
