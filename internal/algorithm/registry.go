package algorithm

import (
	"fmt"
	"sort"

	"ntv2/internal/datum"
)

var registry = map[string]*Descriptor{}

// Register adds a descriptor; names are unique.
func Register(d Descriptor) {
	if _, dup := registry[d.Name]; dup {
		panic(fmt.Sprintf("algorithm: %q registered twice", d.Name))
	}
	registry[d.Name] = &d
}

func Lookup(name string) (*Descriptor, error) {
	if d, ok := registry[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("algorithm %q: %w", name, ErrUnknownOption)
}

// All returns the registered descriptors ordered by name.
func All() []*Descriptor {
	out := make([]*Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func init() {
	Register(newDescriptor(datum.Switzerland, Vector))
	Register(newDescriptor(datum.Austria, Vector))
	Register(newDescriptor(datum.Austria, Raster))
	Register(newDescriptor(datum.Portugal, Vector))
	Register(newDescriptor(datum.Portugal, Raster))
	Register(newDescriptor(datum.Spain, Vector))
	Register(newDescriptor(datum.Spain, Raster))
}
