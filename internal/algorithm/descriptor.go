package algorithm

import (
	"errors"
	"fmt"
	"strings"

	"ntv2/internal/datum"
)

var (
	ErrOutputExists  = errors.New("output file already exists")
	ErrUnknownOption = datum.ErrUnknownOption
	ErrUnsupported   = datum.ErrUnsupported
)

type Kind int

const (
	Vector Kind = iota
	Raster
)

func (k Kind) String() string {
	if k == Raster {
		return "raster"
	}
	return "vector"
}

// Descriptor is everything a host needs to list, document and run an
// algorithm.
type Descriptor struct {
	Name        string
	DisplayName string
	Group       string
	GroupID     string
	Tags        []string
	Help        string
	Icon        string
	Kind        Kind
	Region      *datum.Region
}

// Request is a fully resolved selection.
type Request struct {
	Direction datum.Direction
	Datum     string
	Grid      string
	Input     string
	// Layer is optional and only used by vector algorithms.
	Layer  string
	Output string
}

// Resolve validates raw user selections (keys or indices) against the
// descriptor's option lists.
func (d *Descriptor) Resolve(direction, datumSel, gridSel string) (datum.Direction, datum.Option, datum.Option, error) {
	dir, err := datum.ParseDirection(direction)
	if err != nil {
		return dir, datum.Option{}, datum.Option{}, err
	}
	dt, err := d.Region.ResolveDatum(datumSel)
	if err != nil {
		return dir, dt, datum.Option{}, err
	}
	g, err := d.Region.ResolveGrid(gridSel)
	return dir, dt, g, err
}

// Assets returns the grid assets a request depends on.
func (d *Descriptor) Assets(req Request) ([]datum.Asset, error) {
	t, err := d.Region.Transformation(req.Datum, req.Grid)
	if err != nil {
		return nil, err
	}
	var out []datum.Asset
	for _, f := range t.Grids() {
		a, ok := d.Region.Asset(f)
		if !ok {
			return nil, fmt.Errorf("%s: grid %s has no download location", d.Name, f)
		}
		out = append(out, a)
	}
	return out, nil
}

func newDescriptor(r *datum.Region, kind Kind) Descriptor {
	code := strings.ToLower(r.Code)
	noun := "Vector"
	if kind == Raster {
		noun = "Raster"
	}
	return Descriptor{
		Name:        code + strings.ToLower(noun) + "transform",
		DisplayName: fmt.Sprintf("[%s] Direct and inverse %s Transformation", r.Code, noun),
		Group:       fmt.Sprintf("[%s] %s", r.Code, r.Name),
		GroupID:     r.GroupID,
		Tags:        []string{strings.ToLower(noun), "grid", "ntv2", "direct", "inverse", r.GroupID},
		Help:        fmt.Sprintf("Direct and inverse %s transformations using %s NTv2 grids.", strings.ToLower(noun), r.Name),
		Icon:        "icons/" + code + ".png",
		Kind:        kind,
		Region:      r,
	}
}
