// Package datum holds the catalogue of legacy datums, NTv2 grid families and
// the transformation table of every supported region.
//
// A region's table is exhaustive: each (datum, grid) selection either maps to
// a Transformation or is reported as unsupported with a user-facing reason.
package datum

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrUnsupported   = errors.New("unsupported combination")
)

type Direction int

const (
	Direct Direction = iota
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "direct"
}

// ParseDirection accepts the names and the host's enum indices (0, 1).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "dir", "0", "":
		return Direct, nil
	case "inverse", "inv", "1":
		return Inverse, nil
	}
	return Direct, fmt.Errorf("direction %q: %w", s, ErrUnknownOption)
}

// Asset is a grid file and the fixed remote location it is fetched from.
type Asset struct {
	File string
	URL  string
}

// CRS is either an authority code (EPSG:4258) or a PROJ string. A PROJ
// string that depends on a grid carries the {nadgrids} placeholder and names
// the grid file in Grid.
type CRS struct {
	Code string
	Proj string
	Grid string
}

const nadgridsPlaceholder = "{nadgrids}"

func Code(code string) CRS { return CRS{Code: code} }

func Proj(def, grid string) CRS { return CRS{Proj: def, Grid: grid} }

// Render returns the value passed to -s_srs/-t_srs, resolving the grid file
// through path.
func (c CRS) Render(path func(file string) string) string {
	if c.Code != "" {
		return c.Code
	}
	if c.Grid == "" {
		return c.Proj
	}
	return strings.ReplaceAll(c.Proj, nadgridsPlaceholder, path(c.Grid))
}

// Transformation describes one legacy <-> modern relation. A non-empty
// DirectAssign/InverseAssign means that direction runs in two stages and the
// second stage assigns that CRS to the result.
type Transformation struct {
	Legacy        CRS
	Modern        CRS
	DirectAssign  string
	InverseAssign string
}

// Grids lists the grid files the transformation reads.
func (t Transformation) Grids() []string {
	var out []string
	for _, c := range []CRS{t.Legacy, t.Modern} {
		if c.Grid != "" {
			out = append(out, c.Grid)
		}
	}
	return out
}

// Endpoints returns source, target and the CRS assigned by a second stage
// (empty for a single stage) for the given direction.
func (t Transformation) Endpoints(d Direction) (src, dst CRS, assign string) {
	if d == Inverse {
		return t.Modern, t.Legacy, t.InverseAssign
	}
	return t.Legacy, t.Modern, t.DirectAssign
}

type Option struct {
	Key   string
	Label string
}

type Selection struct {
	Datum string
	Grid  string
}

type Region struct {
	Code    string
	Name    string
	GroupID string

	DirectLabel  string
	InverseLabel string
	DatumLabel   string

	Datums []Option
	Grids  []Option
	Assets []Asset

	Table map[Selection]Transformation
	// Unsupported explains why a selection has no transformation.
	Unsupported map[Selection]string
}

// ResolveDatum accepts an option key or a zero-based index into Datums.
func (r *Region) ResolveDatum(s string) (Option, error) {
	return resolve(r.Datums, s, "datum", r.Code)
}

func (r *Region) ResolveGrid(s string) (Option, error) {
	return resolve(r.Grids, s, "grid", r.Code)
}

func resolve(opts []Option, s, what, region string) (Option, error) {
	s = strings.TrimSpace(s)
	for _, o := range opts {
		if strings.EqualFold(o.Key, s) {
			return o, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(opts) {
		return opts[i], nil
	}
	return Option{}, fmt.Errorf("%s %s %q: %w", region, what, s, ErrUnknownOption)
}

func (r *Region) Transformation(datum, grid string) (Transformation, error) {
	sel := Selection{Datum: datum, Grid: grid}
	if t, ok := r.Table[sel]; ok {
		return t, nil
	}
	if why, ok := r.Unsupported[sel]; ok {
		return Transformation{}, fmt.Errorf("%s: %w", why, ErrUnsupported)
	}
	return Transformation{}, fmt.Errorf("%s datum %q with grid %q: %w", r.Code, datum, grid, ErrUnsupported)
}

// Asset returns the catalogue entry for a grid file.
func (r *Region) Asset(file string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.File == file {
			return a, true
		}
	}
	return Asset{}, false
}

/*──────── catalogue ───────*/

var regions = map[string]*Region{}

func register(r *Region) *Region {
	if _, dup := regions[r.Code]; dup {
		panic(fmt.Sprintf("datum: region %s registered twice", r.Code))
	}
	regions[r.Code] = r
	return r
}

func Lookup(code string) (*Region, bool) {
	r, ok := regions[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

func Regions() []*Region {
	out := make([]*Region, 0, len(regions))
	for _, r := range regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

const naturalGIS = "http://www.naturalgis.pt/downloads/ntv2grids/"

func naturalGISAsset(country, file string) Asset {
	return Asset{File: file, URL: naturalGIS + country + "/" + file}
}
