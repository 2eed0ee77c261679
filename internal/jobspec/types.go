// Package jobspec holds the YAML schema of batch job files.
package jobspec

import "ntv2/internal/job"

// File is a batch job file:
//
//	schema_version: v1
//	defaults:
//	  algorithm: atvectortransform
//	  grid: at_gis_grid
//	jobs:
//	  - datum: gk_m31
//	    input: data/roads.shp
//	    output: out/roads.gpkg
type File struct {
	SchemaVersion string        `yaml:"schema_version"`
	Defaults      job.Request   `yaml:"defaults"`
	Jobs          []job.Request `yaml:"jobs"`
}

// Merge fills every empty selection field of r from the file defaults.
func (f *File) Merge(r job.Request) job.Request {
	d := f.Defaults
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&r.Algorithm, d.Algorithm)
	fill(&r.Direction, d.Direction)
	fill(&r.Datum, d.Datum)
	fill(&r.Grid, d.Grid)
	fill(&r.Layer, d.Layer)
	return r
}
