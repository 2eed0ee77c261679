package gdalcmd

import "strings"

const (
	Warp = "gdalwarp"
	OGR  = "ogr2ogr"

	VSIStdout = "/vsistdout/"
	VSIStdin  = "/vsistdin/"

	IntermediateFormat = "GeoJSON"
	EncodingOption     = "ENCODING=UTF-8"
)

// Stage is one invocation of an external GDAL tool.
type Stage struct {
	Program string
	Args    []string
}

// Command is the ordered list of stages of one transformation. Stage n's
// standard output feeds stage n+1's standard input.
type Command struct {
	Stages []Stage
	// Format is the driver derived from Output; it is the format written by
	// the last stage.
	Format string
	Output string
	// Grids are the grid files the stages read.
	Grids []string
}

func (c *Command) Piped() bool { return len(c.Stages) > 1 }

// Last returns the stage that writes Output.
func (c *Command) Last() Stage {
	return c.Stages[len(c.Stages)-1]
}

// String renders the command the way a shell would run it.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Stages))
	for _, s := range c.Stages {
		parts = append(parts, s.Program+" "+EscapeAndJoin(s.Args))
	}
	return strings.Join(parts, " | ")
}
