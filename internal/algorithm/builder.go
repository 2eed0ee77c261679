package algorithm

import (
	"fmt"
	"os"

	"ntv2/internal/gdalcmd"
)

// Build returns the stages for req. gridPath maps a grid file name to the
// local path written into +nadgrids.
//
// When the output driver is SQLite or GPKG and the output already exists,
// Build fails with ErrOutputExists before anything is assembled.
func (d *Descriptor) Build(req Request, gridPath func(file string) string) (*gdalcmd.Command, error) {
	format := gdalcmd.VectorFormat(req.Output)
	if d.Kind == Raster {
		format = gdalcmd.RasterFormat(req.Output)
	}
	if gdalcmd.Transactional(format) {
		if _, err := os.Stat(req.Output); err == nil {
			return nil, fmt.Errorf("output file %q: %w", req.Output, ErrOutputExists)
		}
	}

	t, err := d.Region.Transformation(req.Datum, req.Grid)
	if err != nil {
		return nil, err
	}
	src, dst, assign := t.Endpoints(req.Direction)

	cmd := &gdalcmd.Command{Format: format, Output: req.Output, Grids: t.Grids()}
	s, tgt := src.Render(gridPath), dst.Render(gridPath)

	switch {
	case d.Kind == Raster:
		cmd.Stages = []gdalcmd.Stage{warpStage(s, tgt, format, req)}
	case assign == "":
		cmd.Stages = []gdalcmd.Stage{ogrStage(s, tgt, format, req)}
	default:
		cmd.Stages = ogrPipeline(s, tgt, assign, format, req)
	}
	return cmd, nil
}

func warpStage(src, dst, format string, req Request) gdalcmd.Stage {
	return gdalcmd.Stage{Program: gdalcmd.Warp, Args: []string{
		"-s_srs", src,
		"-t_srs", dst,
		"-multi",
		"-of", format,
		req.Input,
		req.Output,
	}}
}

func ogrStage(src, dst, format string, req Request) gdalcmd.Stage {
	args := []string{
		"-s_srs", src,
		"-t_srs", dst,
		"-f", format,
		"-lco", gdalcmd.EncodingOption,
		req.Output,
		req.Input,
	}
	if req.Layer != "" {
		args = append(args, req.Layer)
	}
	return gdalcmd.Stage{Program: gdalcmd.OGR, Args: args}
}

// ogrPipeline reprojects into a GeoJSON stream and lets a second ogr2ogr
// write the final driver with the CRS assigned explicitly.
func ogrPipeline(src, dst, assign, format string, req Request) []gdalcmd.Stage {
	first := []string{
		"-s_srs", src,
		"-t_srs", dst,
		"-f", gdalcmd.IntermediateFormat,
		gdalcmd.VSIStdout,
		req.Input,
	}
	if req.Layer != "" {
		first = append(first, req.Layer)
	}
	first = append(first, "-lco", gdalcmd.EncodingOption)

	return []gdalcmd.Stage{
		{Program: gdalcmd.OGR, Args: first},
		{Program: gdalcmd.OGR, Args: []string{
			"-f", format,
			"-a_srs", assign,
			req.Output,
			gdalcmd.VSIStdin,
		}},
	}
}
