package algorithm

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ntv2/internal/datum"
	"ntv2/internal/gdalcmd"
)

func gridAt(file string) string { return "/opt/ntv2/grids/" + file }

const (
	lv03CHENYX06a = "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel +nadgrids=/opt/ntv2/grids/CHENYX06a.gsb +wktext +units=m +no_defs"
	lv03ETRS      = "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel +nadgrids=/opt/ntv2/grids/chenyx06etrs.gsb +wktext +units=m +no_defs"
	lv95Null      = "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +nadgrids=@null +wktext +units=m"
)

func flagValue(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func mustLookup(t *testing.T, name string) *Descriptor {
	t.Helper()
	d, err := Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", name, err)
	}
	return d
}

func TestBuild_ExactTokens(t *testing.T) {
	cases := []struct {
		name   string
		alg    string
		req    Request
		stages []gdalcmd.Stage
	}{
		{
			name: "CH direct LV95 is two-stage",
			alg:  "chvectortransform",
			req:  Request{Direction: datum.Direct, Datum: "ch1903plus", Grid: "chenyx06", Input: "in.shp", Layer: "roads", Output: "out.shp"},
			stages: []gdalcmd.Stage{
				{Program: "ogr2ogr", Args: []string{"-s_srs", lv03CHENYX06a, "-t_srs", lv95Null, "-f", "GeoJSON", "/vsistdout/", "in.shp", "roads", "-lco", "ENCODING=UTF-8"}},
				{Program: "ogr2ogr", Args: []string{"-f", "ESRI Shapefile", "-a_srs", "EPSG:2056", "out.shp", "/vsistdin/"}},
			},
		},
		{
			name: "CH direct ETRS89 is single-stage",
			alg:  "chvectortransform",
			req:  Request{Direction: datum.Direct, Datum: "etrs89", Grid: "chenyx06", Input: "in.shp", Output: "out.gpkg"},
			stages: []gdalcmd.Stage{
				{Program: "ogr2ogr", Args: []string{"-s_srs", lv03ETRS, "-t_srs", "EPSG:4258", "-f", "GPKG", "-lco", "ENCODING=UTF-8", "out.gpkg", "in.shp"}},
			},
		},
		{
			name: "CH inverse ETRS89 assigns LV03",
			alg:  "chvectortransform",
			req:  Request{Direction: datum.Inverse, Datum: "etrs89", Grid: "chenyx06", Input: "in.geojson", Output: "out.shp"},
			stages: []gdalcmd.Stage{
				{Program: "ogr2ogr", Args: []string{"-s_srs", "EPSG:4258", "-t_srs", lv03ETRS, "-f", "GeoJSON", "/vsistdout/", "in.geojson", "-lco", "ENCODING=UTF-8"}},
				{Program: "ogr2ogr", Args: []string{"-f", "ESRI Shapefile", "-a_srs", "EPSG:21781", "out.shp", "/vsistdin/"}},
			},
		},
		{
			name: "AT direct GK M31",
			alg:  "atvectortransform",
			req:  Request{Direction: datum.Direct, Datum: "gk_m31", Grid: "at_gis_grid", Input: "in.shp", Output: "out.kml"},
			stages: []gdalcmd.Stage{
				{Program: "ogr2ogr", Args: []string{
					"-s_srs", "+proj=tmerc +lat_0=0 +lon_0=13.33333333333333 +k=1 +x_0=450000 +y_0=-5000000 +ellps=bessel +nadgrids=/opt/ntv2/grids/AT_GIS_GRID.gsb +wktext +units=m +no_defs",
					"-t_srs", "EPSG:4258", "-f", "KML", "-lco", "ENCODING=UTF-8", "out.kml", "in.shp",
				}},
			},
		},
		{
			name: "PT inverse Datum 73 Militar assigns ESRI code",
			alg:  "ptvectortransform",
			req:  Request{Direction: datum.Inverse, Datum: "datum73_militar", Grid: "pt_etrs89_geo", Input: "in.shp", Output: "out.shp"},
			stages: []gdalcmd.Stage{
				{Program: "ogr2ogr", Args: []string{
					"-s_srs", "EPSG:3763",
					"-t_srs", "+proj=tmerc +lat_0=39.66666666666666 +lon_0=-8.131906111111112 +k=1 +x_0=200180.598 +y_0=299913.01 +ellps=intl +nadgrids=/opt/ntv2/grids/D73_ETRS89_geo.gsb +wktext +units=m +no_defs",
					"-f", "GeoJSON", "/vsistdout/", "in.shp", "-lco", "ENCODING=UTF-8",
				}},
				{Program: "ogr2ogr", Args: []string{"-f", "ESRI Shapefile", "-a_srs", "ESRI:102160", "out.shp", "/vsistdin/"}},
			},
		},
		{
			name: "ES raster direct",
			alg:  "esrastertransform",
			req:  Request{Direction: datum.Direct, Datum: "ed50_utm30", Grid: "penr2009", Input: "dem.tif", Layer: "ignored", Output: "dem_etrs.img"},
			stages: []gdalcmd.Stage{
				{Program: "gdalwarp", Args: []string{
					"-s_srs", "+proj=utm +zone=30 +ellps=intl +nadgrids=/opt/ntv2/grids/PENR2009.gsb +wktext +units=m +no_defs",
					"-t_srs", "EPSG:4258", "-multi", "-of", "HFA", "dem.tif", "dem_etrs.img",
				}},
			},
		},
		{
			name: "ES raster inverse stays single-stage",
			alg:  "esrastertransform",
			req:  Request{Direction: datum.Inverse, Datum: "ed50_utm29", Grid: "penr2009", Input: "dem.tif", Output: "dem_ed50.tif"},
			stages: []gdalcmd.Stage{
				{Program: "gdalwarp", Args: []string{
					"-s_srs", "EPSG:4258",
					"-t_srs", "+proj=utm +zone=29 +ellps=intl +nadgrids=/opt/ntv2/grids/PENR2009.gsb +wktext +units=m +no_defs",
					"-multi", "-of", "GTiff", "dem.tif", "dem_ed50.tif",
				}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := mustLookup(t, tc.alg).Build(tc.req, gridAt)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if diff := cmp.Diff(tc.stages, cmd.Stages); diff != "" {
				t.Fatalf("stages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_SwissLV95FirstStageUsesNullGrid(t *testing.T) {
	d := mustLookup(t, "chvectortransform")
	cmd, err := d.Build(Request{Direction: datum.Direct, Datum: "ch1903plus", Grid: "chenyx06", Input: "in.shp", Output: "out.shp"}, gridAt)
	if err != nil {
		t.Fatal(err)
	}
	if tgt := flagValue(cmd.Stages[0].Args, "-t_srs"); !strings.Contains(tgt, "+nadgrids=@null") {
		t.Fatalf("first stage target must be the @null LV95 definition, got %q", tgt)
	}
	if got := flagValue(cmd.Stages[1].Args, "-a_srs"); got != "EPSG:2056" {
		t.Fatalf("second stage -a_srs = %q, want EPSG:2056", got)
	}
}

func TestBuild_ExistingTransactionalOutputFails(t *testing.T) {
	dir := t.TempDir()
	gpkg := filepath.Join(dir, "out.gpkg")
	if err := os.WriteFile(gpkg, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	sqlite := filepath.Join(dir, "out.sqlite")
	if err := os.WriteFile(sqlite, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, alg := range []string{"chvectortransform", "ptvectortransform"} {
		d := mustLookup(t, alg)
		dt, g := d.Region.Datums[0].Key, d.Region.Grids[0].Key
		for _, dir := range []datum.Direction{datum.Direct, datum.Inverse} {
			for _, out := range []string{gpkg, sqlite} {
				cmd, err := d.Build(Request{Direction: dir, Datum: dt, Grid: g, Input: "in.shp", Output: out}, gridAt)
				if !errors.Is(err, ErrOutputExists) {
					t.Fatalf("%s %v %s: want ErrOutputExists, got %v", alg, dir, out, err)
				}
				if cmd != nil {
					t.Fatal("no command may be assembled on conflict")
				}
			}
		}
	}
}

func TestBuild_ExistingShapefileIsNotAConflict(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.shp")
	if err := os.WriteFile(out, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	d := mustLookup(t, "atvectortransform")
	if _, err := d.Build(Request{Datum: "mgi", Grid: "at_gis_grid", Input: "in.shp", Output: out}, gridAt); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuild_FormatIsDerivedOnce(t *testing.T) {
	for _, d := range All() {
		if d.Kind != Vector {
			continue
		}
		for sel := range d.Region.Table {
			for _, dir := range []datum.Direction{datum.Direct, datum.Inverse} {
				cmd, err := d.Build(Request{Direction: dir, Datum: sel.Datum, Grid: sel.Grid, Input: "in.shp", Output: "out.fgb"}, gridAt)
				if err != nil {
					t.Fatalf("%s %+v: %v", d.Name, sel, err)
				}
				if got := flagValue(cmd.Last().Args, "-f"); got != cmd.Format || cmd.Format != "FlatGeobuf" {
					t.Fatalf("%s %+v %v: last stage format %q, command format %q", d.Name, sel, dir, got, cmd.Format)
				}
				if cmd.Piped() && cmd.Stages[0].Args[6] != gdalcmd.VSIStdout {
					t.Fatalf("%s: first stage must stream to stdout: %v", d.Name, cmd.Stages[0].Args)
				}
			}
		}
	}
}

func TestBuild_InverseSwapsEndpointsAndKeepsGrid(t *testing.T) {
	for _, d := range All() {
		for sel := range d.Region.Table {
			req := Request{Datum: sel.Datum, Grid: sel.Grid, Input: "in", Output: "out"}
			req.Direction = datum.Direct
			fwd, err := d.Build(req, gridAt)
			if err != nil {
				t.Fatal(err)
			}
			req.Direction = datum.Inverse
			inv, err := d.Build(req, gridAt)
			if err != nil {
				t.Fatal(err)
			}
			fs, ft := fwd.Stages[0].Args[1], fwd.Stages[0].Args[3]
			is, it := inv.Stages[0].Args[1], inv.Stages[0].Args[3]
			if fs != it || ft != is {
				t.Fatalf("%s %+v: inverse must swap -s_srs/-t_srs", d.Name, sel)
			}
			if diff := cmp.Diff(fwd.Grids, inv.Grids); diff != "" {
				t.Fatalf("%s %+v: grid changed between directions:\n%s", d.Name, sel, diff)
			}
		}
	}
}

func TestBuild_UnsupportedCombination(t *testing.T) {
	d := mustLookup(t, "ptrastertransform")
	_, err := d.Build(Request{Datum: "ed50", Grid: "pt_etrs89_geo", Input: "in.tif", Output: "out.tif"}, gridAt)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}

func TestAssets(t *testing.T) {
	d := mustLookup(t, "chvectortransform")
	assets, err := d.Assets(Request{Datum: "ch1903plus", Grid: "chenyx06"})
	if err != nil {
		t.Fatal(err)
	}
	want := []datum.Asset{{File: "CHENYX06a.gsb", URL: "http://www.naturalgis.pt/downloads/ntv2grids/ch/CHENYX06a.gsb"}}
	if diff := cmp.Diff(want, assets); diff != "" {
		t.Fatalf("assets (-want +got):\n%s", diff)
	}
}
