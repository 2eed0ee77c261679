package gdalcmd

import (
	"path/filepath"
	"strings"
)

const (
	DefaultVectorFormat = "ESRI Shapefile"
	DefaultRasterFormat = "GTiff"
)

var vectorDrivers = map[string]string{
	".shp":      "ESRI Shapefile",
	".gpkg":     "GPKG",
	".sqlite":   "SQLite",
	".db":       "SQLite",
	".geojson":  "GeoJSON",
	".json":     "GeoJSON",
	".geojsonl": "GeoJSONSeq",
	".geojsons": "GeoJSONSeq",
	".fgb":      "FlatGeobuf",
	".gml":      "GML",
	".kml":      "KML",
	".csv":      "CSV",
	".tab":      "MapInfo File",
	".mif":      "MapInfo File",
	".dxf":      "DXF",
	".gpx":      "GPX",
	".gmt":      "OGR_GMT",
	".xlsx":     "XLSX",
	".ods":      "ODS",
	".dgn":      "DGN",
}

var rasterDrivers = map[string]string{
	".tif":  "GTiff",
	".tiff": "GTiff",
	".vrt":  "VRT",
	".img":  "HFA",
	".asc":  "AAIGrid",
	".png":  "PNG",
	".jpg":  "JPEG",
	".jpeg": "JPEG",
	".gif":  "GIF",
	".bmp":  "BMP",
	".nc":   "netCDF",
	".sdat": "SAGA",
	".rst":  "RST",
	".gpkg": "GPKG",
	".ers":  "ERS",
	".xyz":  "XYZ",
}

// VectorFormat derives the OGR driver short name from an output path.
func VectorFormat(path string) string {
	if f, ok := vectorDrivers[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return DefaultVectorFormat
}

// RasterFormat derives the GDAL driver short name from an output path.
func RasterFormat(path string) string {
	if f, ok := rasterDrivers[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return DefaultRasterFormat
}

// Transactional reports whether the driver appends into an existing file
// instead of replacing it.
func Transactional(format string) bool {
	return format == "SQLite" || format == "GPKG"
}
