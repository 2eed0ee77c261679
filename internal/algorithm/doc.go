// Package algorithm defines the data-only descriptors of the reprojection
// algorithms and turns a resolved request into the gdalwarp/ogr2ogr stages
// that perform it.
package algorithm
