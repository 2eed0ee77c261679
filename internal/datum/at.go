package datum

func mgiGK(lon0, x0 string) string {
	return "+proj=tmerc +lat_0=0 +lon_0=" + lon0 + " +k=1 +x_0=" + x0 + " +y_0=-5000000 +ellps=bessel +nadgrids={nadgrids} +wktext +units=m +no_defs"
}

const atGrid = "AT_GIS_GRID.gsb"

var Austria = register(&Region{
	Code:         "AT",
	Name:         "Austria",
	GroupID:      "austria",
	DirectLabel:  "Direct: Old Data -> ETRS89 [EPSG:4258]",
	InverseLabel: "Inverse: ETRS89 [EPSG:4258] -> Old Data",
	DatumLabel:   "Old Datum",
	Datums: []Option{
		{Key: "mgi", Label: "MGI [EPSG:4312]"},
		{Key: "gk_west", Label: "MGI/Austria GK west [EPSG:31254]"},
		{Key: "gk_central", Label: "MGI/Austria GK central [EPSG:31255]"},
		{Key: "gk_east", Label: "MGI/Austria GK east [EPSG:31256]"},
		{Key: "gk_m28", Label: "MGI/Austria GK M28 [EPSG:31257]"},
		{Key: "gk_m31", Label: "MGI/Austria GK M31 [EPSG:31258]"},
		{Key: "gk_m34", Label: "MGI/Austria GK M34 [EPSG:31259]"},
	},
	Grids: []Option{
		{Key: "at_gis_grid", Label: "AT_GIS_GRID"},
	},
	Assets: []Asset{
		naturalGISAsset("at", atGrid),
	},
	Table: map[Selection]Transformation{
		{Datum: "mgi", Grid: "at_gis_grid"}:        austrian("+proj=longlat +ellps=bessel +nadgrids={nadgrids} +wktext +no_defs", "EPSG:4312"),
		{Datum: "gk_west", Grid: "at_gis_grid"}:    austrian(mgiGK("10.33333333333333", "0"), "EPSG:31254"),
		{Datum: "gk_central", Grid: "at_gis_grid"}: austrian(mgiGK("13.33333333333333", "0"), "EPSG:31255"),
		{Datum: "gk_east", Grid: "at_gis_grid"}:    austrian(mgiGK("16.33333333333333", "0"), "EPSG:31256"),
		{Datum: "gk_m28", Grid: "at_gis_grid"}:     austrian(mgiGK("10.33333333333333", "150000"), "EPSG:31257"),
		{Datum: "gk_m31", Grid: "at_gis_grid"}:     austrian(mgiGK("13.33333333333333", "450000"), "EPSG:31258"),
		{Datum: "gk_m34", Grid: "at_gis_grid"}:     austrian(mgiGK("16.33333333333333", "750000"), "EPSG:31259"),
	},
})

func austrian(def, code string) Transformation {
	return Transformation{
		Legacy:        Proj(def, atGrid),
		Modern:        Code("EPSG:4258"),
		InverseAssign: code,
	}
}
