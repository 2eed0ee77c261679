package datum

const penr2009 = "PENR2009.gsb"

func ed50UTM(zone string) string {
	return "+proj=utm +zone=" + zone + " +ellps=intl +nadgrids={nadgrids} +wktext +units=m +no_defs"
}

var Spain = register(&Region{
	Code:         "ES",
	Name:         "Spain (mainland)",
	GroupID:      "spain",
	DirectLabel:  "Direct: Old Data -> ETRS89 [EPSG:4258]",
	InverseLabel: "Inverse: ETRS89 [EPSG:4258] -> Old Data",
	DatumLabel:   "Old Datum",
	Datums: []Option{
		{Key: "ed50_utm29", Label: "ED50/UTM 29N [EPSG:23029]"},
		{Key: "ed50_utm30", Label: "ED50/UTM 30N [EPSG:23030]"},
		{Key: "ed50_utm31", Label: "ED50/UTM 31N [EPSG:23031]"},
	},
	Grids: []Option{
		{Key: "penr2009", Label: "PENR2009"},
	},
	Assets: []Asset{
		{File: penr2009, URL: "https://github.com/NaturalGIS/ntv2_transformations_grids_and_sample_data/raw/master/es/PENR2009.gsb"},
	},
	Table: map[Selection]Transformation{
		{Datum: "ed50_utm29", Grid: "penr2009"}: spanish("29", "EPSG:23029"),
		{Datum: "ed50_utm30", Grid: "penr2009"}: spanish("30", "EPSG:23030"),
		{Datum: "ed50_utm31", Grid: "penr2009"}: spanish("31", "EPSG:23031"),
	},
})

func spanish(zone, code string) Transformation {
	return Transformation{
		Legacy:        Proj(ed50UTM(zone), penr2009),
		Modern:        Code("EPSG:4258"),
		InverseAssign: code,
	}
}
