package datum

const (
	lv03 = "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel +nadgrids={nadgrids} +wktext +units=m +no_defs"
	// LV95 on the Bessel ellipsoid without a datum shift; the second stage
	// assigns EPSG:2056 to the result.
	lv95Null = "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +nadgrids=@null +wktext +units=m"
)

// Switzerland is the only region whose datum menu lists the modern datum;
// the legacy side is always CH1903/LV03 (EPSG:21781).
var Switzerland = register(&Region{
	Code:         "CH",
	Name:         "Switzerland",
	GroupID:      "switzerland",
	DirectLabel:  "Direct: CH1903/LV03 [EPSG:21781] -> New Data",
	InverseLabel: "Inverse: New Data -> CH1903/LV03 [EPSG:21781]",
	DatumLabel:   "New Datum",
	Datums: []Option{
		{Key: "etrs89", Label: "ETRS89 [EPSG:4258]"},
		{Key: "ch1903plus", Label: "CH1903+ [EPSG:2056]"},
	},
	Grids: []Option{
		{Key: "chenyx06", Label: "CHENyx06"},
	},
	Assets: []Asset{
		naturalGISAsset("ch", "CHENYX06a.gsb"),
		naturalGISAsset("ch", "chenyx06etrs.gsb"),
	},
	Table: map[Selection]Transformation{
		{Datum: "etrs89", Grid: "chenyx06"}: {
			Legacy:        Proj(lv03, "chenyx06etrs.gsb"),
			Modern:        Code("EPSG:4258"),
			InverseAssign: "EPSG:21781",
		},
		{Datum: "ch1903plus", Grid: "chenyx06"}: {
			Legacy:        Proj(lv03, "CHENYX06a.gsb"),
			Modern:        Proj(lv95Null, ""),
			DirectAssign:  "EPSG:2056",
			InverseAssign: "EPSG:21781",
		},
	},
})
