package datum

// Hayford-Gauss projections on the International 1924 ellipsoid, centred on
// Melriça.
func hayfordGauss(x0, y0 string) string {
	return "+proj=tmerc +lat_0=39.66666666666666 +lon_0=-8.131906111111112 +k=1 +x_0=" + x0 + " +y_0=" + y0 + " +ellps=intl +nadgrids={nadgrids} +wktext +units=m +no_defs"
}

const (
	ptE89 = "pt_e89"
	ptDGT = "pt_etrs89_geo"
)

var Portugal = register(&Region{
	Code:         "PT",
	Name:         "Portugal (mainland)",
	GroupID:      "portugal",
	DirectLabel:  "Direct: Old Data -> PT-TM06/ETRS89 [EPSG:3763]",
	InverseLabel: "Inverse: PT-TM06/ETRS89 [EPSG:3763] -> Old Data",
	DatumLabel:   "Old Datum",
	Datums: []Option{
		{Key: "lisboa", Label: "Datum Lisboa [EPSG:20791/EPSG:5018/ESRI:102165]"},
		{Key: "lisboa_militar", Label: "Datum Lisboa Militar [EPSG:20790/ESRI:102164]"},
		{Key: "datum73", Label: "Datum 73 [EPSG:27493/ESRI:102161]"},
		{Key: "datum73_militar", Label: "Datum 73 Militar [ESRI:102160]"},
		{Key: "ed50", Label: "ED50 UTM 29N [EPSG:23029] (Only grid from José Alberto Gonçalves)"},
	},
	Grids: []Option{
		{Key: ptE89, Label: "José Alberto Gonçalves"},
		{Key: ptDGT, Label: "Direção-Geral do Territorio"},
	},
	Assets: []Asset{
		naturalGISAsset("pt", "pt73_e89.gsb"),
		naturalGISAsset("pt", "ptED_e89.gsb"),
		naturalGISAsset("pt", "ptLB_e89.gsb"),
		naturalGISAsset("pt", "ptLX_e89.gsb"),
		naturalGISAsset("pt", "D73_ETRS89_geo.gsb"),
		naturalGISAsset("pt", "DLX_ETRS89_geo.gsb"),
	},
	Table: map[Selection]Transformation{
		{Datum: "lisboa", Grid: ptE89}:          portuguese(hayfordGauss("0", "0"), "ptLX_e89.gsb", "EPSG:20791"),
		{Datum: "lisboa", Grid: ptDGT}:          portuguese(hayfordGauss("0", "0"), "DLX_ETRS89_geo.gsb", "EPSG:20791"),
		{Datum: "lisboa_militar", Grid: ptE89}:  portuguese(hayfordGauss("200000", "300000"), "ptLX_e89.gsb", "EPSG:20790"),
		{Datum: "lisboa_militar", Grid: ptDGT}:  portuguese(hayfordGauss("200000", "300000"), "DLX_ETRS89_geo.gsb", "EPSG:20790"),
		{Datum: "datum73", Grid: ptE89}:         portuguese(hayfordGauss("180.598", "-86.99"), "pt73_e89.gsb", "EPSG:27493"),
		{Datum: "datum73", Grid: ptDGT}:         portuguese(hayfordGauss("180.598", "-86.99"), "D73_ETRS89_geo.gsb", "EPSG:27493"),
		{Datum: "datum73_militar", Grid: ptE89}: portuguese(hayfordGauss("200180.598", "299913.01"), "pt73_e89.gsb", "ESRI:102160"),
		{Datum: "datum73_militar", Grid: ptDGT}: portuguese(hayfordGauss("200180.598", "299913.01"), "D73_ETRS89_geo.gsb", "ESRI:102160"),
		{Datum: "ed50", Grid: ptE89}:            portuguese(ed50UTM("29"), "ptED_e89.gsb", "EPSG:23029"),
	},
	Unsupported: map[Selection]string{
		{Datum: "ed50", Grid: ptDGT}: "ED50 UTM 29N is only available with the José Alberto Gonçalves grid",
	},
})

func portuguese(def, grid, code string) Transformation {
	return Transformation{
		Legacy:        Proj(def, grid),
		Modern:        Code("EPSG:3763"),
		InverseAssign: code,
	}
}
