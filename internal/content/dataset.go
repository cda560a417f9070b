package content

import "github.com/Pranav2188/water-pollution-quirklab/internal/chart"

// Field keys of the pollution dataset.
const (
	FieldUnsafeWater    = "unsafeWater"
	FieldPlasticOcean   = "plasticOcean"
	FieldDiarrheaDeaths = "diarrheaDeaths"
)

// PollutionFields describes the three plotted columns. Percentages and death
// counts share the left axis; plastic tonnage uses the right one.
var PollutionFields = []chart.Field{
	{Key: FieldUnsafeWater, Label: "People without Safe Water (%)", Unit: "%", Color: "#ef4444", Axis: chart.AxisLeft},
	{Key: FieldPlasticOcean, Label: "Plastic to Ocean (Million tonnes)", Unit: "M tonnes", Color: "#3b82f6", Axis: chart.AxisRight},
	{Key: FieldDiarrheaDeaths, Label: "Diarrhea Deaths (thousands)", Unit: "k deaths", Color: "#f59e0b", Axis: chart.AxisLeft},
}

// WHO/UNICEF JMP, Jambeck et al. and OECD figures; 2023 and 2024 are estimates.
var pollutionRecords = []chart.Record{
	{Year: 2000, Values: []float64{39, 4.8, 1300}},
	{Year: 2001, Values: []float64{38.5, 5.0, 1280}},
	{Year: 2002, Values: []float64{38, 5.1, 1260}},
	{Year: 2003, Values: []float64{37.5, 5.2, 1240}},
	{Year: 2004, Values: []float64{37, 5.3, 1220}},
	{Year: 2005, Values: []float64{37, 5.2, 1200}},
	{Year: 2006, Values: []float64{36, 5.5, 1180}},
	{Year: 2007, Values: []float64{35.5, 6.0, 1160}},
	{Year: 2008, Values: []float64{35, 6.5, 1140}},
	{Year: 2009, Values: []float64{34.5, 7.0, 1120}},
	{Year: 2010, Values: []float64{34, 8.0, 1100}},
	{Year: 2011, Values: []float64{33, 8.5, 1080}},
	{Year: 2012, Values: []float64{32.5, 9.0, 1050}},
	{Year: 2013, Values: []float64{32, 9.3, 1020}},
	{Year: 2014, Values: []float64{31.5, 9.6, 1000}},
	{Year: 2015, Values: []float64{31, 10.0, 950}},
	{Year: 2016, Values: []float64{30, 10.5, 920}},
	{Year: 2017, Values: []float64{29.5, 11.0, 900}},
	{Year: 2018, Values: []float64{29, 11.5, 880}},
	{Year: 2019, Values: []float64{28.5, 12.0, 1100}},
	{Year: 2020, Values: []float64{28, 1.4, 1100}},
	{Year: 2021, Values: []float64{27.5, 1.45, 1090}},
	{Year: 2022, Values: []float64{27, 1.5, 1100}},
	{Year: 2023, Values: []float64{26.5, 1.5, 1080}},
	{Year: 2024, Values: []float64{26, 1.6, 1050}},
}

var pollutionSeries = chart.MustSeries(PollutionFields, pollutionRecords)

// PollutionSeries returns the 2000-2024 global water dataset.
func PollutionSeries() chart.Series {
	return pollutionSeries
}
