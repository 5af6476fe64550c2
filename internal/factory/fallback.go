package factory

import "github.com/dyluth/factorydash/pkg/factoryapi"

// MonthlyData is the sample monthly series shown when the API is unreachable.
func MonthlyData() []factoryapi.TimeSeriesPoint {
	return []factoryapi.TimeSeriesPoint{
		{Name: "January", Production: 4200, Efficiency: 82, Downtime: 12},
		{Name: "February", Production: 3800, Efficiency: 78, Downtime: 15},
		{Name: "March", Production: 5100, Efficiency: 85, Downtime: 8},
		{Name: "April", Production: 4700, Efficiency: 80, Downtime: 10},
		{Name: "May", Production: 5300, Efficiency: 87, Downtime: 7},
		{Name: "June", Production: 4900, Efficiency: 83, Downtime: 9},
		{Name: "July", Production: 5200, Efficiency: 86, Downtime: 6},
		{Name: "August", Production: 5000, Efficiency: 84, Downtime: 8},
		{Name: "September", Production: 5400, Efficiency: 88, Downtime: 5},
		{Name: "October", Production: 5600, Efficiency: 89, Downtime: 4},
		{Name: "November", Production: 5200, Efficiency: 85, Downtime: 7},
		{Name: "December", Production: 4800, Efficiency: 81, Downtime: 11},
	}
}

// YearlyData is the sample yearly series.
func YearlyData() []factoryapi.TimeSeriesPoint {
	return []factoryapi.TimeSeriesPoint{
		{Name: "2018", Production: 48000, Efficiency: 79, Downtime: 120},
		{Name: "2019", Production: 52000, Efficiency: 82, Downtime: 105},
		{Name: "2020", Production: 49000, Efficiency: 80, Downtime: 115},
		{Name: "2021", Production: 55000, Efficiency: 84, Downtime: 95},
		{Name: "2022", Production: 59000, Efficiency: 86, Downtime: 85},
		{Name: "2023", Production: 62000, Efficiency: 88, Downtime: 75},
	}
}

// FallbackMetrics matches the figures quoted by the bot.
func FallbackMetrics() factoryapi.Metrics {
	return factoryapi.Metrics{
		Production:     1245,
		Efficiency:     89.2,
		Downtime:       3.2,
		ProfitMargin:   24.5,
		TimeSeriesData: MonthlyData(),
	}
}

// FallbackStatus is the sample line table.
func FallbackStatus() []factoryapi.LineStatus {
	return []factoryapi.LineStatus{
		{ID: "line-1", Name: "Production Line 1", Status: factoryapi.LineOperational, Efficiency: "92%", LastMaintenance: "3 days ago"},
		{ID: "line-2", Name: "Production Line 2", Status: factoryapi.LineOperational, Efficiency: "88%", LastMaintenance: "1 week ago"},
		{ID: "line-3", Name: "Production Line 3", Status: factoryapi.LineWarning, Efficiency: "76%", LastMaintenance: "2 weeks ago"},
		{ID: "line-4", Name: "Production Line 4", Status: factoryapi.LineDown, Efficiency: "0%", LastMaintenance: "1 day ago"},
		{ID: "line-5", Name: "Production Line 5", Status: factoryapi.LineOperational, Efficiency: "95%", LastMaintenance: "5 days ago"},
	}
}
