// Package factoryapi defines the JSON shapes of the factory dashboard API.
//
// Every shape here is the canonical one used on the wire. Efficiency on a
// LineStatus is a preformatted percentage string; efficiency on metrics and
// time series points is a plain number.
package factoryapi

// TimeSeriesPoint is one period of the production chart.
type TimeSeriesPoint struct {
	Name       string  `json:"name"`       // Period label ("Jan", "2021", ...)
	Production int     `json:"production"` // Units produced in the period
	Efficiency float64 `json:"efficiency"` // Percent, 0-100
	Downtime   float64 `json:"downtime"`   // Hours
}

// Metrics is the payload of GET /api/factory/metrics.
// The headline values mirror the last point of TimeSeriesData.
type Metrics struct {
	Production     int               `json:"production"`
	Efficiency     float64           `json:"efficiency"`
	Downtime       float64           `json:"downtime"`
	ProfitMargin   float64           `json:"profitMargin"`
	TimeSeriesData []TimeSeriesPoint `json:"timeSeriesData"`
}

// LineState is the health of a single production line.
type LineState string

const (
	// LineOperational means the line is running normally
	LineOperational LineState = "operational"

	// LineWarning means the line is running below expectations
	LineWarning LineState = "warning"

	// LineDown means the line is stopped
	LineDown LineState = "down"
)

// IsValid reports whether s is one of the known line states.
func (s LineState) IsValid() bool {
	switch s {
	case LineOperational, LineWarning, LineDown:
		return true
	}
	return false
}

// LineStatus is one row of GET /api/factory/status.
type LineStatus struct {
	ID              string    `json:"id"`              // "line-N"
	Name            string    `json:"name"`            // Display name
	Status          LineState `json:"status"`          // operational, warning or down
	Efficiency      string    `json:"efficiency"`      // Formatted percentage, e.g. "92%"
	LastMaintenance string    `json:"lastMaintenance"` // Human readable age, e.g. "3 days ago"
}

// MachineTypes is the payload of GET /api/factory/machine-types.
type MachineTypes struct {
	MachineTypes []string `json:"machine_types"`
}

// BatchQuality summarizes batch pass rates in percent.
type BatchQuality struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// EnergyMetrics summarizes energy usage.
type EnergyMetrics struct {
	Consumption float64 `json:"consumption"` // kWh
	Efficiency  float64 `json:"efficiency"`  // Energy efficiency rating
	Emissions   float64 `json:"emissions"`   // kg CO2
}

// BotRequest is the body of POST /api/factory/bot.
type BotRequest struct {
	Message string `json:"message"`
}

// BotResponse is the reply of POST /api/factory/bot.
type BotResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // ISO8601, UTC, millisecond precision
}

// ErrorResponse is the JSON body returned with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
