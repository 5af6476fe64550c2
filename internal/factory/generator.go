// Package factory synthesizes the data served by the dashboard API and holds
// the sample data shown when the API cannot be reached.
package factory

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dyluth/factorydash/pkg/factoryapi"
)

// Months labels the twelve points of a generated metrics series.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Generator produces the data served by the dashboard API.
// Implementations must be safe for concurrent use.
type Generator interface {
	Metrics() factoryapi.Metrics
	Status() []factoryapi.LineStatus
	MachineTypes() factoryapi.MachineTypes
	BatchQuality() factoryapi.BatchQuality
	EnergyMetrics() factoryapi.EnergyMetrics
}

// RandomGenerator synthesizes fresh random values on every call.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator creates a generator seeded with seed.
// A zero seed picks one from the current time.
func NewRandomGenerator(seed int64) *RandomGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomGenerator{rng: rand.New(rand.NewSource(seed))}
}

// intn returns a value in [lo, lo+n).
func (g *RandomGenerator) intn(lo, n int) int {
	return lo + g.rng.Intn(n)
}

// Metrics returns twelve monthly points and headline values taken from the
// latest month. Production is in [2000,4000), efficiency in [60,90), downtime
// in [1,6) and profit margin in [15,30), all whole numbers.
func (g *RandomGenerator) Metrics() factoryapi.Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()

	series := make([]factoryapi.TimeSeriesPoint, len(Months))
	for i, month := range Months {
		series[i] = factoryapi.TimeSeriesPoint{
			Name:       month,
			Production: g.intn(2000, 2000),
			Efficiency: float64(g.intn(60, 30)),
			Downtime:   float64(g.intn(1, 5)),
		}
	}

	latest := series[len(series)-1]
	return factoryapi.Metrics{
		Production:     latest.Production,
		Efficiency:     latest.Efficiency,
		Downtime:       latest.Downtime,
		ProfitMargin:   float64(g.intn(15, 15)),
		TimeSeriesData: series,
	}
}

// Status returns five production lines. States are drawn with weights
// 0.7 operational, 0.2 warning and 0.1 down; line 4 always reports 0%.
func (g *RandomGenerator) Status() []factoryapi.LineStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	lines := make([]factoryapi.LineStatus, 0, 5)
	for i := 1; i <= 5; i++ {
		efficiency := fmt.Sprintf("%d%%", g.intn(60, 39))
		if i == 4 {
			efficiency = "0%"
		}
		lines = append(lines, factoryapi.LineStatus{
			ID:              fmt.Sprintf("line-%d", i),
			Name:            fmt.Sprintf("Production Line %d", i),
			Status:          g.weightedState(),
			Efficiency:      efficiency,
			LastMaintenance: fmt.Sprintf("%d days ago", g.intn(1, 14)),
		})
	}
	return lines
}

func (g *RandomGenerator) weightedState() factoryapi.LineState {
	switch r := g.rng.Float64(); {
	case r < 0.7:
		return factoryapi.LineOperational
	case r < 0.9:
		return factoryapi.LineWarning
	default:
		return factoryapi.LineDown
	}
}

// MachineTypes returns the static machine catalogue.
func (g *RandomGenerator) MachineTypes() factoryapi.MachineTypes {
	return factoryapi.MachineTypes{MachineTypes: []string{"Type 1", "Type 2", "Type 3"}}
}

// BatchQuality returns the static batch quality summary.
func (g *RandomGenerator) BatchQuality() factoryapi.BatchQuality {
	return factoryapi.BatchQuality{Average: 85, Min: 80, Max: 95}
}

// EnergyMetrics returns the static energy summary.
func (g *RandomGenerator) EnergyMetrics() factoryapi.EnergyMetrics {
	return factoryapi.EnergyMetrics{Consumption: 800, Efficiency: 1.5, Emissions: 800}
}

// FixedGenerator always returns the values it holds. Slices are copied on
// every call so callers cannot mutate the generator.
type FixedGenerator struct {
	MetricsValue      factoryapi.Metrics
	StatusValue       []factoryapi.LineStatus
	MachineTypesValue factoryapi.MachineTypes
	BatchQualityValue factoryapi.BatchQuality
	EnergyValue       factoryapi.EnergyMetrics
}

// NewFixedGenerator returns a generator serving the fallback data set.
func NewFixedGenerator() *FixedGenerator {
	return &FixedGenerator{
		MetricsValue:      FallbackMetrics(),
		StatusValue:       FallbackStatus(),
		MachineTypesValue: factoryapi.MachineTypes{MachineTypes: []string{"Type 1", "Type 2", "Type 3"}},
		BatchQualityValue: factoryapi.BatchQuality{Average: 85, Min: 80, Max: 95},
		EnergyValue:       factoryapi.EnergyMetrics{Consumption: 800, Efficiency: 1.5, Emissions: 800},
	}
}

// Metrics implements Generator.
func (f *FixedGenerator) Metrics() factoryapi.Metrics {
	m := f.MetricsValue
	m.TimeSeriesData = append([]factoryapi.TimeSeriesPoint(nil), f.MetricsValue.TimeSeriesData...)
	return m
}

// Status implements Generator.
func (f *FixedGenerator) Status() []factoryapi.LineStatus {
	return append([]factoryapi.LineStatus(nil), f.StatusValue...)
}

// MachineTypes implements Generator.
func (f *FixedGenerator) MachineTypes() factoryapi.MachineTypes {
	return factoryapi.MachineTypes{MachineTypes: append([]string(nil), f.MachineTypesValue.MachineTypes...)}
}

// BatchQuality implements Generator.
func (f *FixedGenerator) BatchQuality() factoryapi.BatchQuality { return f.BatchQualityValue }

// EnergyMetrics implements Generator.
func (f *FixedGenerator) EnergyMetrics() factoryapi.EnergyMetrics { return f.EnergyValue }
