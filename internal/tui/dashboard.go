package tui

import (
	"fmt"
	"strings"

	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/pkg/apiclient"
	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type counter struct {
	key    string
	label  string
	value  func(factoryapi.Metrics) float64
	format func(float64) string
}

var counters = []counter{
	{
		key:    "production",
		label:  "Production",
		value:  func(m factoryapi.Metrics) float64 { return float64(m.Production) },
		format: func(v float64) string { return thousands(int(v)) + " units" },
	},
	{
		key:    "efficiency",
		label:  "Efficiency",
		value:  func(m factoryapi.Metrics) float64 { return m.Efficiency },
		format: func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	},
	{
		key:    "downtime",
		label:  "Downtime",
		value:  func(m factoryapi.Metrics) float64 { return m.Downtime },
		format: func(v float64) string { return fmt.Sprintf("%.1f hrs", v) },
	},
	{
		key:    "profit",
		label:  "Profit Margin",
		value:  func(m factoryapi.Metrics) float64 { return m.ProfitMargin },
		format: func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	},
}

// Counter returns the displayed value of the named dashboard counter.
func (a *App) Counter(key string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.values[key]
}

// Alert returns the dashboard error banner text, empty when the last fetch
// succeeded.
func (a *App) Alert() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alert
}

// Metrics returns the metrics shown on the dashboard.
func (a *App) Metrics() factoryapi.Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metrics
}

// Loading reports whether a dashboard fetch is in flight.
func (a *App) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

func (a *App) setValue(key string, v float64) {
	a.mu.Lock()
	a.values[key] = v
	a.mu.Unlock()
}

func (a *App) setPeriod(p Period) {
	a.mu.Lock()
	a.period = p
	a.mu.Unlock()
}

// startRefresh resets the counters and fetches in the background. Results
// of an older refresh are discarded. Caller holds transition.
func (a *App) startRefresh() {
	a.counters.CancelAll()

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.loading = true
	a.alert = ""
	for _, c := range counters {
		a.values[c.key] = 0
	}
	a.generation++
	gen := a.generation
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.load(gen)
	}()
}

func (a *App) load(gen int) {
	var (
		metrics apiclient.FetchResult[factoryapi.Metrics]
		status  apiclient.FetchResult[[]factoryapi.LineStatus]
	)

	g, ctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		metrics = a.api.GetFactoryMetrics(ctx)
		return nil
	})
	g.Go(func() error {
		status = a.api.GetFactoryStatus(ctx)
		return nil
	})
	g.Wait()

	a.transition.Lock()
	defer a.transition.Unlock()

	a.mu.Lock()
	if a.ctx.Err() != nil || gen != a.generation || a.view != ViewDashboard {
		a.mu.Unlock()
		return
	}
	a.metrics = metrics.OrElse(factory.FallbackMetrics())
	a.status = status.OrElse(factory.FallbackStatus())
	alert := fetchAlert(metrics, status)
	a.alert = alert
	a.loading = false
	a.loaded = true
	m := a.metrics
	a.mu.Unlock()

	if alert != "" {
		a.logger.Warn("Dashboard showing fallback data", zap.String("error", alert))
	}

	for _, c := range counters {
		key := c.key
		a.counters.Start(a.animator, key, c.value(m), a.duration, func(v float64) {
			a.setValue(key, v)
		})
	}
}

// fetchAlert picks the banner text. A status failure is reported over a
// metrics failure.
func fetchAlert(metrics apiclient.FetchResult[factoryapi.Metrics], status apiclient.FetchResult[[]factoryapi.LineStatus]) string {
	switch {
	case !status.Success:
		if status.Error == "" {
			return "Failed to fetch status"
		}
		return status.Error
	case !metrics.Success:
		if metrics.Error == "" {
			return "Failed to fetch metrics"
		}
		return metrics.Error
	}
	return ""
}

func lineStyle(s factoryapi.LineState) tcell.Style {
	switch s {
	case factoryapi.LineOperational:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case factoryapi.LineWarning:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case factoryapi.LineDown:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
	return styleDefault
}

func (a *App) drawDashboard(s tcell.Screen, w, h int) {
	a.mu.Lock()
	alert := a.alert
	loading := a.loading && !a.loaded
	period := a.period
	m := a.metrics
	status := append([]factoryapi.LineStatus(nil), a.status...)
	values := make([]float64, len(counters))
	for i, c := range counters {
		values[i] = a.values[c.key]
	}
	a.mu.Unlock()

	y := 2
	if alert != "" {
		fill(s, 0, y, w, styleAlert)
		drawText(s, 1, y, w, styleAlert, "! Error: "+alert+" (showing sample data)")
		y += 2
	}

	if loading {
		drawText(s, 1, y, w, styleDim, "Loading factory data...")
		return
	}

	for i, c := range counters {
		drawText(s, 2, y, w, styleDim, c.label)
		drawText(s, 18, y, w, styleBold, c.format(values[i]))
		y++
	}
	y++

	series := m.TimeSeriesData
	if period == PeriodYearly {
		series = factory.YearlyData()
	} else if len(series) == 0 {
		series = factory.MonthlyData()
	}
	y = drawChart(s, 2, y, w, h-2, period, series)
	y++

	if y < h-2 {
		drawText(s, 2, y, w, styleBold, "Production Lines")
		y++
	}
	for _, line := range status {
		if y >= h-2 {
			break
		}
		drawText(s, 2, y, w, styleDefault, line.Name)
		drawText(s, 22, y, w, lineStyle(line.Status), string(line.Status))
		drawText(s, 36, y, w, styleDefault, line.Efficiency)
		drawText(s, 44, y, w, styleDim, line.LastMaintenance)
		y++
	}
}

// drawChart draws a horizontal production bar per period and returns the
// next free row.
func drawChart(s tcell.Screen, x, y, w, maxY int, period Period, series []factoryapi.TimeSeriesPoint) int {
	if y >= maxY {
		return y
	}
	drawText(s, x, y, w, styleBold, period.String()+" Production")
	y++

	peak := 0
	for _, p := range series {
		peak = max(peak, p.Production)
	}

	barStart := x + 11
	barWidth := w - barStart - 10
	for _, p := range series {
		if y >= maxY {
			break
		}
		drawText(s, x, y, barStart-1, styleDim, p.Name)
		n := 0
		if peak > 0 && barWidth > 0 {
			n = p.Production * barWidth / peak
		}
		drawText(s, barStart, y, w, styleBar, strings.Repeat("█", n))
		drawText(s, barStart+n+1, y, w, styleDefault, thousands(p.Production))
		y++
	}
	return y
}
