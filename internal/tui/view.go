package tui

// View is the screen currently shown by the App.
type View int

const (
	ViewHome View = iota
	ViewDashboard
	ViewChat
)

var viewNames = [...]string{"Home", "Dashboard", "Chat"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "Unknown"
	}
	return viewNames[v]
}

// Next cycles Home, Dashboard, Chat and back.
func (v View) Next() View {
	return (v + 1) % View(len(viewNames))
}

// Period selects the production chart granularity.
type Period int

const (
	PeriodMonthly Period = iota
	PeriodYearly
)

func (p Period) String() string {
	if p == PeriodYearly {
		return "Yearly"
	}
	return "Monthly"
}
