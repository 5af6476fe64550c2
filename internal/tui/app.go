// Package tui is the terminal front end of the factory dashboard.
//
// The App owns which view is shown. Switching views tears down whatever the
// previous view started: counter animations are cancelled and the particle
// field is stopped when leaving the home view.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/dyluth/factorydash/internal/animate"
	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/internal/particles"
	"github.com/dyluth/factorydash/pkg/apiclient"
	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// DefaultAnimationDuration is how long the dashboard counters take to reach
// their values.
const DefaultAnimationDuration = 960 * time.Millisecond

// App is the root of the terminal UI.
type App struct {
	screen   tcell.Screen
	api      *apiclient.Client
	logger   *zap.Logger
	animator animate.Animator
	duration time.Duration
	field    *particles.Field
	frame    *frameBuffer
	counters animate.Group

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	// transition serializes view changes with the start of counter
	// animations, so nothing animates on a view that has been left.
	transition sync.Mutex

	mu         sync.Mutex
	view       View
	started    bool
	closed     bool
	period     Period
	metrics    factoryapi.Metrics
	status     []factoryapi.LineStatus
	loaded     bool
	loading    bool
	alert      string
	generation int
	values     map[string]float64
	transcript []ChatMessage
	input      []rune
	sending    bool
}

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	logger    *zap.Logger
	animator  animate.Animator
	duration  time.Duration
	particles particles.Config
	fieldOpts []particles.Option
	view      View
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(o *appOptions) { o.logger = logger }
}

// WithAnimator replaces the counter animator.
func WithAnimator(a animate.Animator) Option {
	return func(o *appOptions) { o.animator = a }
}

// WithAnimationDuration sets how long counters take to reach their values.
func WithAnimationDuration(d time.Duration) Option {
	return func(o *appOptions) { o.duration = d }
}

// WithParticles configures the home view's particle field.
func WithParticles(cfg particles.Config, opts ...particles.Option) Option {
	return func(o *appOptions) {
		o.particles = cfg
		o.fieldOpts = opts
	}
}

// WithView sets the view shown on Start.
func WithView(v View) Option {
	return func(o *appOptions) { o.view = v }
}

// New creates an App drawing on screen and fetching from api. The screen
// must already be initialized.
func New(screen tcell.Screen, api *apiclient.Client, opts ...Option) *App {
	o := appOptions{
		logger:    zap.NewNop(),
		animator:  animate.Default,
		duration:  DefaultAnimationDuration,
		particles: particles.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		screen:     screen,
		api:        api,
		logger:     o.logger,
		animator:   o.animator,
		duration:   o.duration,
		frame:      &frameBuffer{},
		ctx:        ctx,
		cancel:     cancel,
		view:       o.view,
		metrics:    factory.FallbackMetrics(),
		values:     make(map[string]float64, len(counters)),
		transcript: []ChatMessage{greeting()},
	}

	w, h := screen.Size()
	fieldOpts := append([]particles.Option{particles.WithViewport(pixels(w, h))}, o.fieldOpts...)
	a.field = particles.NewField(o.particles, a.frame, fieldOpts...)
	return a
}

// View returns the view currently shown.
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Field returns the home view's particle field.
func (a *App) Field() *particles.Field { return a.field }

// Start enters the initial view. Calling it again does nothing.
func (a *App) Start() {
	a.transition.Lock()
	defer a.transition.Unlock()

	a.mu.Lock()
	if a.started || a.closed {
		a.mu.Unlock()
		return
	}
	a.started = true
	v := a.view
	a.mu.Unlock()

	a.enter(v)
}

// SetView switches to v, tearing down the previous view.
func (a *App) SetView(v View) {
	a.transition.Lock()
	defer a.transition.Unlock()

	a.mu.Lock()
	prev := a.view
	if prev == v || a.closed {
		a.mu.Unlock()
		return
	}
	a.view = v
	a.mu.Unlock()

	a.counters.CancelAll()
	if prev == ViewHome {
		a.field.Stop()
	}
	a.enter(v)
}

// enter starts what v needs. Caller holds transition.
func (a *App) enter(v View) {
	switch v {
	case ViewHome:
		a.field.Start()
	case ViewDashboard:
		a.startRefresh()
	}
}

// Refresh reloads the dashboard data and restarts the counters. It does
// nothing on other views.
func (a *App) Refresh() {
	a.transition.Lock()
	defer a.transition.Unlock()

	if a.View() != ViewDashboard {
		return
	}
	a.startRefresh()
}

// Close cancels in-flight requests and animations and stops the field. The
// App cannot be restarted.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()

		a.cancel()
		a.wg.Wait()

		a.transition.Lock()
		a.counters.CancelAll()
		a.field.Stop()
		a.transition.Unlock()
	})
}

// Run draws at the animation frame rate and dispatches terminal events until
// ctx is done or the user quits. The App is closed when Run returns.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.screen.EnableMouse()
	a.Start()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(animate.StepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			a.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := pixels(x, y)
		a.field.Pointer().Set(px+cellWidth/2, py+cellHeight/2)

	case *tcell.EventResize:
		w, h := ev.Size()
		a.field.OnResize(pixels(w, h))
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		a.SetView(a.View().Next())
		return true
	}

	// The chat view takes text input, so plain runes are not shortcuts there
	if a.View() == ViewChat {
		a.handleChatKey(ev)
		return true
	}

	if ev.Key() != tcell.KeyRune {
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case '1':
		a.SetView(ViewHome)
	case '2':
		a.SetView(ViewDashboard)
	case '3':
		a.SetView(ViewChat)
	case 'r':
		a.Refresh()
	case 'm':
		a.setPeriod(PeriodMonthly)
	case 'y':
		a.setPeriod(PeriodYearly)
	}
	return true
}

// Draw renders the current view to the screen.
func (a *App) Draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()

	view := a.View()
	drawTabs(s, w, view)

	switch view {
	case ViewHome:
		a.drawHome(s, w, h)
	case ViewDashboard:
		a.drawDashboard(s, w, h)
	case ViewChat:
		a.drawChat(s, w, h)
	}

	drawHelp(s, w, h, view)
	s.Show()
}

func drawTabs(s tcell.Screen, w int, active View) {
	fill(s, 0, 0, w, styleTab)
	x := drawText(s, 1, 0, w, styleBold, "Smart Factory ")
	for v := ViewHome; v <= ViewChat; v++ {
		style := styleTab
		if v == active {
			style = styleTabOn
		}
		x = drawText(s, x+1, 0, w, style, " "+string(rune('1'+v))+" "+v.String()+" ")
	}
}

func drawHelp(s tcell.Screen, w, h int, view View) {
	var help string
	switch view {
	case ViewDashboard:
		help = "1/2/3 or Tab: switch view  r: refresh  m/y: monthly/yearly  q: quit"
	case ViewChat:
		help = "Tab: switch view  Enter: send  Esc: quit"
	default:
		help = "1/2/3 or Tab: switch view  move the mouse to push particles  q: quit"
	}
	drawText(s, 1, h-1, w, styleDim, help)
}
