package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dyluth/factorydash/internal/bot"
	"github.com/dyluth/factorydash/internal/config"
	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/internal/particles"
	"github.com/dyluth/factorydash/internal/server"
	"github.com/dyluth/factorydash/pkg/apiclient"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idleSource never fires, so the field loop runs without drawing.
type idleSource struct{ c chan time.Time }

func (s idleSource) C() <-chan time.Time { return s.c }
func (s idleSource) Stop()               {}

func factoryHandler() http.Handler {
	return server.New(config.ServerConfig{}, factory.NewFixedGenerator(), bot.New(nil)).Handler()
}

func failingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"backend unavailable"}`))
	})
}

func newTestApp(t *testing.T, handler http.Handler, opts ...Option) (*App, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 40)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	defaults := []Option{
		WithAnimationDuration(50 * time.Millisecond),
		WithParticles(particles.Config{Quantity: 10},
			particles.WithFrameSource(func() particles.FrameSource { return idleSource{c: make(chan time.Time)} })),
	}
	app := New(screen, apiclient.NewClient(srv.URL+"/api"), append(defaults, opts...)...)
	t.Cleanup(func() {
		app.Close()
		screen.Fini()
	})
	return app, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeText(app *App, text string) {
	for _, r := range text {
		app.HandleEvent(key(r))
	}
}

// rowText returns the characters of screen row y.
func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(s, y)
	}
	return strings.Join(rows, "\n")
}

func TestView(t *testing.T) {
	assert.Equal(t, "Home", ViewHome.String())
	assert.Equal(t, "Chat", ViewChat.String())
	assert.Equal(t, "Unknown", View(7).String())

	assert.Equal(t, ViewDashboard, ViewHome.Next())
	assert.Equal(t, ViewChat, ViewDashboard.Next())
	assert.Equal(t, ViewHome, ViewChat.Next())
}

func TestApp_ViewSwitching(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler())
	app.Start()

	assert.Equal(t, ViewHome, app.View())
	assert.Equal(t, particles.StateRunning, app.Field().State())

	assert.True(t, app.HandleEvent(key('2')))
	assert.Equal(t, ViewDashboard, app.View())
	assert.Equal(t, particles.StateStopped, app.Field().State(), "leaving home stops the field")

	app.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, ViewChat, app.View())

	app.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, ViewHome, app.View())
	assert.Equal(t, particles.StateRunning, app.Field().State(), "returning home restarts the field")

	app.HandleEvent(key('3'))
	assert.Equal(t, ViewChat, app.View())
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler())
	app.Start()

	assert.False(t, app.HandleEvent(key('q')))
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))

	// In the chat view q is text
	app.SetView(ViewChat)
	assert.True(t, app.HandleEvent(key('q')))
	assert.Equal(t, "q", app.Input())
}

func TestApp_CloseStopsEverything(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler())
	app.Start()
	require.Equal(t, particles.StateRunning, app.Field().State())

	app.Close()
	assert.Equal(t, particles.StateStopped, app.Field().State())

	// Closed apps ignore view changes
	app.SetView(ViewDashboard)
	assert.Equal(t, ViewHome, app.View())
}

func TestApp_MouseMovesPointer(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler())

	app.HandleEvent(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))

	assert.Equal(t, particles.Vec{X: 10*cellWidth + cellWidth/2, Y: 5*cellHeight + cellHeight/2}, app.Field().Pointer().Get())
}

func TestDashboard_LoadsAndAnimates(t *testing.T) {
	app, screen := newTestApp(t, factoryHandler(), WithView(ViewDashboard))
	app.Start()

	require.Eventually(t, func() bool {
		return app.Counter("production") == 1245
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return app.Counter("efficiency") == 89.2 &&
			app.Counter("downtime") == 3.2 &&
			app.Counter("profit") == 24.5
	}, 2*time.Second, 10*time.Millisecond)

	assert.Empty(t, app.Alert())
	assert.False(t, app.Loading())

	app.Draw()
	text := screenText(screen)
	assert.Contains(t, text, "1,245 units")
	assert.Contains(t, text, "89.2%")
	assert.Contains(t, text, "Monthly Production")
	assert.Contains(t, text, "Production Line 1")
	assert.NotContains(t, text, "Error:")
}

func TestDashboard_FallbackOnFailure(t *testing.T) {
	app, screen := newTestApp(t, failingHandler(), WithView(ViewDashboard))
	app.Start()

	require.Eventually(t, func() bool {
		return app.Alert() != ""
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "backend unavailable", app.Alert())
	assert.Equal(t, factory.FallbackMetrics(), app.Metrics())

	require.Eventually(t, func() bool {
		return app.Counter("production") == 1245
	}, 2*time.Second, 10*time.Millisecond)

	app.Draw()
	assert.Contains(t, rowText(screen, 2), "! Error: backend unavailable")
}

func TestDashboard_PeriodToggle(t *testing.T) {
	app, screen := newTestApp(t, factoryHandler(), WithView(ViewDashboard))
	app.Start()

	require.Eventually(t, func() bool { return !app.Loading() }, 2*time.Second, 10*time.Millisecond)

	app.HandleEvent(key('y'))
	app.Draw()
	text := screenText(screen)
	assert.Contains(t, text, "Yearly Production")
	assert.Contains(t, text, "2021")

	app.HandleEvent(key('m'))
	app.Draw()
	assert.Contains(t, screenText(screen), "Monthly Production")
}

func TestDashboard_LeavingCancelsAnimations(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler(), WithView(ViewDashboard), WithAnimationDuration(10*time.Second))
	app.Start()

	require.Eventually(t, func() bool {
		return app.Counter("production") > 0
	}, 2*time.Second, 10*time.Millisecond)

	app.SetView(ViewChat)
	frozen := app.Counter("production")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, frozen, app.Counter("production"))
	assert.Less(t, frozen, 1245.0)
}

func TestDashboard_RefreshRestartsCounters(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler(), WithView(ViewDashboard))
	app.Start()

	require.Eventually(t, func() bool {
		return app.Counter("production") == 1245
	}, 2*time.Second, 10*time.Millisecond)

	app.HandleEvent(key('r'))
	require.Eventually(t, func() bool {
		return app.Counter("production") == 1245 && !app.Loading()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChat_SendAndReceive(t *testing.T) {
	app, screen := newTestApp(t, factoryHandler(), WithView(ViewChat))
	app.Start()

	require.Len(t, app.Transcript(), 1)
	assert.Equal(t, Greeting, app.Transcript()[0].Text)

	typeText(app, "What is production like?")
	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Empty(t, app.Input())

	require.Eventually(t, func() bool {
		return len(app.Transcript()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	transcript := app.Transcript()
	assert.Equal(t, SenderUser, transcript[1].Sender)
	assert.Equal(t, "What is production like?", transcript[1].Text)
	assert.Equal(t, SenderBot, transcript[2].Sender)
	assert.Contains(t, transcript[2].Text, "1,245 units")
	assert.False(t, app.Sending())

	app.Draw()
	assert.Contains(t, screenText(screen), "You: What is production like?")
}

func TestChat_IgnoresBlankInput(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler(), WithView(ViewChat))
	app.Start()

	typeText(app, "   ")
	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Len(t, app.Transcript(), 1)
	assert.False(t, app.Sending())
}

func TestChat_Backspace(t *testing.T) {
	app, _ := newTestApp(t, factoryHandler(), WithView(ViewChat))

	typeText(app, "helpx")
	app.HandleEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	assert.Equal(t, "help", app.Input())
}

func TestChat_ErrorReply(t *testing.T) {
	app, _ := newTestApp(t, failingHandler(), WithView(ViewChat))
	app.Start()

	typeText(app, "help")
	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	require.Eventually(t, func() bool {
		return len(app.Transcript()) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, ChatErrorReply, app.Transcript()[2].Text)
}

func TestHome_DrawsFrame(t *testing.T) {
	app, screen := newTestApp(t, factoryHandler())

	app.frame.Render(particles.Frame{
		Width:  640,
		Height: 384,
		Particles: []particles.Particle{
			{Position: particles.Vec{X: 8 * 5, Y: 16 * 3}, Radius: 1},
			{Position: particles.Vec{X: 8 * 9, Y: 16 * 3}, Radius: 2.5},
		},
		Links: []particles.Link{{A: 0, B: 1, Opacity: 0.2}},
		Color: "rgba(255, 255, 255, 0.3)",
	})
	app.Draw()

	row := []rune(rowText(screen, 3))
	assert.Equal(t, '•', row[5])
	assert.Equal(t, '●', row[9])
	assert.Equal(t, '·', row[7])
	assert.Contains(t, screenText(screen), "Smart Factory Monitoring")
}
