package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/factorydash/internal/logging"
	"github.com/dyluth/factorydash/internal/particles"
	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/internal/tui"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

var (
	dashboardTheme   string
	dashboardView    string
	dashboardLogFile string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the terminal dashboard",
	Long: `Open the full screen factory dashboard.

Views:
  1 Home       Interactive particle field (move the mouse)
  2 Dashboard  Animated metrics, production chart and line status
  3 Chat       Ask the factory assistant

Keys: 1/2/3 or Tab switch views, r refreshes, m/y toggle monthly/yearly,
q or Esc quits. When the API cannot be reached the dashboard shows sample
data under a red alert banner.

Examples:
  factorydash dashboard
  factorydash dashboard --view dashboard --theme light`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardTheme, "theme", "", "Particle theme: dark or light (overrides config)")
	dashboardCmd.Flags().StringVar(&dashboardView, "view", "home", "Initial view: home, dashboard or chat")
	dashboardCmd.Flags().StringVar(&dashboardLogFile, "log-file", "", "Write logs to this file (logging is off otherwise)")
	rootCmd.AddCommand(dashboardCmd)
}

func parseView(s string) (tui.View, error) {
	switch s {
	case "home":
		return tui.ViewHome, nil
	case "dashboard":
		return tui.ViewDashboard, nil
	case "chat":
		return tui.ViewChat, nil
	}
	return 0, fmt.Errorf("unknown view: %s", s)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, err := parseView(dashboardView)
	if err != nil {
		return printer.Error("invalid view", err.Error(), []string{"Valid views: home, dashboard, chat"})
	}

	if dashboardTheme != "" {
		cfg.Particles.Theme = particles.Theme(dashboardTheme)
		if err := cfg.Particles.Validate(); err != nil {
			return printer.Error("invalid theme", err.Error(), []string{"Valid themes: dark, light"})
		}
	}

	// The screen owns stderr while the UI runs
	logger, err := logging.NewFile(verbose, dashboardLogFile)
	if err != nil {
		return printer.ErrorWithContext(
			"failed to open log file",
			err.Error(),
			map[string]string{"Log file": dashboardLogFile},
			[]string{"Check that the directory exists and is writable"},
		)
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		return printer.Error("failed to open terminal", err.Error(), []string{
			"Run the dashboard from an interactive terminal",
			"Use 'factorydash metrics' or 'factorydash ask' in scripts",
		})
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.New(screen, newAPIClient(cfg, logger),
		tui.WithLogger(logger),
		tui.WithAnimationDuration(cfg.Animation.Duration),
		tui.WithParticles(cfg.Particles),
		tui.WithView(view))

	err = app.Run(ctx)
	// Restore the terminal before anything is printed
	screen.Fini()
	if err != nil {
		return printer.Error("dashboard failed", err.Error(), nil)
	}
	return nil
}
