package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/factorydash/internal/bot"
	"github.com/dyluth/factorydash/internal/config"
	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/internal/feed"
	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/internal/server"
	"github.com/dyluth/factorydash/internal/tui"
	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so tests do not leak
// values into each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	// Cobra only fills in the context when it is unset, so a cancelled one
	// would leak into the next run.
	cmd.SetContext(nil)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and returns stdout, printer output and the
// error.
func execute(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvRedisURL, "")
	t.Setenv(config.EnvInstance, "")

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, console bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs(args)
	printer.SetOutput(&console, &console)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := ExecuteContext(ctx)
	return stdout.String(), console.String(), err
}

func startAPI(t *testing.T) string {
	t.Helper()
	gen := factory.NewFixedGenerator()
	srv := httptest.NewServer(server.New(config.ServerConfig{}, gen, bot.New(bot.FactoryRules(gen))).Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// TestRootCommand_ShowsHelpWhenNoSubcommand tests that the root command
// shows help instead of silently succeeding when invoked without a subcommand
func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	stdout, _, err := execute(t, context.Background())

	assert.NoError(t, err)
	assert.Contains(t, stdout, "Usage:", "Help should be displayed")
	assert.Contains(t, stdout, "factorydash", "Help should show command name")
}

// TestRootCommand_RejectsUnknownFlags tests that unknown flags
// passed to the root command cause an error instead of being silently ignored
func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	_, _, err := execute(t, context.Background(), "--unknown-flag", "value")

	require.Error(t, err, "Unknown flag should cause an error")
	assert.Contains(t, err.Error(), "unknown flag")
}

// TestRootCommand_RejectsSubcommandFlags tests that flags meant for
// subcommands are rejected when passed to the root command
func TestRootCommand_RejectsSubcommandFlags(t *testing.T) {
	_, _, err := execute(t, context.Background(), "--fixed")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag: --fixed")
}

func TestRootCommand_PrintsUnformattedErrors(t *testing.T) {
	t.Run("usage error", func(t *testing.T) {
		_, console, err := execute(t, context.Background(), "ask")

		require.Error(t, err)
		assert.Contains(t, console, "requires at least 1 arg(s)")
		assert.Contains(t, console, "factorydash --help")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, console, err := execute(t, context.Background(), "metrics", "--bogus")

		require.Error(t, err)
		assert.Contains(t, console, "unknown flag: --bogus")
	})
}

func TestDashboard_LogFileFailureIsReported(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "missing", "dash.log")

	_, console, err := execute(t, context.Background(), "dashboard", "--log-file", logFile)

	require.EqualError(t, err, "failed to open log file")
	assert.Contains(t, console, "failed to open log file")
	assert.Contains(t, console, logFile)
	assert.Contains(t, console, "Check that the directory exists")
}

func TestWatch_InvalidRedisURLIsReported(t *testing.T) {
	mr := miniredis.RunT(t)

	cfgPath := filepath.Join(t.TempDir(), "factorydash.yml")
	require.NoError(t, writeFile(cfgPath, "version: \"1.0\"\nfeed:\n  redis_url: redis://"+mr.Addr()+"/line-a\n"))

	_, console, err := execute(t, context.Background(), "watch", "--config", cfgPath, "--until", "1s")

	require.EqualError(t, err, "invalid Redis URL")
	assert.Contains(t, console, "invalid database number")
}

func TestAsk(t *testing.T) {
	api := startAPI(t)

	_, console, err := execute(t, context.Background(), "ask", "--api-url", api, "what", "is", "production", "at?")

	require.NoError(t, err)
	assert.Contains(t, console, "1,245 units")
}

func TestAsk_LineStatus(t *testing.T) {
	api := startAPI(t)

	_, console, err := execute(t, context.Background(), "ask", "--api-url", api, "what", "is", "the", "line", "status?")

	require.NoError(t, err)
	assert.Contains(t, console, "3 production lines are operational")
}

func TestAsk_ServerDown(t *testing.T) {
	_, console, err := execute(t, context.Background(), "ask", "--api-url", "http://127.0.0.1:1/api", "help")

	require.EqualError(t, err, "API request failed")
	assert.Contains(t, console, "factorydash serve")
}

func TestAsk_RequiresMessage(t *testing.T) {
	_, _, err := execute(t, context.Background(), "ask")
	assert.Error(t, err)
}

func TestMetrics_Default(t *testing.T) {
	api := startAPI(t)

	_, console, err := execute(t, context.Background(), "metrics", "--api-url", api)

	require.NoError(t, err)
	assert.Contains(t, console, "Factory Metrics")
	assert.Contains(t, console, "1245 units")
	assert.Contains(t, console, "Production Line 1")
}

func TestMetrics_JSON(t *testing.T) {
	api := startAPI(t)

	stdout, _, err := execute(t, context.Background(), "metrics", "-o", "json", "--api-url", api)
	require.NoError(t, err)

	var report metricsReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, factory.FallbackMetrics(), report.Metrics)
	assert.Equal(t, factory.FallbackStatus(), report.Status)
}

func TestMetrics_InvalidFormat(t *testing.T) {
	_, console, err := execute(t, context.Background(), "metrics", "-o", "xml")

	require.EqualError(t, err, "invalid output format")
	assert.Contains(t, console, "Valid formats: default, json")
}

func TestMetrics_WaitTimesOut(t *testing.T) {
	_, _, err := execute(t, context.Background(), "metrics", "--api-url", "http://127.0.0.1:1/api", "--wait", "300ms")
	require.EqualError(t, err, "API request failed")
}

func TestWatch_RequiresFeed(t *testing.T) {
	_, console, err := execute(t, context.Background(), "watch")

	require.EqualError(t, err, "activity feed not configured")
	assert.Contains(t, console, config.EnvRedisURL)
}

func TestWatch_InvalidUntil(t *testing.T) {
	_, _, err := execute(t, context.Background(), "watch", "--until", "yesterday")
	require.EqualError(t, err, "invalid time range")
}

func TestWatch_StreamsUntilDeadline(t *testing.T) {
	mr := miniredis.RunT(t)

	publisher, err := feed.NewClient(&redis.Options{Addr: mr.Addr()}, "cli-test")
	require.NoError(t, err)
	defer publisher.Close()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				publisher.PublishMetrics(context.Background(), factory.FallbackMetrics())
			}
		}
	}()

	cfgPath := t.TempDir() + "/factorydash.yml"
	cfg := "version: \"1.0\"\nfeed:\n  redis_url: redis://" + mr.Addr() + "\n  instance: cli-test\n"
	require.NoError(t, writeFile(cfgPath, cfg))

	stdout, _, err := execute(t, context.Background(), "watch", "--config", cfgPath, "-o", "json", "--until", "1s")
	close(stop)
	<-done

	require.NoError(t, err)
	assert.Contains(t, stdout, `"event":"metrics_generated"`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvRedisURL, "")
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	printer.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	rootCmd.SetArgs([]string{"serve", "--addr", addr, "--fixed"})

	errCh := make(chan error, 1)
	go func() {
		errCh <- ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/factory/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var m factoryapi.Metrics
		return resp.StatusCode == http.StatusOK &&
			json.NewDecoder(resp.Body).Decode(&m) == nil &&
			m.Production == 1245
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(server.ShutdownTimeout + time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestParseView(t *testing.T) {
	v, err := parseView("chat")
	require.NoError(t, err)
	assert.Equal(t, tui.ViewChat, v)

	_, err = parseView("settings")
	assert.EqualError(t, err, "unknown view: settings")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	_, console, err := execute(t, context.Background(), "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, console, "factorydash.yml")

	_, _, err = execute(t, context.Background(), "init", "--dir", dir)
	require.EqualError(t, err, "initialization failed")

	_, _, err = execute(t, context.Background(), "init", "--dir", dir, "--force")
	require.NoError(t, err)
}
