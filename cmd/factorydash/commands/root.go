package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/factorydash/internal/config"
	"github.com/dyluth/factorydash/internal/feed"
	"github.com/dyluth/factorydash/internal/logging"
	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/pkg/apiclient"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version string
	commit  string
	date    string

	cfgFile string
	verbose bool
	apiURL  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "factorydash",
	Short: "factorydash - Smart factory monitoring dashboard",
	Long: `factorydash serves a mock factory monitoring API and renders it as an
animated terminal dashboard with a keyword driven factory assistant.

Run the API with "factorydash serve", then open the dashboard with
"factorydash dashboard" or query it with "factorydash metrics" and
"factorydash ask".`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a parent context for every command.
func ExecuteContext(ctx context.Context) error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return reportError(rootCmd.ExecuteContext(ctx))
}

// reportError prints errors that did not go through the printer, such as
// flag parsing failures, so no command fails silently.
func reportError(err error) error {
	if err == nil || printer.IsReported(err) {
		return err
	}
	printer.Error(fmt.Sprintf("Error: %s", err), "", []string{"Run 'factorydash --help' for usage"})
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "Path to factorydash.yml (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL including /api (overrides config)")
}

// loadConfig reads the config file if present and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"File": cfgFile},
			[]string{"Fix the file or remove it to use the defaults"},
		)
	}
	if apiURL != "" {
		cfg.Client.APIURL = apiURL
	}
	return cfg, nil
}

// cliLogger keeps one-shot commands quiet unless --verbose is set. Failures
// are reported through the printer instead.
func cliLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return newLogger()
}

func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(verbose)
	if err != nil {
		return nil, printer.Error("failed to initialize logger", err.Error(), nil)
	}
	return logger, nil
}

func newAPIClient(cfg *config.Config, logger *zap.Logger) *apiclient.Client {
	return apiclient.NewClient(cfg.Client.APIURL,
		apiclient.WithTimeout(cfg.Client.Timeout),
		apiclient.WithLogger(logger))
}

// connectFeed opens and pings the Redis feed described by cfg.
func connectFeed(ctx context.Context, cfg config.FeedConfig) (*feed.Client, error) {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"invalid Redis URL",
			err.Error(),
			map[string]string{"Redis URL": cfg.RedisURL},
			[]string{"Use a URL like redis://localhost:6379/0"},
		)
	}

	client, err := feed.NewClient(redisOpts, cfg.Instance)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"failed to create feed client",
			err.Error(),
			map[string]string{"Instance": cfg.Instance},
			[]string{"Instance names use lowercase letters, digits and dashes"},
		)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.RedisURL),
			map[string]string{"Instance": cfg.Instance},
			[]string{
				"Check that Redis is running and reachable",
				fmt.Sprintf("Unset %s to run without the activity feed", config.EnvRedisURL),
			},
		)
	}
	return client, nil
}

func serverUnreachable(cfg *config.Config, reason string) error {
	return printer.ErrorWithContext(
		"API request failed",
		reason,
		map[string]string{"API URL": cfg.Client.APIURL},
		[]string{
			"Start the API server:\n  factorydash serve",
			"Point at another server:\n  factorydash --api-url http://host:8080/api ...",
		},
	)
}
