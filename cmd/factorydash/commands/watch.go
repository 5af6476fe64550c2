package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dyluth/factorydash/internal/config"
	"github.com/dyluth/factorydash/internal/filter"
	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/internal/timespec"
	"github.com/dyluth/factorydash/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchOutputFormat string
	watchType         string
	watchContains     string
	watchUntil        string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live dashboard activity",
	Long: `Stream metrics snapshots and bot exchanges as the server produces them.

Requires the activity feed: set feed.redis_url in factorydash.yml or
FACTORYDASH_REDIS_URL for both the server and this command.

Output Formats:
  default - Human-readable output with timestamps and emojis
  json    - Line-delimited JSON for programmatic processing

Examples:
  # Watch everything
  factorydash watch

  # Only bot exchanges mentioning downtime, for five minutes
  factorydash watch --type 'bot_*' --contains downtime --until 5m

  # Export events as JSON
  factorydash watch --output=json > events.jsonl`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format (default or json)")
	watchCmd.Flags().StringVar(&watchType, "type", "", "Only show events whose type matches this glob")
	watchCmd.Flags().StringVar(&watchContains, "contains", "", "Only show bot exchanges containing this text")
	watchCmd.Flags().StringVar(&watchUntil, "until", "", "Stop at this time (duration like 5m or RFC3339)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	outputFormat, err := watch.ParseOutputFormat(watchOutputFormat)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	deadline, err := timespec.Deadline(watchUntil, time.Now())
	if err != nil {
		return printer.Error("invalid time range", err.Error(), []string{"Use a duration like 30s or an RFC3339 timestamp"})
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Feed.Enabled() {
		return printer.Error(
			"activity feed not configured",
			"watch reads the Redis activity feed, but no Redis URL is set.",
			[]string{
				fmt.Sprintf("Set the feed for both server and watch:\n  export %s=redis://localhost:6379", config.EnvRedisURL),
				"Or set feed.redis_url in factorydash.yml",
			},
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	client, err := connectFeed(ctx, cfg.Feed)
	if err != nil {
		return err
	}
	defer client.Close()

	criteria := &filter.Criteria{TypeGlob: watchType, Contains: watchContains}
	if outputFormat == watch.OutputFormatDefault {
		printer.Info("Watching instance '%s' (Ctrl-C to stop)\n", cfg.Feed.Instance)
	}

	return watch.StreamActivity(ctx, client, outputFormat, criteria, cmd.OutOrStdout())
}
