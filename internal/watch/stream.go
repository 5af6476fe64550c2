// Package watch streams live dashboard activity and waits on the API.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/factorydash/internal/feed"
	"github.com/dyluth/factorydash/internal/filter"
)

// OutputFormat selects how streamed events are written.
type OutputFormat string

const (
	// OutputFormatDefault is human-readable output with timestamps and emojis
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON is line-delimited JSON
	OutputFormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

type formatter interface {
	format(e *feed.Event) (string, error)
}

type defaultFormatter struct{}

func (defaultFormatter) format(e *feed.Event) (string, error) {
	ts := time.UnixMilli(e.CreatedAtMs).Format("15:04:05")

	switch e.Type {
	case feed.EventMetrics:
		m := e.Metrics
		return fmt.Sprintf("[%s] 📊 Metrics: production=%d, efficiency=%.1f%%, downtime=%.1fh, profit=%.1f%%",
			ts, m.Production, m.Efficiency, m.Downtime, m.ProfitMargin), nil
	case feed.EventBot:
		return fmt.Sprintf("[%s] 🤖 Bot: %q → %s", ts, e.Bot.Question, e.Bot.Reply.Message), nil
	}
	return fmt.Sprintf("[%s] ❓ Unknown event: %s", ts, e.Type), nil
}

type jsonFormatter struct{}

func (jsonFormatter) format(e *feed.Event) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}
	return string(data), nil
}

func newFormatter(f OutputFormat) formatter {
	if f == OutputFormatJSON {
		return jsonFormatter{}
	}
	return defaultFormatter{}
}

// StreamActivity writes every feed event matching criteria to w until ctx is
// done. Events that fail validation or decoding are reported inline and
// skipped. A nil criteria matches everything.
func StreamActivity(ctx context.Context, client *feed.Client, format OutputFormat, criteria *filter.Criteria, w io.Writer) error {
	sub, err := client.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	return stream(ctx, sub.Events(), sub.Errors(), newFormatter(format), criteria, w)
}

func stream(ctx context.Context, events <-chan *feed.Event, errs <-chan error, f formatter, criteria *filter.Criteria, w io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			fmt.Fprintf(w, "⚠️  %v\n", err)

		case e, ok := <-events:
			if !ok {
				return nil
			}
			if err := e.Validate(); err != nil {
				fmt.Fprintf(w, "⚠️  Skipping invalid event: %v\n", err)
				continue
			}
			if criteria != nil && !criteria.Matches(e) {
				continue
			}

			line, err := f.format(e)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
		}
	}
}
