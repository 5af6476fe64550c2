package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/internal/watch"
	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	metricsOutputFormat string
	metricsWait         time.Duration
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print current factory metrics and line status",
	Long: `Fetch production metrics and line status from the API.

Output Formats:
  default - Human-readable summary
  json    - {"metrics": ..., "status": [...]} for scripts

Examples:
  factorydash metrics
  factorydash metrics -o json | jq .metrics.production

  # Wait up to 10s for a server that is still starting
  factorydash metrics --wait 10s`,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().StringVarP(&metricsOutputFormat, "output", "o", "default", "Output format (default or json)")
	metricsCmd.Flags().DurationVar(&metricsWait, "wait", 0, "Wait up to this long for the API to come up")
	rootCmd.AddCommand(metricsCmd)
}

// metricsReport is the json output of the metrics command.
type metricsReport struct {
	Metrics factoryapi.Metrics      `json:"metrics"`
	Status  []factoryapi.LineStatus `json:"status"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	if metricsOutputFormat != "default" && metricsOutputFormat != "json" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", metricsOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := cliLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	client := newAPIClient(cfg, logger)

	if metricsWait > 0 {
		if _, err := watch.WaitForMetrics(ctx, client, metricsWait); err != nil {
			return serverUnreachable(cfg, err.Error())
		}
	}

	var report metricsReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result := client.GetFactoryMetrics(gctx)
		if !result.Success {
			return fmt.Errorf("metrics: %s", result.Error)
		}
		report.Metrics = result.Data
		return nil
	})
	g.Go(func() error {
		result := client.GetFactoryStatus(gctx)
		if !result.Success {
			return fmt.Errorf("status: %s", result.Error)
		}
		report.Status = result.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		return serverUnreachable(cfg, err.Error())
	}

	if metricsOutputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printMetrics(report)
	return nil
}

func printMetrics(r metricsReport) {
	m := r.Metrics
	printer.Heading("Factory Metrics")
	printer.Printf("  Production:     %d units\n", m.Production)
	printer.Printf("  Efficiency:     %.1f%%\n", m.Efficiency)
	printer.Printf("  Downtime:       %.1f hrs\n", m.Downtime)
	printer.Printf("  Profit Margin:  %.1f%%\n", m.ProfitMargin)

	if len(m.TimeSeriesData) > 0 {
		printer.Println()
		printer.Heading("Production by Period")
		for _, p := range m.TimeSeriesData {
			printer.Printf("  %-10s %7d units  %5.1f%%  %5.1f hrs\n", p.Name, p.Production, p.Efficiency, p.Downtime)
		}
	}

	printer.Println()
	printer.Heading("Production Lines")
	for _, l := range r.Status {
		printer.Printf("  %-20s %s  %4s  maintained %s\n", l.Name, printer.LineState(l.Status), l.Efficiency, l.LastMaintenance)
	}
}
