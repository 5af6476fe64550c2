package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/factorydash/pkg/apiclient"
	"github.com/dyluth/factorydash/pkg/factoryapi"
)

// PollInterval is the delay between readiness probes.
const PollInterval = 200 * time.Millisecond

// WaitForMetrics polls the metrics endpoint until it answers successfully.
// Returns the first metrics snapshot or an error if timeout occurs.
func WaitForMetrics(ctx context.Context, client *apiclient.Client, timeout time.Duration) (factoryapi.Metrics, error) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)
	var lastErr string

	for {
		select {
		case <-ctx.Done():
			return factoryapi.Metrics{}, ctx.Err()

		case <-timeoutCh:
			if lastErr == "" {
				return factoryapi.Metrics{}, fmt.Errorf("timeout waiting for API after %v", timeout)
			}
			return factoryapi.Metrics{}, fmt.Errorf("timeout waiting for API after %v: %s", timeout, lastErr)

		case <-ticker.C:
			result := client.GetFactoryMetrics(ctx)
			if !result.Success {
				// Not up yet, continue polling
				lastErr = result.Error
				continue
			}
			return result.Data, nil
		}
	}
}
