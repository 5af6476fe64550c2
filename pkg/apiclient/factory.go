package apiclient

import (
	"context"

	"github.com/dyluth/factorydash/pkg/factoryapi"
)

// GetFactoryMetrics fetches GET /factory/metrics.
func (c *Client) GetFactoryMetrics(ctx context.Context) FetchResult[factoryapi.Metrics] {
	return Get[factoryapi.Metrics](ctx, c, "/factory/metrics")
}

// GetFactoryStatus fetches GET /factory/status.
func (c *Client) GetFactoryStatus(ctx context.Context) FetchResult[[]factoryapi.LineStatus] {
	return Get[[]factoryapi.LineStatus](ctx, c, "/factory/status")
}

// GetMachineTypes fetches GET /factory/machine-types.
func (c *Client) GetMachineTypes(ctx context.Context) FetchResult[factoryapi.MachineTypes] {
	return Get[factoryapi.MachineTypes](ctx, c, "/factory/machine-types")
}

// GetBatchQuality fetches GET /factory/batch-quality.
func (c *Client) GetBatchQuality(ctx context.Context) FetchResult[factoryapi.BatchQuality] {
	return Get[factoryapi.BatchQuality](ctx, c, "/factory/batch-quality")
}

// GetEnergyMetrics fetches GET /factory/energy-metrics.
func (c *Client) GetEnergyMetrics(ctx context.Context) FetchResult[factoryapi.EnergyMetrics] {
	return Get[factoryapi.EnergyMetrics](ctx, c, "/factory/energy-metrics")
}

// SendBotMessage posts message to POST /factory/bot/message.
func (c *Client) SendBotMessage(ctx context.Context, message string) FetchResult[factoryapi.BotResponse] {
	return Post[factoryapi.BotResponse](ctx, c, "/factory/bot/message", factoryapi.BotRequest{Message: message})
}
