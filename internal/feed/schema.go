package feed

import "fmt"

// Channel naming
//
// Channels are namespaced by instance so several dashboards can share one
// Redis server without seeing each other's events.
//
// Channel pattern: factorydash:{instance_name}:{event_type}_events

// MetricsEventsChannel returns the channel carrying generated metrics.
// Pattern: factorydash:{instance_name}:metrics_events
func MetricsEventsChannel(instanceName string) string {
	return fmt.Sprintf("factorydash:%s:metrics_events", instanceName)
}

// BotEventsChannel returns the channel carrying bot exchanges.
// Pattern: factorydash:{instance_name}:bot_events
func BotEventsChannel(instanceName string) string {
	return fmt.Sprintf("factorydash:%s:bot_events", instanceName)
}
