// Package feed broadcasts dashboard activity over Redis Pub/Sub.
//
// Every metrics snapshot the server generates and every bot exchange it
// answers is published as a JSON Event. Nothing is stored: delivery is
// at-most-once to whoever is subscribed at the time.
package feed

import (
	"fmt"
	"time"

	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/google/uuid"
)

// EventType identifies the payload carried by an Event.
type EventType string

const (
	// EventMetrics carries a factoryapi.Metrics snapshot
	EventMetrics EventType = "metrics_generated"

	// EventBot carries a BotExchange
	EventBot EventType = "bot_exchange"
)

// BotExchange is one question and the bot's answer.
type BotExchange struct {
	Question string                 `json:"question"`
	Reply    factoryapi.BotResponse `json:"reply"`
}

// Event is the envelope published on feed channels.
type Event struct {
	ID          string              `json:"id"`            // UUID
	Type        EventType           `json:"event"`         // metrics_generated or bot_exchange
	CreatedAtMs int64               `json:"created_at_ms"` // Unix milliseconds
	Metrics     *factoryapi.Metrics `json:"metrics,omitempty"`
	Bot         *BotExchange        `json:"bot,omitempty"`
}

// NewMetricsEvent wraps a metrics snapshot.
func NewMetricsEvent(m factoryapi.Metrics) *Event {
	return &Event{
		ID:          uuid.New().String(),
		Type:        EventMetrics,
		CreatedAtMs: time.Now().UnixMilli(),
		Metrics:     &m,
	}
}

// NewBotEvent wraps a bot exchange.
func NewBotEvent(question string, reply factoryapi.BotResponse) *Event {
	return &Event{
		ID:          uuid.New().String(),
		Type:        EventBot,
		CreatedAtMs: time.Now().UnixMilli(),
		Bot:         &BotExchange{Question: question, Reply: reply},
	}
}

// Validate checks that the payload matches the event type.
func (e *Event) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("invalid event id %q: %w", e.ID, err)
	}
	switch e.Type {
	case EventMetrics:
		if e.Metrics == nil {
			return fmt.Errorf("%s event without metrics", e.Type)
		}
	case EventBot:
		if e.Bot == nil {
			return fmt.Errorf("%s event without bot exchange", e.Type)
		}
	default:
		return fmt.Errorf("unknown event type: %s", e.Type)
	}
	return nil
}
