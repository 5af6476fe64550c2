package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/redis/go-redis/v9"
)

// Client publishes and subscribes to the instance-scoped feed channels.
// It is safe for concurrent use.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a feed client for the specified instance.
// Returns an error if instanceName is not a valid instance name.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if err := ValidateInstanceName(instanceName); err != nil {
		return nil, err
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// InstanceName returns the namespace of this client.
func (c *Client) InstanceName() string { return c.instanceName }

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Publish validates e and publishes it on the channel for its type.
func (c *Client) Publish(ctx context.Context, e *Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := MetricsEventsChannel(c.instanceName)
	if e.Type == EventBot {
		channel = BotEventsChannel(c.instanceName)
	}

	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

// PublishMetrics publishes a generated metrics snapshot.
func (c *Client) PublishMetrics(ctx context.Context, m factoryapi.Metrics) error {
	return c.Publish(ctx, NewMetricsEvent(m))
}

// PublishBotExchange publishes a question and its reply.
func (c *Client) PublishBotExchange(ctx context.Context, question string, reply factoryapi.BotResponse) error {
	return c.Publish(ctx, NewBotEvent(question, reply))
}

// Subscription is an active subscription to both feed channels.
// Caller must call Close() when done.
type Subscription struct {
	events <-chan *Event
	errors <-chan error
	cancel func()
	done   <-chan struct{}
	once   sync.Once
}

// Events returns the channel of decoded events. It is closed when the
// subscription ends.
func (s *Subscription) Events() <-chan *Event {
	return s.events
}

// Errors returns non-fatal decoding errors. Offending messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and waits for its goroutine to exit.
// Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}

// Subscribe listens on the metrics and bot channels of this instance. The
// subscription is confirmed by Redis before Subscribe returns, so events
// published afterwards are not missed. Context cancellation also stops it.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, MetricsEventsChannel(c.instanceName), BotEventsChannel(c.instanceName))

	// One confirmation per channel
	for i := 0; i < 2; i++ {
		if _, err := pubsub.Receive(ctx); err != nil {
			pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to feed: %w", err)
		}
	}

	eventsChan := make(chan *Event, 10)
	errorsChan := make(chan error, 10)
	done := make(chan struct{})
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(done)
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal feed event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
		done:   done,
	}, nil
}
