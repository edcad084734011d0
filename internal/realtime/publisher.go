// Package realtime provides the publish/subscribe fan-out used to push
// domain events to connected dashboard clients. The transport (SSE) lives
// in the API layer; this package only deals in events and channels.
package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/logging"
)

// Event names emitted by the ingestion pipeline.
const (
	EventNewDetection      = "new_detection"
	EventNewAlert          = "new_alert"
	EventStreamURLUpdated  = "stream_url_updated"
	EventAlertAcknowledged = "alert_acknowledged"
)

// DefaultChannelBufferSize is the per-subscriber event buffer. A full
// buffer means the subscriber is too slow; events are dropped for that
// subscriber rather than delaying the mutation path.
const DefaultChannelBufferSize = 100

// Event is a single broadcast message.
type Event struct {
	Name      string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscriber represents one connected event consumer.
type Subscriber struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
}

// Publisher fans events out to all connected subscribers.
type Publisher struct {
	subscribers   []*Subscriber
	subscribersMu sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
	logger        *slog.Logger
}

// NewPublisher creates an empty publisher.
func NewPublisher() *Publisher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Publisher{
		ctx:    ctx,
		cancel: cancel,
		logger: logging.ForService("realtime"),
	}
}

// Subscribe registers a new event consumer. The returned context is
// cancelled when the subscription is terminated; the returned channel is
// owned by the publisher and must not be closed by the caller. To
// unsubscribe, call Unsubscribe with the channel.
func (p *Publisher) Subscribe() (<-chan Event, context.Context) {
	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()

	ctx, cancel := context.WithCancel(p.ctx)
	sub := &Subscriber{
		ch:     make(chan Event, DefaultChannelBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
	p.subscribers = append(p.subscribers, sub)

	p.logger.Debug("subscriber added", "total_subscribers", len(p.subscribers))
	return sub.ch, ctx
}

// Unsubscribe cancels and removes a subscription.
func (p *Publisher) Unsubscribe(ch <-chan Event) {
	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()

	for i, sub := range p.subscribers {
		if sub.ch == ch {
			sub.cancel()
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			p.logger.Debug("subscriber removed", "remaining_subscribers", len(p.subscribers))
			break
		}
	}
}

// Broadcast delivers an event to every active subscriber. Sends are
// non-blocking: a subscriber with a full buffer misses the event but never
// stalls the caller. Cancelled subscribers are pruned as a side effect.
func (p *Publisher) Broadcast(name string, payload any) {
	event := Event{Name: name, Payload: payload, Timestamp: time.Now()}

	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()

	active := p.subscribers[:0]
	dropped := 0
	for _, sub := range p.subscribers {
		select {
		case <-sub.ctx.Done():
			continue
		default:
		}

		active = append(active, sub)
		select {
		case sub.ch <- event:
		default:
			dropped++
		}
	}
	// Clear trailing slots so pruned subscribers can be collected.
	for i := len(active); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}
	p.subscribers = active

	if dropped > 0 {
		p.logger.Debug("event dropped for slow subscribers",
			"event", name,
			"dropped", dropped,
			"active_subscribers", len(active))
	}
}

// SubscriberCount returns the number of active subscriptions.
func (p *Publisher) SubscriberCount() int {
	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()
	return len(p.subscribers)
}

// Stop cancels every subscription and shuts the publisher down.
func (p *Publisher) Stop() {
	p.cancel()

	p.subscribersMu.Lock()
	defer p.subscribersMu.Unlock()
	for _, sub := range p.subscribers {
		sub.cancel()
	}
	p.subscribers = nil
	p.logger.Info("realtime publisher stopped")
}
