package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	p := NewPublisher()
	defer p.Stop()

	ch1, _ := p.Subscribe()
	ch2, _ := p.Subscribe()
	require.Equal(t, 2, p.SubscriberCount())

	p.Broadcast(EventNewDetection, map[string]string{"id": "d1"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		event := receiveEvent(t, ch)
		assert.Equal(t, EventNewDetection, event.Name)
	}
}

func TestBroadcastPreservesOrder(t *testing.T) {
	t.Parallel()

	p := NewPublisher()
	defer p.Stop()

	ch, _ := p.Subscribe()

	p.Broadcast(EventNewDetection, "first")
	p.Broadcast(EventNewAlert, "second")

	assert.Equal(t, EventNewDetection, receiveEvent(t, ch).Name)
	assert.Equal(t, EventNewAlert, receiveEvent(t, ch).Name)
}

func TestSlowSubscriberDoesNotBlockBroadcast(t *testing.T) {
	t.Parallel()

	p := NewPublisher()
	defer p.Stop()

	// Nobody reads this channel; its buffer fills and later events are
	// dropped for it without delaying the broadcast path.
	slow, _ := p.Subscribe()
	_ = slow

	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultChannelBufferSize+10; i++ {
			p.Broadcast(EventNewDetection, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	p := NewPublisher()
	defer p.Stop()

	ch, subCtx := p.Subscribe()
	p.Unsubscribe(ch)

	select {
	case <-subCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription context not cancelled on unsubscribe")
	}
	assert.Equal(t, 0, p.SubscriberCount())
}

func TestStopCancelsAllSubscribers(t *testing.T) {
	t.Parallel()

	p := NewPublisher()
	_, subCtx := p.Subscribe()
	p.Stop()

	select {
	case <-subCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription context not cancelled on stop")
	}
	assert.Equal(t, 0, p.SubscriberCount())
}
