package broadcast

import (
	"sync"

	"auction-tracker/utils"
)

// Subscription is the handle returned by Subscribe. It is only meaningful to
// the Broadcaster that issued it.
type Subscription struct {
	topic string
	sink  Sink
}

// Broadcaster fans events out to every sink currently subscribed to a topic.
// Topics are item ids. There is no buffering and no retained history: an event
// published with no subscribers is dropped.
type Broadcaster struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
}

// New creates an empty broadcaster.
func New() *Broadcaster {
	return &Broadcaster{
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a sink for a topic. The sink is eligible for every
// event published after Subscribe returns; initial-state delivery is the
// caller's responsibility.
func (b *Broadcaster) Subscribe(topic string, sink Sink) *Subscription {
	sub := &Subscription{topic: topic, sink: sink}

	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	count := len(subs)
	b.mu.Unlock()

	utils.Info("subscriber registered", map[string]any{"topic": topic, "subscribers": count})
	return sub
}

// Unsubscribe removes a subscription and closes its sink. Removing an
// already-removed or unknown handle is a no-op.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	subs, ok := b.topics[sub.topic]
	if !ok {
		b.mu.Unlock()
		return
	}
	if _, registered := subs[sub]; !registered {
		b.mu.Unlock()
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
	remaining := len(subs)
	b.mu.Unlock()

	_ = sub.sink.Close()
	utils.Info("subscriber removed", map[string]any{"topic": sub.topic, "subscribers": remaining})
}

// Publish delivers the event to every sink currently registered for the
// topic. Delivery is best-effort: a sink that errors is unregistered and
// closed instead of failing the publish for the others.
func (b *Broadcaster) Publish(topic string, event Event) {
	b.mu.RLock()
	subs := b.topics[topic]
	if len(subs) == 0 {
		b.mu.RUnlock()
		return
	}
	snapshot := make([]*Subscription, 0, len(subs))
	for sub := range subs {
		snapshot = append(snapshot, sub)
	}
	b.mu.RUnlock()

	for _, sub := range snapshot {
		if err := sub.sink.Send(event); err != nil {
			utils.Warn("evicting broken sink", map[string]any{
				"topic": topic,
				"event": string(event.Type),
				"error": err.Error(),
			})
			b.Unsubscribe(sub)
		}
	}
}

// Close unsubscribes everything. Used at shutdown.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	var all []*Subscription
	for _, subs := range b.topics {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	b.topics = make(map[string]map[*Subscription]struct{})
	b.mu.Unlock()

	for _, sub := range all {
		_ = sub.sink.Close()
	}
}
