// Package live fans out state snapshots to subscribed clients.
package live

import (
	"encoding/json"
	"sync"
	"time"
)

// Topics carried by the broker
const (
	TopicLessons = "lessons"
	TopicClasses = "classes"
	TopicLive    = "live"
)

// AccountTopic is the topic carrying one account's record
func AccountTopic(accountID string) string {
	return "account:" + accountID
}

// DefaultBuffer is the per-subscription queue length
const DefaultBuffer = 16

// Event is a full replacement snapshot of one topic
type Event struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
	At    time.Time       `json:"at"`
}

// Broker is an in-process publish/subscribe hub
type Broker struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	buffer int
}

// NewBroker creates a broker. buffer <= 0 selects DefaultBuffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{subs: map[*Subscription]struct{}{}, buffer: buffer}
}

// Subscription receives events for its topics until cancelled
type Subscription struct {
	broker *Broker
	topics map[string]bool
	events chan Event
	once   sync.Once
}

// Subscribe registers interest in topics
func (b *Broker) Subscribe(topics ...string) *Subscription {
	sub := &Subscription{
		broker: b,
		topics: make(map[string]bool, len(topics)),
		events: make(chan Event, b.buffer),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Events returns the delivery channel. It is closed by Cancel.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Cancel unregisters the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s)
		close(s.events)
		s.broker.mu.Unlock()
	})
}

// Publish encodes payload and delivers it to every subscriber of topic. When
// a subscriber's queue is full, its pending events for the same topic are
// dropped since ev replaces them. Other topics keep their newest pending event.
func (b *Broker) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	ev := Event{Topic: topic, Data: data, At: time.Now().UTC()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		if !sub.topics[topic] {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			sub.coalesce(ev)
		}
	}
	return nil
}

// coalesce requeues the pending events keeping one per topic, then appends
// ev. Only publishers send on events and they hold the broker lock.
func (s *Subscription) coalesce(ev Event) {
	var pending []Event
	for {
		select {
		case queued := <-s.events:
			pending = append(pending, queued)
			continue
		default:
		}
		break
	}
	pending = append(pending, ev)

	latest := make(map[string]int, len(pending))
	for i, queued := range pending {
		latest[queued.Topic] = i
	}
	kept := pending[:0]
	for i, queued := range pending {
		if latest[queued.Topic] == i {
			kept = append(kept, queued)
		}
	}
	// More subscribed topics than buffer slots: the oldest snapshots go
	if over := len(kept) - cap(s.events); over > 0 {
		kept = kept[over:]
	}
	for _, queued := range kept {
		s.events <- queued
	}
}

// Subscribers returns the number of active subscriptions
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
