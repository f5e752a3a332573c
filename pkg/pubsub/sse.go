package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/circuit-workbench/pkg/logging"
)

// TopicConfig controls replay buffering for a topic.
type TopicConfig struct {
	BufferSize int  // events kept for replay (0 disables buffering)
	ReplayAll  bool // replay the whole buffer instead of just the last event
}

// SSEPublisher implements Publisher for Server-Sent Events delivery.
type SSEPublisher struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*sseSubscription]bool
	version       map[string]int
	eventBuffer   map[string][]Event
	topicConfig   map[string]TopicConfig
	closed        bool
}

// NewSSEPublisher creates an SSE publisher with no configured topics.
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{
		subscriptions: make(map[string]map[*sseSubscription]bool),
		version:       make(map[string]int),
		eventBuffer:   make(map[string][]Event),
		topicConfig:   make(map[string]TopicConfig),
	}
}

// ConfigureTopic sets replay behavior for a topic.
func (p *SSEPublisher) ConfigureTopic(topic string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topicConfig[topic] = config
}

// Subscribe registers a new subscription and replays buffered events to it.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("publisher is closed")
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, 100), // buffered so publishers never block
		publisher: p,
	}

	if p.subscriptions[topic] == nil {
		p.subscriptions[topic] = make(map[*sseSubscription]bool)
	}
	p.subscriptions[topic][sub] = true

	config := p.topicConfig[topic]
	buffered := make([]Event, len(p.eventBuffer[topic]))
	copy(buffered, p.eventBuffer[topic])

	p.mu.Unlock()

	if len(buffered) > 0 {
		replay := buffered
		if !config.ReplayAll {
			replay = buffered[len(buffered)-1:]
		}
		for _, event := range replay {
			select {
			case sub.events <- event:
			default:
				logging.Warn("dropping replay event for new subscriber", "topic", topic)
			}
		}
		logging.Debug("replayed events to new subscriber", "topic", topic, "count", len(replay))
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish delivers an event to all subscribers of the topic without
// blocking; slow subscribers lose events rather than stall the editor.
func (p *SSEPublisher) Publish(topic string, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	p.version[topic]++

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event data: %w", err)
	}

	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    jsonData,
		Version: p.version[topic],
	}

	config := p.topicConfig[topic]
	if config.BufferSize > 0 {
		buffer := append(p.eventBuffer[topic], event)
		if len(buffer) > config.BufferSize {
			buffer = buffer[len(buffer)-config.BufferSize:]
		}
		p.eventBuffer[topic] = buffer
	}

	for sub := range p.subscriptions[topic] {
		select {
		case sub.events <- event:
		default:
			logging.Warn("subscriber channel full, dropping event", "topic", topic)
		}
	}

	return nil
}

// Close shuts down the publisher and all subscriptions.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subscriptions {
		for sub := range subs {
			close(sub.events)
		}
	}
	p.subscriptions = make(map[string]map[*sseSubscription]bool)

	return nil
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs := p.subscriptions[sub.topic]; subs != nil {
		if subs[sub] {
			delete(subs, sub)
			// Publish sends under the same lock, so closing here cannot
			// race with a send. Closing unblocks draining consumers.
			close(sub.events)
		}
		if len(subs) == 0 {
			delete(p.subscriptions, sub.topic)
		}
	}
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	closed    bool
	mu        sync.Mutex
}

func (s *sseSubscription) Topic() string {
	return s.topic
}

func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

func (s *sseSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.publisher.unsubscribe(s)
	return nil
}

// WriteSSE writes one event in wire format: "data: {json}\n\n".
func WriteSSE(w io.Writer, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", jsonData)
	return err
}
