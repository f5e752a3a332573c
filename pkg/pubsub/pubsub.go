// Package pubsub pushes live editor updates to connected UIs over
// Server-Sent Events.
package pubsub

import (
	"context"
	"encoding/json"
)

// Topics the workbench publishes on.
const (
	// TopicCircuit carries structure changes: components or connections
	// added, parameters edited, circuit cleared.
	TopicCircuit = "circuit"

	// TopicAnalysis fires when a new analysis result replaces the stored
	// one.
	TopicAnalysis = "analysis"
)

// Event is a single published update.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // e.g. "component_added", "cleared", "complete"
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per-topic ordering
}

// Subscription is a client's feed for one topic.
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and event delivery.
type Publisher interface {
	// Subscribe creates a subscription; cancelling ctx closes it.
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Publish(topic string, eventType string, data interface{}) error
	Close() error
}

// CircuitStatus summarizes the circuit for TopicCircuit events.
type CircuitStatus struct {
	Components  int `json:"components"`
	Connections int `json:"connections"`
}

// AnalysisStatus summarizes a finished run for TopicAnalysis events.
type AnalysisStatus struct {
	Components     int  `json:"components"`
	VoltageSources int  `json:"voltage_sources"`
	HasAggregates  bool `json:"has_aggregates"`
}
