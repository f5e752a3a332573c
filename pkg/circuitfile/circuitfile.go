// Package circuitfile persists circuits as JSON documents on disk.
package circuitfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ritzau/circuit-workbench/pkg/model"
)

// formatVersion marks the on-disk document layout.
const formatVersion = 1

// Document is the serialized form of a circuit.
type Document struct {
	Version     int                `json:"version"`
	SavedAt     time.Time          `json:"saved_at"`
	NextID      int                `json:"next_id"`
	Components  []model.Component  `json:"components"`
	Connections []model.Connection `json:"connections"`
}

// Save writes the circuit to path, replacing any existing file.
func Save(path string, c *model.Circuit) error {
	components, connections := c.Snapshot()
	doc := Document{
		Version:     formatVersion,
		SavedAt:     time.Now().UTC(),
		NextID:      c.NextID(),
		Components:  components,
		Connections: connections,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding circuit: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing circuit file: %w", err)
	}
	return nil
}

// Load reads a circuit document from path and rebuilds the circuit,
// preserving component ids and the id counter.
func Load(path string) (*model.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading circuit file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding circuit file: %w", err)
	}
	if doc.Version > formatVersion {
		return nil, fmt.Errorf("circuit file version %d is newer than supported version %d", doc.Version, formatVersion)
	}

	return model.Restore(doc.Components, doc.Connections, doc.NextID), nil
}
