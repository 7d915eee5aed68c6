// Package events defines the messages pushed to WebSocket subscribers.
// The stream only carries notifications; clients fetch data over the JSON API.
package events

import (
	"time"
)

// ProtocolVersion is announced in the connection message
const ProtocolVersion = "1"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnection is sent once to each client after it registers
	MessageTypeConnection MessageType = "connection"

	// MessageTypeDatasetReloaded tells clients the dataset was refreshed and
	// views should be fetched again
	MessageTypeDatasetReloaded MessageType = "dataset_reloaded"
)

// Message is the envelope of every pushed message
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// ConnectionData is the payload of MessageTypeConnection
type ConnectionData struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
	Protocol string `json:"protocol"`
}

// NewMessage stamps a message with the current time
func NewMessage(t MessageType, data interface{}) Message {
	return Message{Type: t, Data: data, Timestamp: time.Now().UTC()}
}
