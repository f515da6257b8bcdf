package amqp

import (
	"encoding/json"
	"time"
)

// ImportRequestMessage asks the worker to run one import invocation.
// It carries no payload beyond provenance: the pipeline always replaces the
// full category from the live sheet.
type ImportRequestMessage struct {
	RequestedBy string    `json:"requested_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// ImportCompletedMessage announces the outcome of a finished run.
type ImportCompletedMessage struct {
	Category  string    `json:"category"`
	RowsSeen  int       `json:"rows_seen"`
	Imported  int       `json:"imported"`
	Timestamp time.Time `json:"timestamp"`
}

// NewImportRequestMessage creates a new import request.
func NewImportRequestMessage(requestedBy string) *ImportRequestMessage {
	return &ImportRequestMessage{
		RequestedBy: requestedBy,
		Timestamp:   time.Now(),
	}
}

// NewImportCompletedMessage creates a completion event for a run.
func NewImportCompletedMessage(category string, rowsSeen, imported int) *ImportCompletedMessage {
	return &ImportCompletedMessage{
		Category:  category,
		RowsSeen:  rowsSeen,
		Imported:  imported,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ImportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON converts the message to JSON bytes.
func (m *ImportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ImportRequestMessageFromJSON creates a message from JSON bytes.
func ImportRequestMessageFromJSON(data []byte) (*ImportRequestMessage, error) {
	var msg ImportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
