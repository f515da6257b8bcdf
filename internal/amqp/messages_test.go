package amqp

import (
	"testing"
	"time"
)

func TestImportRequestMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	msg := &ImportRequestMessage{
		RequestedBy: "http",
		Timestamp:   timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := ImportRequestMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ImportRequestMessageFromJSON() error = %v", err)
	}

	if parsedMsg.RequestedBy != msg.RequestedBy {
		t.Errorf("Parsed RequestedBy = %v, want %v", parsedMsg.RequestedBy, msg.RequestedBy)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestImportRequestMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"requested_by": 42, "timestamp": "not_a_time"}`)

	_, err := ImportRequestMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("ImportRequestMessageFromJSON() should fail with invalid JSON")
	}
}

func TestNewImportRequestMessage(t *testing.T) {
	msg := NewImportRequestMessage("scheduler")

	if msg.RequestedBy != "scheduler" {
		t.Errorf("NewImportRequestMessage() RequestedBy = %v, want scheduler", msg.RequestedBy)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewImportRequestMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewImportRequestMessage() Timestamp should be recent")
	}
}

func TestNewImportCompletedMessage(t *testing.T) {
	msg := NewImportCompletedMessage("Mensalidade", 120, 87)

	if msg.Category != "Mensalidade" {
		t.Errorf("NewImportCompletedMessage() Category = %v, want Mensalidade", msg.Category)
	}
	if msg.RowsSeen != 120 {
		t.Errorf("NewImportCompletedMessage() RowsSeen = %v, want 120", msg.RowsSeen)
	}
	if msg.Imported != 87 {
		t.Errorf("NewImportCompletedMessage() Imported = %v, want 87", msg.Imported)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewImportCompletedMessage() Timestamp should not be zero")
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if len(jsonBytes) == 0 {
		t.Error("ToJSON() returned empty payload")
	}
}
