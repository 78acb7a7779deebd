package amqp

import (
	"strings"
	"testing"
)

func TestLedgerChangedMessageRoundTrip(t *testing.T) {
	msg := NewLedgerChangedMessage(ChangeTransactionAdded, "tx-1", 3)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	got, err := LedgerChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got.Kind != ChangeTransactionAdded || got.EntityID != "tx-1" || got.SchemaVersion != 3 {
		t.Errorf("round trip = %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestLedgerChangedMessageOmitsEmptyEntity(t *testing.T) {
	msg := NewLedgerChangedMessage(ChangeSettingsUpdated, "", 3)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	if strings.Contains(string(body), "entityId") {
		t.Errorf("body %s should omit entityId", body)
	}
}

func TestLedgerChangedMessageFromJSONInvalid(t *testing.T) {
	if _, err := LedgerChangedMessageFromJSON([]byte(`{not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}
