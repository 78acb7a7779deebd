package amqp

import (
	"encoding/json"
	"time"
)

// Change kinds carried by LedgerChangedMessage.
const (
	ChangeTransactionAdded   = "transaction_added"
	ChangeTransactionDeleted = "transaction_deleted"
	ChangeCategoriesUpdated  = "categories_updated"
	ChangeSettingsUpdated    = "settings_updated"
)

// LedgerChangedMessage announces that the persisted ledger changed.
// It carries only the change kind and the entity id; consumers reload
// the snapshot themselves.
type LedgerChangedMessage struct {
	Kind          string    `json:"kind"`
	EntityID      string    `json:"entityId,omitempty"`
	SchemaVersion int       `json:"schemaVersion"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage creates a change message stamped with now
func NewLedgerChangedMessage(kind, entityID string, schemaVersion int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Kind:          kind,
		EntityID:      entityID,
		SchemaVersion: schemaVersion,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
