package amqp

import (
	"encoding/json"
	"time"

	"carteira/internal/core"
)

// SnapshotChangedMessage announces that a mutation invalidated one owner's
// snapshot for one fact family. Consumers re-fetch and rebuild; the message
// deliberately carries no amounts.
type SnapshotChangedMessage struct {
	OwnerID   string          `json:"owner_id"`
	Kind      core.RecordKind `json:"kind"`
	Month     string          `json:"month"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewSnapshotChangedMessage(ownerID string, kind core.RecordKind, month string) *SnapshotChangedMessage {
	return &SnapshotChangedMessage{
		OwnerID:   ownerID,
		Kind:      kind,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotChangedMessageFromJSON creates a message from JSON bytes.
func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
