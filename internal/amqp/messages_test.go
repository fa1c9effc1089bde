package amqp

import (
	"testing"

	"carteira/internal/core"
)

func TestSnapshotChangedMessageRoundTrip(t *testing.T) {
	msg := NewSnapshotChangedMessage("u1", core.KindDividend, "Mar/2025")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := SnapshotChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.OwnerID != "u1" || got.Kind != core.KindDividend || got.Month != "Mar/2025" {
		t.Fatalf("round trip = %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestSnapshotChangedMessageFromJSONInvalid(t *testing.T) {
	if _, err := SnapshotChangedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
