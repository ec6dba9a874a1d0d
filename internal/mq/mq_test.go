package mq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shaiso/Synthflow/internal/domain"
)

func TestMessageRoundTrip(t *testing.T) {
	payload := BuildRequestedPayload{
		Backend:  "symbolicexpression",
		Request:  domain.BuildRequest{ProjectDir: "/work/prj", Stages: domain.DefaultStageFlags()},
		Schedule: "nightly",
	}

	msg, err := NewMessage(MessageTypeBuildRequested, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" {
		t.Error("message id should be generated")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeMessage(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Type != MessageTypeBuildRequested {
		t.Errorf("unexpected type %s", decoded.Type)
	}

	got, err := ParsePayload[BuildRequestedPayload](decoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != payload {
		t.Errorf("expected %+v, got %+v", payload, got)
	}
}

func TestDecodeMessage_Invalid(t *testing.T) {
	if _, err := DecodeMessage([]byte("not json")); err == nil {
		t.Error("expected error for invalid json")
	}
	if _, err := DecodeMessage([]byte(`{"id":"1","payload":{}}`)); err == nil {
		t.Error("expected error for missing type")
	}
}

func TestNextDelay(t *testing.T) {
	if d := nextDelay(time.Second); d != 2*time.Second {
		t.Errorf("expected 2s, got %v", d)
	}
	if d := nextDelay(20 * time.Second); d != reconnectMaxDelay {
		t.Errorf("expected cap %v, got %v", reconnectMaxDelay, d)
	}
}

func TestTopology_RequestedHasDLQ(t *testing.T) {
	for _, b := range topology() {
		if b.queue != QueueBuildsRequested {
			continue
		}
		if b.args["x-dead-letter-exchange"] != string(ExchangeDLQ) {
			t.Errorf("builds.requested should dead-letter to %s", ExchangeDLQ)
		}
		return
	}
	t.Error("builds.requested not declared")
}
