package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	contractsv1 "aegis/contracts/gen/events/v1"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}

	received := make(chan contractsv1.Envelope, 1)
	err = bus.Subscribe(context.Background(), contractsv1.TopicUserRegistered, "cg", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(context.Background(), contractsv1.TopicUserRegistered, contractsv1.Envelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" {
			t.Fatalf("unexpected event %q", event.EventID)
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestPublishStalledSubscriberReportsContextError(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}
	// Unbuffered channel with no reader: the hand-off can never complete.
	bus.subscribers[contractsv1.TopicUserRegistered] = []chan contractsv1.Envelope{
		make(chan contractsv1.Envelope),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = bus.Publish(ctx, contractsv1.TopicUserRegistered, contractsv1.Envelope{EventID: "evt-2"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for stalled delivery, got %v", err)
	}
}
