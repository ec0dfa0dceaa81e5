package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"aegis/contexts/identity-access/auth-service/adapters/memory"
	"aegis/contexts/identity-access/auth-service/domain/entities"
	"aegis/contexts/identity-access/auth-service/ports"
	contractsv1 "aegis/contracts/gen/events/v1"
)

type capturingPublisher struct {
	topics    []string
	envelopes []ports.EventEnvelope
	failNext  error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

func registerTestUser(t *testing.T, store *memory.Store, username string) {
	t.Helper()
	role, err := store.FindByName(context.Background(), entities.RoleUser)
	if err != nil {
		t.Fatalf("role lookup failed: %v", err)
	}
	userID, _ := store.NewID(context.Background())
	eventID, _ := store.NewID(context.Background())
	now := store.Now()
	user := entities.User{
		UserID:         userID,
		Username:       username,
		PasswordDigest: "$2a$04$digest",
		Email:          username + "@example.com",
		FullName:       "Relay Test",
		Roles:          []entities.Role{role},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	event := ports.RegisteredEvent{
		EventID:    eventID,
		UserID:     userID,
		Username:   username,
		Email:      user.Email,
		FullName:   user.FullName,
		RoleNames:  user.RoleNames(),
		OccurredAt: now,
	}
	if err := store.CreateWithOutbox(context.Background(), user, event); err != nil {
		t.Fatalf("create with outbox failed: %v", err)
	}
}

func TestRunOncePublishesAndMarksSent(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}

	registerTestUser(t, store, "relay-one")
	registerTestUser(t, store, "relay-two")

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected 2 published envelopes, got %d", len(publisher.envelopes))
	}
	for _, topic := range publisher.topics {
		if topic != contractsv1.TopicUserRegistered {
			t.Fatalf("unexpected topic %s", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d rows", len(pending))
	}
}

// scriptedOutbox serves a fixed row set so tests can stage payloads the
// store-backed write path would never produce.
type scriptedOutbox struct {
	rows   []ports.OutboxMessage
	status map[string]string
}

func (f *scriptedOutbox) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	out := make([]ports.OutboxMessage, 0, limit)
	for _, row := range f.rows {
		if f.status[row.OutboxID] != "" {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *scriptedOutbox) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	f.status[outboxID] = "sent"
	return nil
}

func (f *scriptedOutbox) MarkOutboxFailed(_ context.Context, outboxID string, _ time.Time) error {
	f.status[outboxID] = "failed"
	return nil
}

func TestRunOnceParksUndecodableRowAndContinues(t *testing.T) {
	goodPayload, err := json.Marshal(ports.EventEnvelope{EventID: "evt-good"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	outbox := &scriptedOutbox{
		rows: []ports.OutboxMessage{
			{OutboxID: "row-poison", Payload: []byte("{not json")},
			{OutboxID: "row-good", Payload: goodPayload},
		},
		status: map[string]string{},
	}
	publisher := &capturingPublisher{}
	relay := OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.envelopes) != 1 || publisher.envelopes[0].EventID != "evt-good" {
		t.Fatalf("expected the decodable row to publish, got %v", publisher.envelopes)
	}
	if outbox.status["row-poison"] != "failed" {
		t.Fatalf("expected poison row parked as failed, got %q", outbox.status["row-poison"])
	}
	if outbox.status["row-good"] != "sent" {
		t.Fatalf("expected good row marked sent, got %q", outbox.status["row-good"])
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	if len(publisher.envelopes) != 1 {
		t.Fatalf("parked row must not republish, got %d envelopes", len(publisher.envelopes))
	}
}

func TestRunOnceKeepsRowPendingOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{failNext: errors.New("broker down")}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}

	registerTestUser(t, store, "relay-three")

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must keep the row pending, got %d rows", len(pending))
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox after retry, got %d rows", len(pending))
	}
}
