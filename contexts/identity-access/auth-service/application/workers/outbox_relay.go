package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "aegis/contexts/identity-access/auth-service/application"
	"aegis/contexts/identity-access/auth-service/ports"
	contractsv1 "aegis/contracts/gen/events/v1"
)

// OutboxRelay drains committed provisioning events to the broker. Rows are
// marked sent only after a successful publish, so a crash mid-cycle results
// in redelivery, never loss.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = contractsv1.TopicUserRegistered
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "auth_outbox_list_failed",
			"module", "identity-access/auth-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	sent := 0
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			// An undecodable payload can never publish. Park it as failed
			// instead of erroring out, or one poison row would wedge the
			// whole queue behind it.
			logger.Error("outbox payload decode failed",
				"event", "auth_outbox_decode_failed",
				"module", "identity-access/auth-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			if err := r.Outbox.MarkOutboxFailed(ctx, message.OutboxID, now); err != nil {
				logger.Error("outbox mark failed failed",
					"event", "auth_outbox_mark_failed_failed",
					"module", "identity-access/auth-service",
					"layer", "worker",
					"outbox_id", message.OutboxID,
					"error", err.Error(),
				)
				return err
			}
			continue
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "auth_outbox_publish_failed",
				"module", "identity-access/auth-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "auth_outbox_mark_sent_failed",
				"module", "identity-access/auth-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		sent++
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "auth_outbox_relay_completed",
			"module", "identity-access/auth-service",
			"layer", "worker",
			"sent_count", sent,
		)
	}
	return nil
}
