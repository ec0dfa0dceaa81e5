package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "aegis/contexts/identity-access/user-profile-service/application"
	"aegis/contexts/identity-access/user-profile-service/ports"
	contractsv1 "aegis/contracts/gen/events/v1"
)

const defaultConsumerGroupName = "user-profile-cg"

// UserRegisteredConsumer replicates registration events into shadow
// profiles. Handler errors propagate to the bus; the idempotency guard in
// the service makes redelivery safe.
type UserRegisteredConsumer struct {
	Subscriber    ports.EventSubscriber
	Service       application.Service
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c UserRegisteredConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := c.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroupName
	}
	if err := c.Subscriber.Subscribe(ctx, contractsv1.TopicUserRegistered, group, c.handle); err != nil {
		logger.Error("user registered consumer subscribe failed",
			"event", "profile_consumer_subscribe_failed",
			"module", "identity-access/user-profile-service",
			"layer", "worker",
			"topic", contractsv1.TopicUserRegistered,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("user registered consumer subscribed",
		"event", "profile_consumer_subscribed",
		"module", "identity-access/user-profile-service",
		"layer", "worker",
		"topic", contractsv1.TopicUserRegistered,
		"consumer_group", group,
	)
	return nil
}

func (c UserRegisteredConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload contractsv1.UserRegistered
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("user registered event decode failed",
			"event", "profile_consumer_decode_failed",
			"module", "identity-access/user-profile-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}

	if err := c.Service.Replicate(ctx, application.ReplicateCommand{
		UserID:    payload.UserID,
		Username:  payload.Username,
		Email:     payload.Email,
		FullName:  payload.FullName,
		RoleNames: payload.RoleNames,
	}); err != nil {
		logger.Error("profile replication failed",
			"event", "profile_replication_failed",
			"module", "identity-access/user-profile-service",
			"layer", "worker",
			"event_id", event.EventID,
			"username", payload.Username,
			"error", err.Error(),
		)
		return err
	}
	return nil
}
