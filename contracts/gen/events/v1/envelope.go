package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope for cross-service use.
// This package is generated-contract-only and must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// UserRegistered is the data payload carried on the user.registered topic.
type UserRegistered struct {
	UserID    string   `json:"user_id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	RoleNames []string `json:"role_names"`
}

// EventTypeUserRegistered identifies the provisioning event emitted once per
// successful sign-up. Delivery is at-least-once; consumers key on username.
const EventTypeUserRegistered = "identity.user.registered"

// TopicUserRegistered is the broker topic the provisioning event travels on.
const TopicUserRegistered = "user.registered"
