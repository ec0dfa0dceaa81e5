package ports

import contractsv1 "aegis/contracts/gen/events/v1"

// EventEnvelope reuses the canonical cross-service envelope contract.
type EventEnvelope = contractsv1.Envelope
