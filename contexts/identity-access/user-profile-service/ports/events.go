package ports

import contractsv1 "aegis/contracts/gen/events/v1"

// EventEnvelope aliases the canonical contract envelope so application code
// never imports the contracts package directly.
type EventEnvelope = contractsv1.Envelope
