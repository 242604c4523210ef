package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope carried through the
// outbox and bus. This package is generated-contract-only and must stay
// backward compatible.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}
