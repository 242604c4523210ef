package outbox

import "time"

// Status values for persisted outbox rows.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Message is an outbox row persisted inside the same transaction as the
// state change that produced it. The worker relay reads pending rows and
// publishes them to the bus, then marks them published.
type Message struct {
	ID          string
	EventType   string
	Payload     []byte
	Status      string
	CreatedAt   time.Time
	PublishedAt *time.Time
}
