package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	"aegis/contexts/delegation-core/avatar-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, outbox, clock,
// and ID generation ports. It backs tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	avatars map[string]ports.AvatarRecord
	outbox  map[string]outboxRow
}

type outboxRow struct {
	ports.OutboxMessage
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		avatars: make(map[string]ports.AvatarRecord),
		outbox:  make(map[string]outboxRow),
	}
}

func (s *Store) GetAvatar(_ context.Context, avatarID string) (ports.AvatarRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.avatars[avatarID]
	if !ok {
		return ports.AvatarRecord{}, false, nil
	}
	return cloneRecord(record), true, nil
}

func (s *Store) SaveAvatar(_ context.Context, record ports.AvatarRecord, outbox []ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatars[record.AvatarID] = cloneRecord(record)
	for _, message := range outbox {
		s.outbox[message.OutboxID] = outboxRow{OutboxMessage: message}
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			pending = append(pending, row.OutboxMessage)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].OutboxID < pending[j].OutboxID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	stamp := publishedAt
	row.PublishedAt = &stamp
	s.outbox[outboxID] = row
	return nil
}

// PendingOutboxCount reports unpublished rows; used by tests.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneRecord(record ports.AvatarRecord) ports.AvatarRecord {
	cloned := record
	cloned.Modules = append([]entities.Handle(nil), record.Modules...)
	return cloned
}
