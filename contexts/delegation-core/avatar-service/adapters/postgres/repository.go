package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aegis/contexts/delegation-core/avatar-service/ports"
	"aegis/internal/shared/outbox"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists avatar state, the head-first module order, and outbox
// rows in one transaction per save.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Migrate creates the adapter's tables. Called from bootstrap, not from
// module wiring.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&avatarModel{}, &avatarModuleModel{}, &outboxModel{})
}

func (r *Repository) GetAvatar(ctx context.Context, avatarID string) (ports.AvatarRecord, bool, error) {
	var avatar avatarModel
	err := r.db.WithContext(ctx).
		Where("id = ?", avatarID).
		First(&avatar).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AvatarRecord{}, false, nil
		}
		return ports.AvatarRecord{}, false, r.logError("avatar_repo_get_failed", err, "avatar_id", avatarID)
	}

	var modules []avatarModuleModel
	err = r.db.WithContext(ctx).
		Where("avatar_id = ?", avatarID).
		Order("position ASC").
		Find(&modules).
		Error
	if err != nil {
		return ports.AvatarRecord{}, false, r.logError("avatar_repo_list_modules_failed", err, "avatar_id", avatarID)
	}

	return recordFromModels(avatar, modules), true, nil
}

func (r *Repository) SaveAvatar(ctx context.Context, record ports.AvatarRecord, messages []ports.OutboxMessage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := avatarModel{
			AvatarID:        record.AvatarID,
			OwningAuthority: string(record.OwningAuthority),
			Guard:           string(record.Guard),
			UpdatedAt:       record.UpdatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"owning_authority": row.OwningAuthority,
				"guard":            row.Guard,
				"updated_at":       row.UpdatedAt,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Where("avatar_id = ?", record.AvatarID).
			Delete(&avatarModuleModel{}).Error; err != nil {
			return err
		}
		for position, handle := range record.Modules {
			module := avatarModuleModel{
				AvatarID: record.AvatarID,
				Handle:   string(handle),
				Position: position,
			}
			if err := tx.Create(&module).Error; err != nil {
				return err
			}
		}

		for _, message := range messages {
			row := outboxModel{
				OutboxID:  message.OutboxID,
				EventType: message.EventType,
				Payload:   message.Payload,
				Status:    outbox.StatusPending,
				CreatedAt: message.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("avatar_repo_save_failed", err, "avatar_id", record.AvatarID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("avatar_repo_list_outbox_failed", err)
	}

	pending := make([]ports.OutboxMessage, len(rows))
	for i, row := range rows {
		pending[i] = ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		}
	}
	return pending, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", outboxID).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt,
		}).
		Error
	if err != nil {
		return r.logError("avatar_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "delegation-core/avatar-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("avatar repository operation failed", fields...)
	return err
}
