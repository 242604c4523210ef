package postgresadapter

import (
	"time"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

type avatarModel struct {
	AvatarID        string    `gorm:"column:id;primaryKey"`
	OwningAuthority string    `gorm:"column:owning_authority"`
	Guard           string    `gorm:"column:guard"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (avatarModel) TableName() string { return "avatars" }

type avatarModuleModel struct {
	AvatarID string `gorm:"column:avatar_id;primaryKey"`
	Handle   string `gorm:"column:handle;primaryKey"`
	Position int    `gorm:"column:position"`
}

func (avatarModuleModel) TableName() string { return "avatar_modules" }

type outboxModel struct {
	OutboxID    string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "avatar_outbox" }

func recordFromModels(avatar avatarModel, modules []avatarModuleModel) ports.AvatarRecord {
	handles := make([]entities.Handle, len(modules))
	for i, module := range modules {
		handles[i] = entities.Handle(module.Handle)
	}
	return ports.AvatarRecord{
		AvatarID:        avatar.AvatarID,
		OwningAuthority: entities.Handle(avatar.OwningAuthority),
		Modules:         handles,
		Guard:           entities.Handle(avatar.Guard),
		UpdatedAt:       avatar.UpdatedAt,
	}
}
