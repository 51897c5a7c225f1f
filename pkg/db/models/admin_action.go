package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopdeskapp/shopdesk-backend/pkg/enums"
)

// AdminAction is an append-only audit record produced as a side effect of
// writes to products, customers, and categories. Rows are never updated or
// deleted by the application.
type AdminAction struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID     uuid.UUID             `gorm:"column:admin_id;type:uuid;not null"`
	ActionType  enums.AdminActionType `gorm:"column:action_type;not null"`
	EntityType  enums.AdminEntityType `gorm:"column:entity_type;not null"`
	EntityID    uuid.UUID             `gorm:"column:entity_id;type:uuid;not null"`
	Description string                `gorm:"column:description;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
