package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
)

// DiscountAuditEntry is one immutable record in the approval audit trail.
// Entries are written in the same transaction as the workflow mutation.
type DiscountAuditEntry struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID            `gorm:"column:request_id;type:uuid;not null;index"`
	OrderID   uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	Action    enums.AuditAction    `gorm:"column:action;type:audit_action;not null"`
	Status    enums.DiscountStatus `gorm:"column:status;type:discount_status;not null"`
	ActorID   uuid.UUID            `gorm:"column:actor_id;type:uuid;not null"`
	ActorRole enums.StaffRole      `gorm:"column:actor_role;type:staff_role;not null"`
	Comment   *string              `gorm:"column:comment;type:text"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}
