package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. OwnerID references accounts.id (UUID).
type OrderModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Total     float64   `gorm:"not null;default:0"`
	Count     int       `gorm:"not null;default:0"`
	Status    string    `gorm:"type:text;not null;default:'processing'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
