package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// The unique index on email is what makes concurrent signups with the same
// address race-free: the insert itself fails, there is no check-then-insert.
type AccountModel struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name             string         `gorm:"type:varchar(100);not null"`
	Email            string         `gorm:"type:varchar(255);unique;not null"`
	CredentialDigest string         `gorm:"type:varchar(255);not null"`
	IsAdmin          bool           `gorm:"not null;default:false"`
	CartTotal        float64        `gorm:"not null;default:0"`
	CartCount        int            `gorm:"not null;default:0"`
	Notifications    datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Orders []OrderModel `gorm:"foreignKey:OwnerID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
