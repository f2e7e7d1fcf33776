// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a placed order owned by an account. The order-placement
// flow itself lives outside this subsystem; orders matter here because account
// deletion must cascade to them and account views resolve them.
type Order struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the order.
	OwnerID   uuid.UUID // The ID of the account that placed this order.
	Total     float64   // Total amount charged for the order.
	Count     int       // Number of items in the order.
	Status    string    // Fulfilment status, e.g. "processing" or "shipped".
	CreatedAt time.Time // Timestamp of when the order was placed.
	UpdatedAt time.Time // Timestamp of the last modification.
}
