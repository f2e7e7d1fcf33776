package repository

import (
	"context"

	"gadgetry/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderRepository defines the operations this subsystem needs from the order
// store collaborator: resolving an account's orders for views and deleting
// them when the owning account is removed.
type OrderRepository interface {
	// FindByOwner retrieves all orders owned by the given account, oldest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Order, error)

	// FindByOwners retrieves all orders owned by any of the given accounts.
	FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*entity.Order, error)

	// Create persists a new order entity to the storage.
	Create(ctx context.Context, order *entity.Order) error

	// DeleteByOwner removes every order owned by the given account.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}
