// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gadgetry/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
//
// Email uniqueness is enforced by the storage layer itself: Create on a taken
// email fails atomically instead of relying on a check-then-insert sequence.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// ListCustomers retrieves all non-administrative accounts.
	ListCustomers(ctx context.Context) ([]*entity.Account, error)

	// Create persists a new account entity to the storage.
	Create(ctx context.Context, account *entity.Account) error

	// UpdateNotifications replaces the full notification list of an account.
	UpdateNotifications(ctx context.Context, id uuid.UUID, notifications []entity.Notification) error

	// Delete removes an account record by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
