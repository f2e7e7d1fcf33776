package usecase

import (
	"context"

	"github.com/google/uuid"
)

// NotificationUsecase defines the interface for account notification use cases
type NotificationUsecase interface {
	// MarkAllRead flips every notification of the account to read and returns
	// the updated account. Calling it on an account with no unread
	// notifications is a no-op.
	MarkAllRead(ctx context.Context, accountID uuid.UUID) (*AccountView, error)

	// Push appends a new unread notification to the account and returns the
	// updated account.
	Push(ctx context.Context, accountID uuid.UUID, message string) (*AccountView, error)
}
