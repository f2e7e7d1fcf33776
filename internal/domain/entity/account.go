// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationStatus is the read state of a single account notification.
type NotificationStatus string

const (
	// NotificationStatusUnread marks a notification the account holder has not seen yet.
	NotificationStatusUnread NotificationStatus = "unread"
	// NotificationStatusRead marks a notification the account holder has acknowledged.
	NotificationStatusRead NotificationStatus = "read"
)

// Notification is one entry in an account's ordered notification feed.
// The feed is append-only except for the bulk read transition.
type Notification struct {
	Message string             `json:"message"` // Human-readable notification text.
	Status  NotificationStatus `json:"status"`  // Current read state, "unread" or "read".
}

// Cart holds the denormalized cart totals embedded in an account.
// It is mutated by the order-placement flow and only stored here.
type Cart struct {
	Total float64 `json:"total"` // Sum of all item prices currently in the cart.
	Count int     `json:"count"` // Number of items currently in the cart.
}

// Account is the aggregate root of the subsystem, representing a customer or
// administrator identity together with its embedded commerce state.
// CredentialDigest is the only persisted form of the account's secret and must
// never appear in any externally observable representation.
type Account struct {
	ID               uuid.UUID      // The Global Unique Identifier (GUID) for the account, assigned by the store.
	Name             string         // The account holder's display name.
	Email            string         // Unique login identifier, validated against the storefront email pattern.
	CredentialDigest string         // bcrypt digest of the account's password. Never serialized.
	IsAdmin          bool           // Partitions accounts into administrative and customer categories.
	Cart             Cart           // Embedded cart totals, defaults to {0, 0}.
	Notifications    []Notification // Ordered notification feed.
	CreatedAt        time.Time      // Timestamp of when this account was created.
	UpdatedAt        time.Time      // Timestamp of the last modification to this account.
}

// MarkAllNotificationsRead transitions every notification to the read state
// regardless of its current value. Calling it again is a no-op.
func (a *Account) MarkAllNotificationsRead() {
	for i := range a.Notifications {
		a.Notifications[i].Status = NotificationStatusRead
	}
}

// PushNotification appends a new unread notification to the feed.
func (a *Account) PushNotification(message string) {
	a.Notifications = append(a.Notifications, Notification{
		Message: message,
		Status:  NotificationStatusUnread,
	})
}
