package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_MarkAllNotificationsRead(t *testing.T) {
	account := &Account{
		Notifications: []Notification{
			{Message: "order shipped", Status: NotificationStatusRead},
			{Message: "order delivered", Status: NotificationStatusUnread},
			{Message: "new coupon", Status: NotificationStatusUnread},
		},
	}

	account.MarkAllNotificationsRead()

	assert.Len(t, account.Notifications, 3)
	for _, notification := range account.Notifications {
		assert.Equal(t, NotificationStatusRead, notification.Status)
	}
	// Message order survives the bulk transition.
	assert.Equal(t, "order shipped", account.Notifications[0].Message)
	assert.Equal(t, "order delivered", account.Notifications[1].Message)
	assert.Equal(t, "new coupon", account.Notifications[2].Message)
}

func TestAccount_MarkAllNotificationsRead_EmptyFeed(t *testing.T) {
	account := &Account{}

	account.MarkAllNotificationsRead()

	assert.Empty(t, account.Notifications)
}

func TestAccount_PushNotification(t *testing.T) {
	account := &Account{
		Notifications: []Notification{
			{Message: "order shipped", Status: NotificationStatusRead},
		},
	}

	account.PushNotification("order delivered")

	assert.Len(t, account.Notifications, 2)
	assert.Equal(t, "order delivered", account.Notifications[1].Message)
	assert.Equal(t, NotificationStatusUnread, account.Notifications[1].Status)
}
