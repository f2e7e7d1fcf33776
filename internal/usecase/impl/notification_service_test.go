package impl

import (
	"context"
	"testing"

	"gadgetry/internal/domain/entity"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_MarkAllRead_Success(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:    accountID,
		Email: "ann@example.com",
		Notifications: []entity.Notification{
			{Message: "order shipped", Status: entity.NotificationStatusUnread},
			{Message: "welcome", Status: entity.NotificationStatusRead},
			{Message: "sale starts", Status: entity.NotificationStatusUnread},
		},
	}

	fx.accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
	fx.accountRepo.EXPECT().
		UpdateNotifications(mock.Anything, accountID, mock.AnythingOfType("[]entity.Notification")).
		Run(func(_ context.Context, _ uuid.UUID, notifications []entity.Notification) {
			require.Len(t, notifications, 3)
			for _, notification := range notifications {
				assert.Equal(t, entity.NotificationStatusRead, notification.Status)
			}
		}).
		Return(nil)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(nil, nil)

	view, err := fx.service.MarkAllRead(ctx, accountID)

	require.NoError(t, err)
	require.Len(t, view.Notifications, 3)
	for _, notification := range view.Notifications {
		assert.Equal(t, "read", notification.Status)
	}
	// Messages and ordering survive the transition.
	assert.Equal(t, "order shipped", view.Notifications[0].Message)
	assert.Equal(t, "sale starts", view.Notifications[2].Message)
}

func TestNotificationService_MarkAllRead_Idempotent(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	accountID := uuid.New()
	allRead := []entity.Notification{
		{Message: "order shipped", Status: entity.NotificationStatusRead},
	}
	account := &entity.Account{ID: accountID, Email: "ann@example.com", Notifications: allRead}

	fx.accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
	fx.accountRepo.EXPECT().
		UpdateNotifications(mock.Anything, accountID, allRead).
		Return(nil)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(nil, nil)

	view, err := fx.service.MarkAllRead(ctx, accountID)

	require.NoError(t, err)
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, "read", view.Notifications[0].Status)
}

func TestNotificationService_MarkAllRead_EmptyFeed(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{ID: accountID, Email: "ann@example.com", Notifications: []entity.Notification{}}

	fx.accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
	fx.accountRepo.EXPECT().
		UpdateNotifications(mock.Anything, accountID, []entity.Notification{}).
		Return(nil)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(nil, nil)

	view, err := fx.service.MarkAllRead(ctx, accountID)

	require.NoError(t, err)
	assert.NotNil(t, view.Notifications)
	assert.Empty(t, view.Notifications)
}

func TestNotificationService_MarkAllRead_NotFound(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.accountRepo.EXPECT().
		FindByID(mock.Anything, accountID).
		Return(nil, repository.ErrAccountNotFound)

	view, err := fx.service.MarkAllRead(ctx, accountID)

	assert.Nil(t, view)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestNotificationService_Push_AppendsUnread(t *testing.T) {
	fx := createTestNotificationService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:    accountID,
		Email: "ann@example.com",
		Notifications: []entity.Notification{
			{Message: "welcome", Status: entity.NotificationStatusRead},
		},
	}

	fx.accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
	fx.accountRepo.EXPECT().
		UpdateNotifications(mock.Anything, accountID, mock.AnythingOfType("[]entity.Notification")).
		Run(func(_ context.Context, _ uuid.UUID, notifications []entity.Notification) {
			require.Len(t, notifications, 2)
			assert.Equal(t, "order delivered", notifications[1].Message)
			assert.Equal(t, entity.NotificationStatusUnread, notifications[1].Status)
		}).
		Return(nil)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(nil, nil)

	view, err := fx.service.Push(ctx, accountID, "order delivered")

	require.NoError(t, err)
	require.Len(t, view.Notifications, 2)
	assert.Equal(t, "unread", view.Notifications[1].Status)
}

func TestNotificationService_Push_EmptyMessage(t *testing.T) {
	fx := createTestNotificationService(t)

	view, err := fx.service.Push(context.Background(), uuid.New(), "   ")

	assert.Nil(t, view)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	fx.accountRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
