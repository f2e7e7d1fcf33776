package postgres

import (
	"testing"
	"time"

	"gadgetry/internal/domain/entity"
	"gadgetry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAccountMapper_RoundTrip(t *testing.T) {
	account := &entity.Account{
		ID:               uuid.New(),
		Name:             "Ann",
		Email:            "ann@example.com",
		CredentialDigest: "$2a$12$abcdefghijklmnopqrstuv",
		IsAdmin:          false,
		Cart:             entity.Cart{Total: 42.5, Count: 3},
		Notifications: []entity.Notification{
			{Message: "order shipped", Status: entity.NotificationStatusRead},
			{Message: "order delivered", Status: entity.NotificationStatusUnread},
		},
	}

	accountM, err := fromAccountDomain(account)
	require.NoError(t, err)

	restored, err := toAccountDomain(accountM)
	require.NoError(t, err)

	assert.Equal(t, account.ID, restored.ID)
	assert.Equal(t, account.Name, restored.Name)
	assert.Equal(t, account.Email, restored.Email)
	assert.Equal(t, account.CredentialDigest, restored.CredentialDigest)
	assert.Equal(t, account.Cart, restored.Cart)
	assert.Equal(t, account.Notifications, restored.Notifications)
}

func TestAccountMapper_NilNotificationsBecomeEmptyFeed(t *testing.T) {
	payload, err := marshalNotifications(nil)
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSON("[]"), payload)

	accountM := &model.AccountModel{
		ID:        uuid.New(),
		Name:      "Ann",
		Email:     "ann@example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	restored, err := toAccountDomain(accountM)
	require.NoError(t, err)

	// A row without a stored feed still yields a non-nil, empty slice.
	assert.NotNil(t, restored.Notifications)
	assert.Empty(t, restored.Notifications)
}

func TestAccountMapper_NilInputs(t *testing.T) {
	accountM, err := fromAccountDomain(nil)
	require.NoError(t, err)
	assert.Nil(t, accountM)

	account, err := toAccountDomain(nil)
	require.NoError(t, err)
	assert.Nil(t, account)
}
