package impl

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gadgetry/internal/domain/entity"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/repository"
	mockRepo "gadgetry/internal/mocks/repository"
	"gadgetry/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterAccountInput{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "correct horse battery staple",
	}

	fx.hasher.EXPECT().Hash(mock.Anything, input.Password).Return("bcrypt_digest", nil)

	fx.accountRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, account *entity.Account) {
			assert.Equal(t, "bcrypt_digest", account.CredentialDigest)
			assert.False(t, account.IsAdmin)
			assert.Zero(t, account.Cart.Total)
			assert.Zero(t, account.Cart.Count)
			assert.Empty(t, account.Notifications)
			account.ID = uuid.New()
			account.CreatedAt = time.Now()
			account.UpdatedAt = account.CreatedAt
		}).
		Return(nil)

	view, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Ann", view.Name)
	assert.Equal(t, "ann@example.com", view.Email)
	assert.False(t, view.IsAdmin)
	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.NotNil(t, view.Notifications)
	assert.Empty(t, view.Notifications)
	assert.NotNil(t, view.OrderIDs)
	assert.Empty(t, view.OrderIDs)
}

func TestAccountService_Register_ViewNeverExposesDigest(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterAccountInput{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "hunter2hunter2",
	}

	fx.hasher.EXPECT().Hash(mock.Anything, input.Password).Return("bcrypt_digest", nil)
	fx.accountRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
		Return(nil)

	view, err := fx.service.Register(ctx, input)

	require.NoError(t, err)

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "bcrypt_digest")
	assert.NotContains(t, string(payload), input.Password)
}

func TestAccountService_Register_ConcurrentDuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterAccountInput{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "correct horse battery staple",
	}

	fx.hasher.EXPECT().Hash(mock.Anything, input.Password).Return("bcrypt_digest", nil).Times(2)

	// The first insert wins, every later one trips the unique constraint.
	var mu sync.Mutex
	created := false
	fx.accountRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, account *entity.Account) error {
			mu.Lock()
			defer mu.Unlock()
			if created {
				return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists")
			}
			created = true
			account.ID = uuid.New()

			return nil
		}).
		Times(2)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = fx.service.Register(ctx, input)
		}(i)
	}
	wg.Wait()

	successes := 0
	duplicates := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainerrors.ErrEmailAlreadyRegistered):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:               accountID,
		Name:             "Ann",
		Email:            "ann@example.com",
		CredentialDigest: "bcrypt_digest",
		Notifications: []entity.Notification{
			{Message: "order shipped", Status: entity.NotificationStatusUnread},
		},
	}
	orders := []*entity.Order{
		{ID: uuid.New(), OwnerID: accountID, Total: 42.5, Count: 3, Status: "processing"},
	}

	fx.accountRepo.EXPECT().FindByEmail(mock.Anything, account.Email).Return(account, nil)
	fx.hasher.EXPECT().Check("correct horse battery staple", "bcrypt_digest").Return(true)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(orders, nil)

	view, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "ann@example.com",
		Password: "correct horse battery staple",
	})

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, accountID, view.ID)
	require.Len(t, view.OrderIDs, 1)
	assert.Equal(t, orders[0].ID, view.OrderIDs[0])
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, "unread", view.Notifications[0].Status)
}

func TestAccountService_Login_RetriesOnceOnStoreTimeout(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:               accountID,
		Email:            "ann@example.com",
		CredentialDigest: "bcrypt_digest",
	}

	// First read stalls past its deadline, the retry lands.
	var mu sync.Mutex
	calls := 0
	fx.accountRepo.EXPECT().
		FindByEmail(mock.Anything, account.Email).
		RunAndReturn(func(_ context.Context, _ string) (*entity.Account, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return nil, context.DeadlineExceeded
			}

			return account, nil
		}).
		Times(2)
	fx.hasher.EXPECT().Check("pw", "bcrypt_digest").Return(true)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(nil, nil)

	view, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ann@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, accountID, view.ID)
	assert.Equal(t, 2, calls)
}

func TestAccountService_ListCustomers_ResolvesOrdersInOneQuery(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	first := &entity.Account{ID: uuid.New(), Name: "Ann", Email: "ann@example.com"}
	second := &entity.Account{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}

	firstOrder := &entity.Order{ID: uuid.New(), OwnerID: first.ID}
	secondOrder := &entity.Order{ID: uuid.New(), OwnerID: second.ID}
	thirdOrder := &entity.Order{ID: uuid.New(), OwnerID: second.ID}

	fx.accountRepo.EXPECT().ListCustomers(mock.Anything).Return([]*entity.Account{first, second}, nil)
	fx.orderRepo.EXPECT().
		FindByOwners(mock.Anything, []uuid.UUID{first.ID, second.ID}).
		Return([]*entity.Order{firstOrder, secondOrder, thirdOrder}, nil)

	views, err := fx.service.ListCustomers(ctx)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, []uuid.UUID{firstOrder.ID}, views[0].OrderIDs)
	assert.Equal(t, []uuid.UUID{secondOrder.ID, thirdOrder.ID}, views[1].OrderIDs)
}

func TestAccountService_ListCustomers_Empty(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.accountRepo.EXPECT().ListCustomers(mock.Anything).Return([]*entity.Account{}, nil)
	fx.orderRepo.EXPECT().FindByOwners(mock.Anything, []uuid.UUID{}).Return([]*entity.Order{}, nil)

	views, err := fx.service.ListCustomers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestAccountService_GetAccountOrders_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{ID: accountID, Email: "ann@example.com"}
	orders := []*entity.Order{
		{ID: uuid.New(), OwnerID: accountID, Status: "processing"},
		{ID: uuid.New(), OwnerID: accountID, Status: "delivered"},
	}

	fx.accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
	fx.orderRepo.EXPECT().FindByOwner(mock.Anything, accountID).Return(orders, nil)

	views, err := fx.service.GetAccountOrders(ctx, accountID)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, orders[0].ID, views[0].ID)
	assert.Equal(t, "delivered", views[1].Status)
}

func TestAccountService_DeleteAccount_OrdersGoFirst(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{ID: accountID, Email: "ann@example.com"}

	var callOrder []string
	fx.onExecute(t, func(factory *mockRepo.MockRepositoryFactory) {
		accountRepo := mockRepo.NewMockAccountRepository(t)
		orderRepo := mockRepo.NewMockOrderRepository(t)
		factory.EXPECT().AccountRepo().Return(accountRepo)
		factory.EXPECT().OrderRepo().Return(orderRepo)

		accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
		orderRepo.EXPECT().
			DeleteByOwner(mock.Anything, accountID).
			Run(func(_ context.Context, _ uuid.UUID) {
				callOrder = append(callOrder, "orders")
			}).
			Return(nil)
		accountRepo.EXPECT().
			Delete(mock.Anything, accountID).
			Run(func(_ context.Context, _ uuid.UUID) {
				callOrder = append(callOrder, "account")
			}).
			Return(nil)
	})

	err := fx.service.DeleteAccount(ctx, accountID)

	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "account"}, callOrder)
}

func TestAccountService_DeleteAccount_TransactionRunsUnderStoreDeadline(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{ID: accountID, Email: "ann@example.com"}

	var hasDeadline bool
	fx.txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(txCtx context.Context, fn func(repository.RepositoryFactory) error) error {
			_, hasDeadline = txCtx.Deadline()

			factory := mockRepo.NewMockRepositoryFactory(t)
			accountRepo := mockRepo.NewMockAccountRepository(t)
			orderRepo := mockRepo.NewMockOrderRepository(t)
			factory.EXPECT().AccountRepo().Return(accountRepo)
			factory.EXPECT().OrderRepo().Return(orderRepo)

			accountRepo.EXPECT().FindByID(mock.Anything, accountID).Return(account, nil)
			orderRepo.EXPECT().DeleteByOwner(mock.Anything, accountID).Return(nil)
			accountRepo.EXPECT().Delete(mock.Anything, accountID).Return(nil)

			return fn(factory)
		})

	err := fx.service.DeleteAccount(ctx, accountID)

	require.NoError(t, err)
	// A stalled database must not hold the cascade open past the store timeout.
	assert.True(t, hasDeadline)
}
