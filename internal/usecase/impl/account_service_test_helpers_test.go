package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gadgetry/config"
	"gadgetry/internal/domain/repository"
	mockRepo "gadgetry/internal/mocks/repository"
	mockSvc "gadgetry/internal/mocks/service"
	"gadgetry/internal/usecase"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 12,
		},
		Store: &config.StoreConfig{
			Timeout: time.Second,
		},
	}
}

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	txManager   *mockRepo.MockTransactionManager
	accountRepo *mockRepo.MockAccountRepository
	orderRepo   *mockRepo.MockOrderRepository
	hasher      *mockSvc.MockCredentialHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	hasher := mockSvc.NewMockCredentialHasher(t)

	service := NewAccountService(AccountServiceParams{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		OrderRepo:   orderRepo,
		Hasher:      hasher,
		Config:      newTestConfig(),
		Logger:      newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:     service,
		txManager:   txManager,
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
		hasher:      hasher,
	}
}

// onExecute wires the transaction manager mock to run the transactional
// callback against the given factory setup, standing in for a real commit or
// rollback.
func (fx *accountServiceFixtures) onExecute(t *testing.T, setup func(factory *mockRepo.MockRepositoryFactory)) {
	fx.txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			setup(factory)

			return fn(factory)
		})
}

// notificationServiceFixtures holds all test dependencies for notification service tests.
type notificationServiceFixtures struct {
	service     usecase.NotificationUsecase
	accountRepo *mockRepo.MockAccountRepository
	orderRepo   *mockRepo.MockOrderRepository
}

func createTestNotificationService(t *testing.T) notificationServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)

	service := NewNotificationService(NotificationServiceParams{
		AccountRepo: accountRepo,
		OrderRepo:   orderRepo,
		Config:      newTestConfig(),
		Logger:      newDiscardLogger(),
	})

	return notificationServiceFixtures{
		service:     service,
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
	}
}
