package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gadgetry/config"
	deliverycontext "gadgetry/internal/delivery/context"
	"gadgetry/internal/domain/entity"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/repository"
	"gadgetry/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	accountRepo  repository.AccountRepository
	orderRepo    repository.OrderRepository
	storeTimeout time.Duration
	logger       *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	OrderRepo   repository.OrderRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		accountRepo:  params.AccountRepo,
		orderRepo:    params.OrderRepo,
		storeTimeout: params.Config.StoreTimeout(),
		logger:       params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// MarkAllRead flips every notification of the account to read. Running it
// again on an already-read list writes the same list back, so the operation
// is idempotent.
func (srv *notificationService) MarkAllRead(ctx context.Context, accountID uuid.UUID) (*usecase.AccountView, error) {
	return srv.updateNotifications(ctx, accountID, func(account *entity.Account) {
		account.MarkAllNotificationsRead()
	})
}

// Push appends a new unread notification to the account.
func (srv *notificationService) Push(ctx context.Context, accountID uuid.UUID, message string) (*usecase.AccountView, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("notification message is required")
	}

	return srv.updateNotifications(ctx, accountID, func(account *entity.Account) {
		account.PushNotification(message)
	})
}

func (srv *notificationService) updateNotifications(ctx context.Context, accountID uuid.UUID, mutate func(*entity.Account)) (*usecase.AccountView, error) {
	var account *entity.Account
	err := readWithRetry(ctx, srv.logger, srv.storeTimeout, "find account by id", func(opCtx context.Context) error {
		var findErr error
		account, findErr = srv.accountRepo.FindByID(opCtx, accountID)

		return findErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		srv.log(ctx).Error("Failed to load account for notification update", slog.Any("accountID", accountID), slog.Any("error", err))

		return nil, err
	}

	mutate(account)

	if err := writeWithTimeout(ctx, srv.storeTimeout, "update account notifications", func(opCtx context.Context) error {
		return srv.accountRepo.UpdateNotifications(opCtx, accountID, account.Notifications)
	}); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		srv.log(ctx).Error("Failed to update account notifications", slog.Any("accountID", accountID), slog.Any("error", err))

		return nil, err
	}

	var orders []*entity.Order
	err = readWithRetry(ctx, srv.logger, srv.storeTimeout, "find orders by owner", func(opCtx context.Context) error {
		var findErr error
		orders, findErr = srv.orderRepo.FindByOwner(opCtx, accountID)

		return findErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to resolve orders after notification update", slog.Any("accountID", accountID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Account notifications updated", slog.Any("accountID", accountID))

	return usecase.NewAccountView(account, orders), nil
}
