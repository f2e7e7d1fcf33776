package impl

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"gadgetry/config"
	deliverycontext "gadgetry/internal/delivery/context"
	"gadgetry/internal/domain/entity"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/repository"
	"gadgetry/internal/domain/service"
	"gadgetry/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// emailPattern is the account email shape accepted at signup.
var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)

// dummyCredentialDigest is a well-formed bcrypt digest that matches no real
// password. When a login hits an unknown email we still run one compare
// against it, so the unknown-email and wrong-password paths cost roughly the
// same and both return the same error value.
const dummyCredentialDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	orderRepo    repository.OrderRepository
	hasher       service.CredentialHasher
	storeTimeout time.Duration
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	OrderRepo   repository.OrderRepository
	Hasher      service.CredentialHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		orderRepo:    params.OrderRepo,
		hasher:       params.Hasher,
		storeTimeout: params.Config.StoreTimeout(),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account signup process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterAccountInput) (*usecase.AccountView, error) {
	srv.log(ctx).Info("Starting account registration", slog.String("email", input.Email))

	if err := validateRegistration(input); err != nil {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Hash before touching the store. Bcrypt is CPU-bound and gated by the
	// hasher's worker slots, so it must not run inside a transaction.
	digest, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash credential during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash credential during registration")
	}

	account := &entity.Account{
		Name:             strings.TrimSpace(input.Name),
		Email:            input.Email,
		CredentialDigest: digest,
		IsAdmin:          false,
		Notifications:    []entity.Notification{},
	}

	// The unique-email constraint decides concurrent signups: exactly one
	// insert wins, the rest come back as ErrEmailAlreadyRegistered.
	if err := writeWithTimeout(ctx, srv.storeTimeout, "create account", func(opCtx context.Context) error {
		return srv.accountRepo.Create(opCtx, account)
	}); err != nil {
		srv.log(ctx).Warn("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Account registered", slog.Any("accountID", account.ID))

	return usecase.NewAccountView(account, nil), nil
}

func validateRegistration(input *usecase.RegisterAccountInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("name is required")
	}
	if !emailPattern.MatchString(input.Email) {
		return domainerrors.ErrValidationFailed.WrapMessage("email format is invalid")
	}
	if input.Password == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("password is required")
	}

	return nil
}

// Login verifies the submitted credential against the stored digest.
// Unknown email and wrong password both return ErrInvalidCredentials, the
// same value, so callers cannot probe which part was wrong.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AccountView, error) {
	srv.log(ctx).Debug("Starting account login", slog.String("email", input.Email))

	var account *entity.Account
	err := readWithRetry(ctx, srv.logger, srv.storeTimeout, "find account by email", func(opCtx context.Context) error {
		var findErr error
		account, findErr = srv.accountRepo.FindByEmail(opCtx, input.Email)

		return findErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Burn a compare anyway so this path is not observably faster
			// than a wrong password.
			srv.hasher.Check(input.Password, dummyCredentialDigest)
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, domainerrors.ErrInvalidCredentials
		}

		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Check credential outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.CredentialDigest) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	orders, err := srv.loadAccountOrders(ctx, account.ID)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Account logged in successfully", slog.Any("accountID", account.ID))

	return usecase.NewAccountView(account, orders), nil
}

// ListCustomers returns every non-administrative account with its orders
// resolved. Orders are fetched with one query for the whole page, not one
// query per account.
func (srv *accountService) ListCustomers(ctx context.Context) ([]*usecase.AccountView, error) {
	var accounts []*entity.Account
	err := readWithRetry(ctx, srv.logger, srv.storeTimeout, "list customer accounts", func(opCtx context.Context) error {
		var listErr error
		accounts, listErr = srv.accountRepo.ListCustomers(opCtx)

		return listErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list customer accounts", slog.Any("error", err))

		return nil, err
	}

	ownerIDs := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		ownerIDs = append(ownerIDs, account.ID)
	}

	var orders []*entity.Order
	err = readWithRetry(ctx, srv.logger, srv.storeTimeout, "find orders by owners", func(opCtx context.Context) error {
		var findErr error
		orders, findErr = srv.orderRepo.FindByOwners(opCtx, ownerIDs)

		return findErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to resolve customer orders", slog.Any("error", err))

		return nil, err
	}

	ordersByOwner := make(map[uuid.UUID][]*entity.Order, len(accounts))
	for _, order := range orders {
		ordersByOwner[order.OwnerID] = append(ordersByOwner[order.OwnerID], order)
	}

	views := make([]*usecase.AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, usecase.NewAccountView(account, ordersByOwner[account.ID]))
	}

	return views, nil
}

// GetAccountOrders returns the orders of one account, oldest first.
func (srv *accountService) GetAccountOrders(ctx context.Context, accountID uuid.UUID) ([]*usecase.OrderView, error) {
	// Existence check first, so an unknown account is a 404 and not an
	// empty list.
	err := readWithRetry(ctx, srv.logger, srv.storeTimeout, "find account by id", func(opCtx context.Context) error {
		_, findErr := srv.accountRepo.FindByID(opCtx, accountID)

		return findErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, err
	}

	orders, err := srv.loadAccountOrders(ctx, accountID)
	if err != nil {
		srv.log(ctx).Error("Failed to load account orders", slog.Any("accountID", accountID), slog.Any("error", err))

		return nil, err
	}

	views := make([]*usecase.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, usecase.NewOrderView(order))
	}

	return views, nil
}

func (srv *accountService) loadAccountOrders(ctx context.Context, accountID uuid.UUID) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := readWithRetry(ctx, srv.logger, srv.storeTimeout, "find orders by owner", func(opCtx context.Context) error {
		var findErr error
		orders, findErr = srv.orderRepo.FindByOwner(opCtx, accountID)

		return findErr
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// DeleteAccount removes an account and all of its orders in one transaction.
// The orders go first; if any step fails the transaction rolls back and the
// account record stays exactly as it was. The whole transaction runs under
// the store timeout and is never retried.
func (srv *accountService) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	srv.log(ctx).Info("Starting account deletion", slog.Any("accountID", accountID))

	err := writeWithTimeout(ctx, srv.storeTimeout, "delete account cascade", func(opCtx context.Context) error {
		return srv.txManager.Execute(opCtx, func(repoFactory repository.RepositoryFactory) error {
			accountRepo := repoFactory.AccountRepo()
			orderRepo := repoFactory.OrderRepo()

			if _, err := accountRepo.FindByID(opCtx, accountID); err != nil {
				if errors.Is(err, repository.ErrAccountNotFound) {
					return domainerrors.ErrAccountNotFound
				}

				return errors.Wrap(err, "failed to load account for deletion")
			}

			if err := orderRepo.DeleteByOwner(opCtx, accountID); err != nil {
				return domainerrors.ErrCascadeFailed.WrapMessage("failed to delete account orders")
			}

			if err := accountRepo.Delete(opCtx, accountID); err != nil {
				return domainerrors.ErrCascadeFailed.WrapMessage("failed to delete account record")
			}

			return nil
		})
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute account deletion transaction", slog.Any("accountID", accountID), slog.Any("error", err))

		switch {
		case errors.Is(err, domainerrors.ErrAccountNotFound),
			errors.Is(err, domainerrors.ErrCascadeFailed),
			errors.Is(err, domainerrors.ErrStoreTimeout):
			return err
		default:
			// Begin and commit failures land here. The delete did not take
			// effect, so they surface as cascade failures too.
			return domainerrors.ErrCascadeFailed.WrapMessage("account deletion transaction failed")
		}
	}

	srv.log(ctx).Debug("Account deleted", slog.Any("accountID", accountID))

	return nil
}
