// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"gadgetry/internal/domain/entity"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/repository"
	"gadgetry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{
		db: db,
	}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM)
}

// FindByEmail retrieves a single account by its email address. Email is the
// login key, backed by the unique index.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM)
}

// ListCustomers retrieves all non-administrative accounts, oldest first.
func (repo *accountRepository) ListCustomers(ctx context.Context) ([]*entity.Account, error) {
	var accountModels []*model.AccountModel

	if err := repo.db.WithContext(ctx).
		Where("is_admin = ?", false).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list customer accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountModels))
	for _, accountM := range accountModels {
		account, err := toAccountDomain(accountM)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// Create persists a new account entity. The unique-email constraint is
// enforced by the database on this insert; a conflicting concurrent signup
// surfaces as ErrEmailAlreadyRegistered, never as a partial write.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM, err := fromAccountDomain(account)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrAccountCreationFailed.WrapMessage("missing required account information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Update the account entity with the generated ID and timestamps
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// UpdateNotifications replaces the full notification list of an account.
func (repo *accountRepository) UpdateNotifications(ctx context.Context, id uuid.UUID, notifications []entity.Notification) error {
	payload, err := marshalNotifications(notifications)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", id).
		Update("notifications", payload)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account notifications")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account record by ID. Callers are responsible for
// cascading order deletion first, inside the same transaction.
func (repo *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) (*entity.Account, error) {
	if data == nil {
		return nil, nil
	}

	notifications, err := unmarshalNotifications(data.Notifications)
	if err != nil {
		return nil, err
	}

	return &entity.Account{
		ID:               data.ID,
		Name:             data.Name,
		Email:            data.Email,
		CredentialDigest: data.CredentialDigest,
		IsAdmin:          data.IsAdmin,
		Cart: entity.Cart{
			Total: data.CartTotal,
			Count: data.CartCount,
		},
		Notifications: notifications,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) (*model.AccountModel, error) {
	if data == nil {
		return nil, nil
	}

	payload, err := marshalNotifications(data.Notifications)
	if err != nil {
		return nil, err
	}

	return &model.AccountModel{
		ID:               data.ID,
		Name:             data.Name,
		Email:            data.Email,
		CredentialDigest: data.CredentialDigest,
		IsAdmin:          data.IsAdmin,
		CartTotal:        data.Cart.Total,
		CartCount:        data.Cart.Count,
		Notifications:    payload,
	}, nil
}

func marshalNotifications(notifications []entity.Notification) (datatypes.JSON, error) {
	if notifications == nil {
		notifications = []entity.Notification{}
	}

	payload, err := json.Marshal(notifications)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal notifications")
	}

	return datatypes.JSON(payload), nil
}

func unmarshalNotifications(payload []byte) ([]entity.Notification, error) {
	notifications := []entity.Notification{}
	if len(payload) == 0 {
		return notifications, nil
	}

	if err := json.Unmarshal(payload, &notifications); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal notifications")
	}

	return notifications, nil
}
