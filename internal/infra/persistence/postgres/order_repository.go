package postgres

import (
	"context"

	"gadgetry/internal/domain/entity"
	domainerrors "gadgetry/internal/domain/errors"
	"gadgetry/internal/domain/repository"
	"gadgetry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// FindByOwner retrieves all orders belonging to one account, oldest first.
func (repo *orderRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by owner")
	}

	return toOrderDomains(orderModels), nil
}

// FindByOwners retrieves the orders of many accounts in one query. Used when
// listing accounts so we do not fire one query per account.
func (repo *orderRepository) FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*entity.Order, error) {
	if len(ownerIDs) == 0 {
		return []*entity.Order{}, nil
	}

	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by owners")
	}

	return toOrderDomains(orderModels), nil
}

// Create persists a new order entity.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound.WrapMessage("order owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// DeleteByOwner removes every order belonging to the given account. Deleting
// zero rows is not an error: an account without orders is fine.
func (repo *orderRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.OrderModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete orders by owner")
	}

	return nil
}

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	return &entity.Order{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		Total:     data.Total,
		Count:     data.Count,
		Status:    data.Status,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func toOrderDomains(data []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(data))
	for _, orderM := range data {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel for persistence.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:      data.ID,
		OwnerID: data.OwnerID,
		Total:   data.Total,
		Count:   data.Count,
		Status:  data.Status,
	}
}
