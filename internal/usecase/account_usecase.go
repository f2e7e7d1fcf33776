// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"gadgetry/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterAccountInput defines the data required to register a new account.
// The tags are the transport-level gate; the service re-checks with the
// storefront's own email pattern, which is the authoritative one.
type RegisterAccountInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput defines the data required for an account holder to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output views ---
//
// Views are the only account shapes that leave the usecase layer. They are
// built field by field from the entity, so the credential digest has no path
// out: it is simply never copied.

// CartView is the serializable form of an account's cart summary.
type CartView struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// NotificationView is the serializable form of a single notification.
type NotificationView struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// OrderView is the serializable form of an order.
type OrderView struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Total     float64   `json:"total"`
	Count     int       `json:"count"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountView is the sanitized, serializable form of an account.
type AccountView struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	IsAdmin       bool               `json:"isAdmin"`
	Cart          CartView           `json:"cart"`
	Notifications []NotificationView `json:"notifications"`
	OrderIDs      []uuid.UUID        `json:"orderIds"`
	Orders        []OrderView        `json:"orders,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// NewAccountView builds an AccountView from an account entity and the orders
// resolved for it. Slices are always non-nil so they serialize as [] rather
// than null.
func NewAccountView(account *entity.Account, orders []*entity.Order) *AccountView {
	if account == nil {
		return nil
	}

	notifications := make([]NotificationView, 0, len(account.Notifications))
	for _, notification := range account.Notifications {
		notifications = append(notifications, NotificationView{
			Message: notification.Message,
			Status:  string(notification.Status),
		})
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	orderViews := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
		orderViews = append(orderViews, *NewOrderView(order))
	}

	return &AccountView{
		ID:      account.ID,
		Name:    account.Name,
		Email:   account.Email,
		IsAdmin: account.IsAdmin,
		Cart: CartView{
			Total: account.Cart.Total,
			Count: account.Cart.Count,
		},
		Notifications: notifications,
		OrderIDs:      orderIDs,
		Orders:        orderViews,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

// NewOrderView builds an OrderView from an order entity.
func NewOrderView(order *entity.Order) *OrderView {
	if order == nil {
		return nil
	}

	return &OrderView{
		ID:        order.ID,
		OwnerID:   order.OwnerID,
		Total:     order.Total,
		Count:     order.Count,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterAccountInput) (*AccountView, error)
	Login(ctx context.Context, input *LoginInput) (*AccountView, error)
	ListCustomers(ctx context.Context) ([]*AccountView, error)
	GetAccountOrders(ctx context.Context, accountID uuid.UUID) ([]*OrderView, error)
	DeleteAccount(ctx context.Context, accountID uuid.UUID) error
}
