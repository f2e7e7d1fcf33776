// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"gadgetry/internal/delivery/http/response"
	"gadgetry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	accountUC      usecase.AccountUsecase
	notificationUC usecase.NotificationUsecase
	logger         *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(accountUC usecase.AccountUsecase, notificationUC usecase.NotificationUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC:      accountUC,
		notificationUC: notificationUC,
		logger:         logger,
	}
}

// Signup handles the account registration request.
func (h *AccountHandler) Signup(c echo.Context) error {
	var input *usecase.RegisterAccountInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}

	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.accountUC.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, view, "Account registered successfully")
}

// Login handles the credential verification request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.accountUC.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Login successful")
}

// ListCustomers returns every customer account with orders resolved.
func (h *AccountHandler) ListCustomers(c echo.Context) error {
	views, err := h.accountUC.ListCustomers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, views, "Customer accounts retrieved successfully")
}

// GetAccountOrders returns the orders of one account.
func (h *AccountHandler) GetAccountOrders(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ACCOUNT_ID", "Account ID must be a valid UUID")
	}

	views, err := h.accountUC.GetAccountOrders(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, views, "Account orders retrieved successfully")
}

// MarkNotificationsRead flips every notification of the account to read.
func (h *AccountHandler) MarkNotificationsRead(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ACCOUNT_ID", "Account ID must be a valid UUID")
	}

	view, err := h.notificationUC.MarkAllRead(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Notifications marked as read")
}

// pushNotificationRequest is the body of a push notification request.
type pushNotificationRequest struct {
	Message string `json:"message" validate:"required"`
}

// PushNotification appends a new unread notification to the account.
func (h *AccountHandler) PushNotification(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ACCOUNT_ID", "Account ID must be a valid UUID")
	}

	var input *pushNotificationRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid notification input")
	}

	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.notificationUC.Push(c.Request().Context(), accountID, input.Message)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Notification pushed")
}

// DeleteAccount removes an account and all of its orders.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ACCOUNT_ID", "Account ID must be a valid UUID")
	}

	if err := h.accountUC.DeleteAccount(c.Request().Context(), accountID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": accountID.String()}, "Account deleted successfully")
}

func parseAccountID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
