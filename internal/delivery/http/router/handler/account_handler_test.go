package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpmiddleware "gadgetry/internal/delivery/http/middleware"
	"gadgetry/internal/delivery/http/validator"
	domainerrors "gadgetry/internal/domain/errors"
	mockUC "gadgetry/internal/mocks/usecase"
	"gadgetry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerFixtures struct {
	e              *echo.Echo
	accountUC      *mockUC.MockAccountUsecase
	notificationUC *mockUC.MockNotificationUsecase
}

func createTestHandler(t *testing.T) handlerFixtures {
	accountUC := mockUC.NewMockAccountUsecase(t)
	notificationUC := mockUC.NewMockNotificationUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	h := NewAccountHandler(accountUC, notificationUC, logger)
	e.POST("/accounts/signup", h.Signup)
	e.POST("/accounts/login", h.Login)
	e.GET("/accounts", h.ListCustomers)
	e.GET("/accounts/:id/orders", h.GetAccountOrders)
	e.POST("/accounts/:id/notifications", h.PushNotification)
	e.POST("/accounts/:id/notifications/read", h.MarkNotificationsRead)
	e.DELETE("/accounts/:id", h.DeleteAccount)

	return handlerFixtures{e: e, accountUC: accountUC, notificationUC: notificationUC}
}

func TestAccountHandler_Signup_Created(t *testing.T) {
	fx := createTestHandler(t)

	view := &usecase.AccountView{
		ID:            uuid.New(),
		Name:          "Ann",
		Email:         "ann@example.com",
		Notifications: []usecase.NotificationView{},
		OrderIDs:      []uuid.UUID{},
	}
	fx.accountUC.EXPECT().
		Register(mock.Anything, &usecase.RegisterAccountInput{
			Name:     "Ann",
			Email:    "ann@example.com",
			Password: "correct horse battery staple",
		}).
		Return(view, nil)

	body := `{"name":"Ann","email":"ann@example.com","password":"correct horse battery staple"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, `"success":true`)
	assert.Contains(t, responseBody, "ann@example.com")
	// Nothing credential-shaped ever leaves the handler.
	assert.NotContains(t, responseBody, "password")
	assert.NotContains(t, responseBody, "credential")
}

func TestAccountHandler_Signup_MissingPasswordRejectedAtTheEdge(t *testing.T) {
	fx := createTestHandler(t)

	body := `{"name":"Ann","email":"ann@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	// The request never reaches the usecase layer.
	fx.accountUC.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAccountHandler_PushNotification_MissingMessageRejectedAtTheEdge(t *testing.T) {
	fx := createTestHandler(t)

	accountID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/accounts/"+accountID.String()+"/notifications", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	fx.notificationUC.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountHandler_Signup_DuplicateEmail(t *testing.T) {
	fx := createTestHandler(t)

	fx.accountUC.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterAccountInput")).
		Return(nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists"))

	body := `{"name":"Ann","email":"ann@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_ALREADY_REGISTERED")
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	fx := createTestHandler(t)

	fx.accountUC.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, domainerrors.ErrInvalidCredentials)

	body := `{"email":"ghost@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, "INVALID_CREDENTIALS")
	// The body does not say whether the email or the password was wrong.
	assert.NotContains(t, responseBody, "email not found")
	assert.NotContains(t, responseBody, "wrong password")
}

func TestAccountHandler_GetAccountOrders_InvalidID(t *testing.T) {
	fx := createTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/accounts/not-a-uuid/orders", nil)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ACCOUNT_ID")
}

func TestAccountHandler_DeleteAccount_NotFound(t *testing.T) {
	fx := createTestHandler(t)

	accountID := uuid.New()
	fx.accountUC.EXPECT().
		DeleteAccount(mock.Anything, accountID).
		Return(domainerrors.ErrAccountNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/accounts/"+accountID.String(), nil)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ACCOUNT_NOT_FOUND")
}

func TestAccountHandler_DeleteAccount_CascadeFailure(t *testing.T) {
	fx := createTestHandler(t)

	accountID := uuid.New()
	fx.accountUC.EXPECT().
		DeleteAccount(mock.Anything, accountID).
		Return(domainerrors.ErrCascadeFailed.WrapMessage("failed to delete account orders"))

	req := httptest.NewRequest(http.MethodDelete, "/accounts/"+accountID.String(), nil)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "CASCADE_FAILED")
}

func TestAccountHandler_MarkNotificationsRead_OK(t *testing.T) {
	fx := createTestHandler(t)

	accountID := uuid.New()
	view := &usecase.AccountView{
		ID: accountID,
		Notifications: []usecase.NotificationView{
			{Message: "order shipped", Status: "read"},
		},
		OrderIDs: []uuid.UUID{},
	}
	fx.notificationUC.EXPECT().
		MarkAllRead(mock.Anything, accountID).
		Return(view, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts/"+accountID.String()+"/notifications/read", nil)
	rec := httptest.NewRecorder()

	fx.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"read"`)
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := HealthCheck(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
