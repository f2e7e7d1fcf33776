// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gadgetry/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	accountGroup := e.Group("/accounts")
	{
		accountGroup.POST("/signup", r.accountHandler.Signup)
		accountGroup.POST("/login", r.accountHandler.Login)
		accountGroup.GET("", r.accountHandler.ListCustomers)
		accountGroup.GET("/:id/orders", r.accountHandler.GetAccountOrders)
		accountGroup.POST("/:id/notifications", r.accountHandler.PushNotification)
		accountGroup.POST("/:id/notifications/read", r.accountHandler.MarkNotificationsRead)
		accountGroup.DELETE("/:id", r.accountHandler.DeleteAccount)
	}
}
