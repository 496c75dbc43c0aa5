// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	SessionHandler  *handler.SessionHandler
	SellerHandler   *handler.SellerHandler
	CategoryHandler *handler.CategoryHandler
	ItemHandler     *handler.ItemHandler
	AuctionHandler  *handler.AuctionHandler
	PaymentHandler  *handler.PaymentHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	sessionHandler  *handler.SessionHandler
	sellerHandler   *handler.SellerHandler
	categoryHandler *handler.CategoryHandler
	itemHandler     *handler.ItemHandler
	auctionHandler  *handler.AuctionHandler
	paymentHandler  *handler.PaymentHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		sessionHandler:  params.SessionHandler,
		sellerHandler:   params.SellerHandler,
		categoryHandler: params.CategoryHandler,
		itemHandler:     params.ItemHandler,
		auctionHandler:  params.AuctionHandler,
		paymentHandler:  params.PaymentHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	auth := r.authMiddleware.Authenticate
	apiV1 := e.Group("/api/v1")

	// Auth routes
	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout, auth)
		authGroup.PUT("/password", r.userHandler.ChangePassword, auth)
	}

	usersGroup := apiV1.Group("/users")
	{
		usersGroup.GET("/me", r.userHandler.GetProfile, auth)
		usersGroup.PUT("/me", r.userHandler.UpdateProfile, auth)
		usersGroup.GET("/me/home", r.userHandler.GetHome, auth)
		usersGroup.GET("/:id", r.userHandler.GetPublicProfile)
	}

	sessionsGroup := apiV1.Group("/sessions", auth)
	{
		sessionsGroup.GET("", r.sessionHandler.ListSessions)
		sessionsGroup.DELETE("", r.sessionHandler.RevokeAllSessions)
		sessionsGroup.DELETE("/:id", r.sessionHandler.RevokeSession)
	}

	sellersGroup := apiV1.Group("/sellers", auth)
	{
		sellersGroup.GET("/me", r.sellerHandler.GetProfile)
		sellersGroup.PUT("/me", r.sellerHandler.UpdateProfile)
	}

	categoriesGroup := apiV1.Group("/categories")
	{
		categoriesGroup.GET("", r.categoryHandler.GetTree)
		categoriesGroup.POST("", r.categoryHandler.CreateCategory, auth)
		categoriesGroup.GET("/:id/auctions", r.categoryHandler.GetCategoryPage, r.authMiddleware.OptionalAuthenticate)
	}

	itemsGroup := apiV1.Group("/items")
	{
		itemsGroup.POST("", r.itemHandler.CreateListing, auth)
		itemsGroup.GET("/:id", r.itemHandler.GetItem)
		itemsGroup.PUT("/:id", r.itemHandler.UpdateItem, auth)
		itemsGroup.POST("/:id/auctions", r.itemHandler.ListExistingItem, auth)
	}

	auctionsGroup := apiV1.Group("/auctions")
	{
		auctionsGroup.GET("", r.auctionHandler.Browse, r.authMiddleware.OptionalAuthenticate)
		auctionsGroup.GET("/search", r.auctionHandler.Search)
		auctionsGroup.GET("/:id", r.auctionHandler.GetAuction)
		auctionsGroup.GET("/:id/ended", r.auctionHandler.GetEndedAuction, auth)
		auctionsGroup.POST("/:id/settle", r.auctionHandler.Settle, auth)
		auctionsGroup.GET("/:id/bids", r.auctionHandler.GetBidHistory, auth)
		auctionsGroup.POST("/:id/bids", r.auctionHandler.PlaceBid, auth)
		auctionsGroup.POST("/:id/payments", r.paymentHandler.Pay, auth)
	}

	salesGroup := apiV1.Group("/sales", auth)
	{
		salesGroup.GET("", r.paymentHandler.ListSales)
		salesGroup.PATCH("/:id", r.paymentHandler.UpdatePaymentStatus)
		salesGroup.GET("/:id/invoice.png", r.paymentHandler.GetInvoiceQR)
	}
}
