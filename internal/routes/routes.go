// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"time"

	"balcao/internal/config"
	"balcao/internal/handlers"
	"balcao/internal/middleware"
	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/auth"
	"balcao/internal/services/feeconfig"
	"balcao/internal/services/kyc"
	"balcao/internal/services/notification"
	"balcao/internal/services/order"
	"balcao/internal/services/pricefeed"
	"balcao/internal/services/quote"
	"balcao/internal/services/user"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires repositories, services, and handlers, then mounts
// every route group. The returned price feed must be started by the
// caller so its lifetime follows the process context.
func SetupRoutes(app *fiber.App) pricefeed.Service {
	// Repositories
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	assetRepo := repositories.NewAssetRepository(repositories.DB)
	feeRepo := repositories.NewFeeConfigRepository(repositories.DB)
	orderRepo := repositories.NewOrderRepository(repositories.DB)
	kycRepo := repositories.NewKYCRepository(repositories.DB)
	notificationRepo := repositories.NewNotificationRepository(repositories.DB)

	// Services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	notificationService := notification.NewService(notificationRepo, userRepo)
	kycService := kyc.NewService(kycRepo, userRepo, notificationService)
	feeService := feeconfig.NewService(feeRepo, repositories.CacheService)

	feedClient := pricefeed.NewHTTPClient(
		config.GetEnv("PRICE_FEED_URL", "http://localhost:8090"),
		10*time.Second,
	)
	feedService := pricefeed.NewService(feedClient, assetRepo, repositories.CacheService, pricefeed.Config{
		PollInterval: config.GetDurationEnv("PRICE_POLL_INTERVAL", 30*time.Second),
		MaxAge:       config.GetDurationEnv("PRICE_MAX_AGE", 2*time.Minute),
		SnapshotTTL:  config.GetDurationEnv("PRICE_SNAPSHOT_TTL", 10*time.Minute),
	})

	quoteService := quote.NewService(assetRepo, feedService, feeService)
	orderService := order.NewService(orderRepo, userRepo, quoteService, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	orderHandler := handlers.NewOrderHandler(orderService)
	kycHandler := handlers.NewKYCHandler(kycService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	feeHandler := handlers.NewFeeConfigHandler(feeService)
	adminHandler := handlers.NewAdminHandler(userRepo, assetRepo, orderService)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Balcão OTC API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	// Public endpoints
	api := app.Group("/api")
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Authenticated routes
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Put("/profile/pix-key", userHandler.UpdatePixKey)

	protected.Get("/assets", quoteHandler.ListAssets)
	protected.Post("/quote", middleware.HasPermission(models.PermissionQuoteRead), quoteHandler.GetQuote)

	orders := protected.Group("/orders")
	orders.Post("/", middleware.HasPermission(models.PermissionOrderWrite), orderHandler.CreateOrder)
	orders.Get("/", middleware.HasPermission(models.PermissionOrderRead), orderHandler.ListOrders)
	orders.Get("/:reference", middleware.HasPermission(models.PermissionOrderRead), orderHandler.GetOrder)
	orders.Post("/:reference/cancel", middleware.HasPermission(models.PermissionOrderWrite), orderHandler.CancelOrder)

	kycRoutes := protected.Group("/kyc")
	kycRoutes.Post("/", middleware.HasPermission(models.PermissionKYCSubmit), kycHandler.SubmitVerification)
	kycRoutes.Get("/status", kycHandler.GetStatus)

	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Back-office routes. Operators hold read and review permissions;
	// everything mutating money configuration is admin only.
	admin := app.Group("/api/admin", authMiddleware.Handler)
	admin.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.GetUsersPaginated)
	admin.Post("/users/:id/deactivate", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.DeactivateUser)
	admin.Get("/orders", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListOrders)
	admin.Put("/orders/:reference/status", middleware.HasPermission(models.PermissionWriteAdmin), orderHandler.UpdateOrderStatus)

	admin.Get("/assets", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListAssets)
	admin.Post("/assets", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.CreateAsset)
	admin.Put("/assets/:symbol", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.UpdateAsset)

	fees := admin.Group("/fees")
	fees.Get("/tiers", middleware.HasPermission(models.PermissionFeeConfigRead), feeHandler.GetTierTable)
	fees.Put("/tiers", middleware.HasPermission(models.PermissionFeeConfigWrite), feeHandler.ReplaceTierTable)
	fees.Get("/overrides/:symbol", middleware.HasPermission(models.PermissionFeeConfigRead), feeHandler.GetOverride)
	fees.Put("/overrides/:symbol", middleware.HasPermission(models.PermissionFeeConfigWrite), feeHandler.SetOverride)
	fees.Delete("/overrides/:symbol", middleware.HasPermission(models.PermissionFeeConfigWrite), feeHandler.ClearOverride)
	fees.Get("/audit", middleware.HasPermission(models.PermissionFeeConfigRead), feeHandler.AuditTrail)

	kycAdmin := admin.Group("/kyc")
	kycAdmin.Get("/pending", middleware.HasPermission(models.PermissionKYCReview), kycHandler.PendingQueue)
	kycAdmin.Post("/:id/approve", middleware.HasPermission(models.PermissionKYCReview), kycHandler.Approve)
	kycAdmin.Post("/:id/reject", middleware.HasPermission(models.PermissionKYCReview), kycHandler.Reject)

	admin.Post("/notifications/broadcast", middleware.HasPermission(models.PermissionNotifyBroadcast), notificationHandler.Broadcast)

	return feedService
}
