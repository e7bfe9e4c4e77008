package main

import (
	"context"
	"fmt"
	"log"
	httpmetrics "myShopHub/app/echo-server/metrics"
	"myShopHub/app/echo-server/router"
	"myShopHub/business/admin"
	"myShopHub/business/notification"
	"myShopHub/business/orders"
	"myShopHub/business/payments"
	"myShopHub/business/product"
	"myShopHub/business/review"
	userService "myShopHub/business/user"
	"myShopHub/internal/chat"
	"myShopHub/internal/messaging"
	"myShopHub/internal/middleware"
	"myShopHub/internal/repository/google"
	mailjet "myShopHub/internal/repository/notification"
	psqlRepo "myShopHub/internal/repository/postgres"
	redisRepo "myShopHub/internal/repository/redis"
	"myShopHub/internal/repository/storage"
	"myShopHub/internal/repository/xendit"
	"myShopHub/internal/rest"
	"myShopHub/internal/telemetry"
	"myShopHub/pkg/config"
	"myShopHub/pkg/database"
	redisClient "myShopHub/pkg/database/redis"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"myShopHub/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	dispatcherQueueSize = 256
	dispatcherWorkers   = 4
	deliveryTimeout     = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting myShopHub", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)

	shutdownTracer, err := telemetry.InitTracerProvider(context.Background(), cfg.Telemetry.OTLPEndpoint, cfg.App.Name, cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to init tracer provider", "error", err)
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.App.Name, cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to init meter provider", "error", err)
	}

	metrics.Init()
	httpmetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional; without it tokens live until they expire.
	var (
		tokenStore     userService.TokenStore
		tokenValidator middleware.TokenValidator
	)
	if cfg.Redis.Enabled() {
		rdb, err := redisClient.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisClient.CloseRedisClient(rdb)

		tokens := redisRepo.NewTokenRepository(rdb)
		tokenStore = tokens
		tokenValidator = tokens
		logger.Info("Redis token store enabled")
	}

	files, err := storage.NewLocalStorage(cfg.Server.UploadDir)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", "error", err)
	}

	mailjetEmail := mailjet.NewMailjetRepository(
		mailjet.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	xenditRepo := xendit.NewXenditRepository(
		xendit.XenditConfig{
			XenditApi:          cfg.Xendit.XenditSecretKey,
			XenditUrl:          cfg.Xendit.XenditUrl,
			SuccessRedirectUrl: cfg.Xendit.RedirectUrl,
			FailureRedirectUrl: cfg.Xendit.RedirectUrl,
		},
	)

	notificationService := notification.NewService(mailjetEmail, cfg.App.Name)

	// Order emails go through kafka when brokers are configured, otherwise
	// through the in-process dispatcher.
	var (
		notifier      orders.Notifier
		closeNotifier func(context.Context) error
	)
	if cfg.Kafka.Enabled() {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
		notifier = producer
		closeNotifier = producer.Close
		logger.Info("Notifications published to kafka", "topic", cfg.Kafka.NotificationTopic)
	} else {
		dispatcher := notification.NewDispatcher(notificationService, dispatcherQueueSize, dispatcherWorkers, deliveryTimeout)
		notifier = dispatcher
		closeNotifier = dispatcher.Close
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	paymentsRepo := psqlRepo.NewPaymentsRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)

	// Init service
	users := userService.NewUserService(userRepo, validate, tokenStore, google.NewVerifier(cfg.Google.ClientID), files)
	productService := product.NewProductService(productsRepo, files)
	ordersService := orders.NewOrdersService(ordersRepo, userRepo, notifier)
	paymentsService := payments.NewPaymentsService(paymentsRepo, ordersRepo, xenditRepo, cfg.Xendit.XenditWebhookVerificationToken)
	reviewService := review.NewReviewService(reviewRepo, productsRepo, userRepo)
	adminService := admin.NewAdminService(userRepo, productsRepo, ordersRepo)

	// Init handler
	userHandler := rest.NewUserHandler(users, files)
	productHandler := rest.NewProductHandler(productService, files)
	ordersHandler := rest.NewOrdersHandler(ordersService)
	paymentsHandler := rest.NewPaymentsHandler(paymentsService)
	webhookHandler := rest.NewWebhookController(paymentsService)
	reviewHandler := rest.NewReviewHandler(reviewService)
	adminHandler := rest.NewAdminHandler(adminService)
	emailHandler := rest.NewEmailHandler(notificationService)
	chatHandler := rest.NewChatHandler(chat.NewHub())

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(cfg.App.Name)))
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Static(storage.PublicPrefix, files.Dir())
	e.GET("/metrics", echo.WrapHandler(metricsHandler))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authRequired := middleware.AuthMiddleware(tokenValidator)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api")
	router.SetupAuthRoutes(api, userHandler, authRequired)
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetOrdersRoutes(api, ordersHandler, paymentsHandler, authRequired, adminOnly)
	router.SetWebhookHandler(api, webhookHandler)
	router.SetReviewRoutes(api, reviewHandler, authRequired)
	router.SetAdminRoutes(api, adminHandler, emailHandler, authRequired, adminOnly)
	router.SetChatRoutes(e, chatHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := closeNotifier(ctx); err != nil {
		logger.Error("Failed to drain notifications", "error", err)
	}

	if err := shutdownMeter(ctx); err != nil {
		logger.Error("Meter provider shutdown error", "error", err)
	}

	if err := shutdownTracer(ctx); err != nil {
		logger.Error("Tracer provider shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
