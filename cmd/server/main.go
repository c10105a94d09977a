package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nerdgeek/tienda/internal/cache"
	"github.com/nerdgeek/tienda/internal/config"
	"github.com/nerdgeek/tienda/internal/database"
	"github.com/nerdgeek/tienda/internal/handler"
	"github.com/nerdgeek/tienda/internal/journal"
	"github.com/nerdgeek/tienda/internal/middleware"
	"github.com/nerdgeek/tienda/internal/notify"
	"github.com/nerdgeek/tienda/internal/repository"
	"github.com/nerdgeek/tienda/internal/service"
	"github.com/nerdgeek/tienda/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Notification audit journal
	journalInstance, err := journal.New(cfg.JournalPath)
	if err != nil {
		log.Fatalf("Failed to initialize notification journal: %v", err)
	}
	defer journalInstance.Close()

	// Redis: catalog cache + rate limiter
	catalogCache, err := cache.NewRedisCatalogCache(cfg.RedisURL, cfg.CatalogCacheTTL)
	if err != nil {
		log.Fatalf("Failed to initialize catalog cache: %v", err)
	}
	defer catalogCache.Close()

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)

	// Outbound notification channels
	emailSender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	webhookSender := notify.NewCallMeBotSender(cfg.WebhookURL, cfg.WebhookPhone, cfg.WebhookAPIKey, cfg.NotifyTimeout)
	dispatcher := notify.NewDispatcher(emailSender, webhookSender, journalInstance, cfg.BaseURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, emailSender, cfg)
	catalogService := service.NewCatalogService(productRepo, orderRepo, catalogCache)
	orderService := service.NewOrderService(orderRepo, productRepo, chatRepo, userRepo, dispatcher)
	chatService := service.NewChatService(chatRepo, orderRepo, dispatcher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	chatHandler := handler.NewChatHandler(chatService)

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(authService.IsProduction()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public routes
	router.GET("/", catalogHandler.Home)
	router.GET("/nosotros", catalogHandler.Nosotros)
	router.GET("/galeria/:categoria", catalogHandler.Gallery)
	router.GET("/activate/:uid/:token", authHandler.Activate)

	// Public but rate limited (bot deterrent on account endpoints)
	limited := router.Group("/")
	limited.Use(rateLimiter.Middleware())
	{
		limited.POST("/registro", authHandler.Register)
		limited.POST("/api/auth/login", authHandler.Login)
	}

	// Authenticated routes
	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.POST("/producto/:id/comprar", orderHandler.CreateOrder)
		authed.GET("/mis-pedidos", orderHandler.ListOrders)
		authed.GET("/pedido/:id", orderHandler.GetOrderDetail)
		authed.POST("/pedido/:id/enviar", chatHandler.SendMessage)

		// Admin-only (non-superusers bounce home)
		admin := authed.Group("/")
		admin.Use(middleware.SuperuserMiddleware())
		{
			admin.GET("/pedido/:id/cambiar-estado/:estado", orderHandler.ChangeStatus)
			admin.POST("/admin/productos", catalogHandler.CreateProduct)
			admin.PUT("/admin/productos/:id", catalogHandler.UpdateProduct)
			admin.DELETE("/admin/productos/:id", catalogHandler.DeleteProduct)
			admin.POST("/admin/productos/:id/ejemplos", catalogHandler.AddExample)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
