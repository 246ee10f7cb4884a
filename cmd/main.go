package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront-service/internal/api"
	"storefront-service/internal/config"
	"storefront-service/internal/consumer"
	"storefront-service/internal/entity"
	"storefront-service/internal/notify"
	"storefront-service/internal/payment"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sampleProducts() []*entity.Product {
	now := time.Now().UTC()
	return []*entity.Product{
		{
			ID:          "product-1",
			Name:        "Conta Roblox Básica",
			Description: "Conta Roblox com 100 Robux e itens básicos. Ideal para iniciantes.",
			Price:       19.9,
			Features:    []string{"100 Robux", "Itens Básicos", "Email Verificado"},
			ImageURL:    "/images/roblox-1.jpg",
			Stock:       5,
			CreatedAt:   now,
		},
		{
			ID:          "product-2",
			Name:        "Conta Roblox Premium",
			Description: "Conta Roblox com 1000 Robux, Premium ativado e diversos itens raros.",
			Price:       49.9,
			Features:    []string{"1000 Robux", "Premium Ativado", "Itens Raros", "Email Verificado"},
			ImageURL:    "/images/roblox-2.jpg",
			Stock:       3,
			CreatedAt:   now,
		},
		{
			ID:          "product-3",
			Name:        "Conta Roblox VIP",
			Description: "Conta Roblox com 5000 Robux, Premium ativado, itens exclusivos e raros.",
			Price:       99.9,
			Features:    []string{"5000 Robux", "Premium Ativado", "Itens Exclusivos", "Itens Raros", "Email Verificado"},
			ImageURL:    "/images/roblox-3.jpg",
			Stock:       2,
			CreatedAt:   now,
		},
		{
			ID:          "product-4",
			Name:        "Conta Roblox Ultimate",
			Description: "Conta Roblox com 10000 Robux, Premium ativado, itens limitados e exclusivos.",
			Price:       199.9,
			Features:    []string{"10000 Robux", "Premium Ativado", "Itens Limitados", "Itens Exclusivos", "Email Verificado"},
			ImageURL:    "/images/roblox-4.jpg",
			Stock:       1,
			CreatedAt:   now,
		},
	}
}

func main() {
	db, err := connectDBEnv(envOr("DB_HOST", "127.0.0.1"), envOr("DB_PORT", "3306"),
		envOr("DB_USER", "root"), os.Getenv("DB_PASS"), envOr("DB_NAME", "storefront"))
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateCollections(3, db, store.Collections...); err != nil {
		log.Fatalf("Failed to migrate record tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter(config.OrderTopic)
	jwtSecret := []byte(envOr("JWT_SECRET", "secret"))

	mysqlStore := store.NewMySQLStore(db)
	redisStore := store.NewRedisStore(rdb)

	productRepo := repository.NewProductRepository(mysqlStore)
	orderRepo := repository.NewOrderRepository(mysqlStore)
	userRepo := repository.NewUserRepository(mysqlStore)
	settingsRepo := repository.NewSettingsRepository(mysqlStore)
	cartRepo := repository.NewCartRepository(redisStore)

	productService := service.NewProductService(productRepo, rdb)
	orderService := service.NewOrderService(orderRepo, productService, kafkaWriter)
	userService := service.NewUserService(userRepo, rdb, jwtSecret)
	settingsService := service.NewSettingsService(settingsRepo, envOr("CALLBACK_URL", "http://localhost:8080/api/webhook"))

	ctx := context.Background()
	if err := productService.SeedProducts(ctx, sampleProducts()); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	if err := userService.SeedAdmin(ctx, envOr("ADMIN_EMAIL", "admin@thebuxx.com"), envOr("ADMIN_PASS", "admin123")); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := productService.PreWarmCache(ctx); err != nil {
		log.Printf("Failed to pre-warm product cache: %v", err)
	}

	gateway := payment.NewSimulator()
	notifier := notify.NewLogNotifier()

	productHandler := api.NewProductHandler(productService)
	orderHandler := api.NewOrderHandler(orderService)
	userHandler := api.NewUserHandler(userService)
	cartHandler := api.NewCartHandler(cartRepo, productService)
	checkoutHandler := api.NewCheckoutHandler(orderService, productService, cartRepo, gateway, notifier, rdb)
	settingsHandler := api.NewSettingsHandler(settingsService)

	deliveryConsumer := consumer.NewConsumer(orderService)
	go deliveryConsumer.StartKafkaConsumer(ctx)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	newClaims := func(c echo.Context) jwt.Claims { return new(service.JwtCustomClaims) }
	requireJWT := echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: newClaims,
		SigningKey:    jwtSecret,
	})
	// optionalJWT parses a token when present but lets anonymous requests
	// through; carts work for logged-out sessions via X-Session-ID.
	optionalJWT := echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc:          newClaims,
		SigningKey:             jwtSecret,
		ContinueOnIgnoredError: true,
		ErrorHandler:           func(c echo.Context, err error) error { return nil },
	})

	e.GET("/products", productHandler.GetProducts)
	e.GET("/products/:id", productHandler.GetProduct)
	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)

	cart := e.Group("/cart", optionalJWT)
	cart.GET("", cartHandler.GetCart)
	cart.POST("", cartHandler.AddItem)
	cart.PUT("/:productId", cartHandler.UpdateItem)
	cart.DELETE("/:productId", cartHandler.RemoveItem)
	cart.DELETE("", cartHandler.ClearCart)

	auth := e.Group("", requireJWT)
	auth.POST("/logout", userHandler.Logout)
	auth.GET("/orders", orderHandler.GetOrders)
	auth.GET("/orders/:id", orderHandler.GetOrder)
	auth.POST("/checkout", checkoutHandler.Initiate)
	auth.GET("/checkout/:orderId/status", checkoutHandler.Status)
	auth.DELETE("/checkout/:orderId", checkoutHandler.Cancel)

	admin := e.Group("/admin", requireJWT, api.AdminOnly)
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.POST("/products/:id/stock", productHandler.AdjustStock)
	admin.GET("/orders", orderHandler.GetAllOrders)
	admin.GET("/settings", settingsHandler.GetSettings)
	admin.PUT("/settings", settingsHandler.UpdateSettings)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "storefront-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + envOr("PORT", "8080")))
}
