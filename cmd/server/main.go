package main

import (
	"context"
	"log"
	"net/http"

	_ "stockroom/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"stockroom/internal/auth"
	"stockroom/internal/cache"
	"stockroom/internal/chat"
	"stockroom/internal/config"
	"stockroom/internal/db"
	"stockroom/internal/handler"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/router"
	"stockroom/internal/service"
	"stockroom/internal/session"
	"stockroom/internal/storage"
	"stockroom/internal/web"
)

// @title Stockroom API
// @version 1.0
// @description Inventory management service with a JSON storefront API.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	sessionStore := session.NewRedisStore(rdb)
	cacheClient := cache.New(rdb)

	backend, err := newStorageBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	imageStore := storage.NewImageStore(backend)
	if err := storage.EnsureDefaultImage(ctx, imageStore); err != nil {
		log.Fatalf("placeholder image: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.SessionSecret)
	authService := service.NewAuthService(userRepo, sessionStore)
	productService := service.NewProductService(productRepo, imageStore, cacheClient)

	hub := chat.NewHub()
	go hub.Run(ctx)

	e := echo.New()
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = renderer

	// Initialize handlers
	pageHandler := handler.NewPageHandler(authService, productService, hub)
	productHandler := handler.NewProductHandler(productService, cfg)
	categoryHandler := handler.NewCategoryHandler()
	tokenHandler := handler.NewTokenHandler(authService, jwtService)
	uploadsHandler := handler.NewUploadsHandler(imageStore)

	// Register routes
	router.Register(
		e,
		cfg,
		sessionStore,
		jwtService,
		pageHandler,
		productHandler,
		categoryHandler,
		tokenHandler,
		uploadsHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func newStorageBackend(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	if cfg.StorageDriver == "minio" {
		return storage.NewMinioStorage(ctx, cfg)
	}
	return storage.NewLocalStorage(cfg.UploadsDir)
}
