package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stockroom/internal/config"
	"stockroom/internal/db"
	"stockroom/internal/model"
	"stockroom/internal/repository"
)

func main() {
	username := flag.String("username", "admin", "administrator username")
	password := flag.String("password", "", "administrator password (required)")
	email := flag.String("email", "", "administrator email")
	flag.Parse()

	if *password == "" {
		log.Fatal("a password is required, pass -password")
	}
	if len(*password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	existing, err := userRepo.FindByUsername(ctx, *username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up %q: %v", *username, err)
	}
	if existing != nil {
		if existing.Role == model.RoleAdmin {
			log.Printf("Account %q already exists with the administrator role, nothing to do", *username)
			return
		}
		log.Fatalf("Account %q already exists without the administrator role, refusing to overwrite", *username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		Username:     *username,
		PasswordHash: string(hash),
		Email:        *email,
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}
	log.Printf("Administrator %q created (id %s)", admin.Username, admin.ID)
}
