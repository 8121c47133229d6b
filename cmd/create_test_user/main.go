package main

import (
	"context"
	"log"
	"os"

	"spudverse/internal/db"
	"spudverse/internal/domain"
	"spudverse/internal/repository"
	"spudverse/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewAccountRepository(pool)
	ctx := context.Background()

	userID := int64(1234567890)

	acc, err := repo.GetByID(ctx, userID)
	if err == nil {
		log.Printf("account already exists user_id=%d balance=%d\n", acc.UserID, acc.Balance)
	} else {
		acc = &domain.Account{
			UserID:    userID,
			Username:  "testspud",
			FirstName: "Tester",
		}
		if err := repo.Create(ctx, acc); err != nil {
			log.Fatalf("create account failed: %v", err)
		}
		log.Printf("account created user_id=%d\n", acc.UserID)
	}

	acc2, err := repo.GetByID(ctx, userID)
	if err != nil {
		log.Fatalf("get account failed: %v", err)
	}
	log.Printf("fetched account user_id=%d username=%s energy=%d/%d level=%d\n",
		acc2.UserID, acc2.Username, acc2.Energy, acc2.MaxEnergy, acc2.Level)

	service.InitJWT(os.Getenv("JWT_SECRET"))
	token, err := service.GenerateJWT(acc2.UserID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
