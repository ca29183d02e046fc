package main

import (
	"context"
	"flag"
	"time"

	identityrepository "festas/internal/identity/repository"
	identityservice "festas/internal/identity/service"
	"festas/pkg/config"

	"github.com/joho/godotenv"
)

const JobName = "useradd"

// Accounts are provisioned by the condominium administrator; there is no
// self-service registration endpoint.
func main() {
	email := flag.String("email", "", "email address of the new user")
	password := flag.String("password", "", "initial password")
	displayName := flag.String("name", "", "display name shown on bookings")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	userRepo := identityrepository.NewMongoUserRepository(cfg)
	sessionRepo := identityrepository.NewMongoSessionRepository(cfg)
	identityService := identityservice.NewIdentityService(userRepo, sessionRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := identityService.Provision(ctx, *email, *password, *displayName)
	if err != nil {
		cfg.Log.Fatal("Failed to provision user", "email", *email, "error", err)
	}

	cfg.Log.Info("User created", "user_id", user.ID, "email", user.Email)
}
