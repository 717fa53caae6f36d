// Command seed creates the admin account. It goes through the account
// service, so it refuses to create a second admin.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/config"
	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	pginfra "github.com/oksasatya/vaccine-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
)

func main() {
	configPath := flag.String("config", config.PathFromEnv(), "path to a JSON config file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.ApplyFile(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	db := pginfra.OpenDB(pool)
	defer func() { _ = db.Close() }()

	svc := application.NewService(pginfra.NewUserRepository(db), helpers.NewTokenManager(cfg.SecretKey, cfg.TokenTTL), logger)
	msg, err := svc.Register(ctx, application.RegisterInput{
		Email:       cfg.SeedAdminEmail,
		Password:    cfg.SeedAdminPassword,
		Name:        cfg.SeedAdminName,
		AccountType: entity.AccountTypeAdmin,
	})
	if errors.Is(err, application.ErrAlreadyExists) {
		helpers.LogInfo(logger, "admin already present, nothing to seed", logrus.Fields{"email": cfg.SeedAdminEmail})
		return
	}
	if err != nil {
		helpers.LogError(logger, "failed to seed admin", err, nil)
		log.Fatal(err)
	}
	helpers.LogInfo(logger, msg, logrus.Fields{"email": cfg.SeedAdminEmail})
}
