// Package container holds the components constructed at startup and hands
// them to the router. It replaces process-wide singletons.
package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/config"
	repo "github.com/oksasatya/vaccine-accounts/internal/domain/repository"
	"github.com/oksasatya/vaccine-accounts/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/vaccine-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *sql.DB       // nil with in-memory storage
	Redis  *redis.Client // nil disables rate limiting
	Tokens *helpers.TokenManager
	Users  repo.UserRepository
}

// New builds the container, choosing the user repository from cfg.Storage.
func New(cfg *config.Config, logger *logrus.Logger, db *sql.DB, rdb *redis.Client) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  rdb,
		Tokens: helpers.NewTokenManager(cfg.SecretKey, cfg.TokenTTL),
	}
	switch cfg.Storage {
	case config.StorageMemory:
		c.Users = memory.NewUserRepository()
	case config.StoragePostgres:
		if db == nil {
			return nil, fmt.Errorf("container: postgres storage needs a database")
		}
		c.Users = pginfra.NewUserRepository(db)
	default:
		return nil, config.ErrBadStorage
	}
	if !cfg.RateLimitEnabled {
		c.Redis = nil
	}
	return c, nil
}

// Ping checks the backing services. Missing optional ones are skipped.
func (c *Container) Ping(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if c.Redis != nil {
		if err := helpers.PingRedis(ctx, c.Redis); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
