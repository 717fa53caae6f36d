package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/config"
	"github.com/oksasatya/vaccine-accounts/internal/container"
	pginfra "github.com/oksasatya/vaccine-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/vaccine-accounts/internal/interface/middleware"
	"github.com/oksasatya/vaccine-accounts/internal/router"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
	"github.com/oksasatya/vaccine-accounts/pkg/validation"
)

func main() {
	configPath := flag.String("config", config.PathFromEnv(), "path to a JSON config file")
	flag.Parse()

	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.ApplyFile(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("invalid config: %v", err)
		os.Exit(2)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	var db *sql.DB
	if cfg.Storage == config.StoragePostgres {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		db = pginfra.OpenDB(pool)
		defer func() { _ = db.Close() }()

		if cfg.AutoMigrate {
			if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				logger.Fatalf("migration failed: %v", err)
			}
		}
	} else {
		logger.Warn("using in-memory storage; data is lost on restart")
	}

	rdb := redisClient(ctx, cfg, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	c, err := container.New(cfg, logger, db, rdb)
	if err != nil {
		logger.Fatalf("failed to build container: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP(), middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r, "")
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// redisClient returns nil when rate limiting is off or Redis is unreachable;
// the limiter then lets every request through.
func redisClient(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if !cfg.RateLimitEnabled {
		return nil
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb == nil {
		helpers.LogInfo(logger, "redis not configured, rate limiting disabled", nil)
		return nil
	}
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		helpers.LogError(logger, "redis unreachable, rate limiting disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.CORSOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}
