// Command migrate applies or rolls back the users schema.
//
//	migrate [-config file.json] up|down|version
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/oksasatya/vaccine-accounts/config"
	pginfra "github.com/oksasatya/vaccine-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
)

func main() {
	configPath := flag.String("config", config.PathFromEnv(), "path to a JSON config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] up|down|version\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.ApplyFile(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	m, err := pginfra.NewMigrator(cfg.PostgresDSN(), cfg.MigrationsDir)
	if err != nil {
		logger.Fatalf("failed to open migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			logger.Info("no migration applied")
			return
		}
		if verr != nil {
			logger.Fatalf("version: %v", verr)
		}
		logger.WithField("dirty", dirty).Infof("schema version %d", v)
		return
	default:
		flag.Usage()
		os.Exit(2)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return
	}
	if err != nil {
		logger.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
	logger.Infof("migrate %s done", flag.Arg(0))
}
