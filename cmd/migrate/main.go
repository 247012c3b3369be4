package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/config"
	"coursestore-backend/internal/infrastructure/database"
	"coursestore-backend/pkg/logger"
)

// Usage:
//
//	migrate -cmd up
//	migrate -cmd down -steps 1
//	migrate -cmd force -version 1
//	migrate -cmd version
func main() {
	cmd := flag.String("cmd", "up", "up | down | force | version")
	steps := flag.Int("steps", 0, "number of migrations to apply for up/down (0 = all)")
	version := flag.Int("version", -1, "version for force")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dsn := database.NewPostgresDB(cfg.DBConfig()).DSN()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate driver")
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.Database.MigrationsPath, "postgres", driver)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.MigrationsPath).Msg("Failed to load migrations")
	}

	if err := run(m, *cmd, *steps, *version); err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("Migration failed")
	}

	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal().Err(err).Msg("Failed to read migration version")
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("Migrations done")
}

func run(m *migrate.Migrate, cmd string, steps, version int) error {
	var err error
	switch cmd {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "force":
		if version < 0 {
			return errors.New("force requires -version")
		}
		err = m.Force(version)
	case "version":
		return nil
	default:
		return errors.New("unknown command: " + cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("No migrations to apply")
		return nil
	}
	return err
}
