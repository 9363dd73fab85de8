package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/internal/store"
	"github.com/stitts-dev/sports-query-engine/pkg/config"
	"github.com/stitts-dev/sports-query-engine/pkg/database"
	"github.com/stitts-dev/sports-query-engine/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		repo := store.NewRepository(db, sports.NewRegistry(cfg.SupportedSports), structuredLogger)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := repo.Seed(ctx, time.Now()); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(models.Tables()...); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// name search runs LOWER(name) LIKE; postgres can serve that from trigram indexes
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	statements := []string{
		"CREATE EXTENSION IF NOT EXISTS pg_trgm",
		"CREATE INDEX IF NOT EXISTS idx_players_name_trgm ON players USING gin (LOWER(name) gin_trgm_ops)",
		"CREATE INDEX IF NOT EXISTS idx_teams_name_trgm ON teams USING gin (LOWER(name) gin_trgm_ops)",
		"CREATE INDEX IF NOT EXISTS idx_player_season_stats_season ON player_season_stats(season)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func dropTables(db *database.DB) error {
	for _, table := range models.TableNames() {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
