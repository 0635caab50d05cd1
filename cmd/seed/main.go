// Command seed наполняет базу демо-данными: admin@example.com,
// user@example.com и два демо-товара. Повторный запуск ничего не дублирует.
package main

import (
	"context"
	"time"

	"webstarter/internal/config"
	"webstarter/internal/database"
	"webstarter/internal/logger"
)

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database.URL, cfg.Env)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		logger.Fatal("Seed failed", "error", err)
	}
	logger.Info("🎉 Seed completed")
}
