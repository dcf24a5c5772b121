package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"clientdesk/internal/config"
	"clientdesk/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch command {
	case "up":
		err = db.MigrateUp(ctx, database)
	case "down":
		err = db.MigrateDown(ctx, database)
	case "status":
		err = db.MigrationStatus(ctx, database)
	default:
		logger.Fatal("unknown command", zap.String("command", command))
	}
	if err != nil {
		logger.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
	logger.Info("migration complete", zap.String("command", command))
}
