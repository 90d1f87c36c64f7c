package main

import (
	"context"
	"os"

	"rideshare/config"
	"rideshare/pkg/logger"
	"rideshare/storage"
	"rideshare/storage/postgres"
	"rideshare/storage/redis"
)

// Deletes every persisted collection so the next start seeds demo data again.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	ctx := context.Background()

	var (
		blob storage.IBlobStorage
		err  error
	)
	switch cfg.StorageDriver {
	case config.StorageRedis:
		blob, err = redis.New(ctx, cfg, log)
	case config.StoragePostgres:
		blob, err = postgres.New(ctx, cfg, log)
	default:
		log.Info("Memory storage keeps nothing between runs, nothing to reset.")
		return
	}
	if err != nil {
		log.Error("Failed to open snapshot storage", logger.Error(err))
		os.Exit(1)
	}
	defer blob.Close()

	for _, key := range storage.Keys {
		if err := blob.Delete(ctx, key); err != nil {
			log.Error("Failed to delete snapshot", logger.String("key", key), logger.Error(err))
			continue
		}
		log.Info("Deleted snapshot", logger.String("key", key))
	}
}
