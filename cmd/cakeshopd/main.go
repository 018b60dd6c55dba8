package main

import (
	"cakeshop/internal/config"
	httpinfra "cakeshop/internal/infra/http"
	"cakeshop/internal/infra/kv"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var backend kv.Store
	if cfg.RedisAddr != "" {
		redisStore, err := kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to init redis store", zap.Error(err))
		}
		backend = redisStore
	} else {
		logger.Info("REDIS_ADDR not set; starting with in-memory store")
		backend = kv.NewMemoryStore()
	}

	srv := httpinfra.NewServer(cfg, backend, logger)

	logger.Info("cakeshop listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
