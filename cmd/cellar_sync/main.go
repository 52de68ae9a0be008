package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cellar-sync/internal/cellar_sync/api"
	"cellar-sync/internal/cellar_sync/helper"
	"cellar-sync/internal/cellar_sync/processor"
	"cellar-sync/internal/middleware/logger"
	"cellar-sync/pkg/config"
)

func main() {
	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	ctx := context.Background()

	log.Info("Starting cellar sync service...")

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	stores := helper.MustMongo(
		ctx,
		cfg.Mongo.Host,
		cfg.Mongo.DBName,
		cfg.Mongo.Username,
		cfg.Mongo.Password,
		cfg.Mongo.AuthSource,
	)

	pipeline := &processor.Pipeline{
		Log: log,
		Client: &processor.Client{
			BaseURL:    cfg.CellarTracker.BaseURL,
			User:       cfg.CellarTracker.User,
			Password:   cfg.CellarTracker.Password,
			HTTPClient: &http.Client{Timeout: 60 * time.Second},
			Log:        log,
		},
		Store: stores,
	}

	srv := &api.Server{Log: log, Stores: stores, Pipeline: pipeline}
	r := srv.Router()
	_ = r.SetTrustedProxies(nil)
	log.Info("Cellar sync service is running", zap.String("address", cfg.Server.Addr))
	_ = r.Run(cfg.Server.Addr)
}
