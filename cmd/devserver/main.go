package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dokanapp/storefront-go/api/controllers"
	"github.com/dokanapp/storefront-go/api/routes"
	"github.com/dokanapp/storefront-go/pkg/config"
	"github.com/dokanapp/storefront-go/pkg/db"
	"github.com/dokanapp/storefront-go/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "devserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "devserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.AutoMigrate(); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}

	repo, err := controllers.NewRepo(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create repository", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	router := routes.NewRouter(cfg, logg, dbClient, repo, registry)

	addr := ":" + cfg.App.Port
	ctx := logg.WithField(context.Background(), "addr", addr)
	logg.Info(ctx, "storefront dev server listening")

	if err := http.ListenAndServe(addr, router); err != nil {
		logg.Error(context.Background(), "server stopped", err)
		os.Exit(1)
	}
}
