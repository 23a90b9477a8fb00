package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront-search-api/internal/config"
	"storefront-search-api/internal/search"
	"storefront-search-api/internal/server"
	"storefront-search-api/internal/storefront"
	"storefront-search-api/pkg/cache"
)

func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to a .toml or .yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := storefront.NewClient(storefront.Options{
		Endpoint:    cfg.Storefront.Endpoint,
		AccessToken: cfg.Storefront.AccessToken,
		Country:     cfg.Storefront.Country,
		Language:    cfg.Storefront.Language,
		Timeout:     cfg.Storefront.Timeout(),
		Parallelism: cfg.Storefront.Parallelism,
		Debug:       cfg.Storefront.DebugEnabled(),
	})
	if err != nil {
		log.Fatalf("Failed to create storefront client: %v", err)
	}

	redisCache := cache.NewRedisCache(ctx, cfg.Cache)
	defer redisCache.Close()

	var searchCache search.Cache
	if redisCache.IsAvailable() {
		searchCache = redisCache
	}
	svc := search.NewService(client, searchCache, search.NewNormalizer(cfg.Storefront.LocalePrefix), search.SettingsFromConfig(cfg))

	srv := server.New(cfg, svc, redisCache)
	if err := srv.Run(ctx); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
