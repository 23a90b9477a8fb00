package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"storefront-search-api/internal/config"
	"storefront-search-api/internal/search"
	"storefront-search-api/internal/storefront"
	"storefront-search-api/pkg/cache"
)

var version = "dev"

var (
	configPath   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Search a commerce storefront from the terminal",
	Long:          `Runs predictive and full searches against the configured storefront backend, or opens an interactive search screen.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("storefront version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("STOREFRONT_CONFIG"), "path to a .toml or .yaml config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newSuggestCommand())
	rootCmd.AddCommand(newBrowseCommand())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg     config.Config
	service *search.Service
	cache   *cache.RedisCache
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

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
		return nil, err
	}

	redisCache := cache.NewRedisCache(ctx, cfg.Cache)
	var searchCache search.Cache
	if redisCache.IsAvailable() {
		searchCache = redisCache
	}

	return &app{
		cfg:     cfg,
		service: search.NewService(client, searchCache, search.NewNormalizer(cfg.Storefront.LocalePrefix), search.SettingsFromConfig(cfg)),
		cache:   redisCache,
	}, nil
}

func (a *app) Close() {
	_ = a.cache.Close()
}

// writeStructured prints v as JSON or YAML. It reports false for the text
// format so the caller renders its own view.
func writeStructured(w io.Writer, v any) (bool, error) {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q", outputFormat)
	}
}
