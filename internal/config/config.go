package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values come from DefaultConfig,
// then an optional TOML/YAML file, then environment variables.
// MaxPredictiveLimit bounds the results per group of a predictive search.
const MaxPredictiveLimit = 6

type Config struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Storefront StorefrontConfig `toml:"storefront" yaml:"storefront"`
	Search     SearchConfig     `toml:"search" yaml:"search"`
	Cache      CacheConfig      `toml:"cache" yaml:"cache"`
	Filters    FiltersConfig    `toml:"filters" yaml:"filters"`
}

type ServerConfig struct {
	Port      string  `toml:"port" yaml:"port"`
	RateLimit float64 `toml:"rate_limit" yaml:"rate_limit"` // requests per second per IP
	RateBurst int     `toml:"rate_burst" yaml:"rate_burst"`
}

// StorefrontConfig points at the commerce backend's GraphQL endpoint.
type StorefrontConfig struct {
	Endpoint       string `toml:"endpoint" yaml:"endpoint"`
	AccessToken    string `toml:"access_token" yaml:"access_token"`
	Country        string `toml:"country" yaml:"country"`
	Language       string `toml:"language" yaml:"language"`
	LocalePrefix   string `toml:"locale_prefix" yaml:"locale_prefix"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
	Parallelism    int    `toml:"parallelism" yaml:"parallelism"`
	Debug          *bool  `toml:"debug" yaml:"debug"`
}

type SearchConfig struct {
	PredictiveLimit int  `toml:"predictive_limit" yaml:"predictive_limit"`
	PageBy          int  `toml:"page_by" yaml:"page_by"`
	PagesLimit      int  `toml:"pages_limit" yaml:"pages_limit"`
	ArticlesLimit   int  `toml:"articles_limit" yaml:"articles_limit"`
	DebounceMS      *int `toml:"debounce_ms" yaml:"debounce_ms"`
}

type CacheConfig struct {
	Enabled    *bool  `toml:"enabled" yaml:"enabled"`
	RedisURL   string `toml:"redis_url" yaml:"redis_url"`
	DB         int    `toml:"db" yaml:"db"`
	TTLSeconds int    `toml:"ttl_seconds" yaml:"ttl_seconds"`
}

// FiltersConfig lists the checkbox options offered for each filter dimension.
type FiltersConfig struct {
	Vendors []string `toml:"vendors" yaml:"vendors"`
	Types   []string `toml:"types" yaml:"types"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:      "8085",
			RateLimit: 10,
			RateBurst: 20,
		},
		Storefront: StorefrontConfig{
			Endpoint:       "https://mock.shop/api",
			Country:        "US",
			Language:       "EN",
			TimeoutSeconds: 8,
			Parallelism:    4,
			Debug:          boolPtr(false),
		},
		Search: SearchConfig{
			PredictiveLimit: 6,
			PageBy:          8,
			PagesLimit:      10,
			ArticlesLimit:   10,
			DebounceMS:      intPtr(200),
		},
		Cache: CacheConfig{
			Enabled:    boolPtr(true),
			RedisURL:   "redis://localhost:6379",
			DB:         0,
			TTLSeconds: 600,
		},
		Filters: FiltersConfig{
			Vendors: append([]string(nil), DefaultVendors...),
			Types:   append([]string(nil), DefaultTypes...),
		},
	}
}

// Load reads the optional config file at path, merges it onto the defaults
// and applies environment overrides. A .env file in the working directory is
// loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fileCfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(content, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return Config{}, errors.New("config file must be .toml, .yaml, or .yml")
	}
	return fileCfg, nil
}

func mergeConfig(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}
	if override.Server.RateLimit != 0 {
		base.Server.RateLimit = override.Server.RateLimit
	}
	if override.Server.RateBurst != 0 {
		base.Server.RateBurst = override.Server.RateBurst
	}

	if override.Storefront.Endpoint != "" {
		base.Storefront.Endpoint = override.Storefront.Endpoint
	}
	if override.Storefront.AccessToken != "" {
		base.Storefront.AccessToken = override.Storefront.AccessToken
	}
	if override.Storefront.Country != "" {
		base.Storefront.Country = override.Storefront.Country
	}
	if override.Storefront.Language != "" {
		base.Storefront.Language = override.Storefront.Language
	}
	if override.Storefront.LocalePrefix != "" {
		base.Storefront.LocalePrefix = override.Storefront.LocalePrefix
	}
	if override.Storefront.TimeoutSeconds != 0 {
		base.Storefront.TimeoutSeconds = override.Storefront.TimeoutSeconds
	}
	if override.Storefront.Parallelism != 0 {
		base.Storefront.Parallelism = override.Storefront.Parallelism
	}
	if override.Storefront.Debug != nil {
		base.Storefront.Debug = override.Storefront.Debug
	}

	if override.Search.PredictiveLimit != 0 {
		base.Search.PredictiveLimit = override.Search.PredictiveLimit
	}
	if override.Search.PageBy != 0 {
		base.Search.PageBy = override.Search.PageBy
	}
	if override.Search.PagesLimit != 0 {
		base.Search.PagesLimit = override.Search.PagesLimit
	}
	if override.Search.ArticlesLimit != 0 {
		base.Search.ArticlesLimit = override.Search.ArticlesLimit
	}
	if override.Search.DebounceMS != nil {
		base.Search.DebounceMS = override.Search.DebounceMS
	}

	if override.Cache.Enabled != nil {
		base.Cache.Enabled = override.Cache.Enabled
	}
	if override.Cache.RedisURL != "" {
		base.Cache.RedisURL = override.Cache.RedisURL
	}
	if override.Cache.DB != 0 {
		base.Cache.DB = override.Cache.DB
	}
	if override.Cache.TTLSeconds != 0 {
		base.Cache.TTLSeconds = override.Cache.TTLSeconds
	}

	if len(override.Filters.Vendors) > 0 {
		base.Filters.Vendors = override.Filters.Vendors
	}
	if len(override.Filters.Types) > 0 {
		base.Filters.Types = override.Filters.Types
	}

	return base
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if endpoint := os.Getenv("STOREFRONT_ENDPOINT"); endpoint != "" {
		cfg.Storefront.Endpoint = endpoint
	}
	if token := os.Getenv("STOREFRONT_ACCESS_TOKEN"); token != "" {
		cfg.Storefront.AccessToken = token
	}
	if country := os.Getenv("STOREFRONT_COUNTRY"); country != "" {
		cfg.Storefront.Country = country
	}
	if language := os.Getenv("STOREFRONT_LANGUAGE"); language != "" {
		cfg.Storefront.Language = language
	}
	if prefix, ok := os.LookupEnv("STOREFRONT_LOCALE_PREFIX"); ok {
		cfg.Storefront.LocalePrefix = prefix
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Cache.RedisURL = redisURL
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"REDIS_DB", &cfg.Cache.DB},
		{"CACHE_TTL", &cfg.Cache.TTLSeconds},
		{"STOREFRONT_TIMEOUT", &cfg.Storefront.TimeoutSeconds},
	}
	for _, env := range ints {
		if v := os.Getenv(env.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env.name, err)
			}
			*env.dst = n
		}
	}

	if v := os.Getenv("SEARCH_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SEARCH_DEBOUNCE_MS: %w", err)
		}
		cfg.Search.DebounceMS = intPtr(n)
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_ENABLED: %w", err)
		}
		cfg.Cache.Enabled = boolPtr(enabled)
	}
	return nil
}

// Validate checks values that would otherwise fail later at request time.
func (cfg Config) Validate() error {
	if cfg.Storefront.Endpoint == "" {
		return errors.New("storefront endpoint is required")
	}
	if cfg.Search.PredictiveLimit <= 0 || cfg.Search.PredictiveLimit > MaxPredictiveLimit {
		return fmt.Errorf("search.predictive_limit must be between 1 and %d", MaxPredictiveLimit)
	}
	if cfg.Search.PageBy <= 0 {
		return errors.New("search.page_by must be positive")
	}
	if cfg.Search.DebounceMS != nil && *cfg.Search.DebounceMS < 0 {
		return errors.New("search.debounce_ms cannot be negative")
	}
	return nil
}

// Timeout is the per-request deadline applied to backend calls.
func (s StorefrontConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s StorefrontConfig) DebugEnabled() bool {
	return s.Debug != nil && *s.Debug
}

func (s SearchConfig) Debounce() time.Duration {
	if s.DebounceMS == nil {
		return 0
	}
	return time.Duration(*s.DebounceMS) * time.Millisecond
}

func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func boolPtr(v bool) *bool {
	return &v
}

func intPtr(v int) *int {
	return &v
}
