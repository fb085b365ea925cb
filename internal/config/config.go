// Package config содержит логику чтения конфигурации шлюза витрины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации шлюза витрины.
type Config struct {
	RunAddress             string        `env:"RUN_ADDRESS"`
	BackendAddress         string        `env:"BACKEND_ADDRESS"`
	RequestTimeout         time.Duration `env:"REQUEST_TIMEOUT"`
	ClientRetries          int           `env:"CLIENT_RETRIES"`
	CatalogRefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL"`
	RateLimitRPS           float64       `env:"RATE_LIMIT_RPS"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envBackendAddress := cfg.BackendAddress
	envRequestTimeout := cfg.RequestTimeout
	envClientRetries := cfg.ClientRetries
	envCatalogRefresh := cfg.CatalogRefreshInterval
	envRateLimit := cfg.RateLimitRPS

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.BackendAddress, "b", "", "storefront backend address")
	flag.DurationVar(&cfg.RequestTimeout, "t", 10*time.Second, "timeout for backend requests")
	flag.IntVar(&cfg.ClientRetries, "r", 3, "retries for transient backend failures")
	flag.DurationVar(&cfg.CatalogRefreshInterval, "c", 5*time.Minute, "catalog snapshot refresh interval")
	flag.Float64Var(&cfg.RateLimitRPS, "l", 5, "rate limit for auth endpoints, requests per second")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envBackendAddress != "" {
		cfg.BackendAddress = envBackendAddress
	}
	if envRequestTimeout != 0 {
		cfg.RequestTimeout = envRequestTimeout
	}
	if envClientRetries != 0 {
		cfg.ClientRetries = envClientRetries
	}
	if envCatalogRefresh != 0 {
		cfg.CatalogRefreshInterval = envCatalogRefresh
	}
	if envRateLimit != 0 {
		cfg.RateLimitRPS = envRateLimit
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
