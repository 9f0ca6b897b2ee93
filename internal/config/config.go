// Package config loads the relay configuration from an optional config.yaml
// plus environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Freshdesk FreshdeskConfig `koanf:"freshdesk"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type FreshdeskConfig struct {
	// Domain is the Freshdesk subdomain (<domain>.freshdesk.com).
	Domain string `koanf:"domain"`
	APIKey string `koanf:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type RateLimitConfig struct {
	// MaxRequests per client IP per Window.
	MaxRequests int           `koanf:"max_requests"`
	Window      time.Duration `koanf:"window"`
}

// defaultOrigins are the production landing pages plus local dev servers.
var defaultOrigins = []string{
	"https://ninechat.com.br",
	"https://www.ninechat.com.br",
	"http://localhost:5173",
	"http://localhost:3000",
}

// Load reads config.yaml when present, then applies SENDFORM_-prefixed
// environment variables ("__" maps to nesting, e.g.
// SENDFORM_FRESHDESK__API_KEY). The bare FRESHDESK_DOMAIN / FRESHDESK_API_KEY
// / PORT variables of the original deployment are honored too, so existing
// environments keep working. It fails when the Freshdesk credentials are
// missing: the relay is useless without them.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("SENDFORM_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SENDFORM_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Legacy flat variables take effect only where nothing else set a value.
	applyLegacyEnv(k)

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 3000)
	}
	if !k.Exists("cors.allowed_origins") {
		k.Set("cors.allowed_origins", defaultOrigins)
	}
	if !k.Exists("rate_limit.max_requests") {
		k.Set("rate_limit.max_requests", 20)
	}
	if !k.Exists("rate_limit.window") {
		k.Set("rate_limit.window", "60s")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Freshdesk.Domain == "" || cfg.Freshdesk.APIKey == "" {
		return nil, fmt.Errorf("freshdesk domain and api key are required (set FRESHDESK_DOMAIN and FRESHDESK_API_KEY)")
	}

	return &cfg, nil
}

func applyLegacyEnv(k *koanf.Koanf) {
	legacy := map[string]string{
		"freshdesk.domain":  "FRESHDESK_DOMAIN",
		"freshdesk.api_key": "FRESHDESK_API_KEY",
		"server.port":       "PORT",
	}
	for key, envVar := range legacy {
		if !k.Exists(key) {
			if v := os.Getenv(envVar); v != "" {
				k.Set(key, v)
			}
		}
	}
}
