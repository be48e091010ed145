// Package config reads runtime configuration from environment variables.
//
// Configuration is loaded once in main and passed into components at
// construction. Nothing in the application reads the process environment
// after startup — this keeps the GitHub client and session layer pure
// functions of their inputs, and trivially testable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
)

// CacheBackend enumerates supported page-cache backends.
type CacheBackend string

const (
	// CacheBackendMemory keeps rendered pages in-process.
	CacheBackendMemory CacheBackend = "memory"
	// CacheBackendRedis keeps rendered pages in Redis.
	CacheBackendRedis CacheBackend = "redis"
)

// GitHubConfig identifies the OAuth app and the target repository.
// The repository reference is immutable for the process lifetime.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	RepoOwner    string
	RepoName     string
	PostsPath    string // subdirectory inside the repo where posts are committed
}

// CacheConfig selects and configures the rendered-page cache.
type CacheConfig struct {
	Backend       CacheBackend
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Config aggregates runtime configuration.
type Config struct {
	Port          int
	BaseURL       string
	TemplateDir   string
	StaticDir     string
	DBPath        string
	PostsDir      string // local checkout of the posts directory, for reading
	SessionSecret string
	GitHub        GitHubConfig
	Cache         CacheConfig
}

// Load reads configuration from environment variables.
//
// Missing required values are collected and reported together so an operator
// fixes one startup failure, not five in a row.
func Load() (*Config, error) {
	port := envInt("PORT", 8080)

	baseURL := envDefault("BASE_URL", fmt.Sprintf("http://localhost:%d", port))
	baseURL = strings.TrimRight(baseURL, "/")

	cfg := &Config{
		Port:          port,
		BaseURL:       baseURL,
		TemplateDir:   envDefault("TEMPLATE_DIR", "web/templates"),
		StaticDir:     envDefault("STATIC_DIR", "web/static"),
		DBPath:        envDefault("DB_PATH", "data/blog.db"),
		PostsDir:      envDefault("POSTS_DIR", "posts"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		GitHub: GitHubConfig{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			CallbackURL:  baseURL + "/auth/github/callback",
			RepoOwner:    os.Getenv("GITHUB_REPO_OWNER"),
			RepoName:     os.Getenv("GITHUB_REPO_NAME"),
			PostsPath:    envDefault("GITHUB_POSTS_PATH", "posts"),
		},
		Cache: CacheConfig{
			Backend:       CacheBackend(strings.ToLower(envDefault("CACHE_BACKEND", string(CacheBackendMemory)))),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisUsername: os.Getenv("REDIS_USERNAME"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       envInt("REDIS_DB", 0),
			TTL:           envDuration("CACHE_TTL", time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if c.GitHub.ClientID == "" {
		missing = append(missing, "GITHUB_CLIENT_ID")
	}
	if c.GitHub.ClientSecret == "" {
		missing = append(missing, "GITHUB_CLIENT_SECRET")
	}
	if c.GitHub.RepoOwner == "" {
		missing = append(missing, "GITHUB_REPO_OWNER")
	}
	if c.GitHub.RepoName == "" {
		missing = append(missing, "GITHUB_REPO_NAME")
	}
	if len(missing) > 0 {
		return apperror.Configuration("missing required environment variables: " + strings.Join(missing, ", "))
	}

	if len(c.SessionSecret) < 16 {
		return apperror.Configuration("SESSION_SECRET must be at least 16 characters")
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return apperror.Configuration("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return apperror.Configuration(fmt.Sprintf("unknown CACHE_BACKEND %q", c.Cache.Backend))
	}

	return nil
}

func envDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}
