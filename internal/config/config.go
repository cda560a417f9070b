package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Views backends supported by the analytics package.
const (
	ViewsBackendFile    = "file"
	ViewsBackendSurreal = "surreal"
	ViewsBackendRedis   = "redis"
)

// Provider exposes the application configuration to the rest of the code base.
// Packages depend on this interface rather than on the concrete Config so tests
// can hand in a stub.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string

	GetRevealInterval() time.Duration
	GetSlideInterval() time.Duration
	GetViewerIdleTimeout() time.Duration

	GetViewsBackend() string
	GetViewsFile() string

	GetDBURL() string
	GetDBUser() string
	GetDBPass() string
	GetDBNs() string
	GetDBDb() string

	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int

	GetAdminUsername() string
	GetAdminPassword() string

	MetricsEnabled() bool
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr       string
	AppBaseURL    string
	SessionSecret string

	RevealInterval    time.Duration
	SlideInterval     time.Duration
	ViewerIdleTimeout time.Duration

	ViewsBackend string
	ViewsFile    string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminUsername string
	AdminPassword string

	Metrics bool
}

var _ Provider = (*Config)(nil)

// New loads configuration from a .env file (if present) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		AppAddr:       getEnv("APP_ADDR", ":8080"),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret: getEnv("SESSION_SECRET", "quirk-lab-development-secret"),

		RevealInterval:    getDuration("REVEAL_INTERVAL", 150*time.Millisecond),
		SlideInterval:     getDuration("SLIDE_INTERVAL", 5*time.Second),
		ViewerIdleTimeout: getDuration("VIEWER_IDLE_TIMEOUT", 30*time.Minute),

		ViewsBackend: getEnv("VIEWS_BACKEND", ViewsBackendFile),
		ViewsFile:    getEnv("VIEWS_FILE", "data/views.json"),

		DBUrl:  os.Getenv("SURREAL_URL"),
		DBUser: os.Getenv("SURREAL_USER"),
		DBPass: os.Getenv("SURREAL_PASS"),
		DBNs:   os.Getenv("SURREAL_NS"),
		DBDb:   os.Getenv("SURREAL_DB"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		Metrics: getBool("METRICS_ENABLED", true),
	}
}

// Validate checks that the settings required by the selected backends are present.
func (c *Config) Validate() error {
	switch c.ViewsBackend {
	case ViewsBackendFile:
		if c.ViewsFile == "" {
			return errors.New("VIEWS_FILE must be set when VIEWS_BACKEND=file")
		}
	case ViewsBackendSurreal:
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			return errors.New("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
		}
	case ViewsBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR must be set when VIEWS_BACKEND=redis")
		}
	default:
		return errors.New("VIEWS_BACKEND must be one of \"file\", \"surreal\" or \"redis\"")
	}
	if c.RevealInterval <= 0 {
		return errors.New("REVEAL_INTERVAL must be a positive duration")
	}
	if c.SlideInterval <= 0 {
		return errors.New("SLIDE_INTERVAL must be a positive duration")
	}
	return nil
}

func (c *Config) GetAppAddr() string       { return c.AppAddr }
func (c *Config) GetAppBaseURL() string    { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }

func (c *Config) GetRevealInterval() time.Duration    { return c.RevealInterval }
func (c *Config) GetSlideInterval() time.Duration     { return c.SlideInterval }
func (c *Config) GetViewerIdleTimeout() time.Duration { return c.ViewerIdleTimeout }

func (c *Config) GetViewsBackend() string { return c.ViewsBackend }
func (c *Config) GetViewsFile() string    { return c.ViewsFile }

func (c *Config) GetDBURL() string  { return c.DBUrl }
func (c *Config) GetDBUser() string { return c.DBUser }
func (c *Config) GetDBPass() string { return c.DBPass }
func (c *Config) GetDBNs() string   { return c.DBNs }
func (c *Config) GetDBDb() string   { return c.DBDb }

func (c *Config) GetRedisAddr() string     { return c.RedisAddr }
func (c *Config) GetRedisPassword() string { return c.RedisPassword }
func (c *Config) GetRedisDB() int          { return c.RedisDB }

func (c *Config) GetAdminUsername() string { return c.AdminUsername }
func (c *Config) GetAdminPassword() string { return c.AdminPassword }

func (c *Config) MetricsEnabled() bool { return c.Metrics }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
