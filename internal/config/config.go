package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment
type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Minio         MinioConfig
	LogLevel      string
	LogPretty     bool
	Console       ConsoleConfig
}

// MinioConfig contains the image storage settings
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ConsoleConfig contains merchandising console behaviour, read from the
// [console] table of the optional TOML file
type ConsoleConfig struct {
	PathSeparator     string   `toml:"path_separator"`
	VariantSortPolicy string   `toml:"variant_sort_policy"`
	CategoryCacheTTL  Duration `toml:"category_cache_ttl"`
	CacheWarmInterval Duration `toml:"cache_warm_interval"`
	ImageURLExpiry    Duration `toml:"image_url_expiry"`
	TimeZone          string   `toml:"time_zone"`
	WarmTenants       []string `toml:"warm_tenants"`
}

type fileConfig struct {
	Console ConsoleConfig `toml:"console"`
}

// Duration lets TOML files use "10m" style values
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultConsoleConfig returns the console settings used when no file overrides them
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		PathSeparator:     " > ",
		VariantSortPolicy: "last",
		CategoryCacheTTL:  Duration{10 * time.Minute},
		CacheWarmInterval: Duration{5 * time.Minute},
		ImageURLExpiry:    Duration{15 * time.Minute},
		TimeZone:          "UTC",
	}
}

// Load reads .env (if present), the environment and the optional console file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "product-images"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: os.Getenv("LOG_PRETTY") == "true",
		Console:   DefaultConsoleConfig(),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		console, err := LoadConsoleConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Console = console
	}
	return cfg, nil
}

// LoadConsoleConfig decodes the [console] table of a TOML file over the defaults
func LoadConsoleConfig(filename string) (ConsoleConfig, error) {
	fc := fileConfig{Console: DefaultConsoleConfig()}
	if _, err := toml.DecodeFile(filename, &fc); err != nil {
		return ConsoleConfig{}, fmt.Errorf("failed to load config file: %w", err)
	}
	return fc.Console, fc.Console.validate()
}

func (c ConsoleConfig) validate() error {
	switch strings.ToLower(c.VariantSortPolicy) {
	case "last", "zero":
	default:
		return fmt.Errorf("variant_sort_policy must be one of: last, zero")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone %q: %w", c.TimeZone, err)
	}
	return nil
}

// Location resolves the configured time zone, UTC when unset
func (c ConsoleConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
