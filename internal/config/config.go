package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config captures all runtime configuration. Keys match the lower-cased
// environment variable names.
type Config struct {
	Environment      string `koanf:"environment"`
	Port             string `koanf:"port"`
	ReadTimeoutSecs  int    `koanf:"server_read_timeout"`
	WriteTimeoutSecs int    `koanf:"server_write_timeout"`
	IdleTimeoutSecs  int    `koanf:"server_idle_timeout"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	StoreDriver       string `koanf:"store_driver"`
	DBURL             string `koanf:"db_url"`
	DBMaxConns        int    `koanf:"db_max_conns"`
	DBMinConns        int    `koanf:"db_min_conns"`
	DBMaxIdleSecs     int    `koanf:"db_max_conn_idle_secs"`
	DBMaxLifeSecs     int    `koanf:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs int    `koanf:"db_conn_timeout_secs"`
	DBStatementCache  int    `koanf:"db_statement_cache_capacity"`
	MongoURI          string `koanf:"mongo_uri"`
	MongoDatabase     string `koanf:"mongo_database"`

	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	CORSOrigins           []string `koanf:"cors_origins"`
	RateLimitRequests     int      `koanf:"rate_limit_requests"`
	RateLimitWindowSecs   int      `koanf:"rate_limit_window_secs"`
	AuthRateLimitRequests int      `koanf:"auth_rate_limit_requests"`

	CloudinaryCloudName string `koanf:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `koanf:"cloudinary_api_key"`
	CloudinaryAPISecret string `koanf:"cloudinary_api_secret"`
	UploadFolder        string `koanf:"upload_folder"`
	UploadMaxBytes      int64  `koanf:"upload_max_bytes"`
	UploadMaxWidth      int    `koanf:"upload_max_width"`
	UploadTimeoutSecs   int    `koanf:"upload_timeout_secs"`
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool {
	return c.Environment == EnvProduction
}

// UploadsConfigured reports whether all Cloudinary credentials are present.
func (c Config) UploadsConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func defaults() Config {
	return Config{
		Environment:           EnvDevelopment,
		Port:                  "8080",
		ReadTimeoutSecs:       15,
		WriteTimeoutSecs:      15,
		IdleTimeoutSecs:       60,
		LogLevel:              "info",
		LogFormat:             "json",
		StoreDriver:           DriverPostgres,
		DBMaxConns:            20,
		DBMinConns:            2,
		DBMaxIdleSecs:         300,
		DBMaxLifeSecs:         3600,
		DBConnTimeoutSecs:     10,
		DBStatementCache:      256,
		MongoDatabase:         "recipebox",
		TokenTTL:              time.Hour,
		CORSOrigins:           []string{"http://localhost:5173"},
		RateLimitRequests:     100,
		RateLimitWindowSecs:   900,
		AuthRateLimitRequests: 20,
		UploadFolder:          "recipe_app",
		UploadMaxBytes:        5 << 20,
		UploadMaxWidth:        800,
		UploadTimeoutSecs:     20,
	}
}

// Load layers struct defaults, an optional YAML file and the environment,
// then validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := splitList(k, "cors_origins"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList turns a comma separated env value into a string slice.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// Validate checks required keys and numeric bounds.
func (c Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("ENVIRONMENT must be %q or %q", EnvDevelopment, EnvProduction)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET is required and must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", DriverPostgres, DriverMongo)
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if c.RateLimitRequests <= 0 || c.AuthRateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and AUTH_RATE_LIMIT_REQUESTS must be positive")
	}
	if c.RateLimitWindowSecs <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECS must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.UploadMaxWidth <= 0 {
		return fmt.Errorf("UPLOAD_MAX_WIDTH must be positive")
	}
	if c.UploadTimeoutSecs <= 0 {
		return fmt.Errorf("UPLOAD_TIMEOUT_SECS must be positive")
	}
	return nil
}
