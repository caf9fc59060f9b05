package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PRICING"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PRICING_APP_ENV"
	EnvPort   = "PRICING_APP_PORT"
	EnvDBDSN  = "PRICING_DB_DSN"
	EnvDBHost = "PRICING_DB_HOST"
	EnvDBUser = "PRICING_DB_USER"
	EnvDBName = "PRICING_DB_NAME"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Promotions   PromotionsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRICING_APP_ENV" required:"true"`
	Port         string `envconfig:"PRICING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRICING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRICING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRICING_DB_DSN"`
	Driver string `envconfig:"PRICING_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRICING_DB_HOST"`
	LegacyPort     int    `envconfig:"PRICING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRICING_DB_USER"`
	LegacyPassword string `envconfig:"PRICING_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRICING_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRICING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICING_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRICING_REDIS_ADDR"`
	Password     string        `envconfig:"PRICING_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RateLimitConfig throttles promo-code validation to slow down code guessing.
type RateLimitConfig struct {
	ValidateWindow        time.Duration `envconfig:"PRICING_RATE_LIMIT_VALIDATE_WINDOW" default:"1m"`
	ValidateIPLimit       int           `envconfig:"PRICING_RATE_LIMIT_VALIDATE_IP_LIMIT" default:"30"`
	ValidateCustomerLimit int           `envconfig:"PRICING_RATE_LIMIT_VALIDATE_CUSTOMER_LIMIT" default:"10"`
}

// PromotionsConfig tunes the apply path.
type PromotionsConfig struct {
	ApplyMaxRetries int `envconfig:"PRICING_PROMOTIONS_APPLY_MAX_RETRIES" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRICING_AUTO_MIGRATE" default:"false"`
}

// ensureDSN accepts either a full DSN or the legacy discrete host/user/name
// variables and synthesizes a postgres URL from them.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	legacyDBEnvVars := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	var missing []string
	for env, value := range legacyDBEnvVars {
		if value == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
