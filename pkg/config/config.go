package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Postback     PostbackConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"PRIZELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"PRIZELINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRIZELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRIZELINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRIZELINK_DB_DSN"`
	Driver string `envconfig:"PRIZELINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRIZELINK_DB_HOST"`
	LegacyPort     int    `envconfig:"PRIZELINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRIZELINK_DB_USER"`
	LegacyPassword string `envconfig:"PRIZELINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRIZELINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRIZELINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRIZELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRIZELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRIZELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRIZELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRIZELINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRIZELINK_REDIS_ADDR"`
	Password     string        `envconfig:"PRIZELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRIZELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRIZELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRIZELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRIZELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRIZELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRIZELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PostbackConfig drives the reconciliation engine. Secret is optional: when
// empty, postbacks are accepted without the shared-secret check, matching the
// behavior networks are configured against today.
type PostbackConfig struct {
	Secret string `envconfig:"PRIZELINK_POSTBACK_SECRET"`

	// Scope namespaces the redis dedup marks, so staging and production
	// postbacks pointed at one redis never collide.
	Scope string `envconfig:"PRIZELINK_POSTBACK_SCOPE" default:"registrations"`

	DedupTTL time.Duration `envconfig:"PRIZELINK_POSTBACK_DEDUP_TTL" default:"720h"`

	// FallbackBucket is the time-bucket width used in the dedup key when a
	// postback carries neither a transaction id nor an offer id.
	FallbackBucket time.Duration `envconfig:"PRIZELINK_POSTBACK_FALLBACK_BUCKET" default:"1h"`
}

type RateLimitConfig struct {
	AdminWindow time.Duration `envconfig:"PRIZELINK_RATE_LIMIT_ADMIN_WINDOW" default:"1m"`
	AdminLimit  int           `envconfig:"PRIZELINK_RATE_LIMIT_ADMIN_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRIZELINK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
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
