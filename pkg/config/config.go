package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "NOTICES_DB_DSN"
	EnvDBHost = "NOTICES_DB_HOST"
	EnvDBUser = "NOTICES_DB_USER"
	EnvDBName = "NOTICES_DB_NAME"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	Aggregation  AggregationConfig
	Export       ExportConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file:notices.db?cache=shared"
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NOTICES_APP_ENV" required:"true"`
	Port         string `envconfig:"NOTICES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NOTICES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NOTICES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"NOTICES_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"NOTICES_DB_DSN"`
	Driver string `envconfig:"NOTICES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NOTICES_DB_HOST"`
	LegacyPort     int    `envconfig:"NOTICES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NOTICES_DB_USER"`
	LegacyPassword string `envconfig:"NOTICES_DB_PASSWORD"`
	LegacyName     string `envconfig:"NOTICES_DB_NAME"`
	LegacySSLMode  string `envconfig:"NOTICES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NOTICES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NOTICES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NOTICES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NOTICES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NOTICES_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NOTICES_REDIS_ADDR"`
	Password     string        `envconfig:"NOTICES_REDIS_PASSWORD"`
	DB           int           `envconfig:"NOTICES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NOTICES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NOTICES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NOTICES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NOTICES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NOTICES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"NOTICES_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"NOTICES_CRON_LOCK_TTL" default:"25h"`
}

type AggregationConfig struct {
	SummaryRetentionDays int `envconfig:"NOTICES_SUMMARY_RETENTION_DAYS" default:"365"`
}

type ExportConfig struct {
	Delimiter string `envconfig:"NOTICES_EXPORT_DELIMITER" default:"tab"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"NOTICES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"NOTICES_AUTO_MIGRATE" default:"false"`
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
