package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	Returns      ReturnsConfig
	SMTP         SMTPConfig
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
	Env          string `envconfig:"KIRANAPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"KIRANAPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KIRANAPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIRANAPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig identifies the shop printed on invoices.
type StoreConfig struct {
	Name    string `envconfig:"KIRANAPOS_STORE_NAME" default:"Kirana POS"`
	Address string `envconfig:"KIRANAPOS_STORE_ADDRESS" default:""`
}

type DBConfig struct {
	DSN string `envconfig:"KIRANAPOS_DB_DSN"`

	Host     string `envconfig:"KIRANAPOS_DB_HOST"`
	Port     int    `envconfig:"KIRANAPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"KIRANAPOS_DB_USER"`
	Password string `envconfig:"KIRANAPOS_DB_PASSWORD"`
	Name     string `envconfig:"KIRANAPOS_DB_NAME"`
	SSLMode  string `envconfig:"KIRANAPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIRANAPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIRANAPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIRANAPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIRANAPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIRANAPOS_REDIS_URL"`
	Address      string        `envconfig:"KIRANAPOS_REDIS_ADDR"`
	Password     string        `envconfig:"KIRANAPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIRANAPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIRANAPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIRANAPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIRANAPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIRANAPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIRANAPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KIRANAPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KIRANAPOS_JWT_ISSUER" default:"kiranapos"`
	ExpirationMinutes int    `envconfig:"KIRANAPOS_JWT_EXPIRATION_MINUTES" default:"480"`
	SessionTTLMinutes int    `envconfig:"KIRANAPOS_SESSION_TTL_MINUTES" default:"720"`
}

// SessionTTL returns the redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type AuthConfig struct {
	LoginWindow        time.Duration `envconfig:"KIRANAPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"KIRANAPOS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KIRANAPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`

	// Seed credentials for the first admin, created at startup when the
	// employees table is empty. Change the password immediately in prod.
	SeedAdminUsername string `envconfig:"KIRANAPOS_AUTH_SEED_ADMIN_USERNAME" default:"admin"`
	SeedAdminPassword string `envconfig:"KIRANAPOS_AUTH_SEED_ADMIN_PASSWORD" default:"admin123"`
}

// ReturnsConfig controls the recent-sales window offered on the returns screen.
// Older sales remain refundable when addressed by id directly.
type ReturnsConfig struct {
	LookbackDays int `envconfig:"KIRANAPOS_RETURNS_LOOKBACK_DAYS" default:"10"`
}

func (r ReturnsConfig) Lookback() time.Duration {
	if r.LookbackDays <= 0 {
		return 0
	}
	return time.Duration(r.LookbackDays) * 24 * time.Hour
}

// SMTPConfig configures best-effort invoice delivery. Empty host disables sending.
type SMTPConfig struct {
	Host     string `envconfig:"KIRANAPOS_SMTP_HOST"`
	Port     int    `envconfig:"KIRANAPOS_SMTP_PORT" default:"587"`
	Username string `envconfig:"KIRANAPOS_SMTP_USERNAME"`
	Password string `envconfig:"KIRANAPOS_SMTP_PASSWORD"`
	From     string `envconfig:"KIRANAPOS_SMTP_FROM"`
}

func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != "" && strings.TrimSpace(s.From) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KIRANAPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for envName, value := range map[string]string{
		"KIRANAPOS_DB_HOST": db.Host,
		"KIRANAPOS_DB_USER": db.User,
		"KIRANAPOS_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either KIRANAPOS_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
