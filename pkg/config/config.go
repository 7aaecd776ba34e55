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
	JWT          JWTConfig
	Stripe       StripeConfig
	Cart         CartConfig
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
	Env          string `envconfig:"CHITTS_APP_ENV" required:"true"`
	Port         string `envconfig:"CHITTS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CHITTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHITTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CHITTS_DB_DSN"`

	Host     string `envconfig:"CHITTS_DB_HOST"`
	Port     int    `envconfig:"CHITTS_DB_PORT" default:"5432"`
	User     string `envconfig:"CHITTS_DB_USER"`
	Password string `envconfig:"CHITTS_DB_PASSWORD"`
	Name     string `envconfig:"CHITTS_DB_NAME"`
	SSLMode  string `envconfig:"CHITTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHITTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHITTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHITTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHITTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHITTS_REDIS_URL"`
	Address      string        `envconfig:"CHITTS_REDIS_ADDR"`
	Password     string        `envconfig:"CHITTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHITTS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHITTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHITTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHITTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHITTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHITTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CHITTS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHITTS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CHITTS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type StripeConfig struct {
	APIKey         string `envconfig:"CHITTS_STRIPE_API_KEY"`
	PublishableKey string `envconfig:"CHITTS_STRIPE_PUBLISHABLE_KEY"`
	Env            string `envconfig:"CHITTS_STRIPE_ENV" default:"test"`
	MerchantName   string `envconfig:"CHITTS_STRIPE_MERCHANT_NAME" default:"CHITTS"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CartConfig struct {
	MirrorEnabled bool          `envconfig:"CHITTS_CART_MIRROR_ENABLED" default:"true"`
	MirrorTTL     time.Duration `envconfig:"CHITTS_CART_MIRROR_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CHITTS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
