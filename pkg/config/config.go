package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"BAKEHOUSE_APP_ENV" required:"true"`
	Port         string   `envconfig:"BAKEHOUSE_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"BAKEHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"BAKEHOUSE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"BAKEHOUSE_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BAKEHOUSE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN        string `envconfig:"BAKEHOUSE_DB_DSN"`
	Driver     string `envconfig:"BAKEHOUSE_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"BAKEHOUSE_SQLITE_PATH" default:"file:bakehouse.db?cache=shared"`

	LegacyHost     string `envconfig:"BAKEHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"BAKEHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAKEHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"BAKEHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAKEHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAKEHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAKEHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAKEHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAKEHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAKEHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAKEHOUSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAKEHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"BAKEHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAKEHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAKEHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAKEHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAKEHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAKEHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAKEHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds the shared secret used to verify tokens minted by the
// identity service. This backend never issues tokens in production.
type JWTConfig struct {
	Secret string `envconfig:"BAKEHOUSE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"BAKEHOUSE_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BAKEHOUSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BAKEHOUSE_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"BAKEHOUSE_CART_SESSION_TTL" default:"72h"`
}

type CheckoutConfig struct {
	AdvanceThreshold string        `envconfig:"BAKEHOUSE_CHECKOUT_ADVANCE_THRESHOLD" default:"1000"`
	AdvanceRate      string        `envconfig:"BAKEHOUSE_CHECKOUT_ADVANCE_RATE" default:"0.5"`
	IdempotencyTTL   time.Duration `envconfig:"BAKEHOUSE_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

// AdvanceThresholdAmount parses AdvanceThreshold. Load has already validated it.
func (c CheckoutConfig) AdvanceThresholdAmount() decimal.Decimal {
	return decimal.RequireFromString(c.AdvanceThreshold)
}

// AdvanceRateValue parses AdvanceRate. Load has already validated it.
func (c CheckoutConfig) AdvanceRateValue() decimal.Decimal {
	return decimal.RequireFromString(c.AdvanceRate)
}

func (c CheckoutConfig) validate() error {
	threshold, err := decimal.NewFromString(c.AdvanceThreshold)
	if err != nil || threshold.IsNegative() {
		return fmt.Errorf("%s must be a non-negative amount", EnvAdvanceMin)
	}
	rate, err := decimal.NewFromString(c.AdvanceRate)
	if err != nil || !rate.IsPositive() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be within (0, 1]", EnvAdvanceRate)
	}
	return nil
}

type GCPConfig struct {
	ProjectID       string `envconfig:"BAKEHOUSE_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"BAKEHOUSE_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"BAKEHOUSE_PUBSUB_ORDERS_TOPIC" default:"bakehouse-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BAKEHOUSE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BAKEHOUSE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BAKEHOUSE_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
