package config

// EnvPrefix namespaces every variable consumed by Load.
const EnvPrefix = "BAKEHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "BAKEHOUSE_APP_ENV"
	EnvPort         = "BAKEHOUSE_APP_PORT"
	EnvLogLevel     = "BAKEHOUSE_LOG_LEVEL"
	EnvServiceKind  = "BAKEHOUSE_SERVICE_KIND"
	EnvCORSOrigins  = "BAKEHOUSE_CORS_ALLOWED_ORIGINS"
	EnvDBDSN        = "BAKEHOUSE_DB_DSN"
	EnvDBHost       = "BAKEHOUSE_DB_HOST"
	EnvDBPort       = "BAKEHOUSE_DB_PORT"
	EnvDBUser       = "BAKEHOUSE_DB_USER"
	EnvDBPassword   = "BAKEHOUSE_DB_PASSWORD"
	EnvDBName       = "BAKEHOUSE_DB_NAME"
	EnvDBSSLMode    = "BAKEHOUSE_DB_SSLMODE"
	EnvRedisURL     = "BAKEHOUSE_REDIS_URL"
	EnvJWTSecret    = "BAKEHOUSE_JWT_SECRET"
	EnvJWTIssuer    = "BAKEHOUSE_JWT_ISSUER"
	EnvUseSQLite    = "BAKEHOUSE_USE_SQLITE"
	EnvSQLitePath   = "BAKEHOUSE_SQLITE_PATH"
	EnvAutoMigrate  = "BAKEHOUSE_AUTO_MIGRATE"
	EnvCartTTL      = "BAKEHOUSE_CART_SESSION_TTL"
	EnvAdvanceMin   = "BAKEHOUSE_CHECKOUT_ADVANCE_THRESHOLD"
	EnvAdvanceRate  = "BAKEHOUSE_CHECKOUT_ADVANCE_RATE"
	EnvGCPProjectID = "BAKEHOUSE_GCP_PROJECT_ID"
	EnvGCPCredsJSON = "BAKEHOUSE_GCP_CREDENTIALS_JSON"
	EnvOrdersTopic  = "BAKEHOUSE_PUBSUB_ORDERS_TOPIC"
	EnvOutboxBatch  = "BAKEHOUSE_OUTBOX_PUBLISH_BATCH_SIZE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
