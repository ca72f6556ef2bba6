package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "VAPECLOUD"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

// Environment variable names, spelled out for error messages and tests.
const (
	EnvAppEnv   = "VAPECLOUD_APP_ENV"
	EnvPort     = "VAPECLOUD_APP_PORT"
	EnvLogLevel = "VAPECLOUD_LOG_LEVEL"

	EnvDBDriver = "VAPECLOUD_DB_DRIVER"
	EnvDBDSN    = "VAPECLOUD_DB_DSN"
	EnvDBPath   = "VAPECLOUD_DB_PATH"

	EnvRedisURL = "VAPECLOUD_REDIS_URL"

	EnvJWTSecret  = "VAPECLOUD_JWT_SECRET"
	EnvJWTIssuer  = "VAPECLOUD_JWT_ISSUER"
	EnvJWTExpMins = "VAPECLOUD_JWT_EXPIRATION_MINUTES"

	EnvTelegramBotToken    = "VAPECLOUD_TELEGRAM_BOT_TOKEN"
	EnvTelegramAdminChatID = "VAPECLOUD_TELEGRAM_ADMIN_CHAT_ID"

	EnvCashbackRate = "VAPECLOUD_SHOP_CASHBACK_RATE"
)
