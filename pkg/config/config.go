package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Telegram TelegramConfig
	Shop     ShopConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VAPECLOUD_APP_ENV" default:"dev"`
	Port         string `envconfig:"VAPECLOUD_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VAPECLOUD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VAPECLOUD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"VAPECLOUD_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"VAPECLOUD_DB_DSN"`
	Path   string `envconfig:"VAPECLOUD_DB_PATH" default:"data/shop.db"`

	MaxOpenConns    int           `envconfig:"VAPECLOUD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VAPECLOUD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VAPECLOUD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VAPECLOUD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBPath)
		}
	case DBDriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

// RedisConfig is optional: an empty URL disables the locations cache.
type RedisConfig struct {
	URL          string        `envconfig:"VAPECLOUD_REDIS_URL"`
	DialTimeout  time.Duration `envconfig:"VAPECLOUD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VAPECLOUD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VAPECLOUD_REDIS_WRITE_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"VAPECLOUD_REDIS_CACHE_TTL" default:"5m"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"VAPECLOUD_JWT_SECRET" default:"dev-only-secret"`
	Issuer            string `envconfig:"VAPECLOUD_JWT_ISSUER" default:"vapecloud"`
	ExpirationMinutes int    `envconfig:"VAPECLOUD_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the session token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type TelegramConfig struct {
	BotToken    string `envconfig:"VAPECLOUD_TELEGRAM_BOT_TOKEN"`
	BotUsername string `envconfig:"VAPECLOUD_TELEGRAM_BOT_USERNAME"`
	AdminChatID int64  `envconfig:"VAPECLOUD_TELEGRAM_ADMIN_CHAT_ID"`
}

type ShopConfig struct {
	CashbackRate float64 `envconfig:"VAPECLOUD_SHOP_CASHBACK_RATE" default:"0.03"`
}

// CashbackDecimal returns the cashback rate as an exact decimal.
func (s ShopConfig) CashbackDecimal() decimal.Decimal {
	return decimal.NewFromFloat(s.CashbackRate)
}
