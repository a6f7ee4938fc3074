package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Session  SessionConfig
	Store    StoreConfig
	Redis    RedisConfig
	Backend  BackendConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Consent  ConsentConfig
	Payment  PaymentConfig
	Poller   PollerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SOUTHCLUB_APP_ENV" required:"true"`
	Port         string `envconfig:"SOUTHCLUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOUTHCLUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOUTHCLUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SessionConfig controls how the storefront session id travels with requests.
type SessionConfig struct {
	Header     string        `envconfig:"SOUTHCLUB_SESSION_HEADER" default:"X-Session-Id"`
	CookieName string        `envconfig:"SOUTHCLUB_SESSION_COOKIE" default:"sc_session"`
	CookieTTL  time.Duration `envconfig:"SOUTHCLUB_SESSION_COOKIE_TTL" default:"8760h"`
}

// StoreConfig points at the local SQLite file backing the session KV store.
type StoreConfig struct {
	Path        string `envconfig:"SOUTHCLUB_STORE_PATH" default:"southclub.db"`
	AutoMigrate bool   `envconfig:"SOUTHCLUB_STORE_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOUTHCLUB_REDIS_URL"`
	Address      string        `envconfig:"SOUTHCLUB_REDIS_ADDR"`
	Password     string        `envconfig:"SOUTHCLUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOUTHCLUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOUTHCLUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOUTHCLUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOUTHCLUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOUTHCLUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOUTHCLUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// BackendConfig describes the remote commerce API.
type BackendConfig struct {
	BaseURL string        `envconfig:"SOUTHCLUB_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SOUTHCLUB_BACKEND_TIMEOUT" default:"10s"`
}

// CatalogConfig tunes the product catalog cache.
type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"SOUTHCLUB_CATALOG_CACHE_TTL" default:"5m"`
}

// CheckoutConfig carries the business rules applied to the checkout flow.
type CheckoutConfig struct {
	ShippingFeeCents int64 `envconfig:"SOUTHCLUB_CHECKOUT_SHIPPING_FEE_CENTS" default:"299"`
	LeadTimeDays     int   `envconfig:"SOUTHCLUB_CHECKOUT_LEAD_TIME_DAYS" default:"7"`
	MaxAdvanceMonths int   `envconfig:"SOUTHCLUB_CHECKOUT_MAX_ADVANCE_MONTHS" default:"3"`
}

type ConsentConfig struct {
	Version string `envconfig:"SOUTHCLUB_CONSENT_VERSION" default:"1.0"`
}

// PaymentConfig describes the hosted payment widget integration.
type PaymentConfig struct {
	WidgetURL string `envconfig:"SOUTHCLUB_PAYMENT_WIDGET_URL" default:"https://yookassa.ru/checkout-widget/v1/checkout-widget.js"`
	ReturnURL string `envconfig:"SOUTHCLUB_PAYMENT_RETURN_URL" required:"true"`
}

type PollerConfig struct {
	Interval time.Duration `envconfig:"SOUTHCLUB_POLLER_INTERVAL" default:"30s"`
}
