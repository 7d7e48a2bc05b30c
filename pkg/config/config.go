package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BASKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "BASKET_APP_ENV"
	EnvPort     = "BASKET_APP_PORT"
	EnvDBDSN    = "BASKET_DB_DSN"
	EnvDBHost   = "BASKET_DB_HOST"
	EnvDBUser   = "BASKET_DB_USER"
	EnvDBName   = "BASKET_DB_NAME"
	EnvRedisURL = "BASKET_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	GCP          GCPConfig
	Eventing     EventingConfig
	Discount     DiscountConfig
	Basket       BasketConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Basket.StorageDriver == StorageDriverPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Eventing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BASKET_APP_ENV" required:"true"`
	Port         string `envconfig:"BASKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BASKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BASKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BASKET_DB_DSN"`
	Driver string `envconfig:"BASKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BASKET_DB_HOST"`
	LegacyPort     int    `envconfig:"BASKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BASKET_DB_USER"`
	LegacyPassword string `envconfig:"BASKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"BASKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"BASKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BASKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BASKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BASKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BASKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BASKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BASKET_REDIS_ADDR"`
	Password     string        `envconfig:"BASKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"BASKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BASKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BASKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BASKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BASKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BASKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"BASKET_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"BASKET_GCP_CREDENTIALS_JSON"`
}

const (
	EventbusDriverPubsub = "pubsub"
	EventbusDriverKafka  = "kafka"
)

type EventingConfig struct {
	Driver        string   `envconfig:"BASKET_EVENTBUS_DRIVER" default:"pubsub"`
	CheckoutTopic string   `envconfig:"BASKET_EVENTBUS_CHECKOUT_TOPIC" default:"basket-checkout-events"`
	KafkaBrokers  []string `envconfig:"BASKET_EVENTBUS_KAFKA_BROKERS"`
}

func (e EventingConfig) validate() error {
	switch e.Driver {
	case EventbusDriverPubsub, EventbusDriverKafka:
	default:
		return fmt.Errorf("eventbus driver must be %q or %q, got %q",
			EventbusDriverPubsub, EventbusDriverKafka, e.Driver)
	}
	if e.CheckoutTopic == "" {
		return fmt.Errorf("checkout topic is required")
	}
	if e.Driver == EventbusDriverKafka && len(e.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka brokers are required for the kafka eventbus driver")
	}
	return nil
}

type DiscountConfig struct {
	BaseURL string        `envconfig:"BASKET_DISCOUNT_BASE_URL"`
	Timeout time.Duration `envconfig:"BASKET_DISCOUNT_TIMEOUT" default:"3s"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// BasketConfig selects the storage deployment and its TTL policy. The
// postgres driver uses CacheTTL for the cache-aside layer; the redis driver
// stores baskets directly in Redis with RedisTTL.
type BasketConfig struct {
	StorageDriver string        `envconfig:"BASKET_STORAGE_DRIVER" default:"postgres"`
	CacheTTL      time.Duration `envconfig:"BASKET_CACHE_TTL" default:"24h"`
	RedisTTL      time.Duration `envconfig:"BASKET_REDIS_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BASKET_AUTO_MIGRATE" default:"false"`
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
