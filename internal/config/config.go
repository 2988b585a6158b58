package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port   string
	AppEnv string

	DB       DBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig

	JWTSecret        string
	CORSAllowOrigins []string
}

type DBConfig struct {
	Driver string
	// DSN overrides the per-driver fields when set.
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host       string
	Port       string
	DB         int
	PoolSize   int
	ProductTTL time.Duration
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func FromEnv() Config {
	driver := strings.ToLower(String("DB_DRIVER", DriverMySQL))
	cfg := Config{
		Port:   String("PORT", "8080"),
		AppEnv: String("APP_ENV", "development"),
		DB: DBConfig{
			Driver:          driver,
			DSN:             String("DATABASE_DSN", ""),
			MaxOpenConns:    Int("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    Int("DB_MAX_IDLE_CONNS", 20),
			ConnMaxLifetime: Duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: Duration("DB_CONN_MAX_IDLE_TIME", time.Minute),
		},
		Redis: RedisConfig{
			Host:       String("REDIS_HOST", ""),
			Port:       String("REDIS_PORT", "6379"),
			DB:         Int("REDIS_DB", 0),
			PoolSize:   Int("REDIS_POOL_SIZE", 50),
			ProductTTL: Duration("PRODUCT_CACHE_TTL", time.Minute),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      String("RABBITMQ_URL", ""),
			Exchange: String("RABBITMQ_EXCHANGE", "storefront.exchange"),
		},
		JWTSecret:        String("JWT_SECRET", ""),
		CORSAllowOrigins: List("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
	}

	switch driver {
	case DriverPostgres:
		cfg.DB.Host = String("POSTGRES_HOST", "localhost")
		cfg.DB.Port = String("POSTGRES_PORT", "5432")
		cfg.DB.User = String("POSTGRES_USER", "postgres")
		cfg.DB.Password = String("POSTGRES_PASSWORD", "")
		cfg.DB.Name = String("POSTGRES_DB", "storefront")
	case DriverSQLite:
		cfg.DB.Name = String("SQLITE_PATH", "storefront.db")
	default:
		cfg.DB.Host = String("MYSQL_HOST", "localhost")
		cfg.DB.Port = String("MYSQL_PORT", "3306")
		cfg.DB.User = String("MYSQL_USER", "root")
		cfg.DB.Password = String("MYSQL_PASSWORD", "")
		cfg.DB.Name = String("MYSQL_DATABASE", "storefront")
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production") || strings.EqualFold(c.AppEnv, "prod")
}

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func List(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
