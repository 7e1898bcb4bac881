package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"institute-app-go/pkg/logger"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort           string
	ShutdownTimeout    time.Duration
	Env                string
	Storage            string
	CORSAllowedOrigins []string
	DB                 DBConfig
	Redis              RedisConfig
	Receipts           ReceiptsConfig
	Auth               AuthConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ReceiptsConfig struct {
	Prefix string
}

// AuthConfig describes the headers set by the gateway in front of the service.
type AuthConfig struct {
	ActorHeader string
	RoleHeader  string
	SkipAuth    bool
	MockActorID string
	MockRole    string
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := newViper()

	storage := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE")))
	if storage != StoragePostgres && storage != StorageMemory {
		return Config{}, fmt.Errorf("unsupported STORAGE %q", storage)
	}

	return Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		ShutdownTimeout:    v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		Env:                v.GetString("ENV"),
		Storage:            storage,
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Receipts: ReceiptsConfig{
			Prefix: strings.ToUpper(v.GetString("RECEIPT_PREFIX")),
		},
		Auth: AuthConfig{
			ActorHeader: v.GetString("AUTH_ACTOR_HEADER"),
			RoleHeader:  v.GetString("AUTH_ROLE_HEADER"),
			SkipAuth:    v.GetBool("AUTH_SKIP"),
			MockActorID: v.GetString("AUTH_MOCK_ACTOR_ID"),
			MockRole:    v.GetString("AUTH_MOCK_ROLE"),
		},
	}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "institute")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("RECEIPT_PREFIX", "RKI")

	v.SetDefault("AUTH_ACTOR_HEADER", "X-Actor-ID")
	v.SetDefault("AUTH_ROLE_HEADER", "X-Actor-Role")
	v.SetDefault("AUTH_SKIP", false)
	v.SetDefault("AUTH_MOCK_ACTOR_ID", "00000000-0000-0000-0000-000000000001")
	v.SetDefault("AUTH_MOCK_ROLE", "super-admin")

	v.AutomaticEnv()
	return v
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
