package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"db" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	GinMode            string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	LogLevel           string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=mysql postgres sqlite"`
	Host         string `mapstructure:"host" validate:"required_unless=Driver sqlite"`
	Port         string `mapstructure:"port" validate:"required_unless=Driver sqlite"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name" validate:"required_unless=Driver sqlite"`
	SSLMode      string `mapstructure:"sslmode"`
	Path         string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	SeedDemoData bool   `mapstructure:"seed_demo_data"`
}

// AuthConfig describes the two accounts of the static credential directory.
// Passwords may be given in plaintext or as bcrypt hashes.
type AuthConfig struct {
	Realm         string `mapstructure:"realm" validate:"required"`
	UserUsername  string `mapstructure:"user_username" validate:"required"`
	UserPassword  string `mapstructure:"user_password" validate:"required"`
	AdminUsername string `mapstructure:"admin_username" validate:"required,nefield=UserUsername"`
	AdminPassword string `mapstructure:"admin_password" validate:"required"`
	BcryptCost    int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// settings maps configuration keys to their environment variable and default.
var settings = []struct {
	key          string
	env          string
	defaultValue any
}{
	{"server.port", "SERVER_PORT", 8080},
	{"server.gin_mode", "GIN_MODE", "debug"},
	{"server.log_level", "LOG_LEVEL", "info"},
	{"server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS", []string{"*"}},
	{"server.shutdown_timeout", "SHUTDOWN_TIMEOUT", "10s"},
	{"db.driver", "DB_DRIVER", "mysql"},
	{"db.host", "DB_HOST", "localhost"},
	{"db.port", "DB_PORT", "3306"},
	{"db.user", "DB_USER", "taskuser"},
	{"db.password", "DB_PASSWORD", "taskpassword"},
	{"db.name", "DB_NAME", "task_management"},
	{"db.sslmode", "DB_SSLMODE", "disable"},
	{"db.path", "DB_PATH", "task_management.db"},
	{"db.seed_demo_data", "SEED_DEMO_DATA", false},
	{"auth.realm", "AUTH_REALM", "task-management"},
	{"auth.user_username", "AUTH_USER_USERNAME", "user"},
	{"auth.user_password", "AUTH_USER_PASSWORD", "password"},
	{"auth.admin_username", "AUTH_ADMIN_USERNAME", "admin"},
	{"auth.admin_password", "AUTH_ADMIN_PASSWORD", "admin"},
	{"auth.bcrypt_cost", "AUTH_BCRYPT_COST", 10},
}

// Load reads configuration from an optional .env file and the environment,
// applying defaults for anything unset, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, s := range settings {
		v.SetDefault(s.key, s.defaultValue)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
