package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. TASKS_AUTH_JWT_SECRET maps to auth.jwt_secret.
const envPrefix = "TASKS"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values. A .env file, if present, is loaded into the
// process environment first so local development does not need exported
// variables. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	// Best effort: a missing .env file is the normal production case.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults for everything that has a sensible one. Secrets and the
	// database URL deliberately have none.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 15)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables may carry everything.
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind the keys we read explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"database.max_idle_conns",
		"database.max_open_conns",
		"database.conn_max_lifetime_minutes",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
