package config

import (
	"fmt"
	"path"
	"time"

	"github.com/eskrenkovic/products-go/internal/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"
	EnvironmentEnv = "ENVIRONMENT"

	ShutdownTimeoutEnv = "SHUTDOWN_TIMEOUT"

	AuthSecretEnv       = "AUTH_SECRET"
	AuthTokenTTLEnv     = "AUTH_TOKEN_TTL"
	AuthPasswordCostEnv = "AUTH_PASSWORD_COST"
)

const (
	defaultEnvironment     = "production"
	defaultShutdownTimeout = 10 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultPasswordCost    = 10
)

type AuthConfiguration struct {
	Secret   []byte
	TokenTTL time.Duration

	// PasswordCost is the bcrypt cost used for new password hashes.
	PasswordCost int
}

type Config struct {
	Logger *zap.Logger

	Environment     string
	Port            int
	DatabaseURL     string
	MigrationsPath  string
	ShutdownTimeout time.Duration

	Auth AuthConfiguration
}

func Load() (Config, error) {
	environment := env.GetStringOrDefault(EnvironmentEnv, defaultEnvironment)

	logger, err := newLogger(environment)
	if err != nil {
		return Config{}, err
	}

	port, err := env.GetInt(PortEnv)
	if err != nil {
		return Config{}, err
	}

	dbURL, err := env.GetString(DatabaseUrlEnv)
	if err != nil {
		return Config{}, err
	}

	rootPath, err := env.GetString(RootPathEnv)
	if err != nil {
		return Config{}, err
	}

	secret, err := env.GetString(AuthSecretEnv)
	if err != nil {
		return Config{}, err
	}
	if secret == "" {
		return Config{}, fmt.Errorf("%s must not be empty", AuthSecretEnv)
	}

	tokenTTL, err := env.GetDurationOrDefault(AuthTokenTTLEnv, defaultTokenTTL)
	if err != nil {
		return Config{}, err
	}

	passwordCost, err := env.GetIntOrDefault(AuthPasswordCostEnv, defaultPasswordCost)
	if err != nil {
		return Config{}, err
	}

	shutdownTimeout, err := env.GetDurationOrDefault(ShutdownTimeoutEnv, defaultShutdownTimeout)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Logger:          logger,
		Environment:     environment,
		Port:            port,
		DatabaseURL:     dbURL,
		MigrationsPath:  path.Join(rootPath, "db", "migrations"),
		ShutdownTimeout: shutdownTimeout,
		Auth: AuthConfiguration{
			Secret:       []byte(secret),
			TokenTTL:     tokenTTL,
			PasswordCost: passwordCost,
		},
	}, nil
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
