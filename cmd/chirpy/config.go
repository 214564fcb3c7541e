package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8080"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultPlatform     = "production"
	defaultFileRoot     = "."
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which chirpy will be run
	ListenAddr string

	// Database to connect to
	// In-memory storage is used if empty
	DatabaseDSN string

	// Redis address for failed login throttling
	// Throttling disabled if empty
	RedisAddr string

	// Secret key to sign access tokens. Required
	SecretKey string

	// Key Polka sends with webhooks. Webhooks rejected if empty
	PolkaKey string

	// "dev" enables admin reset
	Platform string

	// Directory served under /app/
	FileRoot string

	// How often revoked and expired refresh tokens are deleted. Zero disables pruning
	PruneInterval time.Duration

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		Platform:    defaultPlatform,
		FileRoot:    defaultFileRoot,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":     setString(&c.ListenAddr),
		"DATABASE_URI":    setString(&c.DatabaseDSN),
		"REDIS_ADDR":      setString(&c.RedisAddr),
		"SECRET_KEY":      setString(&c.SecretKey),
		"POLKA_KEY":       setString(&c.PolkaKey),
		"PLATFORM":        setString(&c.Platform),
		"FILESERVER_ROOT": setString(&c.FileRoot),
		"PRUNE_INTERVAL":  setDuration(&c.PruneInterval),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
	}

	var errs []error
	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("chirpy", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string, in-memory storage if empty")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "Redis address for login throttling, disabled if empty")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign access tokens")
	fs.StringVar(&c.PolkaKey, "polka-key", c.PolkaKey, "Polka webhook api key")
	fs.StringVarP(&c.Platform, "platform", "p", c.Platform, "Platform (dev enables admin reset)")
	fs.StringVar(&c.FileRoot, "fileserver-root", c.FileRoot, "Directory served under /app/")
	fs.DurationVar(&c.PruneInterval, "prune-interval", c.PruneInterval, "Refresh token prune interval, disabled if zero")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (development, production)")

	return fs.Parse(args)
}

// Check the config is enough to start the server
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key is required. Set SECRET_KEY or --secret-key")
	}
	if c.PruneInterval < 0 {
		return errors.New("prune interval must not be negative")
	}
	return nil
}
