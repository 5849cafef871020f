package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"wrangler/domain/datareadiness/profiling"
	"wrangler/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Profiling ProfilingConfig
	Display   DisplayConfig
	Server    ServerConfig
	LogLevel  string `validate:"oneof=ERROR WARN WARNING INFO DEBUG TRACE"`
}

// ProfilingConfig holds the outlier rule parameters and worker count
type ProfilingConfig struct {
	IQRMultiplier float64 `validate:"gt=0"`
	ZThreshold    float64 `validate:"gt=0"`
	Workers       int     `validate:"min=1"`
}

// DisplayConfig holds console rendering limits; zero means unlimited
type DisplayConfig struct {
	MaxWidth       int `validate:"min=0"`
	MaxColumnWidth int `validate:"min=0"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	MaxUploadMB int64  `validate:"min=1"`
}

// ProfileConfig converts the loaded settings to a profiler call configuration
func (c *Config) ProfileConfig() profiling.Config {
	return profiling.Config{
		IQRMultiplier: c.Profiling.IQRMultiplier,
		ZThreshold:    c.Profiling.ZThreshold,
		Workers:       c.Profiling.Workers,
	}
}

var validate = validator.New()

// Load reads an optional .env file, then configuration from environment
// variables, and validates it
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", file)
		}
	}

	defaults := profiling.DefaultConfig()
	config := &Config{
		Profiling: ProfilingConfig{
			IQRMultiplier: getEnvFloatOrDefault("WRANGLER_IQR_MULTIPLIER", defaults.IQRMultiplier),
			ZThreshold:    getEnvFloatOrDefault("WRANGLER_Z_THRESHOLD", defaults.ZThreshold),
			Workers:       getEnvIntOrDefault("WRANGLER_WORKERS", defaults.Workers),
		},
		Display: DisplayConfig{
			MaxWidth:       getEnvIntOrDefault("WRANGLER_MAX_WIDTH", 0),
			MaxColumnWidth: getEnvIntOrDefault("WRANGLER_MAX_COL_WIDTH", 0),
		},
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			MaxUploadMB: int64(getEnvIntOrDefault("WRANGLER_MAX_UPLOAD_MB", 32)),
		},
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" failed "+fe.Tag())
			}
		} else {
			fields = append(fields, err.Error())
		}
		return errors.ConfigInvalid("configuration validation failed: " + strings.Join(fields, "; "))
	}
	return nil
}

// Helper functions for environment variable parsing. Unparseable values
// fall back to the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
