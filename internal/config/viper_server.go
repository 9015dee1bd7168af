package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PHARMA_DASH"

// LoadServerConfigWithViper loads server configuration using Viper
func LoadServerConfigWithViper(v *viper.Viper) (*Config, error) {
	setServerDefaults(v)
	setupServerEnvBinding(v)

	if err := loadConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := unmarshalServerConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setServerDefaults sets default values for server configuration
func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("api.endpoint", "")
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("dashboard.critical_threshold", 7)
	v.SetDefault("dashboard.logo_url", "")

	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.disabled", false)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.secure", false)

	v.SetDefault("rate_limit.login_per_minute", 10)
	v.SetDefault("rate_limit.disabled", false)

	v.SetDefault("logging.environment", "production")
	v.SetDefault("logging.level", "info")
}

// setupServerEnvBinding binds PHARMA_DASH_* variables to config keys
func setupServerEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server.port":                  "SERVER_PORT",
		"server.host":                  "SERVER_HOST",
		"server.shutdown_timeout":      "SERVER_SHUTDOWN_TIMEOUT",
		"api.endpoint":                 "API_ENDPOINT",
		"api.timeout":                  "API_TIMEOUT",
		"dashboard.critical_threshold": "DASHBOARD_CRITICAL_THRESHOLD",
		"dashboard.logo_url":           "DASHBOARD_LOGO_URL",
		"cache.ttl":                    "CACHE_TTL",
		"cache.disabled":               "CACHE_DISABLED",
		"session.secret":               "SESSION_SECRET",
		"session.idle_timeout":         "SESSION_IDLE_TIMEOUT",
		"session.secure":               "SESSION_SECURE",
		"rate_limit.login_per_minute":  "RATE_LIMIT_LOGIN_PER_MINUTE",
		"rate_limit.disabled":          "RATE_LIMIT_DISABLED",
		"logging.environment":          "LOGGING_ENVIRONMENT",
		"logging.level":                "LOGGING_LEVEL",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, envPrefix+"_"+envSuffix)
	}
}

// loadConfigFile loads configuration file if it exists
func loadConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.pharmacy-dashboard")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// unmarshalServerConfig maps Viper keys to Config fields
func unmarshalServerConfig(v *viper.Viper, config *Config) error {
	config.ServerPort = v.GetString("server.port")
	config.ServerHost = v.GetString("server.host")
	config.APIEndpoint = v.GetString("api.endpoint")
	config.CriticalThreshold = v.GetFloat64("dashboard.critical_threshold")
	config.LogoURL = v.GetString("dashboard.logo_url")
	config.SessionSecret = v.GetString("session.secret")
	config.Environment = v.GetString("logging.environment")
	config.LogLevel = v.GetString("logging.level")

	durations := []struct {
		key  string
		name string
		dst  *time.Duration
	}{
		{"server.shutdown_timeout", "shutdown timeout", &config.ShutdownTimeout},
		{"api.timeout", "API timeout", &config.APITimeout},
		{"cache.ttl", "cache TTL", &config.CacheTTL},
		{"session.idle_timeout", "session idle timeout", &config.SessionIdleTimeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	config.DisableCache = v.GetBool("cache.disabled")
	config.SessionSecure = v.GetBool("session.secure")
	config.DisableRateLimit = v.GetBool("rate_limit.disabled")
	config.LoginRateLimit = v.GetInt("rate_limit.login_per_minute")

	return nil
}

// LoadServerConfig loads server configuration using a fresh Viper instance
func LoadServerConfig() (*Config, error) {
	return LoadServerConfigWithViper(viper.New())
}

// LoadServerConfigWithFile loads server configuration from a specific file
func LoadServerConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadServerConfigWithViper(v)
}

// LoadServerConfigWithEnvFile loads server configuration with .env file support
func LoadServerConfigWithEnvFile(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := LoadEnvFile(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return LoadServerConfig()
}
