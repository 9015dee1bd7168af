package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"pharmacy-dashboard/internal/cli"
)

// LoadCLIConfigWithViper loads CLI configuration using Viper
func LoadCLIConfigWithViper(v *viper.Viper) (*cli.Config, error) {
	setCLIDefaults(v)
	setupCLIEnvBinding(v)

	if err := loadCLIConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &cli.Config{}
	if err := unmarshalCLIConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setCLIDefaults sets default values for CLI configuration
func setCLIDefaults(v *viper.Viper) {
	defaults := cli.DefaultConfig()
	v.SetDefault("api_endpoint", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("format", defaults.Format)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", false)
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("critical_threshold", defaults.CriticalThreshold)
	v.SetDefault("log_level", defaults.LogLevel)
}

// setupCLIEnvBinding binds PHARMA_DASH_CLI_* variables to config keys
func setupCLIEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"format":             "CLI_FORMAT",
		"quiet":              "CLI_QUIET",
		"no_color":           "CLI_NO_COLOR",
		"request_timeout":    "CLI_TIMEOUT",
		"username":           "CLI_USER",
		"password":           "CLI_PASSWORD",
		"critical_threshold": "CLI_CRITICAL_THRESHOLD",
		"log_level":          "CLI_LOG_LEVEL",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, envPrefix+"_"+envSuffix)
	}

	// The endpoint is shared with the server
	v.BindEnv("api_endpoint", envPrefix+"_CLI_API_ENDPOINT", envPrefix+"_API_ENDPOINT")

	// Special handling for NO_COLOR environment variable
	v.BindEnv("no_color", envPrefix+"_CLI_NO_COLOR", "NO_COLOR")
}

// loadCLIConfigFile loads configuration file if it exists
func loadCLIConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.pharmacy-dashboard")
		v.SetConfigName("cli")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// unmarshalCLIConfig maps Viper keys to CLI Config fields
func unmarshalCLIConfig(v *viper.Viper, config *cli.Config) error {
	config.APIEndpoint = v.GetString("api_endpoint")
	config.Username = v.GetString("username")
	config.Password = v.GetString("password")
	config.Format = v.GetString("format")
	config.Quiet = v.GetBool("quiet")
	config.NoColor = v.GetBool("no_color")
	config.CriticalThreshold = v.GetFloat64("critical_threshold")
	config.LogLevel = v.GetString("log_level")

	timeout, err := parseTimeout(v.GetString("request_timeout"))
	if err != nil {
		return err
	}
	config.RequestTimeout = timeout

	return nil
}

// parseTimeout accepts a duration ("30s") or whole seconds ("30")
func parseTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if duration, err := time.ParseDuration(raw); err == nil {
		return duration, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid request timeout: %s", raw)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("request timeout must not be negative, got %d seconds", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

// LoadCLIConfig loads CLI configuration using a fresh Viper instance
func LoadCLIConfig() (*cli.Config, error) {
	return LoadCLIConfigWithViper(viper.New())
}

// LoadCLIConfigWithFile loads CLI configuration from a specific file
func LoadCLIConfigWithFile(configFile string) (*cli.Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadCLIConfigWithViper(v)
}
