package cli

import "time"

// Config holds terminal client configuration
type Config struct {
	APIEndpoint       string        `json:"api_endpoint" validate:"required,url"`
	Username          string        `json:"username"`
	Password          string        `json:"-"`
	Format            string        `json:"format" validate:"oneof=table json"`
	Quiet             bool          `json:"quiet"`
	NoColor           bool          `json:"no_color"`
	RequestTimeout    time.Duration `json:"request_timeout" validate:"gte=0"`
	CriticalThreshold float64       `json:"critical_threshold" validate:"gt=0"`
	LogLevel          string        `json:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Format:            "table",
		CriticalThreshold: 7,
		LogLevel:          "warn",
	}
}

// HasCredentials reports whether both username and password are configured
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
