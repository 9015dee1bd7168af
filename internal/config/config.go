package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds the dashboard server configuration
type Config struct {
	// Server configuration
	ServerHost      string        `validate:"required"`
	ServerPort      string        `validate:"required,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Remote dashboard API
	APIEndpoint string        `validate:"required,url"`
	APITimeout  time.Duration `validate:"gte=0"`

	// Dashboard defaults
	CriticalThreshold float64 `validate:"gt=0"`
	LogoURL           string  `validate:"omitempty,url"`

	// Metadata cache
	CacheTTL     time.Duration `validate:"gte=0"`
	DisableCache bool

	// Browser sessions
	SessionSecret      string        `validate:"omitempty,min=32"`
	SessionIdleTimeout time.Duration `validate:"gt=0"`
	SessionSecure      bool

	// Login rate limiting
	LoginRateLimit   int `validate:"gt=0"`
	DisableRateLimit bool

	// Logging
	Environment string `validate:"oneof=development production"`
	LogLevel    string `validate:"oneof=debug info warn error"`
}

// Address returns host:port for the HTTP listener
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

func (c *Config) validate() error {
	return Validate(c)
}

// Validate checks struct tags and reports every offending field
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	details := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, e.Field()+" "+formatValidationError(e))
	}
	return fmt.Errorf("%s", strings.Join(details, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be numeric"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must not be negative"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
