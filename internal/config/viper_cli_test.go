package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliEnvVars = []string{
	"PHARMA_DASH_API_ENDPOINT",
	"PHARMA_DASH_CLI_API_ENDPOINT",
	"PHARMA_DASH_CLI_FORMAT",
	"PHARMA_DASH_CLI_QUIET",
	"PHARMA_DASH_CLI_NO_COLOR",
	"PHARMA_DASH_CLI_TIMEOUT",
	"PHARMA_DASH_CLI_USER",
	"PHARMA_DASH_CLI_PASSWORD",
	"PHARMA_DASH_CLI_CRITICAL_THRESHOLD",
	"PHARMA_DASH_CLI_LOG_LEVEL",
	"NO_COLOR",
}

func clearCLIEnv(t *testing.T) {
	t.Helper()
	for _, key := range cliEnvVars {
		t.Setenv(key, "")
	}
}

func TestCLIViperConfig_LoadFromDefaults(t *testing.T) {
	clearCLIEnv(t)
	t.Setenv("PHARMA_DASH_API_ENDPOINT", "https://script.example.com/exec")

	config, err := LoadCLIConfigWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://script.example.com/exec", config.APIEndpoint)
	assert.Equal(t, "table", config.Format)
	assert.False(t, config.Quiet)
	assert.False(t, config.NoColor)
	assert.Equal(t, time.Duration(0), config.RequestTimeout)
	assert.Equal(t, 7.0, config.CriticalThreshold)
	assert.Equal(t, "warn", config.LogLevel)
	assert.False(t, config.HasCredentials())
}

func TestCLIViperConfig_LoadFromEnvironment(t *testing.T) {
	clearCLIEnv(t)
	envVars := map[string]string{
		"PHARMA_DASH_API_ENDPOINT":     "https://shared.example.com/exec",
		"PHARMA_DASH_CLI_API_ENDPOINT": "https://cli.example.com/exec",
		"PHARMA_DASH_CLI_FORMAT":       "json",
		"PHARMA_DASH_CLI_QUIET":        "true",
		"PHARMA_DASH_CLI_TIMEOUT":      "45",
		"PHARMA_DASH_CLI_USER":         "ana",
		"PHARMA_DASH_CLI_PASSWORD":     "secreto",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	config, err := LoadCLIConfigWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://cli.example.com/exec", config.APIEndpoint)
	assert.Equal(t, "json", config.Format)
	assert.True(t, config.Quiet)
	assert.Equal(t, 45*time.Second, config.RequestTimeout)
	assert.True(t, config.HasCredentials())
}

func TestCLIViperConfig_NoColorEnvironment(t *testing.T) {
	clearCLIEnv(t)
	t.Setenv("PHARMA_DASH_API_ENDPOINT", "https://script.example.com/exec")
	t.Setenv("NO_COLOR", "1")

	config, err := LoadCLIConfigWithViper(viper.New())
	require.NoError(t, err)
	assert.True(t, config.NoColor)
}

func TestCLIViperConfig_LoadFromFile(t *testing.T) {
	clearCLIEnv(t)

	configFile := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
api_endpoint: "https://script.example.com/exec"
format: json
request_timeout: "2m"
critical_threshold: 3
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	config, err := LoadCLIConfigWithFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "json", config.Format)
	assert.Equal(t, 2*time.Minute, config.RequestTimeout)
	assert.Equal(t, 3.0, config.CriticalThreshold)
}

func TestCLIViperConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing endpoint",
			env:     map[string]string{},
			wantErr: "APIEndpoint is required",
		},
		{
			name: "invalid format",
			env: map[string]string{
				"PHARMA_DASH_API_ENDPOINT": "https://script.example.com/exec",
				"PHARMA_DASH_CLI_FORMAT":   "xml",
			},
			wantErr: "Format must be one of",
		},
		{
			name: "invalid timeout",
			env: map[string]string{
				"PHARMA_DASH_API_ENDPOINT": "https://script.example.com/exec",
				"PHARMA_DASH_CLI_TIMEOUT":  "forever",
			},
			wantErr: "invalid request timeout",
		},
		{
			name: "negative timeout",
			env: map[string]string{
				"PHARMA_DASH_API_ENDPOINT": "https://script.example.com/exec",
				"PHARMA_DASH_CLI_TIMEOUT":  "-5",
			},
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCLIEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := LoadCLIConfigWithViper(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
