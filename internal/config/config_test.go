package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "PORT", "")
	setEnv(t, "ENV", "")
	setEnv(t, "FUNCTION_KEYS", "")
	setEnv(t, "RATE_LIMIT_RPM", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimitRPM)
	assert.Empty(t, cfg.FunctionKeys)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FunctionKeys(t *testing.T) {
	setEnv(t, "FUNCTION_KEYS", "key-one, key-two ,,key-three")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"key-one", "key-two", "key-three"}, cfg.FunctionKeys)
}

func TestLoad_ProductionRequiresKeys(t *testing.T) {
	setEnv(t, "ENV", "production")
	setEnv(t, "FUNCTION_KEYS", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "FUNCTION_KEYS is required")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "valid development config",
			config:  Config{Env: "development", RateLimitRPM: 60},
			wantErr: "",
		},
		{
			name:    "valid production config",
			config:  Config{Env: "production", RateLimitRPM: 60, FunctionKeys: []string{"k"}},
			wantErr: "",
		},
		{
			name:    "unknown env",
			config:  Config{Env: "qa", RateLimitRPM: 60},
			wantErr: "ENV must be",
		},
		{
			name:    "zero rate limit",
			config:  Config{Env: "development", RateLimitRPM: 0},
			wantErr: "RATE_LIMIT_RPM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
