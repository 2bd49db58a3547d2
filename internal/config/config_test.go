package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveAPIBaseURL(t *testing.T) {
	tests := []struct {
		name        string
		override    string
		environment string
		want        string
	}{
		{name: "override wins in development", override: "http://api.local:9000/", environment: "development", want: "http://api.local:9000"},
		{name: "override wins in production", override: "https://staging.example.org", environment: "production", want: "https://staging.example.org"},
		{name: "development default", environment: "development", want: DevelopmentAPIURL},
		{name: "production fallback", environment: "production", want: ProductionAPIURL},
		{name: "unknown environment falls back to production", environment: "staging", want: ProductionAPIURL},
		{name: "blank override ignored", override: "   ", environment: "development", want: DevelopmentAPIURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAPIBaseURL(tt.override, tt.environment))
		})
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CAREER_API_URL", "")
	t.Setenv("SESSION_STORE", "mongo")
	t.Setenv("JOB_POLL_INTERVAL", "500ms")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, ProductionAPIURL, cfg.APIBaseURL)
	assert.True(t, cfg.UsesMongo())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 500*time.Millisecond, cfg.JobPollInterval)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}
