package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimequity/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Bias.Store)
	assert.Equal(t, int64(20), cfg.Bias.MinSample)
	assert.InDelta(t, 1.3, cfg.Bias.RelativeRisk, 1e-9)
	assert.Equal(t, "count_all", cfg.Bias.RepeatPolicy)
	assert.Equal(t, []string{"xai", "openai"}, cfg.Summarizer.Order)
	assert.Equal(t, []string{"dedalus", "openai"}, cfg.Appeal.Order)
	assert.Equal(t, 45*time.Second, cfg.Summarizer.ChainTimeout)
	assert.Equal(t, "grok-3", cfg.Providers.XAI.DefaultModel)
	assert.Equal(t, 25*time.Second, cfg.Providers.OpenAI.Timeout())
	assert.Equal(t, 10*time.Second, cfg.Providers.Amplitude.Timeout())
	assert.Equal(t, "https://api.knotapi.com/v1/transactions", cfg.Providers.Knot.BaseURL)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLAIMEQUITY_BIAS_REPEAT_POLICY", "cap")
	t.Setenv("CLAIMEQUITY_BIAS_MIN_SAMPLE", "5")
	t.Setenv("CLAIMEQUITY_SUMMARIZER_ORDER", "openai, ,xai")
	t.Setenv("CLAIMEQUITY_PROVIDERS_DEDALUS_MAX_TOKENS", "900")
	t.Setenv("CLAIMEQUITY_S3_BUCKET", "heatmaps")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "cap", cfg.Bias.RepeatPolicy)
	assert.Equal(t, int64(5), cfg.Bias.MinSample)
	assert.Equal(t, []string{"openai", "xai"}, cfg.Summarizer.Order)
	assert.Equal(t, 900, cfg.Providers.Dedalus.MaxTokens)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string][2]string{
		"store":         {"CLAIMEQUITY_BIAS_STORE", "redis"},
		"policy":        {"CLAIMEQUITY_BIAS_REPEAT_POLICY", "sometimes"},
		"relative risk": {"CLAIMEQUITY_BIAS_RELATIVE_RISK", "0.5"},
		"min sample":    {"CLAIMEQUITY_BIAS_MIN_SAMPLE", "0"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestProvidersConfig_ByName(t *testing.T) {
	var p config.ProvidersConfig
	p.CapitalOne.BaseURL = "http://c1"

	assert.Equal(t, "http://c1", p.ByName("capitalone").BaseURL)
	assert.Nil(t, p.ByName("anthropic"))
	assert.Same(t, &p.Knot, p.ByName("knot"))
	assert.Same(t, &p.Amplitude, p.ByName("amplitude"))
}

func TestDSN(t *testing.T) {
	db := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.DSN())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, config.SplitList(" a , ,b "))
	assert.Nil(t, config.SplitList(""))
}

func TestLoad_SaltGeneratedWhenUnsetInDevelopment(t *testing.T) {
	first, err := config.Load()
	require.NoError(t, err)
	second, err := config.Load()
	require.NoError(t, err)

	assert.True(t, first.Bias.EphemeralSalt)
	assert.Len(t, first.Bias.Salt, 64)
	assert.NotEqual(t, first.Bias.Salt, second.Bias.Salt)
}

func TestLoad_ConfiguredSaltKept(t *testing.T) {
	t.Setenv("CLAIMEQUITY_SERVER_ENVIRONMENT", "production")
	t.Setenv("CLAIMEQUITY_BIAS_SALT", "9f2c1e7a5b3d4f6081a2c3e4d5f60718")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9f2c1e7a5b3d4f6081a2c3e4d5f60718", cfg.Bias.Salt)
	assert.False(t, cfg.Bias.EphemeralSalt)
}

func TestLoad_StableSaltRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production without salt", map[string]string{"CLAIMEQUITY_SERVER_ENVIRONMENT": "production"}},
		{"production placeholder salt", map[string]string{
			"CLAIMEQUITY_SERVER_ENVIRONMENT": "production",
			"CLAIMEQUITY_BIAS_SALT":          "change-me-in-production",
		}},
		{"postgres without salt", map[string]string{"CLAIMEQUITY_BIAS_STORE": "postgres"}},
		{"postgres placeholder salt", map[string]string{
			"CLAIMEQUITY_BIAS_STORE": "postgres",
			"CLAIMEQUITY_BIAS_SALT":  "ChangeMe",
		}},
		{"postgres blank salt", map[string]string{
			"CLAIMEQUITY_BIAS_STORE": "postgres",
			"CLAIMEQUITY_BIAS_SALT":  "   ",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bias.salt")
		})
	}
}
