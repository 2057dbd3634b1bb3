package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("AWESOME_LIST_URL", "")
	t.Setenv("COINGECKO_BASE_URL", "")
	t.Setenv("DEFILLAMA_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg := Load()

	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, defaultAwesomeListURL, cfg.AwesomeListURL)
	assert.Equal(t, defaultCoinGeckoBaseURL, cfg.CoinGeckoBaseURL)
	assert.Equal(t, defaultDeFiLlamaBaseURL, cfg.DeFiLlamaBaseURL)
	assert.Equal(t, defaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("AWESOME_LIST_URL", "https://example.com/list.md")
	t.Setenv("HTTP_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, "https://example.com/list.md", cfg.AwesomeListURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_BadTimeoutFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "不是时长", value: "banana"},
		{name: "负数时长", value: "-3s"},
		{name: "零时长", value: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HTTP_TIMEOUT", tt.value)

			cfg := Load()

			assert.Equal(t, defaultHTTPTimeout, cfg.HTTPTimeout)
		})
	}
}
