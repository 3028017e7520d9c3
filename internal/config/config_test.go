package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"}, cfg.RecommendModelIDs)
	assert.Equal(t, 1024, cfg.RecommendMaxTokens)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RECOMMEND_MODEL_IDS", "model-a, model-b ,model-c")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("RECOMMEND_MAX_TOKENS", "512")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://serenova.example, https://staging.serenova.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, cfg.RecommendModelIDs)
	assert.True(t, cfg.RedisTLS)
	assert.Equal(t, 512, cfg.RecommendMaxTokens)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RECOMMEND_MAX_TOKENS", "not-a-number")
	t.Setenv("REDIS_TLS", "not-a-bool")
	t.Setenv("RECOMMEND_MODEL_IDS", " , ,")

	cfg := Load()

	assert.Equal(t, 1024, cfg.RecommendMaxTokens)
	assert.False(t, cfg.RedisTLS)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"}, cfg.RecommendModelIDs)
}
